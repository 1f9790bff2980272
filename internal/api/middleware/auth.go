package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/SMB-AppointmentService/internal/api/handlers"
)

// HeaderBusinessID заголовок, которым владелец авторизует запросы.
// Проверку подлинности выполняет внешний шлюз, сюда приходит уже
// проверенный идентификатор бизнеса.
const HeaderBusinessID = "X-Business-ID"

const (
	msgMissingBusinessID = "отсутствует заголовок X-Business-ID"
	msgInvalidBusinessID = "некорректный ID бизнеса"
)

type contextKey string

const businessIDKey contextKey = "businessID"

// Auth извлекает ID бизнеса из заголовка и кладет его в контекст запроса.
// Запросы без корректного заголовка отклоняются с 401.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(HeaderBusinessID)
		if raw == "" {
			handlers.RespondUnauthorized(w, msgMissingBusinessID)
			return
		}

		businessID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || businessID <= 0 {
			handlers.RespondUnauthorized(w, msgInvalidBusinessID)
			return
		}

		ctx := ContextWithBusinessID(r.Context(), businessID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ContextWithBusinessID возвращает контекст с ID бизнеса
func ContextWithBusinessID(ctx context.Context, businessID int64) context.Context {
	return context.WithValue(ctx, businessIDKey, businessID)
}

// GetBusinessID достает ID бизнеса из контекста запроса
func GetBusinessID(ctx context.Context) (int64, bool) {
	businessID, ok := ctx.Value(businessIDKey).(int64)
	return businessID, ok
}
