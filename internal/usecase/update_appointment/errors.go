package update_appointment

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMB-AppointmentService/pkg/types"
)

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена в рамках бизнеса
	ErrAppointmentNotFound = errors.New("update_appointment: appointment not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("update_appointment: invalid input data")

	// ErrConcurrentUpdate возвращается, когда сериализуемая транзакция
	// исчерпала повторы из-за конкурентных изменений того же дня
	ErrConcurrentUpdate = errors.New("update_appointment: concurrent update, please retry")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_appointment: internal error")
)

// ConflictError возвращается, когда новый интервал записи пересекается
// с другой записью. BlockStart и BlockEnd - интервал мешающей записи
// в минутах от полуночи.
type ConflictError struct {
	BlockStart int
	BlockEnd   int
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return fmt.Sprintf("update_appointment: time slot conflicts with an existing appointment (%s)", e.Window())
}

// Window возвращает интервал мешающей записи в 12-часовом виде,
// например "9:00 AM–9:45 AM"
func (e *ConflictError) Window() string {
	return types.FormatMinutes12Hour(e.BlockStart) + "–" + types.FormatMinutes12Hour(e.BlockEnd)
}
