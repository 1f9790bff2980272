package create_appointment

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMB-AppointmentService/pkg/types"
)

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = errors.New("create_appointment: business not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrConcurrentUpdate возвращается, когда сериализуемая транзакция
	// исчерпала повторы из-за конкурентных изменений того же дня
	ErrConcurrentUpdate = errors.New("create_appointment: concurrent update, please retry")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)

// ConflictError возвращается, когда запрошенный интервал пересекается
// с существующей записью. BlockStart и BlockEnd - интервал мешающей
// записи в минутах от полуночи.
type ConflictError struct {
	BlockStart int
	BlockEnd   int
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return fmt.Sprintf("create_appointment: time slot conflicts with an existing appointment (%s)", e.Window())
}

// Window возвращает интервал мешающей записи в 12-часовом виде,
// например "9:00 AM–9:45 AM"
func (e *ConflictError) Window() string {
	return types.FormatMinutes12Hour(e.BlockStart) + "–" + types.FormatMinutes12Hour(e.BlockEnd)
}
