package get_availability

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес со slug не найден
	ErrBusinessNotFound = errors.New("get_availability: business not found")

	// ErrTypeNotFound возвращается, когда тип не найден в активном каталоге
	ErrTypeNotFound = errors.New("get_availability: appointment type not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_availability: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_availability: internal error")
)
