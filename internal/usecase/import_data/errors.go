package import_data

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = errors.New("import_data: business not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("import_data: invalid input data")

	// ErrInvalidBundle возвращается, когда бандл не проходит проверку формата.
	// Любая некорректная строка отклоняет импорт целиком до первой записи в БД.
	ErrInvalidBundle = errors.New("import_data: invalid bundle")

	// ErrConcurrentUpdate возвращается, когда сериализуемая транзакция
	// исчерпала повторы из-за конкурентных изменений данных бизнеса
	ErrConcurrentUpdate = errors.New("import_data: concurrent update, please retry")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("import_data: internal error")
)
