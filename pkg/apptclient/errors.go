package apptclient

import (
	"errors"
	"fmt"
)

var (
	// ErrInternal возвращается, когда запрос не удалось собрать или
	// прочитать ответ
	ErrInternal = errors.New("apptclient: internal error")

	// ErrOffline возвращается, когда клиент знает, что он оффлайн,
	// и операция не подлежит откладыванию в очередь
	ErrOffline = errors.New("apptclient: client is offline")
)

// APIError is a response the server actually produced: the request got
// through, the server said no. Never worth queueing for replay.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("apptclient: server returned %d: %s", e.StatusCode, e.Message)
}

// AsAPIError unwraps err into *APIError, if that is what it is.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
