package apptclient

import (
	"errors"
	"fmt"
)

// FailureKind разделяет исходы неудавшегося запроса
type FailureKind int

const (
	// FailureOffline - клиент сам знает, что он оффлайн
	FailureOffline FailureKind = iota
	// FailureNetwork - соединение заявлено, но запрос не дошёл
	// (DNS, refused, timeout)
	FailureNetwork
	// FailureHTTP - запрос дошёл, сервер ответил ошибкой
	FailureHTTP
)

func (k FailureKind) String() string {
	switch k {
	case FailureOffline:
		return "offline"
	case FailureNetwork:
		return "network"
	case FailureHTTP:
		return "http"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Failure is the classification of one failed call. Exactly one of the
// three kinds applies; Status is set only for FailureHTTP.
type Failure struct {
	Kind   FailureKind
	Status int
}

// Queueable reports whether replaying the call later can possibly
// succeed. Only connectivity failures qualify: an HTTP rejection would
// just repeat itself.
func (f Failure) Queueable() bool {
	return f.Kind == FailureOffline || f.Kind == FailureNetwork
}

// Classify sorts a failed call into exactly one failure kind. online is
// the client's own connectivity belief at the time of the call; when it
// is false the request is considered to have never been worth sending.
func Classify(err error, online bool) Failure {
	if !online {
		return Failure{Kind: FailureOffline}
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return Failure{Kind: FailureHTTP, Status: apiErr.StatusCode}
	}

	// Всё остальное - транспорт: DNS, connection refused, таймауты
	return Failure{Kind: FailureNetwork}
}
