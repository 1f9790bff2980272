package mailer

import "errors"

var (
	// ErrSendFailed возвращается, когда SMTP-релей не принял письмо
	ErrSendFailed = errors.New("mailer client: failed to send message")

	// ErrNoRecipient возвращается, когда у письма нет адресата
	ErrNoRecipient = errors.New("mailer client: recipient address is empty")
)
