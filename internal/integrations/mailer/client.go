package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

const providerName = "smtp"

// Client клиент для отправки уведомлений через SMTP-релей.
// Аутентификация не используется: релей (Mailpit в dev, внутренний relay в prod)
// доступен только из сети сервиса.
type Client struct {
	addr    string
	from    string
	enabled bool
	log     Logger
}

// NewClient создает новый экземпляр SMTP-клиента.
// При enabled=false все отправки становятся no-op: бронирование никогда
// не зависит от доступности почты.
func NewClient(host, port, from string, enabled bool, log Logger) *Client {
	from = strings.TrimSpace(from)
	if from == "" {
		from = "no-reply@appointments.local"
	}
	return &Client{
		addr:    fmt.Sprintf("%s:%s", strings.TrimSpace(host), strings.TrimSpace(port)),
		from:    from,
		enabled: enabled,
		log:     log,
	}
}

// Provider возвращает имя провайдера доставки для NotificationSummary
func (c *Client) Provider() string {
	return providerName
}

// SendClientConfirmation отправляет клиенту подтверждение записи
func (c *Client) SendClientConfirmation(ctx context.Context, info AppointmentInfo) error {
	subject := fmt.Sprintf("Appointment confirmed: %s", info.Title)
	body := fmt.Sprintf(
		"Hi %s, your appointment %q at %s is confirmed for %s at %s.",
		info.ClientName, info.Title, info.BusinessName, info.Date, info.Time,
	)
	if info.Location != "" {
		body += fmt.Sprintf(" Location: %s.", info.Location)
	}

	return c.send(ctx, info.ClientEmail, subject, body)
}

// SendOwnerAlert отправляет владельцу уведомление о новой записи
func (c *Client) SendOwnerAlert(ctx context.Context, info AppointmentInfo) error {
	subject := fmt.Sprintf("New appointment: %s", info.Title)
	body := fmt.Sprintf(
		"New appointment %q with %s on %s at %s.",
		info.Title, info.ClientName, info.Date, info.Time,
	)

	return c.send(ctx, info.OwnerEmail, subject, body)
}

// SendCancellation отправляет клиенту уведомление об отмене записи.
// reason опциональна и добавляется в текст письма, если указана.
func (c *Client) SendCancellation(ctx context.Context, info AppointmentInfo, reason *string) error {
	subject := fmt.Sprintf("Appointment cancelled: %s", info.Title)
	body := fmt.Sprintf(
		"Hi %s, your appointment %q at %s on %s at %s has been cancelled.",
		info.ClientName, info.Title, info.BusinessName, info.Date, info.Time,
	)
	if reason != nil && *reason != "" {
		body += fmt.Sprintf(" Reason: %s.", *reason)
	}

	return c.send(ctx, info.ClientEmail, subject, body)
}

// SendStatusChange отправляет клиенту уведомление о смене статуса записи
func (c *Client) SendStatusChange(ctx context.Context, info AppointmentInfo, newStatus string) error {
	subject := fmt.Sprintf("Appointment update: %s", info.Title)
	body := fmt.Sprintf(
		"Hi %s, your appointment %q at %s on %s at %s is now %s.",
		info.ClientName, info.Title, info.BusinessName, info.Date, info.Time, newStatus,
	)

	return c.send(ctx, info.ClientEmail, subject, body)
}

func (c *Client) send(ctx context.Context, to, subject, body string) error {
	if !c.enabled {
		c.log.Debug("Mailer disabled, skipping message to=%s subject=%q", to, subject)
		return nil
	}

	if strings.TrimSpace(to) == "" {
		return ErrNoRecipient
	}

	// net/smtp не принимает контекст, поэтому отмену проверяем до соединения
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: context cancelled: %v", ErrSendFailed, err)
	}

	msg := buildMessage(c.from, to, subject, body)
	if err := smtp.SendMail(c.addr, nil, c.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("%w: to=%s: %v", ErrSendFailed, to, err)
	}

	c.log.Info("Sent mail to=%s subject=%q", to, subject)
	return nil
}

func buildMessage(from, to, subject, body string) string {
	// Минимальное RFC 5322 письмо: plain text, utf-8
	return fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		from,
		to,
		subject,
		body,
	)
}
