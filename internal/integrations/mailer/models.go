package mailer

// AppointmentInfo данные записи для текста уведомления.
// Поля уже отформатированы слоем сервиса: Date как YYYY-MM-DD,
// Time в 12-часовом виде ("9:00 AM").
type AppointmentInfo struct {
	BusinessName string
	OwnerEmail   string
	ClientName   string
	ClientEmail  string // пустая строка, если клиент не оставил email
	Title        string
	Date         string
	Time         string
	Location     string
}
