package export_data

import (
	"time"

	"github.com/m04kA/SMB-AppointmentService/internal/domain"
)

// Request модель запроса на экспорт данных бизнеса
type Request struct {
	BusinessID int64 // ID бизнеса (из заголовка авторизации)
}

// buildBundle собирает версионированный бандл из снапшота данных бизнеса
func buildBundle(
	exportedAt time.Time,
	business *domain.Business,
	settings *domain.BusinessSettings,
	appointmentTypes []*domain.AppointmentType,
	appointments []*domain.Appointment,
) *domain.ExportBundle {
	bundle := &domain.ExportBundle{
		Version:    domain.BundleVersion,
		ExportedAt: exportedAt,
		Business: domain.BundleBusiness{
			Name:       business.Name,
			Slug:       business.Slug,
			OwnerEmail: business.OwnerEmail,
			Timezone:   business.Timezone,
		},
		Settings: domain.BundleSettings{
			OpenTime:     settings.OpenTime.String(),
			CloseTime:    settings.CloseTime.String(),
			WorkingDays:  settings.WorkingDays,
			NotifyClient: settings.NotifyClient,
			NotifyOwner:  settings.NotifyOwner,
		},
		AppointmentTypes: make([]domain.BundleAppointmentType, 0, len(appointmentTypes)),
		Appointments:     make([]domain.BundleAppointment, 0, len(appointments)),
	}

	for _, t := range appointmentTypes {
		bundle.AppointmentTypes = append(bundle.AppointmentTypes, domain.BundleAppointmentType{
			ID:              t.ID,
			Name:            t.Name,
			DurationMinutes: t.DurationMinutes,
			PriceCents:      t.PriceCents,
			LocationMode:    string(t.LocationMode),
			Color:           t.Color,
			Active:          t.Active,
		})
	}

	for _, appt := range appointments {
		bundle.Appointments = append(bundle.Appointments, domain.BundleAppointment{
			TypeID:             appt.TypeID,
			Title:              appt.Title,
			ClientName:         appt.ClientName,
			ClientEmail:        appt.ClientEmail,
			Date:               appt.Date.Format(domain.DateFormat),
			Time:               appt.StartTime.String(),
			DurationMinutes:    appt.DurationMinutes,
			Location:           appt.Location,
			Notes:              appt.Notes,
			Status:             string(appt.Status),
			Source:             string(appt.Source),
			CancellationReason: appt.CancellationReason,
			CancelledAt:        appt.CancelledAt,
		})
	}

	return bundle
}
