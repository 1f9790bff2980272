package import_data

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/m04kA/SMB-AppointmentService/internal/domain"
	"github.com/m04kA/SMB-AppointmentService/pkg/types"
)

// validateBundle проверяет формат бандла целиком до первой записи в БД.
// Любая некорректная строка отклоняет весь импорт: частично восстановленный
// бизнес хуже, чем не восстановленный вовсе.
func validateBundle(bundle *domain.ExportBundle) error {
	if bundle.Version < 1 || bundle.Version > domain.BundleVersion {
		return fmt.Errorf("%w: unsupported bundle version %d", ErrInvalidBundle, bundle.Version)
	}

	if err := validateBundleBusiness(&bundle.Business); err != nil {
		return err
	}

	if err := validateBundleSettings(&bundle.Settings); err != nil {
		return err
	}

	for i := range bundle.AppointmentTypes {
		if err := validateBundleType(i, &bundle.AppointmentTypes[i]); err != nil {
			return err
		}
	}

	for i := range bundle.Appointments {
		if err := validateBundleAppointment(i, &bundle.Appointments[i]); err != nil {
			return err
		}
	}

	return nil
}

func validateBundleBusiness(b *domain.BundleBusiness) error {
	if strings.TrimSpace(b.Name) == "" {
		return fmt.Errorf("%w: business.name is required", ErrInvalidBundle)
	}

	if _, err := mail.ParseAddress(b.OwnerEmail); err != nil {
		return fmt.Errorf("%w: business.ownerEmail is not a valid address", ErrInvalidBundle)
	}

	if _, err := time.LoadLocation(b.Timezone); err != nil {
		return fmt.Errorf("%w: business.timezone %q is unknown", ErrInvalidBundle, b.Timezone)
	}

	return nil
}

func validateBundleSettings(s *domain.BundleSettings) error {
	openTime := types.TimeString(s.OpenTime)
	if err := openTime.Validate(); err != nil {
		return fmt.Errorf("%w: settings.openTime: %v", ErrInvalidBundle, err)
	}

	closeTime := types.TimeString(s.CloseTime)
	if err := closeTime.Validate(); err != nil {
		return fmt.Errorf("%w: settings.closeTime: %v", ErrInvalidBundle, err)
	}

	if !openTime.IsBefore(closeTime) {
		return fmt.Errorf("%w: settings.openTime must be before closeTime", ErrInvalidBundle)
	}

	if s.WorkingDays < 0 || s.WorkingDays > domain.MaxWorkingDaysMask {
		return fmt.Errorf("%w: settings.workingDays must be between 0 and %d",
			ErrInvalidBundle, domain.MaxWorkingDaysMask)
	}

	return nil
}

func validateBundleType(i int, t *domain.BundleAppointmentType) error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: appointmentTypes[%d]: name is required", ErrInvalidBundle, i)
	}

	if t.DurationMinutes < domain.MinDurationMinutes || t.DurationMinutes > domain.MaxDurationMinutes {
		return fmt.Errorf("%w: appointmentTypes[%d]: durationMinutes must be between %d and %d",
			ErrInvalidBundle, i, domain.MinDurationMinutes, domain.MaxDurationMinutes)
	}

	if t.PriceCents < 0 {
		return fmt.Errorf("%w: appointmentTypes[%d]: priceCents must not be negative", ErrInvalidBundle, i)
	}

	if !domain.LocationMode(t.LocationMode).Valid() {
		return fmt.Errorf("%w: appointmentTypes[%d]: unknown locationMode %q", ErrInvalidBundle, i, t.LocationMode)
	}

	return nil
}

func validateBundleAppointment(i int, a *domain.BundleAppointment) error {
	if strings.TrimSpace(a.ClientName) == "" {
		return fmt.Errorf("%w: appointments[%d]: clientName is required", ErrInvalidBundle, i)
	}

	if _, err := time.Parse(domain.DateFormat, a.Date); err != nil {
		return fmt.Errorf("%w: appointments[%d]: invalid date %q", ErrInvalidBundle, i, a.Date)
	}

	if err := types.TimeString(a.Time).Validate(); err != nil {
		return fmt.Errorf("%w: appointments[%d]: invalid time %q", ErrInvalidBundle, i, a.Time)
	}

	if a.DurationMinutes < domain.MinDurationMinutes || a.DurationMinutes > domain.MaxDurationMinutes {
		return fmt.Errorf("%w: appointments[%d]: durationMinutes must be between %d and %d",
			ErrInvalidBundle, i, domain.MinDurationMinutes, domain.MaxDurationMinutes)
	}

	if _, ok := domain.ParseStatus(a.Status); !ok {
		return fmt.Errorf("%w: appointments[%d]: unknown status %q", ErrInvalidBundle, i, a.Status)
	}

	if _, ok := domain.ParseSource(a.Source); !ok {
		return fmt.Errorf("%w: appointments[%d]: unknown source %q", ErrInvalidBundle, i, a.Source)
	}

	return nil
}
