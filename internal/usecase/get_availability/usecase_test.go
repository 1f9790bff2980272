package get_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMB-AppointmentService/internal/domain"
	typeRepo "github.com/m04kA/SMB-AppointmentService/internal/infra/storage/appointmenttype"
	businessRepo "github.com/m04kA/SMB-AppointmentService/internal/infra/storage/business"
	settingsRepo "github.com/m04kA/SMB-AppointmentService/internal/infra/storage/settings"
	"github.com/m04kA/SMB-AppointmentService/pkg/types"
)

type testLogger struct {
	t *testing.T
}

func (l testLogger) Info(format string, v ...interface{})  { l.t.Logf("INFO  "+format, v...) }
func (l testLogger) Warn(format string, v ...interface{})  { l.t.Logf("WARN  "+format, v...) }
func (l testLogger) Error(format string, v ...interface{}) { l.t.Logf("ERROR "+format, v...) }

type fakeAppointmentRepo struct {
	appointments []*domain.Appointment
}

func (r *fakeAppointmentRepo) GetByBusinessWithFilter(_ context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	var out []*domain.Appointment
	for _, appt := range r.appointments {
		if !filter.IncludeCancelled && appt.IsCancelled() {
			continue
		}
		out = append(out, appt)
	}
	return out, nil
}

type fakeTypeRepo struct {
	types map[int64]*domain.AppointmentType
}

func (r *fakeTypeRepo) GetActiveByID(_ context.Context, businessID, id int64) (*domain.AppointmentType, error) {
	t, ok := r.types[id]
	if !ok || t.BusinessID != businessID || !t.Active {
		return nil, typeRepo.ErrTypeNotFound
	}
	return t, nil
}

type fakeBusinessRepo struct {
	business *domain.Business
}

func (r *fakeBusinessRepo) GetBySlug(_ context.Context, slug string) (*domain.Business, error) {
	if r.business == nil || r.business.Slug != slug {
		return nil, businessRepo.ErrBusinessNotFound
	}
	return r.business, nil
}

type fakeSettingsRepo struct {
	settings *domain.BusinessSettings
}

func (r *fakeSettingsRepo) GetByBusinessID(_ context.Context, _ int64) (*domain.BusinessSettings, error) {
	if r.settings == nil {
		return nil, settingsRepo.ErrSettingsNotFound
	}
	return r.settings, nil
}

type fixedTime struct {
	now time.Time
}

func (p fixedTime) Now() time.Time { return p.now }

type fixture struct {
	uc           *UseCase
	appointments *fakeAppointmentRepo
	types        *fakeTypeRepo
	settings     *fakeSettingsRepo
}

// newFixture собирает usecase с бизнесом acme (Europe/Berlin), типом id=3
// на 60 минут и настройками 09:00-17:00 Пн-Пт. Текущий момент -
// понедельник 2026-03-09 12:00 UTC.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		appointments: &fakeAppointmentRepo{},
		types: &fakeTypeRepo{types: map[int64]*domain.AppointmentType{
			3: {ID: 3, BusinessID: 1, Name: "Consultation", DurationMinutes: 60, LocationMode: domain.LocationOffice, Active: true},
		}},
		settings: &fakeSettingsRepo{settings: &domain.BusinessSettings{
			BusinessID: 1, OpenTime: "09:00", CloseTime: "17:00",
			WorkingDays: domain.DefaultWorkingDays, NotifyClient: true, NotifyOwner: true,
		}},
	}

	businesses := &fakeBusinessRepo{business: &domain.Business{
		ID: 1, Name: "Acme Dental", Slug: "acme", Timezone: "Europe/Berlin",
	}}

	f.uc = NewUseCase(f.appointments, f.types, businesses, f.settings, testLogger{t})
	f.uc.timeProvider = fixedTime{now: time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)}
	return f
}

func slotStrings(slots []types.TimeString) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.String()
	}
	return out
}

// futureMonday - рабочий день заведомо позже текущего момента фикстуры
func futureMonday() time.Time {
	return time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
}

func validRequest() *Request {
	return &Request{Slug: "acme", TypeID: 3, Date: futureMonday()}
}

func TestExecute_FullGridWhenDayIsFree(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, 60, resp.DurationMinutes)
	assert.Equal(t,
		[]string{"09:00", "10:00", "11:00", "12:00", "13:00", "14:00", "15:00", "16:00"},
		slotStrings(resp.Slots))
}

func TestExecute_BookedIntervalsRemoveSlots(t *testing.T) {
	f := newFixture(t)

	// Запись 10:30-11:15 задевает слоты 10:00 и 11:00
	f.appointments.appointments = []*domain.Appointment{
		{ID: 1, BusinessID: 1, Date: futureMonday(), StartTime: "10:30", DurationMinutes: 45, Status: domain.StatusConfirmed},
	}

	resp, err := f.uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t,
		[]string{"09:00", "12:00", "13:00", "14:00", "15:00", "16:00"},
		slotStrings(resp.Slots))
}

func TestExecute_TouchingAppointmentKeepsSlot(t *testing.T) {
	f := newFixture(t)

	// Запись 09:00-10:00 соприкасается со слотом 10:00, но не задевает его
	f.appointments.appointments = []*domain.Appointment{
		{ID: 1, BusinessID: 1, Date: futureMonday(), StartTime: "09:00", DurationMinutes: 60, Status: domain.StatusConfirmed},
	}

	resp, err := f.uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t,
		[]string{"10:00", "11:00", "12:00", "13:00", "14:00", "15:00", "16:00"},
		slotStrings(resp.Slots))
}

func TestExecute_CancelledAppointmentDoesNotBlock(t *testing.T) {
	f := newFixture(t)

	f.appointments.appointments = []*domain.Appointment{
		{ID: 1, BusinessID: 1, Date: futureMonday(), StartTime: "10:00", DurationMinutes: 60, Status: domain.StatusCancelled},
	}

	resp, err := f.uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Contains(t, slotStrings(resp.Slots), "10:00")
}

func TestExecute_PastDateReturnsEmptyList(t *testing.T) {
	f := newFixture(t)

	req := validRequest()
	req.Date = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	resp, err := f.uc.Execute(context.Background(), req)

	// Прошедшая дата - пустой список, не ошибка
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
	assert.NotNil(t, resp.Slots)
}

func TestExecute_NonWorkingDayReturnsEmptyList(t *testing.T) {
	f := newFixture(t)

	// Суббота при маске Пн-Пт
	req := validRequest()
	req.Date = time.Date(2026, 3, 21, 0, 0, 0, 0, time.UTC)

	resp, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_TodayFiltersElapsedSlots(t *testing.T) {
	f := newFixture(t)

	// Сегодняшний день фикстуры: 12:00 UTC = 13:00 в Europe/Berlin,
	// слоты до 13:00 уже прошли
	req := validRequest()
	req.Date = time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	resp, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t,
		[]string{"13:00", "14:00", "15:00", "16:00"},
		slotStrings(resp.Slots))
}

func TestExecute_SlotMustFitBeforeClose(t *testing.T) {
	f := newFixture(t)

	// 90-минутный тип: последний слот, успевающий к 17:00, начинается в 15:00
	f.types.types[4] = &domain.AppointmentType{
		ID: 4, BusinessID: 1, Name: "Extended", DurationMinutes: 90, LocationMode: domain.LocationOffice, Active: true,
	}

	req := validRequest()
	req.TypeID = 4

	resp, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	slots := slotStrings(resp.Slots)
	assert.Equal(t, []string{"09:00", "10:30", "12:00", "13:30", "15:00"}, slots)
}

func TestExecute_MissingSettingsUseDefaults(t *testing.T) {
	f := newFixture(t)
	f.settings.settings = nil

	resp, err := f.uc.Execute(context.Background(), validRequest())

	// Дефолтное расписание 09:00-17:00 Пн-Пт
	require.NoError(t, err)
	assert.Len(t, resp.Slots, 8)
}

func TestExecute_UnknownSlug(t *testing.T) {
	f := newFixture(t)

	req := validRequest()
	req.Slug = "ghost"

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestExecute_InactiveTypeNotAvailable(t *testing.T) {
	f := newFixture(t)
	f.types.types[3].Active = false

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrTypeNotFound)
}

func TestExecute_ValidationFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(req *Request)
	}{
		{"empty slug", func(r *Request) { r.Slug = " " }},
		{"zero type id", func(r *Request) { r.TypeID = 0 }},
		{"zero date", func(r *Request) { r.Date = time.Time{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			req := validRequest()
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestGenerateTimeSlots_GridSteps(t *testing.T) {
	slots, err := generateTimeSlots("09:00", "12:00", 45)
	require.NoError(t, err)

	// 11:15 + 45m = 12:00 ровно к закрытию, последний слот входит
	assert.Equal(t, []string{"09:00", "09:45", "10:30", "11:15"}, slotStrings(slots))
}

func TestGenerateTimeSlots_OpenEqualsClose(t *testing.T) {
	slots, err := generateTimeSlots("09:00", "09:00", 30)
	require.NoError(t, err)
	assert.Empty(t, slots)
}
