package update_appointment

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMB-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMB-AppointmentService/internal/infra/storage/appointment"
	typeRepo "github.com/m04kA/SMB-AppointmentService/internal/infra/storage/appointmenttype"
	"github.com/m04kA/SMB-AppointmentService/pkg/txmanager"
	"github.com/m04kA/SMB-AppointmentService/pkg/types"
)

type testLogger struct {
	t *testing.T
}

func (l testLogger) Info(format string, v ...interface{})  { l.t.Logf("INFO  "+format, v...) }
func (l testLogger) Warn(format string, v ...interface{})  { l.t.Logf("WARN  "+format, v...) }
func (l testLogger) Error(format string, v ...interface{}) { l.t.Logf("ERROR "+format, v...) }

// fakeAppointmentRepo повторяет семантику SQL репозитория: Update меняет
// только редактируемые поля, статус и происхождение записи сохраняются.
type fakeAppointmentRepo struct {
	appointments map[int64]*domain.Appointment
}

func (r *fakeAppointmentRepo) GetByID(_ context.Context, businessID, id int64) (*domain.Appointment, error) {
	appt, ok := r.appointments[id]
	if !ok || appt.BusinessID != businessID {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	out := *appt
	return &out, nil
}

func (r *fakeAppointmentRepo) GetByBusinessWithFilter(_ context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	var out []*domain.Appointment
	for _, appt := range r.appointments {
		if appt.BusinessID != filter.BusinessID {
			continue
		}
		if filter.StartDate != nil && appt.Date.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && appt.Date.After(*filter.EndDate) {
			continue
		}
		if !filter.IncludeCancelled && appt.IsCancelled() {
			continue
		}
		out = append(out, appt)
	}
	return out, nil
}

func (r *fakeAppointmentRepo) Update(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	current, ok := r.appointments[appt.ID]
	if !ok || current.BusinessID != appt.BusinessID {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}

	current.TypeID = appt.TypeID
	current.Title = appt.Title
	current.ClientName = appt.ClientName
	current.ClientEmail = appt.ClientEmail
	current.Date = appt.Date
	current.StartTime = appt.StartTime
	current.DurationMinutes = appt.DurationMinutes
	current.Location = appt.Location
	current.Notes = appt.Notes
	current.UpdatedAt = time.Now()

	out := *current
	return &out, nil
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

type fakeTxManager struct {
	failWith error
}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.failWith != nil {
		return m.failWith
	}
	return fn(ctx)
}

func intPtr(i int) *int { return &i }

func int64Ptr(i int64) *int64 { return &i }

func testDate() time.Time {
	return time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
}

func seedAppointment(id int64, start types.TimeString, duration int) *domain.Appointment {
	return &domain.Appointment{
		ID:              id,
		BusinessID:      1,
		Title:           "Appointment",
		ClientName:      "Ann Smith",
		Date:            testDate(),
		StartTime:       start,
		DurationMinutes: duration,
		Status:          domain.StatusConfirmed,
		Source:          domain.SourcePublic,
		CreatedAt:       time.Now().Add(-time.Hour),
	}
}

type fixture struct {
	uc           *UseCase
	appointments *fakeAppointmentRepo
	types        *fakeTypeRepo
	txManager    *fakeTxManager
}

func newFixture(t *testing.T, seed ...*domain.Appointment) *fixture {
	t.Helper()

	f := &fixture{
		appointments: &fakeAppointmentRepo{appointments: map[int64]*domain.Appointment{}},
		types:        &fakeTypeRepo{types: map[int64]*domain.AppointmentType{}},
		txManager:    &fakeTxManager{},
	}
	for _, appt := range seed {
		f.appointments.appointments[appt.ID] = appt
	}

	f.uc = NewUseCase(f.appointments, f.types, f.txManager, testLogger{t})
	return f
}

func validRequest(id int64) *Request {
	return &Request{
		ID:         id,
		BusinessID: 1,
		ClientName: "Ann Smith",
		Date:       testDate(),
		StartTime:  types.TimeString("10:00"),
	}
}

func TestExecute_UpdatesEditableFieldsOnly(t *testing.T) {
	f := newFixture(t, seedAppointment(1, "09:00", 45))

	req := validRequest(1)
	req.ClientName = "Ann S."
	req.StartTime = types.TimeString("11:00")
	req.DurationMinutes = intPtr(30)

	resp, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "Ann S.", resp.ClientName)
	assert.Equal(t, types.TimeString("11:00"), resp.StartTime)
	assert.Equal(t, 30, resp.DurationMinutes)

	// Статус и происхождение записи PUT не меняет
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, string(domain.SourcePublic), resp.Source)
}

func TestExecute_SelfOverlapAllowed(t *testing.T) {
	f := newFixture(t, seedAppointment(1, "09:00", 45))

	// Сдвиг на полчаса позже пересекается со старым интервалом самой записи
	req := validRequest(1)
	req.StartTime = types.TimeString("09:30")
	req.DurationMinutes = intPtr(45)

	_, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
}

func TestExecute_ConflictWithOtherAppointment(t *testing.T) {
	f := newFixture(t,
		seedAppointment(1, "09:00", 45),
		seedAppointment(2, "11:00", 60),
	)

	// Запись 1 двигается внутрь интервала записи 2
	req := validRequest(1)
	req.StartTime = types.TimeString("11:30")
	req.DurationMinutes = intPtr(45)

	_, err := f.uc.Execute(context.Background(), req)

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "11:00 AM–12:00 PM", conflict.Window())
}

func TestExecute_TouchingOtherAppointmentAllowed(t *testing.T) {
	f := newFixture(t,
		seedAppointment(1, "09:00", 45),
		seedAppointment(2, "11:00", 60),
	)

	// Конец ровно в начале записи 2
	req := validRequest(1)
	req.StartTime = types.TimeString("10:15")
	req.DurationMinutes = intPtr(45)

	_, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
}

func TestExecute_NotFoundBeforeConflict(t *testing.T) {
	f := newFixture(t, seedAppointment(2, "10:00", 45))

	// Запись 99 не существует, хотя её слот и конфликтовал бы
	req := validRequest(99)
	req.StartTime = types.TimeString("10:00")

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestExecute_ForeignBusinessAppointmentNotFound(t *testing.T) {
	f := newFixture(t, seedAppointment(1, "09:00", 45))

	req := validRequest(1)
	req.BusinessID = 2

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestExecute_TypeResolutionRecomputesFields(t *testing.T) {
	f := newFixture(t, seedAppointment(1, "09:00", 45))
	f.types.types[5] = &domain.AppointmentType{
		ID: 5, BusinessID: 1, Name: "Cleaning", DurationMinutes: 60,
		LocationMode: domain.LocationOffice, Active: true,
	}

	req := validRequest(1)
	req.TypeID = int64Ptr(5)

	resp, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "Cleaning", resp.Title)
	assert.Equal(t, 60, resp.DurationMinutes)
	assert.Equal(t, "Office", resp.Location)
	require.NotNil(t, resp.TypeID)
	assert.Equal(t, int64(5), *resp.TypeID)
}

func TestExecute_UnresolvedTypeClearsReference(t *testing.T) {
	withType := seedAppointment(1, "09:00", 45)
	withType.TypeID = int64Ptr(5)
	f := newFixture(t, withType)

	req := validRequest(1)
	req.TypeID = int64Ptr(5) // тип исчез из каталога

	resp, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Nil(t, resp.TypeID)
	assert.Equal(t, domain.DefaultTitle, resp.Title)
	assert.Equal(t, domain.DefaultDurationMinutes, resp.DurationMinutes)
}

func TestExecute_ValidationFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(req *Request)
	}{
		{"zero id", func(r *Request) { r.ID = 0 }},
		{"empty client name", func(r *Request) { r.ClientName = "" }},
		{"malformed time", func(r *Request) { r.StartTime = "25:00" }},
		{"zero duration", func(r *Request) { r.DurationMinutes = intPtr(0) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, seedAppointment(1, "09:00", 45))
			req := validRequest(1)
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_MidnightOverflowRejected(t *testing.T) {
	f := newFixture(t, seedAppointment(1, "09:00", 45))

	req := validRequest(1)
	req.StartTime = types.TimeString("23:50")
	req.DurationMinutes = intPtr(20)

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_SerializationFailureMapsToConcurrentUpdate(t *testing.T) {
	f := newFixture(t, seedAppointment(1, "09:00", 45))
	f.txManager.failWith = fmt.Errorf("%w: after 3 attempts: boom", txmanager.ErrSerializationFailure)

	_, err := f.uc.Execute(context.Background(), validRequest(1))
	assert.ErrorIs(t, err, ErrConcurrentUpdate)
}
