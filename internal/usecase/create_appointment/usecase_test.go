package create_appointment

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMB-AppointmentService/internal/domain"
	typeRepo "github.com/m04kA/SMB-AppointmentService/internal/infra/storage/appointmenttype"
	businessRepo "github.com/m04kA/SMB-AppointmentService/internal/infra/storage/business"
	settingsRepo "github.com/m04kA/SMB-AppointmentService/internal/infra/storage/settings"
	"github.com/m04kA/SMB-AppointmentService/internal/integrations/mailer"
	"github.com/m04kA/SMB-AppointmentService/pkg/txmanager"
	"github.com/m04kA/SMB-AppointmentService/pkg/types"
)

type testLogger struct {
	t *testing.T
}

func (l testLogger) Info(format string, v ...interface{})  { l.t.Logf("INFO  "+format, v...) }
func (l testLogger) Warn(format string, v ...interface{})  { l.t.Logf("WARN  "+format, v...) }
func (l testLogger) Error(format string, v ...interface{}) { l.t.Logf("ERROR "+format, v...) }

// fakeAppointmentRepo хранит записи в памяти и фильтрует так же,
// как SQL репозиторий: отменённые записи не попадают в выборку
// при IncludeCancelled=false.
type fakeAppointmentRepo struct {
	nextID       int64
	appointments []*domain.Appointment
}

func (r *fakeAppointmentRepo) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	r.nextID++
	stored := *appt
	stored.ID = r.nextID
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.appointments = append(r.appointments, &stored)

	out := stored
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
	businesses map[int64]*domain.Business
}

func (r *fakeBusinessRepo) GetByID(_ context.Context, id int64) (*domain.Business, error) {
	b, ok := r.businesses[id]
	if !ok {
		return nil, businessRepo.ErrBusinessNotFound
	}
	return b, nil
}

type fakeSettingsRepo struct {
	settings map[int64]*domain.BusinessSettings
}

func (r *fakeSettingsRepo) GetByBusinessID(_ context.Context, businessID int64) (*domain.BusinessSettings, error) {
	s, ok := r.settings[businessID]
	if !ok {
		return nil, settingsRepo.ErrSettingsNotFound
	}
	return s, nil
}

type fakeMailer struct {
	clientSent []mailer.AppointmentInfo
	ownerSent  []mailer.AppointmentInfo
	failWith   error
}

func (m *fakeMailer) Provider() string { return "smtp" }

func (m *fakeMailer) SendClientConfirmation(_ context.Context, info mailer.AppointmentInfo) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.clientSent = append(m.clientSent, info)
	return nil
}

func (m *fakeMailer) SendOwnerAlert(_ context.Context, info mailer.AppointmentInfo) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.ownerSent = append(m.ownerSent, info)
	return nil
}

// fakeTxManager выполняет fn без транзакции; failWith подменяет результат
type fakeTxManager struct {
	failWith error
}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.failWith != nil {
		return m.failWith
	}
	return fn(ctx)
}

type fixture struct {
	uc           *UseCase
	appointments *fakeAppointmentRepo
	types        *fakeTypeRepo
	businesses   *fakeBusinessRepo
	settings     *fakeSettingsRepo
	mailer       *fakeMailer
	txManager    *fakeTxManager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		appointments: &fakeAppointmentRepo{},
		types:        &fakeTypeRepo{types: map[int64]*domain.AppointmentType{}},
		businesses: &fakeBusinessRepo{businesses: map[int64]*domain.Business{
			1: {ID: 1, Name: "Acme Dental", Slug: "acme-dental", OwnerEmail: "owner@acme.test"},
		}},
		settings:  &fakeSettingsRepo{settings: map[int64]*domain.BusinessSettings{}},
		mailer:    &fakeMailer{},
		txManager: &fakeTxManager{},
	}

	f.uc = NewUseCase(f.appointments, f.types, f.businesses, f.settings, f.mailer, f.txManager, testLogger{t})
	return f
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func int64Ptr(i int64) *int64 { return &i }

func date(day int) time.Time {
	return time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC)
}

func validRequest() *Request {
	return &Request{
		BusinessID: 1,
		ClientName: "Ann Smith",
		Date:       date(16),
		StartTime:  types.TimeString("10:00"),
		Source:     domain.SourceOwner,
	}
}

func TestExecute_CreatesConfirmedAppointmentWithDefaults(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, domain.DefaultTitle, resp.Title)
	assert.Equal(t, domain.DefaultDurationMinutes, resp.DurationMinutes)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, string(domain.SourceOwner), resp.Source)
	assert.Nil(t, resp.TypeID)
}

func TestExecute_ResolvesTypeDefaults(t *testing.T) {
	f := newFixture(t)
	f.types.types[5] = &domain.AppointmentType{
		ID: 5, BusinessID: 1, Name: "Consultation", DurationMinutes: 30,
		LocationMode: domain.LocationVirtual, Active: true,
	}

	req := validRequest()
	req.TypeID = int64Ptr(5)

	resp, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "Consultation", resp.Title)
	assert.Equal(t, 30, resp.DurationMinutes)
	assert.Equal(t, "Virtual", resp.Location)
	require.NotNil(t, resp.TypeID)
	assert.Equal(t, int64(5), *resp.TypeID)
}

func TestExecute_ExplicitFieldsOverrideType(t *testing.T) {
	f := newFixture(t)
	f.types.types[5] = &domain.AppointmentType{
		ID: 5, BusinessID: 1, Name: "Consultation", DurationMinutes: 30,
		LocationMode: domain.LocationVirtual, Active: true,
	}

	req := validRequest()
	req.TypeID = int64Ptr(5)
	req.DurationMinutes = intPtr(60)
	req.Location = strPtr("Room 4")

	resp, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 60, resp.DurationMinutes)
	assert.Equal(t, "Room 4", resp.Location)
}

func TestExecute_UnknownTypeFallsBackToDefaults(t *testing.T) {
	f := newFixture(t)

	req := validRequest()
	req.TypeID = int64Ptr(99)

	resp, err := f.uc.Execute(context.Background(), req)

	// Пропавший или чужой тип не валит создание
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultTitle, resp.Title)
	assert.Equal(t, domain.DefaultDurationMinutes, resp.DurationMinutes)
	assert.Nil(t, resp.TypeID, "запись не должна ссылаться на неразрешённый тип")
}

func TestExecute_InactiveTypeNotResolved(t *testing.T) {
	f := newFixture(t)
	f.types.types[5] = &domain.AppointmentType{
		ID: 5, BusinessID: 1, Name: "Legacy", DurationMinutes: 90, Active: false,
	}

	req := validRequest()
	req.TypeID = int64Ptr(5)

	resp, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultDurationMinutes, resp.DurationMinutes)
	assert.Nil(t, resp.TypeID)
}

func TestExecute_RejectsOverlap(t *testing.T) {
	f := newFixture(t)

	first := validRequest()
	first.StartTime = types.TimeString("09:00")
	_, err := f.uc.Execute(context.Background(), first)
	require.NoError(t, err)

	// 09:30 попадает внутрь [09:00, 09:45)
	second := validRequest()
	second.ClientName = "Bob"
	second.StartTime = types.TimeString("09:30")

	_, err = f.uc.Execute(context.Background(), second)

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "9:00 AM–9:45 AM", conflict.Window())
}

func TestExecute_TouchingBoundariesCompatible(t *testing.T) {
	f := newFixture(t)

	first := validRequest()
	first.StartTime = types.TimeString("09:00")
	_, err := f.uc.Execute(context.Background(), first)
	require.NoError(t, err)

	// Начало ровно в конце предыдущей: интервалы полуоткрытые
	touchingAfter := validRequest()
	touchingAfter.ClientName = "Bob"
	touchingAfter.StartTime = types.TimeString("09:45")
	_, err = f.uc.Execute(context.Background(), touchingAfter)
	require.NoError(t, err)

	// Конец ровно в начале первой
	touchingBefore := validRequest()
	touchingBefore.ClientName = "Carol"
	touchingBefore.StartTime = types.TimeString("08:15")
	_, err = f.uc.Execute(context.Background(), touchingBefore)
	require.NoError(t, err)
}

func TestExecute_CancelledAppointmentFreesSlot(t *testing.T) {
	f := newFixture(t)

	first := validRequest()
	first.StartTime = types.TimeString("09:00")
	resp, err := f.uc.Execute(context.Background(), first)
	require.NoError(t, err)

	// Отменяем созданную запись напрямую в сторадже
	for _, appt := range f.appointments.appointments {
		if appt.ID == resp.ID {
			appt.Status = domain.StatusCancelled
		}
	}

	// Тот же слот снова свободен
	second := validRequest()
	second.ClientName = "Bob"
	second.StartTime = types.TimeString("09:00")

	_, err = f.uc.Execute(context.Background(), second)
	require.NoError(t, err)
}

func TestExecute_OverlapOnOtherDateAllowed(t *testing.T) {
	f := newFixture(t)

	first := validRequest()
	first.StartTime = types.TimeString("09:00")
	_, err := f.uc.Execute(context.Background(), first)
	require.NoError(t, err)

	second := validRequest()
	second.ClientName = "Bob"
	second.Date = date(17)
	second.StartTime = types.TimeString("09:00")

	_, err = f.uc.Execute(context.Background(), second)
	require.NoError(t, err)
}

func TestExecute_BusinessNotFound(t *testing.T) {
	f := newFixture(t)

	req := validRequest()
	req.BusinessID = 777

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestExecute_ValidationFailures(t *testing.T) {
	longText := func(n int) string {
		s := make([]byte, n)
		for i := range s {
			s[i] = 'x'
		}
		return string(s)
	}

	tests := []struct {
		name   string
		mutate func(req *Request)
	}{
		{"empty client name", func(r *Request) { r.ClientName = "  " }},
		{"client name too long", func(r *Request) { r.ClientName = longText(domain.MaxClientNameLength + 1) }},
		{"invalid email", func(r *Request) { r.ClientEmail = strPtr("not-an-email") }},
		{"zero date", func(r *Request) { r.Date = time.Time{} }},
		{"empty time", func(r *Request) { r.StartTime = "" }},
		{"malformed time", func(r *Request) { r.StartTime = "9:00" }},
		{"zero duration", func(r *Request) { r.DurationMinutes = intPtr(0) }},
		{"duration beyond a day", func(r *Request) { r.DurationMinutes = intPtr(domain.MaxDurationMinutes + 1) }},
		{"notes too long", func(r *Request) { r.Notes = strPtr(longText(domain.MaxNotesLength + 1)) }},
		{"unknown source", func(r *Request) { r.Source = "bot" }},
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

func TestExecute_AppointmentMustEndByMidnight(t *testing.T) {
	f := newFixture(t)

	req := validRequest()
	req.StartTime = types.TimeString("23:30")
	req.DurationMinutes = intPtr(45)

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_EndingExactlyAtMidnightAllowed(t *testing.T) {
	f := newFixture(t)

	req := validRequest()
	req.StartTime = types.TimeString("23:30")
	req.DurationMinutes = intPtr(30)

	_, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
}

func TestExecute_SerializationFailureMapsToConcurrentUpdate(t *testing.T) {
	f := newFixture(t)
	f.txManager.failWith = fmt.Errorf("%w: after 3 attempts: boom", txmanager.ErrSerializationFailure)

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrConcurrentUpdate)
}

func TestExecute_NotificationsSentAfterCreate(t *testing.T) {
	f := newFixture(t)

	req := validRequest()
	req.ClientEmail = strPtr("ann@client.test")

	resp, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "smtp", resp.Notifications.Provider)
	assert.True(t, resp.Notifications.ClientNotified)
	assert.True(t, resp.Notifications.OwnerNotified)
	require.Len(t, f.mailer.clientSent, 1)
	assert.Equal(t, "ann@client.test", f.mailer.clientSent[0].ClientEmail)
	assert.Equal(t, "Acme Dental", f.mailer.clientSent[0].BusinessName)
	require.Len(t, f.mailer.ownerSent, 1)
}

func TestExecute_NoClientEmailSkipsClientNotification(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.False(t, resp.Notifications.ClientNotified)
	assert.True(t, resp.Notifications.OwnerNotified)
	assert.Empty(t, f.mailer.clientSent)
}

func TestExecute_SettingsDisableNotifications(t *testing.T) {
	f := newFixture(t)
	f.settings.settings[1] = &domain.BusinessSettings{
		BusinessID: 1, OpenTime: "09:00", CloseTime: "17:00",
		WorkingDays: domain.DefaultWorkingDays,
		NotifyClient: false, NotifyOwner: false,
	}

	req := validRequest()
	req.ClientEmail = strPtr("ann@client.test")

	resp, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.False(t, resp.Notifications.ClientNotified)
	assert.False(t, resp.Notifications.OwnerNotified)
	assert.Empty(t, f.mailer.clientSent)
	assert.Empty(t, f.mailer.ownerSent)
}

func TestExecute_NotificationFailureDoesNotFailCreate(t *testing.T) {
	f := newFixture(t)
	f.mailer.failWith = mailer.ErrSendFailed

	req := validRequest()
	req.ClientEmail = strPtr("ann@client.test")

	resp, err := f.uc.Execute(context.Background(), req)

	// Запись создана, несмотря на упавшую доставку
	require.NoError(t, err)
	assert.False(t, resp.Notifications.ClientNotified)
	assert.False(t, resp.Notifications.OwnerNotified)
	assert.Len(t, f.appointments.appointments, 1)
}

// TestExecute_RandomSequenceNeverOverlaps прогоняет случайный поток
// запросов на один день и проверяет, что среди принятых нет ни одной
// пересекающейся пары.
func TestExecute_RandomSequenceNeverOverlaps(t *testing.T) {
	f := newFixture(t)
	rng := rand.New(rand.NewSource(20260316))

	accepted := 0
	for i := 0; i < 200; i++ {
		startMin := 8*60 + rng.Intn(10*60)
		duration := 15 * (1 + rng.Intn(8))

		req := validRequest()
		req.ClientName = fmt.Sprintf("client-%d", i)
		req.StartTime = types.TimeString(fmt.Sprintf("%02d:%02d", startMin/60, startMin%60))
		req.DurationMinutes = intPtr(duration)

		_, err := f.uc.Execute(context.Background(), req)
		if err == nil {
			accepted++
			continue
		}

		var conflict *ConflictError
		require.ErrorAs(t, err, &conflict, "request %d failed with a non-conflict error", i)
	}

	require.Greater(t, accepted, 0, "the sequence must accept at least one appointment")
	require.Equal(t, accepted, len(f.appointments.appointments))

	// Ни одна пара принятых записей не пересекается
	all := f.appointments.appointments
	for i := 0; i < len(all); i++ {
		si, ei, err := all[i].Interval()
		require.NoError(t, err)
		for j := i + 1; j < len(all); j++ {
			sj, ej, err := all[j].Interval()
			require.NoError(t, err)
			assert.False(t, si < ej && ei > sj,
				"appointments %d [%d,%d) and %d [%d,%d) overlap", all[i].ID, si, ei, all[j].ID, sj, ej)
		}
	}
}
