package import_data

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMB-AppointmentService/internal/domain"
	businessRepo "github.com/m04kA/SMB-AppointmentService/internal/infra/storage/business"
	"github.com/m04kA/SMB-AppointmentService/pkg/txmanager"
)

type testLogger struct {
	t *testing.T
}

func (l testLogger) Info(format string, v ...interface{})  { l.t.Logf("INFO  "+format, v...) }
func (l testLogger) Warn(format string, v ...interface{})  { l.t.Logf("WARN  "+format, v...) }
func (l testLogger) Error(format string, v ...interface{}) { l.t.Logf("ERROR "+format, v...) }

// fakeStore - общее состояние всех репозиториев. Транзакционный фейк
// снимает его копию перед fn и откатывает при ошибке, повторяя семантику
// настоящей транзакции.
type fakeStore struct {
	businesses   map[int64]*domain.Business
	settings     map[int64]*domain.BusinessSettings
	types        map[int64]*domain.AppointmentType
	appointments map[int64]*domain.Appointment

	nextTypeID int64
	nextApptID int64

	// failTypeCreateAt - номер вставки типа, на которой Create упадёт (0 - никогда)
	failTypeCreateAt int
	typeCreates      int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		businesses:   map[int64]*domain.Business{},
		settings:     map[int64]*domain.BusinessSettings{},
		types:        map[int64]*domain.AppointmentType{},
		appointments: map[int64]*domain.Appointment{},
	}
}

func (s *fakeStore) clone() *fakeStore {
	out := newFakeStore()
	out.nextTypeID = s.nextTypeID
	out.nextApptID = s.nextApptID
	out.failTypeCreateAt = s.failTypeCreateAt
	out.typeCreates = s.typeCreates

	for id, b := range s.businesses {
		c := *b
		out.businesses[id] = &c
	}
	for id, st := range s.settings {
		c := *st
		out.settings[id] = &c
	}
	for id, tp := range s.types {
		c := *tp
		out.types[id] = &c
	}
	for id, a := range s.appointments {
		c := *a
		out.appointments[id] = &c
	}
	return out
}

func (s *fakeStore) restore(snapshot *fakeStore) {
	s.businesses = snapshot.businesses
	s.settings = snapshot.settings
	s.types = snapshot.types
	s.appointments = snapshot.appointments
	s.nextTypeID = snapshot.nextTypeID
	s.nextApptID = snapshot.nextApptID
	s.typeCreates = snapshot.typeCreates
}

// fakeTxManager откатывает состояние стора, если fn вернула ошибку
type fakeTxManager struct {
	store    *fakeStore
	failWith error
}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.failWith != nil {
		return m.failWith
	}

	snapshot := m.store.clone()
	if err := fn(ctx); err != nil {
		m.store.restore(snapshot)
		return err
	}
	return nil
}

type fakeAppointmentRepo struct {
	store *fakeStore
}

func (r *fakeAppointmentRepo) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	r.store.nextApptID++
	stored := *appt
	stored.ID = r.store.nextApptID
	r.store.appointments[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (r *fakeAppointmentRepo) DeleteAllByBusiness(_ context.Context, businessID int64) (int64, error) {
	var deleted int64
	for id, appt := range r.store.appointments {
		if appt.BusinessID == businessID {
			delete(r.store.appointments, id)
			deleted++
		}
	}
	return deleted, nil
}

type fakeTypeRepo struct {
	store *fakeStore
}

func (r *fakeTypeRepo) Create(_ context.Context, t *domain.AppointmentType) (*domain.AppointmentType, error) {
	r.store.typeCreates++
	if r.store.failTypeCreateAt > 0 && r.store.typeCreates >= r.store.failTypeCreateAt {
		return nil, errors.New("insert failed")
	}

	r.store.nextTypeID++
	stored := *t
	stored.ID = r.store.nextTypeID
	r.store.types[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (r *fakeTypeRepo) DeleteAllByBusiness(_ context.Context, businessID int64) (int64, error) {
	var deleted int64
	for id, t := range r.store.types {
		if t.BusinessID == businessID {
			delete(r.store.types, id)
			deleted++
		}
	}
	return deleted, nil
}

type fakeBusinessRepo struct {
	store *fakeStore
}

func (r *fakeBusinessRepo) GetByID(_ context.Context, id int64) (*domain.Business, error) {
	b, ok := r.store.businesses[id]
	if !ok {
		return nil, businessRepo.ErrBusinessNotFound
	}
	out := *b
	return &out, nil
}

func (r *fakeBusinessRepo) Update(_ context.Context, b *domain.Business) (*domain.Business, error) {
	current, ok := r.store.businesses[b.ID]
	if !ok {
		return nil, businessRepo.ErrBusinessNotFound
	}

	// Slug не обновляется: это URL-идентичность бизнеса
	current.Name = b.Name
	current.OwnerEmail = b.OwnerEmail
	current.Timezone = b.Timezone
	current.UpdatedAt = time.Now()

	out := *current
	return &out, nil
}

type fakeSettingsRepo struct {
	store *fakeStore
}

func (r *fakeSettingsRepo) Upsert(_ context.Context, s *domain.BusinessSettings) (*domain.BusinessSettings, error) {
	stored := *s
	stored.UpdatedAt = time.Now()
	r.store.settings[s.BusinessID] = &stored

	out := stored
	return &out, nil
}

type fixture struct {
	uc        *UseCase
	store     *fakeStore
	txManager *fakeTxManager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := newFakeStore()
	store.businesses[1] = &domain.Business{
		ID: 1, Name: "Old Name", Slug: "acme-dental",
		OwnerEmail: "old@acme.test", Timezone: "UTC",
	}
	store.settings[1] = &domain.BusinessSettings{
		BusinessID: 1, OpenTime: "08:00", CloseTime: "16:00",
		WorkingDays: 127, NotifyClient: true, NotifyOwner: true,
	}

	// Существующие данные, которые импорт должен заместить
	store.nextTypeID = 100
	store.types[100] = &domain.AppointmentType{
		ID: 100, BusinessID: 1, Name: "Stale Type", DurationMinutes: 15,
		LocationMode: domain.LocationOffice, Active: true,
	}
	store.nextApptID = 500
	store.appointments[500] = &domain.Appointment{
		ID: 500, BusinessID: 1, Title: "Stale", ClientName: "Old Client",
		Date:      time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		StartTime: "10:00", DurationMinutes: 30,
		Status: domain.StatusConfirmed, Source: domain.SourceOwner,
	}

	txManager := &fakeTxManager{store: store}
	f := &fixture{store: store, txManager: txManager}
	f.uc = NewUseCase(
		&fakeAppointmentRepo{store},
		&fakeTypeRepo{store},
		&fakeBusinessRepo{store},
		&fakeSettingsRepo{store},
		txManager,
		testLogger{t},
	)
	return f
}

func int64Ptr(i int64) *int64 { return &i }

func validBundle() *domain.ExportBundle {
	return &domain.ExportBundle{
		Version:    domain.BundleVersion,
		ExportedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Business: domain.BundleBusiness{
			Name: "Acme Dental", Slug: "other-slug",
			OwnerEmail: "owner@acme.test", Timezone: "Europe/Berlin",
		},
		Settings: domain.BundleSettings{
			OpenTime: "09:00", CloseTime: "18:00",
			WorkingDays: 31, NotifyClient: true, NotifyOwner: false,
		},
		AppointmentTypes: []domain.BundleAppointmentType{
			{ID: 10, Name: "Consultation", DurationMinutes: 30, PriceCents: 5000, LocationMode: "virtual", Active: true},
			{ID: 20, Name: "Cleaning", DurationMinutes: 60, PriceCents: 12000, LocationMode: "office", Active: false},
		},
		Appointments: []domain.BundleAppointment{
			{TypeID: int64Ptr(10), Title: "Consultation", ClientName: "Ann", Date: "2026-03-16", Time: "10:00", DurationMinutes: 30, Status: "confirmed", Source: "owner"},
			{TypeID: int64Ptr(20), Title: "Cleaning", ClientName: "Bob", Date: "2026-03-17", Time: "11:00", DurationMinutes: 60, Status: "completed", Source: "public"},
			{ClientName: "Carol", Date: "2026-03-18", Time: "12:00", DurationMinutes: 45, Status: "pending", Source: "owner"},
		},
	}
}

func TestExecute_ImportsFullBundle(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), &Request{BusinessID: 1, Bundle: validBundle()})

	require.NoError(t, err)
	assert.Equal(t, 2, resp.TypesImported)
	assert.Equal(t, 3, resp.AppointmentsImported)

	// Старые данные замещены
	assert.NotContains(t, f.store.types, int64(100))
	assert.NotContains(t, f.store.appointments, int64(500))
	assert.Len(t, f.store.types, 2)
	assert.Len(t, f.store.appointments, 3)

	// Изменяемые поля бизнеса обновлены, slug остался прежним
	business := f.store.businesses[1]
	assert.Equal(t, "Acme Dental", business.Name)
	assert.Equal(t, "owner@acme.test", business.OwnerEmail)
	assert.Equal(t, "Europe/Berlin", business.Timezone)
	assert.Equal(t, "acme-dental", business.Slug)

	// Настройки перезаписаны
	settings := f.store.settings[1]
	assert.Equal(t, "18:00", settings.CloseTime.String())
	assert.Equal(t, 31, settings.WorkingDays)
	assert.False(t, settings.NotifyOwner)
}

func TestExecute_RemapsTypeReferences(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), &Request{BusinessID: 1, Bundle: validBundle()})
	require.NoError(t, err)

	newIDByName := map[string]int64{}
	for _, tp := range f.store.types {
		newIDByName[tp.Name] = tp.ID
	}

	// Ссылки записей указывают на новые id соответствующих типов
	for _, appt := range f.store.appointments {
		switch appt.ClientName {
		case "Ann":
			require.NotNil(t, appt.TypeID)
			assert.Equal(t, newIDByName["Consultation"], *appt.TypeID)
		case "Bob":
			require.NotNil(t, appt.TypeID)
			assert.Equal(t, newIDByName["Cleaning"], *appt.TypeID)
		case "Carol":
			assert.Nil(t, appt.TypeID)
		}
	}
}

func TestExecute_UnknownTypeReferenceCleared(t *testing.T) {
	f := newFixture(t)

	bundle := validBundle()
	bundle.Appointments = []domain.BundleAppointment{
		{TypeID: int64Ptr(55), ClientName: "Dora", Date: "2026-03-16", Time: "09:00", DurationMinutes: 30, Status: "confirmed", Source: "owner"},
	}

	_, err := f.uc.Execute(context.Background(), &Request{BusinessID: 1, Bundle: bundle})
	require.NoError(t, err)

	require.Len(t, f.store.appointments, 1)
	for _, appt := range f.store.appointments {
		assert.Nil(t, appt.TypeID, "ссылка на отсутствующий в бандле тип должна обнуляться")
	}
}

func TestExecute_MidImportFailureRollsBackEverything(t *testing.T) {
	f := newFixture(t)
	f.store.failTypeCreateAt = 2

	_, err := f.uc.Execute(context.Background(), &Request{BusinessID: 1, Bundle: validBundle()})

	require.ErrorIs(t, err, ErrInternal)

	// Всё состояние до импорта на месте
	assert.Contains(t, f.store.types, int64(100))
	assert.Contains(t, f.store.appointments, int64(500))
	assert.Len(t, f.store.types, 1)
	assert.Len(t, f.store.appointments, 1)
	assert.Equal(t, "Old Name", f.store.businesses[1].Name)
	assert.Equal(t, "16:00", f.store.settings[1].CloseTime.String())
}

func TestExecute_InvalidBundleRejectedBeforeAnyWrite(t *testing.T) {
	f := newFixture(t)

	bundle := validBundle()
	bundle.Appointments[2].Time = "12:60"

	_, err := f.uc.Execute(context.Background(), &Request{BusinessID: 1, Bundle: bundle})

	require.ErrorIs(t, err, ErrInvalidBundle)

	// До БД импорт даже не дошёл
	assert.Contains(t, f.store.types, int64(100))
	assert.Contains(t, f.store.appointments, int64(500))
	assert.Equal(t, "Old Name", f.store.businesses[1].Name)
}

func TestExecute_BusinessNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), &Request{BusinessID: 777, Bundle: validBundle()})
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestExecute_NilBundle(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), &Request{BusinessID: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_EmptyBundleClearsData(t *testing.T) {
	f := newFixture(t)

	bundle := validBundle()
	bundle.AppointmentTypes = nil
	bundle.Appointments = nil

	resp, err := f.uc.Execute(context.Background(), &Request{BusinessID: 1, Bundle: bundle})

	require.NoError(t, err)
	assert.Equal(t, 0, resp.TypesImported)
	assert.Equal(t, 0, resp.AppointmentsImported)
	assert.Empty(t, f.store.types)
	assert.Empty(t, f.store.appointments)
}

func TestExecute_SerializationFailureMapsToConcurrentUpdate(t *testing.T) {
	f := newFixture(t)
	f.txManager.failWith = fmt.Errorf("%w: after 3 attempts: boom", txmanager.ErrSerializationFailure)

	_, err := f.uc.Execute(context.Background(), &Request{BusinessID: 1, Bundle: validBundle()})
	assert.ErrorIs(t, err, ErrConcurrentUpdate)
}

func TestValidateBundle_RowLevelChecks(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(b *domain.ExportBundle)
	}{
		{"future version", func(b *domain.ExportBundle) { b.Version = domain.BundleVersion + 1 }},
		{"zero version", func(b *domain.ExportBundle) { b.Version = 0 }},
		{"empty business name", func(b *domain.ExportBundle) { b.Business.Name = " " }},
		{"invalid owner email", func(b *domain.ExportBundle) { b.Business.OwnerEmail = "not-an-email" }},
		{"unknown timezone", func(b *domain.ExportBundle) { b.Business.Timezone = "Mars/Olympus" }},
		{"malformed open time", func(b *domain.ExportBundle) { b.Settings.OpenTime = "9am" }},
		{"open after close", func(b *domain.ExportBundle) { b.Settings.OpenTime = "19:00" }},
		{"working days out of range", func(b *domain.ExportBundle) { b.Settings.WorkingDays = 128 }},
		{"type without name", func(b *domain.ExportBundle) { b.AppointmentTypes[0].Name = "" }},
		{"type duration zero", func(b *domain.ExportBundle) { b.AppointmentTypes[0].DurationMinutes = 0 }},
		{"type negative price", func(b *domain.ExportBundle) { b.AppointmentTypes[0].PriceCents = -1 }},
		{"type unknown location mode", func(b *domain.ExportBundle) { b.AppointmentTypes[0].LocationMode = "moon" }},
		{"appointment without client", func(b *domain.ExportBundle) { b.Appointments[0].ClientName = "" }},
		{"appointment bad date", func(b *domain.ExportBundle) { b.Appointments[0].Date = "16.03.2026" }},
		{"appointment bad status", func(b *domain.ExportBundle) { b.Appointments[0].Status = "done" }},
		{"appointment bad source", func(b *domain.ExportBundle) { b.Appointments[0].Source = "import" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bundle := validBundle()
			tt.mutate(bundle)

			err := validateBundle(bundle)
			assert.ErrorIs(t, err, ErrInvalidBundle)
		})
	}
}
