package appointment

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository/jsonfile"
	"github.com/jwalitptl/clinic-api/internal/validation"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
	"github.com/jwalitptl/clinic-api/pkg/messaging"
)

// recordingNotifier captures booking notifications for assertions.
type recordingNotifier struct {
	mu        sync.Mutex
	booked    []model.Appointment
	cancelled []model.Appointment
}

func (n *recordingNotifier) SendAppointmentBooked(ctx context.Context, patient model.Patient, doctor model.Doctor, apt model.Appointment) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.booked = append(n.booked, apt)
	return nil
}

func (n *recordingNotifier) SendAppointmentCancelled(ctx context.Context, patient model.Patient, doctor model.Doctor, apt model.Appointment) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancelled = append(n.cancelled, apt)
	return nil
}

type env struct {
	svc      *Service
	notifier *recordingNotifier
	patient  *model.Patient
	doctor   *model.Doctor
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store, err := jsonfile.Open(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, err)

	patientRepo := jsonfile.NewPatientRepository(store)
	doctorRepo := jsonfile.NewDoctorRepository(store)

	notifier := &recordingNotifier{}
	svc := NewService(
		jsonfile.NewAppointmentRepository(store),
		patientRepo,
		doctorRepo,
		validation.New(),
		messaging.NewNoopBroker(),
		notifier,
		zerolog.Nop(),
	)

	ctx := context.Background()
	patient := &model.Patient{ID: model.NewID(), Name: "Alice", Email: "a@x.com", DOB: "1990-01-01"}
	require.NoError(t, patientRepo.Create(ctx, patient))
	doctor := &model.Doctor{ID: model.NewID(), Name: "Bob", Specialty: "Cardiology"}
	require.NoError(t, doctorRepo.Create(ctx, doctor))

	return &env{svc: svc, notifier: notifier, patient: patient, doctor: doctor}
}

func TestCreateAppointment(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	apt, err := e.svc.CreateAppointment(ctx, &model.CreateAppointmentRequest{
		PatientID: e.patient.ID, DoctorID: e.doctor.ID, Date: "2025-06-01", Time: "09:00",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, apt.ID)

	appointments, err := e.svc.ListAppointments(ctx)
	require.NoError(t, err)
	require.Len(t, appointments, 1)
	assert.Equal(t, *apt, appointments[0])

	require.Len(t, e.notifier.booked, 1)
	assert.Equal(t, apt.ID, e.notifier.booked[0].ID)
}

func TestCreateAppointmentValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  model.CreateAppointmentRequest
	}{
		{"missing patient id", model.CreateAppointmentRequest{DoctorID: e.doctor.ID, Date: "2025-06-01", Time: "09:00"}},
		{"missing doctor id", model.CreateAppointmentRequest{PatientID: e.patient.ID, Date: "2025-06-01", Time: "09:00"}},
		{"missing date", model.CreateAppointmentRequest{PatientID: e.patient.ID, DoctorID: e.doctor.ID, Time: "09:00"}},
		{"missing time", model.CreateAppointmentRequest{PatientID: e.patient.ID, DoctorID: e.doctor.ID, Date: "2025-06-01"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.svc.CreateAppointment(ctx, &tt.req)
			assert.True(t, apperrors.IsCode(err, apperrors.ErrInvalidInput))
		})
	}

	appointments, err := e.svc.ListAppointments(ctx)
	require.NoError(t, err)
	assert.Empty(t, appointments)
}

func TestCreateAppointmentUnknownReferences(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.svc.CreateAppointment(ctx, &model.CreateAppointmentRequest{
		PatientID: "missing", DoctorID: e.doctor.ID, Date: "2025-06-01", Time: "09:00",
	})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrReferenceNotFound))

	_, err = e.svc.CreateAppointment(ctx, &model.CreateAppointmentRequest{
		PatientID: e.patient.ID, DoctorID: "missing", Date: "2025-06-01", Time: "09:00",
	})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrReferenceNotFound))

	appointments, err := e.svc.ListAppointments(ctx)
	require.NoError(t, err)
	assert.Empty(t, appointments)
}

func TestCreateAppointmentDoubleBooking(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.svc.CreateAppointment(ctx, &model.CreateAppointmentRequest{
		PatientID: e.patient.ID, DoctorID: e.doctor.ID, Date: "2025-06-01", Time: "09:00",
	})
	require.NoError(t, err)

	_, err = e.svc.CreateAppointment(ctx, &model.CreateAppointmentRequest{
		PatientID: e.patient.ID, DoctorID: e.doctor.ID, Date: "2025-06-01", Time: "09:00",
	})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
}

func TestUpdateAppointment(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	apt, err := e.svc.CreateAppointment(ctx, &model.CreateAppointmentRequest{
		PatientID: e.patient.ID, DoctorID: e.doctor.ID, Date: "2025-06-01", Time: "09:00",
	})
	require.NoError(t, err)

	// Re-saving the same slot for the same appointment is allowed.
	updated, err := e.svc.UpdateAppointment(ctx, apt.ID, &model.UpdateAppointmentRequest{
		PatientID: e.patient.ID, DoctorID: e.doctor.ID, Date: "2025-06-01", Time: "09:00",
	})
	require.NoError(t, err)
	assert.Equal(t, apt.ID, updated.ID)

	_, err = e.svc.UpdateAppointment(ctx, "missing", &model.UpdateAppointmentRequest{
		PatientID: e.patient.ID, DoctorID: e.doctor.ID, Date: "2025-06-01", Time: "10:00",
	})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}

func TestDeleteAppointment(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	apt, err := e.svc.CreateAppointment(ctx, &model.CreateAppointmentRequest{
		PatientID: e.patient.ID, DoctorID: e.doctor.ID, Date: "2025-06-01", Time: "09:00",
	})
	require.NoError(t, err)

	require.NoError(t, e.svc.DeleteAppointment(ctx, apt.ID))

	appointments, err := e.svc.ListAppointments(ctx)
	require.NoError(t, err)
	assert.Empty(t, appointments)

	require.Len(t, e.notifier.cancelled, 1)
	assert.Equal(t, apt.ID, e.notifier.cancelled[0].ID)

	err = e.svc.DeleteAppointment(ctx, apt.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}
