package patient

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
	"github.com/jwalitptl/clinic-api/internal/repository/jsonfile"
	"github.com/jwalitptl/clinic-api/internal/validation"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
	"github.com/jwalitptl/clinic-api/pkg/messaging"
)

func newService(t *testing.T) (*Service, repository.AppointmentRepository, repository.DoctorRepository) {
	t.Helper()
	store, err := jsonfile.Open(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, err)

	svc := NewService(
		jsonfile.NewPatientRepository(store),
		validation.New(),
		messaging.NewNoopBroker(),
		zerolog.Nop(),
	)
	return svc, jsonfile.NewAppointmentRepository(store), jsonfile.NewDoctorRepository(store)
}

func TestCreatePatient(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	created, err := svc.CreatePatient(ctx, &model.CreatePatientRequest{
		Name: "Alice", Email: "a@x.com", DOB: "1990-01-01",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	patients, err := svc.ListPatients(ctx)
	require.NoError(t, err)
	require.Len(t, patients, 1)
	assert.Equal(t, *created, patients[0])
}

func TestCreatePatientInvalidEmail(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.CreatePatient(ctx, &model.CreatePatientRequest{
		Name: "Alice", Email: "not-an-email", DOB: "1990-01-01",
	})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrInvalidInput))

	patients, err := svc.ListPatients(ctx)
	require.NoError(t, err)
	assert.Empty(t, patients)
}

func TestCreatePatientDuplicateEmail(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.CreatePatient(ctx, &model.CreatePatientRequest{Name: "Alice", Email: "a@x.com", DOB: "1990-01-01"})
	require.NoError(t, err)

	_, err = svc.CreatePatient(ctx, &model.CreatePatientRequest{Name: "Alicia", Email: "a@x.com", DOB: "1991-01-01"})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
}

func TestUpdatePatient(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	created, err := svc.CreatePatient(ctx, &model.CreatePatientRequest{Name: "Alice", Email: "a@x.com", DOB: "1990-01-01"})
	require.NoError(t, err)

	updated, err := svc.UpdatePatient(ctx, created.ID, &model.UpdatePatientRequest{
		Name: "Alice Smith", Email: "alice@x.com", DOB: "1990-01-01",
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Alice Smith", updated.Name)

	_, err = svc.UpdatePatient(ctx, "missing", &model.UpdatePatientRequest{
		Name: "Nobody", Email: "n@x.com", DOB: "1990-01-01",
	})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}

func TestDeletePatientCascades(t *testing.T) {
	svc, appointments, doctors := newService(t)
	ctx := context.Background()

	patient, err := svc.CreatePatient(ctx, &model.CreatePatientRequest{Name: "Alice", Email: "a@x.com", DOB: "1990-01-01"})
	require.NoError(t, err)

	doctor := &model.Doctor{ID: model.NewID(), Name: "Bob", Specialty: "Cardiology"}
	require.NoError(t, doctors.Create(ctx, doctor))

	for _, slot := range []string{"09:00", "10:00", "11:00"} {
		require.NoError(t, appointments.Create(ctx, &model.Appointment{
			ID: model.NewID(), PatientID: patient.ID, DoctorID: doctor.ID, Date: "2025-06-01", Time: slot,
		}))
	}

	require.NoError(t, svc.DeletePatient(ctx, patient.ID))

	remaining, err := appointments.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	err = svc.DeletePatient(ctx, patient.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}
