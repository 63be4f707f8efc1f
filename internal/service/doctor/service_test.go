package doctor

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

func newService(t *testing.T) (*Service, repository.AppointmentRepository, repository.PatientRepository) {
	t.Helper()
	store, err := jsonfile.Open(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, err)

	svc := NewService(
		jsonfile.NewDoctorRepository(store),
		validation.New(),
		messaging.NewNoopBroker(),
		zerolog.Nop(),
	)
	return svc, jsonfile.NewAppointmentRepository(store), jsonfile.NewPatientRepository(store)
}

func TestCreateDoctor(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	created, err := svc.CreateDoctor(ctx, &model.CreateDoctorRequest{Name: "Bob", Specialty: "Cardiology"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	doctors, err := svc.ListDoctors(ctx)
	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.Equal(t, *created, doctors[0])
}

func TestCreateDoctorValidation(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.CreateDoctor(ctx, &model.CreateDoctorRequest{Name: "Bob"})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrInvalidInput))

	_, err = svc.CreateDoctor(ctx, &model.CreateDoctorRequest{Specialty: "Cardiology"})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrInvalidInput))
}

func TestCreateDoctorDuplicate(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.CreateDoctor(ctx, &model.CreateDoctorRequest{Name: "Bob", Specialty: "Cardiology"})
	require.NoError(t, err)

	_, err = svc.CreateDoctor(ctx, &model.CreateDoctorRequest{Name: "Bob", Specialty: "Cardiology"})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
}

func TestUpdateDoctor(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	created, err := svc.CreateDoctor(ctx, &model.CreateDoctorRequest{Name: "Bob", Specialty: "Cardiology"})
	require.NoError(t, err)

	updated, err := svc.UpdateDoctor(ctx, created.ID, &model.UpdateDoctorRequest{Name: "Bob", Specialty: "Dermatology"})
	require.NoError(t, err)
	assert.Equal(t, "Dermatology", updated.Specialty)

	_, err = svc.UpdateDoctor(ctx, "missing", &model.UpdateDoctorRequest{Name: "X", Specialty: "Y"})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}

func TestDeleteDoctorCascades(t *testing.T) {
	svc, appointments, patients := newService(t)
	ctx := context.Background()

	doctor, err := svc.CreateDoctor(ctx, &model.CreateDoctorRequest{Name: "Bob", Specialty: "Cardiology"})
	require.NoError(t, err)

	patient := &model.Patient{ID: model.NewID(), Name: "Alice", Email: "a@x.com", DOB: "1990-01-01"}
	require.NoError(t, patients.Create(ctx, patient))

	require.NoError(t, appointments.Create(ctx, &model.Appointment{
		ID: model.NewID(), PatientID: patient.ID, DoctorID: doctor.ID, Date: "2025-06-01", Time: "09:00",
	}))

	require.NoError(t, svc.DeleteDoctor(ctx, doctor.ID))

	remaining, err := appointments.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}
