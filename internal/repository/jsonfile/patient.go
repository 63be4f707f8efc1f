package jsonfile

import (
	"context"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
	"github.com/jwalitptl/clinic-api/pkg/errors"
)

type patientRepository struct {
	store *Store
}

func NewPatientRepository(store *Store) repository.PatientRepository {
	return &patientRepository{store: store}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.update("patient_create", func(doc *document) error {
		if patientEmailTaken(doc.Patients, patient.Email, "") {
			return errors.Conflict("patient with this email already exists")
		}
		doc.Patients = append(doc.Patients, *patient)
		return nil
	})
}

func (r *patientRepository) Get(ctx context.Context, id string) (*model.Patient, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var patient *model.Patient
	r.store.view(func(doc *document) {
		if i := patientIndex(doc.Patients, id); i >= 0 {
			p := doc.Patients[i]
			patient = &p
		}
	})
	if patient == nil {
		return nil, errors.NotFound("patient")
	}
	return patient, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.update("patient_update", func(doc *document) error {
		i := patientIndex(doc.Patients, patient.ID)
		if i < 0 {
			return errors.NotFound("patient")
		}
		if patientEmailTaken(doc.Patients, patient.Email, patient.ID) {
			return errors.Conflict("another patient with this email already exists")
		}
		doc.Patients[i] = *patient
		return nil
	})
}

func (r *patientRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.update("patient_delete", func(doc *document) error {
		i := patientIndex(doc.Patients, id)
		if i < 0 {
			return errors.NotFound("patient")
		}
		doc.Patients = append(doc.Patients[:i], doc.Patients[i+1:]...)
		cascadeAppointments(doc, func(a model.Appointment) bool {
			return a.PatientID != id
		})
		return nil
	})
}

func (r *patientRepository) List(ctx context.Context) ([]model.Patient, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var patients []model.Patient
	r.store.view(func(doc *document) {
		patients = make([]model.Patient, len(doc.Patients))
		copy(patients, doc.Patients)
	})
	return patients, nil
}
