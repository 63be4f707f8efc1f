package jsonfile

import (
	"context"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
	"github.com/jwalitptl/clinic-api/pkg/errors"
)

type doctorRepository struct {
	store *Store
}

func NewDoctorRepository(store *Store) repository.DoctorRepository {
	return &doctorRepository{store: store}
}

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.update("doctor_create", func(doc *document) error {
		if doctorKeyTaken(doc.Doctors, doctor.Name, doctor.Specialty, "") {
			return errors.Conflict("doctor with this name and specialty already exists")
		}
		doc.Doctors = append(doc.Doctors, *doctor)
		return nil
	})
}

func (r *doctorRepository) Get(ctx context.Context, id string) (*model.Doctor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var doctor *model.Doctor
	r.store.view(func(doc *document) {
		if i := doctorIndex(doc.Doctors, id); i >= 0 {
			d := doc.Doctors[i]
			doctor = &d
		}
	})
	if doctor == nil {
		return nil, errors.NotFound("doctor")
	}
	return doctor, nil
}

func (r *doctorRepository) Update(ctx context.Context, doctor *model.Doctor) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.update("doctor_update", func(doc *document) error {
		i := doctorIndex(doc.Doctors, doctor.ID)
		if i < 0 {
			return errors.NotFound("doctor")
		}
		if doctorKeyTaken(doc.Doctors, doctor.Name, doctor.Specialty, doctor.ID) {
			return errors.Conflict("another doctor with this name and specialty already exists")
		}
		doc.Doctors[i] = *doctor
		return nil
	})
}

func (r *doctorRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.update("doctor_delete", func(doc *document) error {
		i := doctorIndex(doc.Doctors, id)
		if i < 0 {
			return errors.NotFound("doctor")
		}
		doc.Doctors = append(doc.Doctors[:i], doc.Doctors[i+1:]...)
		cascadeAppointments(doc, func(a model.Appointment) bool {
			return a.DoctorID != id
		})
		return nil
	})
}

func (r *doctorRepository) List(ctx context.Context) ([]model.Doctor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var doctors []model.Doctor
	r.store.view(func(doc *document) {
		doctors = make([]model.Doctor, len(doc.Doctors))
		copy(doctors, doc.Doctors)
	})
	return doctors, nil
}
