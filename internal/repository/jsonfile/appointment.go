package jsonfile

import (
	"context"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
	"github.com/jwalitptl/clinic-api/pkg/errors"
)

type appointmentRepository struct {
	store *Store
}

func NewAppointmentRepository(store *Store) repository.AppointmentRepository {
	return &appointmentRepository{store: store}
}

// checkConsistency resolves the appointment's references and rejects
// doctor double-bookings. Runs inside the update closure so the check and
// the write are one unit under the store lock.
func checkConsistency(doc *document, apt *model.Appointment, excludeID string) error {
	if patientIndex(doc.Patients, apt.PatientID) < 0 {
		return errors.ReferenceNotFound("patient")
	}
	if doctorIndex(doc.Doctors, apt.DoctorID) < 0 {
		return errors.ReferenceNotFound("doctor")
	}
	if doctorBooked(doc.Appointments, apt.DoctorID, apt.Date, apt.Time, excludeID) {
		return errors.Conflict("doctor has another appointment at this date and time")
	}
	return nil
}

func (r *appointmentRepository) Create(ctx context.Context, apt *model.Appointment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.update("appointment_create", func(doc *document) error {
		if err := checkConsistency(doc, apt, ""); err != nil {
			return err
		}
		doc.Appointments = append(doc.Appointments, *apt)
		return nil
	})
}

func (r *appointmentRepository) Get(ctx context.Context, id string) (*model.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var apt *model.Appointment
	r.store.view(func(doc *document) {
		if i := appointmentIndex(doc.Appointments, id); i >= 0 {
			a := doc.Appointments[i]
			apt = &a
		}
	})
	if apt == nil {
		return nil, errors.NotFound("appointment")
	}
	return apt, nil
}

func (r *appointmentRepository) Update(ctx context.Context, apt *model.Appointment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.update("appointment_update", func(doc *document) error {
		i := appointmentIndex(doc.Appointments, apt.ID)
		if i < 0 {
			return errors.NotFound("appointment")
		}
		if err := checkConsistency(doc, apt, apt.ID); err != nil {
			return err
		}
		doc.Appointments[i] = *apt
		return nil
	})
}

func (r *appointmentRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.update("appointment_delete", func(doc *document) error {
		i := appointmentIndex(doc.Appointments, id)
		if i < 0 {
			return errors.NotFound("appointment")
		}
		doc.Appointments = append(doc.Appointments[:i], doc.Appointments[i+1:]...)
		return nil
	})
}

func (r *appointmentRepository) List(ctx context.Context) ([]model.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var appointments []model.Appointment
	r.store.view(func(doc *document) {
		appointments = make([]model.Appointment, len(doc.Appointments))
		copy(appointments, doc.Appointments)
	})
	return appointments, nil
}
