package repository

import (
	"context"

	"github.com/jwalitptl/clinic-api/internal/model"
)

// All repository interfaces in one file. Implementations must enforce the
// cross-record invariants atomically with the write itself: uniqueness
// keys, appointment reference resolution, doctor double-booking, and the
// appointment cascade on patient/doctor deletion.
type (
	// PatientRepository handles patient records, keyed uniquely by email.
	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id string) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		// Delete removes the patient and every appointment referencing it
		// in one durable flush.
		Delete(ctx context.Context, id string) error
		List(ctx context.Context) ([]model.Patient, error)
	}

	// DoctorRepository handles doctor records, keyed uniquely by
	// (name, specialty).
	DoctorRepository interface {
		Create(ctx context.Context, doctor *model.Doctor) error
		Get(ctx context.Context, id string) (*model.Doctor, error)
		Update(ctx context.Context, doctor *model.Doctor) error
		// Delete removes the doctor and every appointment referencing it
		// in one durable flush.
		Delete(ctx context.Context, id string) error
		List(ctx context.Context) ([]model.Doctor, error)
	}

	// AppointmentRepository handles appointment records. Create and Update
	// resolve the referenced patient and doctor and reject writes that
	// would double-book a doctor for the same date and time.
	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id string) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		Delete(ctx context.Context, id string) error
		List(ctx context.Context) ([]model.Appointment, error)
	}

	// UserRepository handles user records, keyed uniquely by username and
	// by email.
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id string) (*model.User, error)
		Delete(ctx context.Context, id string) error
		List(ctx context.Context) ([]model.User, error)
	}
)
