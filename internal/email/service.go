package email

import (
	"context"

	"github.com/jwalitptl/clinic-api/internal/model"
)

type Service interface {
	SendAppointmentBooked(ctx context.Context, patient model.Patient, doctor model.Doctor, apt model.Appointment) error
	SendAppointmentCancelled(ctx context.Context, patient model.Patient, doctor model.Doctor, apt model.Appointment) error
}

// NoopService is used when no SMTP server is configured.
type NoopService struct{}

func NewNoopService() *NoopService { return &NoopService{} }

func (NoopService) SendAppointmentBooked(ctx context.Context, patient model.Patient, doctor model.Doctor, apt model.Appointment) error {
	return nil
}

func (NoopService) SendAppointmentCancelled(ctx context.Context, patient model.Patient, doctor model.Doctor, apt model.Appointment) error {
	return nil
}
