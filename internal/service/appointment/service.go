package appointment

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jwalitptl/clinic-api/internal/email"
	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
	"github.com/jwalitptl/clinic-api/internal/validation"
	"github.com/jwalitptl/clinic-api/pkg/messaging"
)

const eventChannel = "clinic.appointments"

// Service books appointments. Syntactic validation happens here; the
// referential and scheduling invariants are enforced by the repository
// atomically with the write.
type Service struct {
	repo        repository.AppointmentRepository
	patientRepo repository.PatientRepository
	doctorRepo  repository.DoctorRepository
	validator   *validation.Validator
	broker      messaging.Broker
	notifier    email.Service
	logger      zerolog.Logger
}

func NewService(
	repo repository.AppointmentRepository,
	patientRepo repository.PatientRepository,
	doctorRepo repository.DoctorRepository,
	validator *validation.Validator,
	broker messaging.Broker,
	notifier email.Service,
	logger zerolog.Logger,
) *Service {
	return &Service{
		repo:        repo,
		patientRepo: patientRepo,
		doctorRepo:  doctorRepo,
		validator:   validator,
		broker:      broker,
		notifier:    notifier,
		logger:      logger,
	}
}

func (s *Service) CreateAppointment(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	apt := &model.Appointment{
		ID:        model.NewID(),
		PatientID: req.PatientID,
		DoctorID:  req.DoctorID,
		Date:      req.Date,
		Time:      req.Time,
	}

	if err := s.repo.Create(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	s.publish(ctx, messaging.EventCreated, apt, "")
	s.notifyBooked(ctx, apt)
	return apt, nil
}

func (s *Service) GetAppointment(ctx context.Context, id string) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return apt, nil
}

func (s *Service) UpdateAppointment(ctx context.Context, id string, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	apt := &model.Appointment{
		ID:        id,
		PatientID: req.PatientID,
		DoctorID:  req.DoctorID,
		Date:      req.Date,
		Time:      req.Time,
	}

	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}

	s.publish(ctx, messaging.EventUpdated, apt, "")
	return apt, nil
}

func (s *Service) DeleteAppointment(ctx context.Context, id string) error {
	// Snapshot the record first so the cancellation notice can still name
	// the participants.
	apt, _ := s.repo.Get(ctx, id)

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}

	s.publish(ctx, messaging.EventDeleted, nil, id)
	if apt != nil {
		s.notifyCancelled(ctx, apt)
	}
	return nil
}

func (s *Service) ListAppointments(ctx context.Context) ([]model.Appointment, error) {
	appointments, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (s *Service) publish(ctx context.Context, eventType string, apt *model.Appointment, id string) {
	event := messaging.Event{
		Type:       eventType,
		Collection: model.CollectionAppointments,
		RecordID:   id,
	}
	if apt != nil {
		event.Record = apt
		event.RecordID = apt.ID
	}
	if err := s.broker.Publish(ctx, eventChannel, event); err != nil {
		s.logger.Warn().Err(err).Str("type", eventType).Msg("failed to publish appointment event")
	}
}

// notifyBooked mails the patient a confirmation. Best-effort: the booking
// already succeeded, so notification failures are only logged.
func (s *Service) notifyBooked(ctx context.Context, apt *model.Appointment) {
	patient, err := s.patientRepo.Get(ctx, apt.PatientID)
	if err != nil {
		s.logger.Warn().Err(err).Str("appointment_id", apt.ID).Msg("could not load patient for booking notification")
		return
	}
	doctor, err := s.doctorRepo.Get(ctx, apt.DoctorID)
	if err != nil {
		s.logger.Warn().Err(err).Str("appointment_id", apt.ID).Msg("could not load doctor for booking notification")
		return
	}

	if err := s.notifier.SendAppointmentBooked(ctx, *patient, *doctor, *apt); err != nil {
		s.logger.Warn().Err(err).Str("appointment_id", apt.ID).Msg("failed to send booking notification")
	}
}

func (s *Service) notifyCancelled(ctx context.Context, apt *model.Appointment) {
	patient, err := s.patientRepo.Get(ctx, apt.PatientID)
	if err != nil {
		return
	}
	doctor, err := s.doctorRepo.Get(ctx, apt.DoctorID)
	if err != nil {
		return
	}

	if err := s.notifier.SendAppointmentCancelled(ctx, *patient, *doctor, *apt); err != nil {
		s.logger.Warn().Err(err).Str("appointment_id", apt.ID).Msg("failed to send cancellation notification")
	}
}
