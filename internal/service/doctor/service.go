package doctor

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
	"github.com/jwalitptl/clinic-api/internal/validation"
	"github.com/jwalitptl/clinic-api/pkg/messaging"
)

const eventChannel = "clinic.doctors"

type Service struct {
	repo      repository.DoctorRepository
	validator *validation.Validator
	broker    messaging.Broker
	logger    zerolog.Logger
}

func NewService(repo repository.DoctorRepository, validator *validation.Validator, broker messaging.Broker, logger zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		validator: validator,
		broker:    broker,
		logger:    logger,
	}
}

func (s *Service) CreateDoctor(ctx context.Context, req *model.CreateDoctorRequest) (*model.Doctor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	doctor := &model.Doctor{
		ID:        model.NewID(),
		Name:      req.Name,
		Specialty: req.Specialty,
	}

	if err := s.repo.Create(ctx, doctor); err != nil {
		return nil, fmt.Errorf("failed to create doctor: %w", err)
	}

	s.publish(ctx, messaging.EventCreated, doctor, "")
	return doctor, nil
}

func (s *Service) GetDoctor(ctx context.Context, id string) (*model.Doctor, error) {
	doctor, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return doctor, nil
}

func (s *Service) UpdateDoctor(ctx context.Context, id string, req *model.UpdateDoctorRequest) (*model.Doctor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	doctor := &model.Doctor{
		ID:        id,
		Name:      req.Name,
		Specialty: req.Specialty,
	}

	if err := s.repo.Update(ctx, doctor); err != nil {
		return nil, fmt.Errorf("failed to update doctor: %w", err)
	}

	s.publish(ctx, messaging.EventUpdated, doctor, "")
	return doctor, nil
}

// DeleteDoctor removes the doctor; the store drops every appointment
// referencing it in the same flush.
func (s *Service) DeleteDoctor(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete doctor: %w", err)
	}

	s.publish(ctx, messaging.EventDeleted, nil, id)
	return nil
}

func (s *Service) ListDoctors(ctx context.Context) ([]model.Doctor, error) {
	doctors, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

func (s *Service) publish(ctx context.Context, eventType string, doctor *model.Doctor, id string) {
	event := messaging.Event{
		Type:       eventType,
		Collection: model.CollectionDoctors,
		RecordID:   id,
	}
	if doctor != nil {
		event.Record = doctor
		event.RecordID = doctor.ID
	}
	if err := s.broker.Publish(ctx, eventChannel, event); err != nil {
		s.logger.Warn().Err(err).Str("type", eventType).Msg("failed to publish doctor event")
	}
}
