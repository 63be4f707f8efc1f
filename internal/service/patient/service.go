package patient

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
	"github.com/jwalitptl/clinic-api/internal/validation"
	"github.com/jwalitptl/clinic-api/pkg/messaging"
)

const eventChannel = "clinic.patients"

type Service struct {
	repo      repository.PatientRepository
	validator *validation.Validator
	broker    messaging.Broker
	logger    zerolog.Logger
}

func NewService(repo repository.PatientRepository, validator *validation.Validator, broker messaging.Broker, logger zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		validator: validator,
		broker:    broker,
		logger:    logger,
	}
}

func (s *Service) CreatePatient(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	patient := &model.Patient{
		ID:    model.NewID(),
		Name:  req.Name,
		Email: req.Email,
		DOB:   req.DOB,
	}

	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}

	s.publish(ctx, messaging.EventCreated, patient, "")
	return patient, nil
}

func (s *Service) GetPatient(ctx context.Context, id string) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return patient, nil
}

// UpdatePatient fully replaces the stored record; there is no partial patch.
func (s *Service) UpdatePatient(ctx context.Context, id string, req *model.UpdatePatientRequest) (*model.Patient, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	patient := &model.Patient{
		ID:    id,
		Name:  req.Name,
		Email: req.Email,
		DOB:   req.DOB,
	}

	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to update patient: %w", err)
	}

	s.publish(ctx, messaging.EventUpdated, patient, "")
	return patient, nil
}

// DeletePatient removes the patient; the store drops every appointment
// referencing it in the same flush.
func (s *Service) DeletePatient(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}

	s.publish(ctx, messaging.EventDeleted, nil, id)
	return nil
}

func (s *Service) ListPatients(ctx context.Context) ([]model.Patient, error) {
	patients, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

// publish is best-effort: a dead broker never fails the request.
func (s *Service) publish(ctx context.Context, eventType string, patient *model.Patient, id string) {
	event := messaging.Event{
		Type:       eventType,
		Collection: model.CollectionPatients,
		RecordID:   id,
	}
	if patient != nil {
		event.Record = patient
		event.RecordID = patient.ID
	}
	if err := s.broker.Publish(ctx, eventChannel, event); err != nil {
		s.logger.Warn().Err(err).Str("type", eventType).Msg("failed to publish patient event")
	}
}
