package user

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
	"github.com/jwalitptl/clinic-api/internal/validation"
	"github.com/jwalitptl/clinic-api/pkg/messaging"
	"github.com/jwalitptl/clinic-api/pkg/security"
)

const eventChannel = "clinic.users"

// Service manages user records. Passwords are hashed before they reach
// the store and stripped from everything handed back; nothing here
// verifies credentials.
type Service struct {
	repo      repository.UserRepository
	validator *validation.Validator
	hasher    security.PasswordHasher
	broker    messaging.Broker
	logger    zerolog.Logger
}

func NewService(repo repository.UserRepository, validator *validation.Validator, hasher security.PasswordHasher, broker messaging.Broker, logger zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		validator: validator,
		hasher:    hasher,
		broker:    broker,
		logger:    logger,
	}
}

func (s *Service) CreateUser(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           model.NewID(),
		Username:     req.Username,
		Email:        req.Email,
		Role:         req.Role,
		PasswordHash: hash,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	sanitized := user.Sanitized()
	s.publish(ctx, messaging.EventCreated, &sanitized, "")
	return &sanitized, nil
}

func (s *Service) DeleteUser(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.publish(ctx, messaging.EventDeleted, nil, id)
	return nil
}

func (s *Service) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	sanitized := make([]model.User, len(users))
	for i, u := range users {
		sanitized[i] = u.Sanitized()
	}
	return sanitized, nil
}

func (s *Service) publish(ctx context.Context, eventType string, user *model.User, id string) {
	event := messaging.Event{
		Type:       eventType,
		Collection: model.CollectionUsers,
		RecordID:   id,
	}
	if user != nil {
		event.Record = user
		event.RecordID = user.ID
	}
	if err := s.broker.Publish(ctx, eventChannel, event); err != nil {
		s.logger.Warn().Err(err).Str("type", eventType).Msg("failed to publish user event")
	}
}
