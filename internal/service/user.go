package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ShinaSIT/Helix-Telebot/internal/config"
	"github.com/ShinaSIT/Helix-Telebot/internal/constants"
	"github.com/ShinaSIT/Helix-Telebot/internal/domain"
	"github.com/ShinaSIT/Helix-Telebot/internal/repository"
	"github.com/rs/zerolog"
)

var (
	// ErrNotAuthorized rejects admin operations from non-admin users.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrInvalidRole rejects role values outside the configured set.
	ErrInvalidRole = errors.New("invalid role")
)

const (
	stepName = "name"
	stepRole = "role"
)

type registration struct {
	step     string
	username string
	name     string
}

// UserService wraps the identity store with the registration flow and role
// authorization. Registration is a two-step conversation (name, then role)
// whose in-flight state lives in memory; a restart simply restarts the
// conversation.
type UserService struct {
	repo   *repository.UserRepository
	cfg    *config.Config
	logger zerolog.Logger

	mu      sync.Mutex
	pending map[int64]*registration
}

func NewUserService(repo *repository.UserRepository, cfg *config.Config, logger zerolog.Logger) *UserService {
	return &UserService{
		repo:    repo,
		cfg:     cfg,
		logger:  logger,
		pending: make(map[int64]*registration),
	}
}

// Get returns the registered user, or repository.ErrUserNotFound.
func (s *UserService) Get(ctx context.Context, telegramID int64) (*domain.User, error) {
	return s.repo.Get(ctx, telegramID)
}

// IsRegistered reports whether the telegram id has a stored user record.
func (s *UserService) IsRegistered(ctx context.Context, telegramID int64) bool {
	_, err := s.repo.Get(ctx, telegramID)
	return err == nil
}

// BeginRegistration starts (or restarts) the registration conversation and
// returns the first prompt.
func (s *UserService) BeginRegistration(telegramID int64, username string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending[telegramID] = &registration{step: stepName, username: username}
	s.logger.Info().Int64("telegram_id", telegramID).Msg("registration started")
	return "Welcome! Please enter your full name:"
}

// AwaitingName reports whether the user is mid-registration on the name
// step; the bot routes free text here.
func (s *UserService) AwaitingName(telegramID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, ok := s.pending[telegramID]
	return ok && reg.step == stepName
}

// SubmitName records the user's name and advances to role selection.
func (s *UserService) SubmitName(telegramID int64, name string) (string, error) {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return "", fmt.Errorf("name must be at least 2 characters")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	reg, ok := s.pending[telegramID]
	if !ok || reg.step != stepName {
		return "", fmt.Errorf("no registration in progress")
	}
	reg.name = name
	reg.step = stepRole

	return fmt.Sprintf("Thanks %s! Now pick your alliance or role:", name), nil
}

// CompleteRegistration stores the user with the chosen role and clears the
// in-flight state.
func (s *UserService) CompleteRegistration(ctx context.Context, telegramID int64, role string) (*domain.User, error) {
	if !s.cfg.IsValidRole(role) {
		return nil, ErrInvalidRole
	}

	s.mu.Lock()
	reg, ok := s.pending[telegramID]
	if !ok || reg.step != stepRole {
		s.mu.Unlock()
		return nil, fmt.Errorf("no registration awaiting role selection")
	}
	delete(s.pending, telegramID)
	s.mu.Unlock()

	user := &domain.User{
		TelegramID: telegramID,
		Name:       reg.name,
		Username:   reg.username,
		Role:       role,
		HP:         constants.DefaultHP,
		Active:     true,
	}
	if !s.cfg.IsAdminRole(role) {
		user.Alliance = role
	}

	if err := s.repo.Upsert(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("telegram_id", telegramID).Str("role", role).Msg("registration completed")
	return user, nil
}

// ClearRegistration drops any in-flight registration state.
func (s *UserService) ClearRegistration(telegramID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, telegramID)
}

// UpdateRole changes a user's role; only admins may do so.
func (s *UserService) UpdateRole(ctx context.Context, adminID, targetID int64, role string) error {
	admin, err := s.repo.Get(ctx, adminID)
	if err != nil {
		return ErrNotAuthorized
	}
	if !s.cfg.IsAdminRole(admin.Role) {
		s.logger.Warn().Int64("telegram_id", adminID).Str("role", admin.Role).Msg("role update denied")
		return ErrNotAuthorized
	}
	if !s.cfg.IsValidRole(role) {
		return ErrInvalidRole
	}
	return s.repo.UpdateRole(ctx, targetID, role)
}

// List returns all users, optionally filtered by role; only admins may list.
func (s *UserService) List(ctx context.Context, requesterID int64, roleFilter string) ([]domain.User, error) {
	requester, err := s.repo.Get(ctx, requesterID)
	if err != nil {
		return nil, ErrNotAuthorized
	}
	if !s.cfg.IsAdminRole(requester.Role) {
		return nil, ErrNotAuthorized
	}
	if roleFilter != "" {
		return s.repo.ListByRole(ctx, roleFilter)
	}
	return s.repo.List(ctx)
}

// IsAdmin reports whether the telegram id belongs to a GM or EXCO user.
func (s *UserService) IsAdmin(ctx context.Context, telegramID int64) bool {
	user, err := s.repo.Get(ctx, telegramID)
	return err == nil && s.cfg.IsAdminRole(user.Role)
}
