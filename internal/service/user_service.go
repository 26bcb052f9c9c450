package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"login-service/internal/domain"
	"login-service/internal/repository"
)

// ProfileUpdate is a sparse update: nil fields are left unchanged. Username
// is deliberately not part of it.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Email     *string
}

// UserService exposes profile operations gated on an authenticated Principal.
type UserService interface {
	Profile(ctx context.Context, principal Principal) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, principal Principal, update ProfileUpdate) (*domain.Profile, error)
	Deactivate(ctx context.Context, principal Principal, targetID int64) error
	ListActive(ctx context.Context, principal Principal) ([]domain.Profile, error)
}

type userService struct {
	users  repository.UserRepository
	logger *logrus.Logger
}

func NewUserService(users repository.UserRepository, logger *logrus.Logger) UserService {
	if logger == nil {
		logger = logrus.New()
	}
	return &userService{users: users, logger: logger}
}

// Profile returns the principal's own record. A valid token may outlive its
// user, so a missing record maps to ErrUserNotFound rather than a storage
// failure.
func (s *userService) Profile(ctx context.Context, principal Principal) (*domain.Profile, error) {
	user, err := s.resolve(ctx, principal)
	if err != nil {
		return nil, err
	}
	profile := user.Profile()
	return &profile, nil
}

// UpdateProfile applies a sparse update to the principal's own record. An
// email owned by a different user, active or not, is rejected with
// ErrEmailTaken; keeping one's current email is not a conflict.
func (s *userService) UpdateProfile(ctx context.Context, principal Principal, update ProfileUpdate) (*domain.Profile, error) {
	user, err := s.resolve(ctx, principal)
	if err != nil {
		return nil, err
	}

	if update.FirstName != nil {
		user.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		user.LastName = *update.LastName
	}
	if update.Email != nil && *update.Email != user.Email {
		taken, err := s.users.ExistsByEmail(ctx, *update.Email)
		if err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if taken {
			return nil, ErrEmailTaken
		}
		user.Email = *update.Email
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.logger.Infof("profile updated for user %s", user.Username)
	profile := user.Profile()
	return &profile, nil
}

// Deactivate flips the target's active flag to false. The transition is one
// way; nothing in the service ever sets it back. Principals cannot deactivate
// themselves.
func (s *userService) Deactivate(ctx context.Context, principal Principal, targetID int64) error {
	current, err := s.resolve(ctx, principal)
	if err != nil {
		return err
	}

	if current.ID == targetID {
		return ErrSelfDeactivation
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("lookup target user: %w", err)
	}

	target.Active = false
	if err := s.users.Update(ctx, target); err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}

	s.logger.Infof("user %d deactivated by %s", targetID, current.Username)
	return nil
}

// ListActive returns sanitized views of all active users in storage order.
func (s *userService) ListActive(ctx context.Context, principal Principal) ([]domain.Profile, error) {
	if _, err := s.resolve(ctx, principal); err != nil {
		return nil, err
	}

	users, err := s.users.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active users: %w", err)
	}

	profiles := make([]domain.Profile, len(users))
	for i := range users {
		profiles[i] = users[i].Profile()
	}
	return profiles, nil
}

func (s *userService) resolve(ctx context.Context, principal Principal) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, principal.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("resolve principal: %w", err)
	}
	return user, nil
}
