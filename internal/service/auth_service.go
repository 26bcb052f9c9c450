package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"login-service/internal/domain"
	"login-service/internal/notify"
	"login-service/internal/repository"
)

// LoginResult carries a freshly issued token together with the sanitized view
// of the authenticated user.
type LoginResult struct {
	Token string
	User  domain.Profile
}

// AuthService handles credential verification and account registration.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Register(ctx context.Context, req RegisterRequest) (*LoginResult, error)
}

// RegisterRequest holds the fields required to create an account.
type RegisterRequest struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type authService struct {
	users    repository.UserRepository
	hasher   PasswordHasher
	tokens   TokenService
	notifier notify.Sink
	logger   *logrus.Logger
}

func NewAuthService(users repository.UserRepository, hasher PasswordHasher, tokens TokenService, notifier notify.Sink, logger *logrus.Logger) AuthService {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &authService{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		notifier: notifier,
		logger:   logger,
	}
}

// Login verifies credentials and issues a bearer token. Unknown usernames and
// password mismatches both return ErrInvalidCredentials; the unknown-username
// path still pays for a hash comparison so the two are not distinguishable by
// timing either.
func (s *authService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.hasher.Verify(password, dummyDigest)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !user.Active {
		return nil, ErrAccountDeactivated
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	profile := user.Profile()
	s.notifier.Enqueue(notify.EventLogin, profile)
	s.logger.Infof("user %s authenticated", user.Username)

	return &LoginResult{Token: token, User: profile}, nil
}

// Register creates a new active account and issues its first token. The
// repository's uniqueness constraints back up the pre-checks, so two
// concurrent registrations of the same username or email cannot both succeed.
func (s *authService) Register(ctx context.Context, req RegisterRequest) (*LoginResult, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)

	taken, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	taken, err = s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Active:       true,
	}

	if _, err := s.users.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateUsername):
			return nil, ErrUsernameTaken
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	profile := user.Profile()
	s.notifier.Enqueue(notify.EventRegistration, profile)
	s.logger.Infof("new user %s registered", user.Username)

	return &LoginResult{Token: token, User: profile}, nil
}
