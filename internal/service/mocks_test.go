package service

import (
	"context"
	"errors"
	"sync"

	"login-service/internal/domain"
	"login-service/internal/notify"
	"login-service/internal/repository"
)

// mockUserRepository lets each test case override exactly the calls it cares
// about.
type mockUserRepository struct {
	createFunc           func(ctx context.Context, user *domain.User) (int64, error)
	getByUsernameFunc    func(ctx context.Context, username string) (*domain.User, error)
	getByEmailFunc       func(ctx context.Context, email string) (*domain.User, error)
	getByIDFunc          func(ctx context.Context, id int64) (*domain.User, error)
	existsByUsernameFunc func(ctx context.Context, username string) (bool, error)
	existsByEmailFunc    func(ctx context.Context, email string) (bool, error)
	updateFunc           func(ctx context.Context, user *domain.User) error
	listActiveFunc       func(ctx context.Context) ([]domain.User, error)
}

func (m *mockUserRepository) Init(ctx context.Context) error { return nil }

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) (int64, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return 0, errors.New("not implemented")
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.getByUsernameFunc != nil {
		return m.getByUsernameFunc(ctx, username)
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getByEmailFunc != nil {
		return m.getByEmailFunc(ctx, email)
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if m.existsByUsernameFunc != nil {
		return m.existsByUsernameFunc(ctx, username)
	}
	return false, nil
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.existsByEmailFunc != nil {
		return m.existsByEmailFunc(ctx, email)
	}
	return false, nil
}

func (m *mockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, user)
	}
	return errors.New("not implemented")
}

func (m *mockUserRepository) ListActive(ctx context.Context) ([]domain.User, error) {
	if m.listActiveFunc != nil {
		return m.listActiveFunc(ctx)
	}
	return nil, nil
}

// recordingSink captures enqueued notification events.
type recordingSink struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingSink) Enqueue(eventType string, _ domain.Profile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, eventType)
}

func (r *recordingSink) recorded() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

var _ notify.Sink = (*recordingSink)(nil)
