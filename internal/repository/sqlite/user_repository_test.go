package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"login-service/internal/domain"
	"login-service/internal/repository"
)

func newTestRepo(t *testing.T) (repository.UserRepository, *sql.DB) {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "users.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewUserRepository(db)
	require.NoError(t, repo.Init(context.Background()))
	return repo, db
}

func newUser(username, email string) *domain.User {
	return &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: "$2a$04$notarealhashbutlongenough",
		FirstName:    "First",
		LastName:     "Last",
		Active:       true,
	}
}

func TestUserRepository_CreateAndLookups(t *testing.T) {
	t.Parallel()

	repo, _ := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.Create(ctx, newUser("alice", "a@x.com"))
	require.NoError(t, err)
	require.Greater(t, id, int64(0))

	byName, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, id, byName.ID)
	assert.Equal(t, "a@x.com", byName.Email)
	assert.True(t, byName.Active)
	assert.False(t, byName.CreatedAt.IsZero())

	byEmail, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, id, byEmail.ID)

	byID, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	_, err = repo.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_UsernameIsCaseSensitive(t *testing.T) {
	t.Parallel()

	repo, _ := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, newUser("alice", "a@x.com"))
	require.NoError(t, err)

	_, err = repo.GetByUsername(ctx, "Alice")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_Exists(t *testing.T) {
	t.Parallel()

	repo, _ := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, newUser("alice", "a@x.com"))
	require.NoError(t, err)

	exists, err := repo.ExistsByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.ExistsByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByEmail(ctx, "b@x.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserRepository_UniqueConstraints(t *testing.T) {
	t.Parallel()

	repo, _ := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, newUser("alice", "a@x.com"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newUser("alice", "other@x.com"))
	assert.ErrorIs(t, err, repository.ErrDuplicateUsername)

	_, err = repo.Create(ctx, newUser("bob", "a@x.com"))
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

	// failed inserts leave no partial rows behind
	_, err = repo.GetByUsername(ctx, "bob")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_ConcurrentRegistrationRace(t *testing.T) {
	t.Parallel()

	repo, _ := newTestRepo(t)
	ctx := context.Background()

	const attempts = 8
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(ctx, newUser("alice", "a@x.com"))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, duplicates int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, repository.ErrDuplicateUsername), errors.Is(err, repository.ErrDuplicateEmail):
			duplicates++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, succeeded, "exactly one registration wins the race")
	assert.Equal(t, attempts-1, duplicates)
}

func TestUserRepository_Update(t *testing.T) {
	t.Parallel()

	repo, _ := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.Create(ctx, newUser("alice", "a@x.com"))
	require.NoError(t, err)

	user, err := repo.GetByID(ctx, id)
	require.NoError(t, err)

	user.Email = "new@x.com"
	user.FirstName = "Alicia"
	user.Active = false
	require.NoError(t, repo.Update(ctx, user))

	reloaded, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "new@x.com", reloaded.Email)
	assert.Equal(t, "Alicia", reloaded.FirstName)
	assert.False(t, reloaded.Active)
	assert.Equal(t, "alice", reloaded.Username, "username never changes")
}

func TestUserRepository_UpdateDuplicateEmail(t *testing.T) {
	t.Parallel()

	repo, _ := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, newUser("alice", "a@x.com"))
	require.NoError(t, err)
	bobID, err := repo.Create(ctx, newUser("bob", "b@x.com"))
	require.NoError(t, err)

	bob, err := repo.GetByID(ctx, bobID)
	require.NoError(t, err)
	bob.Email = "a@x.com"

	err = repo.Update(ctx, bob)
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
}

func TestUserRepository_UpdateMissingUser(t *testing.T) {
	t.Parallel()

	repo, _ := newTestRepo(t)

	ghost := newUser("ghost", "g@x.com")
	ghost.ID = 12345
	err := repo.Update(context.Background(), ghost)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_ListActive(t *testing.T) {
	t.Parallel()

	repo, _ := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, newUser("alice", "a@x.com"))
	require.NoError(t, err)
	bobID, err := repo.Create(ctx, newUser("bob", "b@x.com"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newUser("carol", "c@x.com"))
	require.NoError(t, err)

	bob, err := repo.GetByID(ctx, bobID)
	require.NoError(t, err)
	bob.Active = false
	require.NoError(t, repo.Update(ctx, bob))

	users, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	// stable id order
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "carol", users[1].Username)
}
