package cached

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/eniomcosta/gobarber/internal/adapter/cache"
	domain "github.com/eniomcosta/gobarber/internal/domain/user"
)

// MockUserRepository is a mock implementation of appointment.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetProvider(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func setupCachedRepo(t *testing.T) (*CachedUserRepository, *MockUserRepository) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := zaptest.NewLogger(t)
	userCache := cache.NewRedisUserCache(client, 5*time.Minute, logger)
	dbRepo := new(MockUserRepository)

	return NewCachedUserRepository(dbRepo, userCache, logger), dbRepo
}

func TestCachedUserRepository_GetByID_PopulatesCache(t *testing.T) {
	repo, dbRepo := setupCachedRepo(t)
	ctx := context.Background()

	u := &domain.User{ID: 3, Name: "John Doe", Email: "john@example.com"}
	dbRepo.On("GetByID", ctx, int64(3)).Return(u, nil).Once()

	// First call hits the database
	got, err := repo.GetByID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "John Doe", got.Name)

	// Second call is served from cache; the mock would fail on a second DB hit
	got, err = repo.GetByID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "John Doe", got.Name)

	dbRepo.AssertExpectations(t)
}

func TestCachedUserRepository_GetByID_AbsentUserNotCached(t *testing.T) {
	repo, dbRepo := setupCachedRepo(t)
	ctx := context.Background()

	dbRepo.On("GetByID", ctx, int64(99)).Return(nil, nil).Twice()

	got, err := repo.GetByID(ctx, 99)
	require.NoError(t, err)
	assert.Nil(t, got)

	// Still goes to the database; absence is never cached
	got, err = repo.GetByID(ctx, 99)
	require.NoError(t, err)
	assert.Nil(t, got)

	dbRepo.AssertExpectations(t)
}

func TestCachedUserRepository_GetProvider_BypassesCache(t *testing.T) {
	repo, dbRepo := setupCachedRepo(t)
	ctx := context.Background()

	provider := &domain.User{ID: 7, Name: "Barber Joe", Provider: true}
	dbRepo.On("GetProvider", ctx, int64(7)).Return(provider, nil).Twice()

	for i := 0; i < 2; i++ {
		got, err := repo.GetProvider(ctx, 7)
		require.NoError(t, err)
		assert.True(t, got.Provider)
	}

	dbRepo.AssertExpectations(t)
}
