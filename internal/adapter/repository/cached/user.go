package cached

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/eniomcosta/gobarber/internal/adapter/cache"
	domain "github.com/eniomcosta/gobarber/internal/domain/user"
	"github.com/eniomcosta/gobarber/internal/usecase/appointment"
)

// CachedUserRepository implements appointment.UserRepository with caching
// support. It wraps a persistent repository (DB) and a cache implementation.
// Users are read-only here, so TTL expiry is the only invalidation needed.
type CachedUserRepository struct {
	dbRepo appointment.UserRepository
	cache  cache.UserCache
	log    *zap.Logger
	group  singleflight.Group
}

// NewCachedUserRepository creates a new instance of CachedUserRepository.
func NewCachedUserRepository(dbRepo appointment.UserRepository, cache cache.UserCache, log *zap.Logger) *CachedUserRepository {
	return &CachedUserRepository{
		dbRepo: dbRepo,
		cache:  cache,
		log:    log,
	}
}

// GetByID retrieves a user by ID using the cache-aside pattern.
func (r *CachedUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if r.cache != nil {
		cachedUser, err := r.cache.Get(ctx, id)
		if err != nil {
			r.log.Warn("cache get error, falling back to database", zap.Int64("id", id), zap.Error(err))
		} else if cachedUser != nil {
			return cachedUser, nil
		}
	}

	// Cache miss or cache disabled - use single-flight to prevent stampede
	key := fmt.Sprintf("user:%d", id)
	result, err, _ := r.group.Do(key, func() (any, error) {
		// Double-check cache in case another request populated it while we were waiting
		if r.cache != nil {
			cachedUser, err := r.cache.Get(ctx, id)
			if err == nil && cachedUser != nil {
				return cachedUser, nil
			}
		}

		u, err := r.dbRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		// Absent users are not cached; a nil entry would shadow later inserts
		if u != nil && r.cache != nil {
			if err := r.cache.Set(ctx, u); err != nil {
				r.log.Warn("failed to cache user", zap.Int64("id", id), zap.Error(err))
			}
		}

		return u, nil
	})

	if err != nil {
		return nil, err
	}

	u, _ := result.(*domain.User)
	return u, nil
}

// GetProvider retrieves a provider by ID. The provider flag gates a booking
// rule, so the check always goes to the database; only the plain user
// lookup is served from cache.
func (r *CachedUserRepository) GetProvider(ctx context.Context, id int64) (*domain.User, error) {
	return r.dbRepo.GetProvider(ctx, id)
}
