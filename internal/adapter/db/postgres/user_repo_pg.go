package postgres

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/eniomcosta/gobarber/internal/domain/user"
)

// UserRepoPG implements the user repository interface using PostgreSQL and GORM.
// Users are read-only from the booking service's perspective.
type UserRepoPG struct {
	db           *gorm.DB    // GORM database connection
	filesBaseURL string      // Base URL for resolving avatar file URLs
	log          *zap.Logger // Structured logger for database operations
}

// NewUserRepoPG creates a new instance of UserRepoPG.
func NewUserRepoPG(db *gorm.DB, filesBaseURL string, log *zap.Logger) *UserRepoPG {
	return &UserRepoPG{db: db, filesBaseURL: filesBaseURL, log: log}
}

// GetByID retrieves a user by their unique ID, with the avatar eagerly loaded.
// Returns nil without error when the user does not exist.
func (r *UserRepoPG) GetByID(ctx context.Context, id int64) (*user.User, error) {
	var model UserSchema
	err := r.db.WithContext(ctx).Preload("Avatar").First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found", zap.Int64("id", id))
			return nil, nil
		}
		r.log.Error("failed to get user from db", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return userToDomain(&model, r.filesBaseURL), nil
}

// GetProvider retrieves the user with the given ID only if they are marked
// as a provider. Returns nil without error when no such provider exists.
func (r *UserRepoPG) GetProvider(ctx context.Context, id int64) (*user.User, error) {
	var model UserSchema
	err := r.db.WithContext(ctx).
		Preload("Avatar").
		Where("id = ? AND provider = ?", id, true).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("provider not found", zap.Int64("id", id))
			return nil, nil
		}
		r.log.Error("failed to get provider from db", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to get provider: %w", err)
	}

	return userToDomain(&model, r.filesBaseURL), nil
}
