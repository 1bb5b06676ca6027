package postgres

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/eniomcosta/gobarber/internal/domain/notification"
)

// NotificationRepoPG implements the notification repository interface using
// PostgreSQL and GORM.
type NotificationRepoPG struct {
	db  *gorm.DB    // GORM database connection
	log *zap.Logger // Structured logger for database operations
}

// NewNotificationRepoPG creates a new instance of NotificationRepoPG.
func NewNotificationRepoPG(db *gorm.DB, log *zap.Logger) *NotificationRepoPG {
	return &NotificationRepoPG{db: db, log: log}
}

// Create inserts a new notification for a provider.
func (r *NotificationRepoPG) Create(ctx context.Context, n *notification.Notification) (int64, error) {
	if n == nil {
		return 0, errors.New("notification cannot be nil")
	}

	model := NotificationSchema{
		Content: n.Content,
		UserID:  n.UserID,
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		r.log.Error("failed to create notification in db", zap.Error(err), zap.Int64("user_id", n.UserID))
		return 0, fmt.Errorf("failed to create notification: %w", err)
	}

	r.log.Info("notification created in db", zap.Int64("id", model.ID), zap.Int64("user_id", model.UserID))
	n.ID = model.ID
	n.CreatedAt = model.CreatedAt
	return model.ID, nil
}

// ListByUser retrieves the user's most recent notifications, newest first.
func (r *NotificationRepoPG) ListByUser(ctx context.Context, userID int64, limit int) ([]notification.Notification, error) {
	var models []NotificationSchema
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		r.log.Error("failed to list notifications from db", zap.Error(err), zap.Int64("user_id", userID))
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	notifications := make([]notification.Notification, len(models))
	for i, m := range models {
		notifications[i] = notification.Notification{
			ID:        m.ID,
			Content:   m.Content,
			UserID:    m.UserID,
			Read:      m.Read,
			CreatedAt: m.CreatedAt,
		}
	}

	return notifications, nil
}

// MarkRead flips the read flag and returns the updated notification.
// Returns nil without error when the notification does not exist.
func (r *NotificationRepoPG) MarkRead(ctx context.Context, id int64) (*notification.Notification, error) {
	var model NotificationSchema
	err := r.db.WithContext(ctx).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("notification not found", zap.Int64("id", id))
			return nil, nil
		}
		r.log.Error("failed to get notification from db", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}

	if err := r.db.WithContext(ctx).Model(&model).Update("read", true).Error; err != nil {
		r.log.Error("failed to mark notification read", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to mark notification read: %w", err)
	}

	return &notification.Notification{
		ID:        model.ID,
		Content:   model.Content,
		UserID:    model.UserID,
		Read:      true,
		CreatedAt: model.CreatedAt,
	}, nil
}
