package notification

import (
	"context"

	"github.com/eniomcosta/gobarber/internal/domain/notification"
	"github.com/eniomcosta/gobarber/internal/domain/user"
)

// Usecase defines the interface for provider notification operations.
type Usecase interface {
	ListNotifications(ctx context.Context, in ListNotificationsRequest) (*ListNotificationsResponse, error)
	MarkRead(ctx context.Context, in MarkReadRequest) (*MarkReadResponse, error)
}

// Repository defines the interface for notification data access operations.
type Repository interface {
	ListByUser(ctx context.Context, userID int64, limit int) ([]notification.Notification, error)
	MarkRead(ctx context.Context, id int64) (*notification.Notification, error)
}

// UserRepository defines the provider lookup the notification service needs.
type UserRepository interface {
	GetProvider(ctx context.Context, id int64) (*user.User, error)
}
