package notification

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	apperrors "github.com/eniomcosta/gobarber/pkg/errors"
)

const (
	msgValidationFails     = "Validation fails"
	msgNotProvider         = "Only providers can load notifications"
	msgNotificationMissing = "Notification not found"
)

// listLimit bounds a provider's notification feed to the most recent entries.
const listLimit = 20

// Service implements the provider notification feed.
type Service struct {
	repo     Repository
	users    UserRepository
	log      *zap.Logger
	validate *validator.Validate
}

// New creates a new notification Service.
func New(repo Repository, users UserRepository, log *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		log:      log,
		validate: validator.New(),
	}
}

// ListNotifications returns the provider's most recent notifications,
// newest first. Non-providers are rejected.
func (s *Service) ListNotifications(ctx context.Context, in ListNotificationsRequest) (*ListNotificationsResponse, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, apperrors.NewValidationError("", msgValidationFails)
	}

	provider, err := s.users.GetProvider(ctx, in.UserID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to look up provider", err)
	}
	if provider == nil {
		s.log.Warn("notification feed requested by non-provider", zap.Int64("user_id", in.UserID))
		return nil, apperrors.NewUnauthorizedError(msgNotProvider)
	}

	notifications, err := s.repo.ListByUser(ctx, in.UserID, listLimit)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list notifications", err)
	}

	out := make([]Notification, len(notifications))
	for i, n := range notifications {
		out[i] = Notification{
			ID:        n.ID,
			Content:   n.Content,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		}
	}

	return &ListNotificationsResponse{Notifications: out}, nil
}

// MarkRead flips the read flag on a notification.
func (s *Service) MarkRead(ctx context.Context, in MarkReadRequest) (*MarkReadResponse, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, apperrors.NewValidationError("", msgValidationFails)
	}

	n, err := s.repo.MarkRead(ctx, in.ID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to mark notification read", err)
	}
	if n == nil {
		return nil, apperrors.NewNotFoundError("notification", msgNotificationMissing)
	}

	return &MarkReadResponse{Notification: Notification{
		ID:        n.ID,
		Content:   n.Content,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}}, nil
}
