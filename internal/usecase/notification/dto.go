package notification

import "time"

// ListNotificationsRequest represents the request payload for listing a
// provider's notifications.
type ListNotificationsRequest struct {
	UserID int64 `validate:"required,gt=0"`
}

// ListNotificationsResponse represents the response payload for notification listing.
type ListNotificationsResponse struct {
	Notifications []Notification
}

// MarkReadRequest represents the request payload for marking a notification read.
type MarkReadRequest struct {
	ID int64 `validate:"required,gt=0"`
}

// MarkReadResponse represents the response payload after marking a notification read.
type MarkReadResponse struct {
	Notification Notification
}

// Notification represents a notification DTO for API responses.
type Notification struct {
	ID        int64
	Content   string
	Read      bool
	CreatedAt time.Time
}
