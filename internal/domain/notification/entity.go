package notification

import "time"

// Notification represents an in-app message surfaced to a provider.
type Notification struct {
	ID        int64     // ID is the unique identifier for the notification
	Content   string    // Content is the rendered message text
	UserID    int64     // UserID is the provider the notification belongs to
	Read      bool      // Read marks whether the provider has seen it
	CreatedAt time.Time // CreatedAt is when the notification was created
}
