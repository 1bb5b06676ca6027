package appointment

import (
	"context"
	"time"

	"github.com/eniomcosta/gobarber/internal/domain/appointment"
	"github.com/eniomcosta/gobarber/internal/domain/notification"
	"github.com/eniomcosta/gobarber/internal/domain/user"
)

// Usecase defines the interface for appointment booking operations.
type Usecase interface {
	ListAppointments(ctx context.Context, in ListAppointmentsRequest) (*ListAppointmentsResponse, error)
	CreateAppointment(ctx context.Context, in CreateAppointmentRequest) (*CreateAppointmentResponse, error)
	CancelAppointment(ctx context.Context, in CancelAppointmentRequest) (*CancelAppointmentResponse, error)
}

// Repository defines the interface for appointment data access operations.
type Repository interface {
	Create(ctx context.Context, a *appointment.Appointment) (int64, error)                                       // Insert a new appointment
	ListUpcoming(ctx context.Context, userID int64, page, limit int) ([]appointment.Appointment, error)         // Page of non-canceled appointments
	FindActiveSlot(ctx context.Context, providerID int64, date time.Time) (*appointment.Appointment, error)     // Occupant of a provider/date slot, nil when free
	GetByID(ctx context.Context, id int64) (*appointment.Appointment, error)                                    // Appointment with user and provider loaded
	Cancel(ctx context.Context, id int64, at time.Time) error                                                   // Set the cancellation timestamp
}

// UserRepository defines the read-only user access the booking service needs.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)      // User by ID, nil when absent
	GetProvider(ctx context.Context, id int64) (*user.User, error)  // User by ID restricted to providers, nil when absent
}

// NotificationRepository defines the notification write the booking service performs.
type NotificationRepository interface {
	Create(ctx context.Context, n *notification.Notification) (int64, error)
}

// Queue defines the producer side of the background job queue.
// Enqueue success is the only guarantee the producer gets.
type Queue interface {
	Enqueue(ctx context.Context, job string, payload any) error
}
