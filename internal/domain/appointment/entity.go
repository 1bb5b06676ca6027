package appointment

import (
	"errors"
	"time"

	"github.com/eniomcosta/gobarber/internal/domain/user"
)

// ErrSlotTaken is returned by the repository when an insert collides with an
// existing non-canceled appointment for the same provider and slot.
var ErrSlotTaken = errors.New("appointment slot already booked")

// Appointment represents a booking between a user and a provider.
// A canceled appointment keeps its row; CanceledAt marks the cancellation.
type Appointment struct {
	ID         int64      // ID is the unique identifier for the appointment
	Date       time.Time  // Date is the booked slot, always at the start of an hour
	UserID     int64      // UserID is the owning user
	ProviderID int64      // ProviderID is the booked provider
	CanceledAt *time.Time // CanceledAt is nil while the appointment is active
	CreatedAt  time.Time
	Provider   *user.User // Provider is eagerly loaded for listings
	User       *user.User // User is eagerly loaded for cancellation payloads
}

// Canceled reports whether the appointment has been canceled.
func (a *Appointment) Canceled() bool {
	return a.CanceledAt != nil
}

// StartOfHour zeroes minutes, seconds and sub-second precision.
// Bookings are kept at hourly granularity; the truncated instant is the
// slot key for availability checks and the canonical stored date.
func StartOfHour(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}
