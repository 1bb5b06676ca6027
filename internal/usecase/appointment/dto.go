package appointment

import "time"

// ListAppointmentsRequest represents the request payload for listing a
// user's upcoming appointments. Page is 1-based and defaults to 1.
type ListAppointmentsRequest struct {
	UserID int64 `validate:"required,gt=0"`
	Page   int
}

// ListAppointmentsResponse represents the response payload for appointment listing.
type ListAppointmentsResponse struct {
	Appointments []Appointment
}

// CreateAppointmentRequest represents the request payload for booking an
// appointment. Date is an ISO-8601 date-time string.
type CreateAppointmentRequest struct {
	UserID     int64  `validate:"required,gt=0"`
	ProviderID int64  `validate:"required,gt=0"`
	Date       string `validate:"required"`
}

// CreateAppointmentResponse represents the response payload after booking.
type CreateAppointmentResponse struct {
	Appointment Appointment
}

// CancelAppointmentRequest represents the request payload for canceling an
// appointment. Only the owning user may cancel.
type CancelAppointmentRequest struct {
	UserID        int64 `validate:"required,gt=0"`
	AppointmentID int64 `validate:"required,gt=0"`
}

// CancelAppointmentResponse represents the response payload after cancellation.
type CancelAppointmentResponse struct {
	Appointment Appointment
}

// Appointment represents an appointment DTO for API responses.
type Appointment struct {
	ID         int64
	Date       time.Time
	UserID     int64
	ProviderID int64
	CanceledAt *time.Time
	Provider   *Provider
}

// Provider represents the provider details embedded in listings.
type Provider struct {
	ID     int64
	Name   string
	Avatar *Avatar
}

// Avatar represents the provider's avatar file details.
type Avatar struct {
	ID   int64
	Path string
	URL  string
}
