package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "github.com/eniomcosta/gobarber/internal/domain/appointment"
	"github.com/eniomcosta/gobarber/internal/domain/notification"
	"github.com/eniomcosta/gobarber/internal/domain/user"
	"github.com/eniomcosta/gobarber/internal/job"
	"github.com/eniomcosta/gobarber/pkg/datefmt"
	apperrors "github.com/eniomcosta/gobarber/pkg/errors"
)

// User-facing booking rule messages. The API contract pins these strings.
const (
	msgValidationFails     = "Validation fails"
	msgInvalidProvider     = "You can only create appointments with a valid provider"
	msgPastDate            = "Past dates are not allowed"
	msgDateNotAvailable    = "Appointment date is not available"
	msgNotAppointmentOwner = "You don't have permission to cancel this appointment"
	msgAlreadyCanceled     = "Appointment is already canceled"
	msgAppointmentMissing  = "Appointment not found"
)

// Service implements the booking business logic: listing upcoming
// appointments, running the creation pipeline and canceling bookings.
type Service struct {
	repo          Repository             // Appointment persistence
	users         UserRepository         // Read-only user lookups
	notifications NotificationRepository // In-app provider notifications
	queue         Queue                  // Background job producer
	formatter     *datefmt.Formatter     // Human-readable date rendering
	pageSize      int                    // Listing page size
	log           *zap.Logger            // Structured logging
	validate      *validator.Validate    // Request validation
	now           func() time.Time       // Clock source, injectable in tests
}

// New creates a new booking Service. pageSize bounds listings; the
// formatter renders the notification and email dates.
func New(
	repo Repository,
	users UserRepository,
	notifications NotificationRepository,
	queue Queue,
	formatter *datefmt.Formatter,
	pageSize int,
	log *zap.Logger,
) *Service {
	return &Service{
		repo:          repo,
		users:         users,
		notifications: notifications,
		queue:         queue,
		formatter:     formatter,
		pageSize:      pageSize,
		log:           log,
		validate:      validator.New(),
		now:           time.Now,
	}
}

// ListAppointments returns one page of the user's upcoming (non-canceled)
// appointments ordered ascending by date, with provider details attached.
// Out-of-range pages yield an empty list.
func (s *Service) ListAppointments(ctx context.Context, in ListAppointmentsRequest) (*ListAppointmentsResponse, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, apperrors.NewValidationError("", msgValidationFails)
	}

	page := in.Page
	if page < 1 {
		page = 1
	}

	appointments, err := s.repo.ListUpcoming(ctx, in.UserID, page, s.pageSize)
	if err != nil {
		s.log.Error("failed to list appointments", zap.Int64("user_id", in.UserID), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to list appointments", err)
	}

	out := make([]Appointment, len(appointments))
	for i := range appointments {
		out[i] = toDTO(&appointments[i])
	}

	return &ListAppointmentsResponse{Appointments: out}, nil
}

// CreateAppointment runs the booking pipeline. Each step gates the next:
// structural validation, provider-role check, past-date rejection,
// slot-availability check, persist, notify the provider.
func (s *Service) CreateAppointment(ctx context.Context, in CreateAppointmentRequest) (*CreateAppointmentResponse, error) {
	if err := s.validate.Struct(in); err != nil {
		s.log.Warn("create appointment validation failed", zap.Error(err))
		return nil, apperrors.NewValidationError("", msgValidationFails)
	}

	date, err := time.Parse(time.RFC3339, in.Date)
	if err != nil {
		s.log.Warn("create appointment date is not ISO-8601", zap.String("date", in.Date))
		return nil, apperrors.NewValidationError("date", msgValidationFails)
	}

	provider, err := s.users.GetProvider(ctx, in.ProviderID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to look up provider", err)
	}
	if provider == nil {
		s.log.Warn("booking attempted with invalid provider",
			zap.Int64("provider_id", in.ProviderID),
			zap.Int64("user_id", in.UserID),
		)
		return nil, apperrors.NewUnauthorizedError(msgInvalidProvider)
	}

	// Bookings are hourly; the truncated instant is both the slot key and
	// the stored date.
	hourStart := domain.StartOfHour(date.UTC())

	if !hourStart.After(s.now()) {
		return nil, apperrors.NewBusinessRuleError(msgPastDate)
	}

	occupant, err := s.repo.FindActiveSlot(ctx, in.ProviderID, hourStart)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to check availability", err)
	}
	if occupant != nil {
		return nil, apperrors.NewBusinessRuleError(msgDateNotAvailable)
	}

	a := &domain.Appointment{
		Date:       hourStart,
		UserID:     in.UserID,
		ProviderID: in.ProviderID,
	}

	if _, err := s.repo.Create(ctx, a); err != nil {
		// A concurrent booking can slip between the availability check and
		// the insert; the unique index reports it as a slot collision.
		if errors.Is(err, domain.ErrSlotTaken) {
			return nil, apperrors.NewBusinessRuleError(msgDateNotAvailable)
		}
		return nil, apperrors.NewInternalError("failed to create appointment", err)
	}

	if err := s.notifyProvider(ctx, a); err != nil {
		return nil, err
	}

	s.log.Info("appointment created",
		zap.Int64("id", a.ID),
		zap.Int64("user_id", a.UserID),
		zap.Int64("provider_id", a.ProviderID),
		zap.Time("date", a.Date),
	)

	return &CreateAppointmentResponse{Appointment: toDTO(a)}, nil
}

// notifyProvider records the in-app notification telling the provider about
// the new booking.
func (s *Service) notifyProvider(ctx context.Context, a *domain.Appointment) error {
	requester, err := s.users.GetByID(ctx, a.UserID)
	if err != nil {
		return apperrors.NewInternalError("failed to load requesting user", err)
	}
	if requester == nil {
		return apperrors.NewInternalError("requesting user does not exist", nil)
	}

	content := fmt.Sprintf("New appointment scheduled for %s on %s",
		requester.Name, s.formatter.Format(a.Date))

	n := &notification.Notification{
		Content: content,
		UserID:  a.ProviderID,
	}
	if _, err := s.notifications.Create(ctx, n); err != nil {
		return apperrors.NewInternalError("failed to create provider notification", err)
	}

	return nil
}

// CancelAppointment marks the user's own appointment as canceled and
// enqueues the cancellation email job. The producer only guarantees that
// the job was enqueued; delivery belongs to the worker.
func (s *Service) CancelAppointment(ctx context.Context, in CancelAppointmentRequest) (*CancelAppointmentResponse, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, apperrors.NewValidationError("", msgValidationFails)
	}

	a, err := s.repo.GetByID(ctx, in.AppointmentID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load appointment", err)
	}
	if a == nil {
		return nil, apperrors.NewNotFoundError("appointment", msgAppointmentMissing)
	}
	if a.UserID != in.UserID {
		s.log.Warn("cancellation attempted by non-owner",
			zap.Int64("appointment_id", a.ID),
			zap.Int64("owner_id", a.UserID),
			zap.Int64("user_id", in.UserID),
		)
		return nil, apperrors.NewUnauthorizedError(msgNotAppointmentOwner)
	}
	if a.Canceled() {
		return nil, apperrors.NewBusinessRuleError(msgAlreadyCanceled)
	}

	canceledAt := s.now().UTC()
	if err := s.repo.Cancel(ctx, a.ID, canceledAt); err != nil {
		return nil, apperrors.NewInternalError("failed to cancel appointment", err)
	}
	a.CanceledAt = &canceledAt

	payload := job.CancellationMailPayload{
		Appointment: job.CancellationAppointment{
			ID:       a.ID,
			Date:     a.Date.UTC().Format(time.RFC3339),
			Provider: partyFrom(a.Provider),
			User:     job.Party{Name: nameFrom(a.User)},
		},
	}
	if err := s.queue.Enqueue(ctx, job.CancellationMail, payload); err != nil {
		return nil, apperrors.NewInternalError("failed to enqueue cancellation mail", err)
	}

	s.log.Info("appointment canceled",
		zap.Int64("id", a.ID),
		zap.Int64("user_id", a.UserID),
		zap.Time("canceled_at", canceledAt),
	)

	return &CancelAppointmentResponse{Appointment: toDTO(a)}, nil
}

// toDTO maps a domain appointment to the response DTO.
func toDTO(a *domain.Appointment) Appointment {
	out := Appointment{
		ID:         a.ID,
		Date:       a.Date,
		UserID:     a.UserID,
		ProviderID: a.ProviderID,
		CanceledAt: a.CanceledAt,
	}
	if a.Provider != nil {
		out.Provider = &Provider{
			ID:   a.Provider.ID,
			Name: a.Provider.Name,
		}
		if a.Provider.Avatar != nil {
			out.Provider.Avatar = &Avatar{
				ID:   a.Provider.Avatar.ID,
				Path: a.Provider.Avatar.Path,
				URL:  a.Provider.Avatar.URL,
			}
		}
	}
	return out
}

func partyFrom(u *user.User) job.Party {
	if u == nil {
		return job.Party{}
	}
	return job.Party{Name: u.Name, Email: u.Email}
}

func nameFrom(u *user.User) string {
	if u == nil {
		return ""
	}
	return u.Name
}
