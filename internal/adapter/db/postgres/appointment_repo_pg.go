package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/eniomcosta/gobarber/internal/domain/appointment"
)

// AppointmentRepoPG implements the appointment repository interface using
// PostgreSQL and GORM.
type AppointmentRepoPG struct {
	db           *gorm.DB    // GORM database connection
	filesBaseURL string      // Base URL for resolving avatar file URLs
	log          *zap.Logger // Structured logger for database operations
}

// NewAppointmentRepoPG creates a new instance of AppointmentRepoPG.
func NewAppointmentRepoPG(db *gorm.DB, filesBaseURL string, log *zap.Logger) *AppointmentRepoPG {
	return &AppointmentRepoPG{db: db, filesBaseURL: filesBaseURL, log: log}
}

// Create inserts a new appointment. A unique violation on the provider/date
// index means the slot was taken between check and insert; that surfaces as
// appointment.ErrSlotTaken so callers can report it as unavailability.
func (r *AppointmentRepoPG) Create(ctx context.Context, a *appointment.Appointment) (int64, error) {
	if a == nil {
		return 0, errors.New("appointment cannot be nil")
	}

	model := AppointmentSchema{
		Date:       a.Date.UTC(),
		UserID:     a.UserID,
		ProviderID: a.ProviderID,
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if isUniqueViolation(err) {
			r.log.Warn("slot already booked",
				zap.Int64("provider_id", a.ProviderID),
				zap.Time("date", a.Date),
			)
			return 0, appointment.ErrSlotTaken
		}
		r.log.Error("failed to create appointment in db",
			zap.Error(err),
			zap.Int64("provider_id", a.ProviderID),
		)
		return 0, fmt.Errorf("failed to create appointment: %w", err)
	}

	r.log.Info("appointment created in db", zap.Int64("id", model.ID))
	a.ID = model.ID
	a.CreatedAt = model.CreatedAt
	return model.ID, nil
}

// ListUpcoming retrieves a page of the user's non-canceled appointments,
// ordered ascending by date, with provider and avatar eagerly loaded.
func (r *AppointmentRepoPG) ListUpcoming(ctx context.Context, userID int64, page, limit int) ([]appointment.Appointment, error) {
	var models []AppointmentSchema
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND canceled_at IS NULL", userID).
		Order("date ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Preload("Provider.Avatar").
		Find(&models).Error
	if err != nil {
		r.log.Error("failed to list appointments from db",
			zap.Error(err),
			zap.Int64("user_id", userID),
			zap.Int("page", page),
		)
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}

	appointments := make([]appointment.Appointment, len(models))
	for i := range models {
		appointments[i] = *r.toDomain(&models[i])
	}

	return appointments, nil
}

// FindActiveSlot retrieves the non-canceled appointment occupying the given
// provider/date slot. Returns nil without error when the slot is free.
func (r *AppointmentRepoPG) FindActiveSlot(ctx context.Context, providerID int64, date time.Time) (*appointment.Appointment, error) {
	var model AppointmentSchema
	err := r.db.WithContext(ctx).
		Where("provider_id = ? AND date = ? AND canceled_at IS NULL", providerID, date.UTC()).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.log.Error("failed to check slot availability",
			zap.Error(err),
			zap.Int64("provider_id", providerID),
			zap.Time("date", date),
		)
		return nil, fmt.Errorf("failed to check slot availability: %w", err)
	}

	return r.toDomain(&model), nil
}

// GetByID retrieves an appointment with its user and provider eagerly loaded.
// Returns nil without error when the appointment does not exist.
func (r *AppointmentRepoPG) GetByID(ctx context.Context, id int64) (*appointment.Appointment, error) {
	var model AppointmentSchema
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Provider").
		First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("appointment not found", zap.Int64("id", id))
			return nil, nil
		}
		r.log.Error("failed to get appointment from db", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	return r.toDomain(&model), nil
}

// Cancel marks the appointment as canceled at the given instant.
// The row is kept; appointments are never physically deleted.
func (r *AppointmentRepoPG) Cancel(ctx context.Context, id int64, at time.Time) error {
	at = at.UTC()
	err := r.db.WithContext(ctx).
		Model(&AppointmentSchema{}).
		Where("id = ?", id).
		Update("canceled_at", &at).Error
	if err != nil {
		r.log.Error("failed to cancel appointment in db", zap.Error(err), zap.Int64("id", id))
		return fmt.Errorf("failed to cancel appointment: %w", err)
	}

	r.log.Info("appointment canceled in db", zap.Int64("id", id), zap.Time("canceled_at", at))
	return nil
}

// toDomain maps an appointment row to the domain entity.
func (r *AppointmentRepoPG) toDomain(m *AppointmentSchema) *appointment.Appointment {
	return &appointment.Appointment{
		ID:         m.ID,
		Date:       m.Date,
		UserID:     m.UserID,
		ProviderID: m.ProviderID,
		CanceledAt: m.CanceledAt,
		CreatedAt:  m.CreatedAt,
		Provider:   userToDomain(m.Provider, r.filesBaseURL),
		User:       userToDomain(m.User, r.filesBaseURL),
	}
}
