// Package job holds the background job contracts and handlers shared by the
// API (producer) and the worker (consumer).
package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/eniomcosta/gobarber/internal/adapter/mail"
	"github.com/eniomcosta/gobarber/pkg/datefmt"
)

// CancellationMail is the queue name for the cancellation email job.
const CancellationMail = "cancellation_mail"

// CancellationMailPayload is the denormalized appointment snapshot enqueued
// at cancellation time. It carries everything the email needs so the worker
// never reads the database.
type CancellationMailPayload struct {
	Appointment CancellationAppointment `json:"appointment"`
}

// CancellationAppointment is the appointment portion of the payload.
type CancellationAppointment struct {
	ID       int64  `json:"id"`
	Date     string `json:"date"` // ISO-8601
	Provider Party  `json:"provider"`
	User     Party  `json:"user"`
}

// Party identifies one side of the appointment.
type Party struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Sender is the mail dispatch dependency of the job handler.
type Sender interface {
	Send(msg mail.Message) error
}

// CancellationMailJob emails the provider when an appointment is canceled.
// Errors propagate to the worker loop; retry policy belongs to the runner.
type CancellationMailJob struct {
	mailer    Sender
	formatter *datefmt.Formatter
	log       *zap.Logger
}

// NewCancellationMailJob creates a new cancellation mail handler.
func NewCancellationMailJob(mailer Sender, formatter *datefmt.Formatter, log *zap.Logger) *CancellationMailJob {
	return &CancellationMailJob{mailer: mailer, formatter: formatter, log: log}
}

// Name returns the queue name this handler consumes.
func (j *CancellationMailJob) Name() string {
	return CancellationMail
}

// Handle parses the payload and dispatches the cancellation email.
func (j *CancellationMailJob) Handle(ctx context.Context, data []byte) error {
	var payload CancellationMailPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("invalid cancellation payload: %w", err)
	}

	a := payload.Appointment
	date, err := time.Parse(time.RFC3339, a.Date)
	if err != nil {
		return fmt.Errorf("invalid cancellation date %q: %w", a.Date, err)
	}

	j.log.Info("sending cancellation mail",
		zap.Int64("appointment_id", a.ID),
		zap.String("provider", a.Provider.Name),
	)

	return j.mailer.Send(mail.Message{
		To:       fmt.Sprintf("%s <%s>", a.Provider.Name, a.Provider.Email),
		Subject:  "Appointment canceled",
		Template: "cancellation",
		Context: map[string]any{
			"provider": a.Provider.Name,
			"user":     a.User.Name,
			"date":     j.formatter.Format(date),
		},
	})
}
