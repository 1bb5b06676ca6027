package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eniomcosta/gobarber/internal/adapter/gin/middleware"
	"github.com/eniomcosta/gobarber/internal/usecase/appointment"
	apperrors "github.com/eniomcosta/gobarber/pkg/errors"
)

// AppointmentHandler handles HTTP requests for appointment operations
type AppointmentHandler struct {
	uc  appointment.Usecase
	log *zap.Logger
}

// NewAppointmentHandler creates a new AppointmentHandler instance
func NewAppointmentHandler(uc appointment.Usecase, log *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{
		uc:  uc,
		log: log,
	}
}

// CreateAppointmentRequest represents the HTTP request body for booking
type CreateAppointmentRequest struct {
	ProviderID int64  `json:"provider_id" binding:"required,gt=0"`
	Date       string `json:"date" binding:"required"`
}

// AppointmentResponse represents the HTTP response for appointment data
type AppointmentResponse struct {
	ID         int64             `json:"id"`
	Date       time.Time         `json:"date"`
	UserID     int64             `json:"user_id,omitempty"`
	ProviderID int64             `json:"provider_id,omitempty"`
	CanceledAt *time.Time        `json:"canceled_at,omitempty"`
	Provider   *ProviderResponse `json:"provider,omitempty"`
}

// ProviderResponse represents the provider details in listings
type ProviderResponse struct {
	ID     int64           `json:"id"`
	Name   string          `json:"name"`
	Avatar *AvatarResponse `json:"avatar,omitempty"`
}

// AvatarResponse represents the provider's avatar file
type AvatarResponse struct {
	ID   int64  `json:"id"`
	Path string `json:"path"`
	URL  string `json:"url"`
}

// ErrorResponse represents an error response; the API contract is a single
// error string per failure
type ErrorResponse struct {
	Error string `json:"error"`
}

// Index handles GET /appointments
func (h *AppointmentHandler) Index(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	req := appointment.ListAppointmentsRequest{
		UserID: middleware.UserID(c),
		Page:   page,
	}

	resp, err := h.uc.ListAppointments(c.Request.Context(), req)
	if err != nil {
		h.log.Error("list appointments failed", zap.Error(err))
		handleError(c, err)
		return
	}

	out := make([]AppointmentResponse, len(resp.Appointments))
	for i, a := range resp.Appointments {
		out[i] = listItem(a)
	}

	c.JSON(http.StatusOK, out)
}

// Store handles POST /appointments
func (h *AppointmentHandler) Store(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid create appointment request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Validation fails"})
		return
	}

	ucReq := appointment.CreateAppointmentRequest{
		UserID:     middleware.UserID(c),
		ProviderID: req.ProviderID,
		Date:       req.Date,
	}

	resp, err := h.uc.CreateAppointment(c.Request.Context(), ucReq)
	if err != nil {
		h.log.Warn("create appointment failed", zap.Error(err))
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, record(resp.Appointment))
}

// Delete handles DELETE /appointments/:id
func (h *AppointmentHandler) Delete(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		h.log.Warn("invalid appointment id", zap.String("id", idStr))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Validation fails"})
		return
	}

	ucReq := appointment.CancelAppointmentRequest{
		UserID:        middleware.UserID(c),
		AppointmentID: id,
	}

	resp, err := h.uc.CancelAppointment(c.Request.Context(), ucReq)
	if err != nil {
		h.log.Warn("cancel appointment failed", zap.Error(err), zap.Int64("id", id))
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, record(resp.Appointment))
}

// listItem maps a listing entry: id, date and the provider card.
func listItem(a appointment.Appointment) AppointmentResponse {
	out := AppointmentResponse{
		ID:   a.ID,
		Date: a.Date,
	}
	if a.Provider != nil {
		out.Provider = &ProviderResponse{
			ID:   a.Provider.ID,
			Name: a.Provider.Name,
		}
		if a.Provider.Avatar != nil {
			out.Provider.Avatar = &AvatarResponse{
				ID:   a.Provider.Avatar.ID,
				Path: a.Provider.Avatar.Path,
				URL:  a.Provider.Avatar.URL,
			}
		}
	}
	return out
}

// record maps a full appointment record: ownership and cancellation state included.
func record(a appointment.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:         a.ID,
		Date:       a.Date,
		UserID:     a.UserID,
		ProviderID: a.ProviderID,
		CanceledAt: a.CanceledAt,
	}
}

// handleError converts usecase errors to the contract's status/message pairs.
// Internal failures never leak their cause to the client.
func handleError(c *gin.Context, err error) {
	var internalErr *apperrors.InternalError
	if errors.As(err, &internalErr) {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		return
	}

	var statuser apperrors.HTTPStatuser
	if errors.As(err, &statuser) {
		c.JSON(statuser.HTTPStatus(), ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
}
