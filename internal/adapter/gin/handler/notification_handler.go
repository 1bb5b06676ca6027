package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eniomcosta/gobarber/internal/adapter/gin/middleware"
	"github.com/eniomcosta/gobarber/internal/usecase/notification"
)

// NotificationHandler handles HTTP requests for provider notifications
type NotificationHandler struct {
	uc  notification.Usecase
	log *zap.Logger
}

// NewNotificationHandler creates a new NotificationHandler instance
func NewNotificationHandler(uc notification.Usecase, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		uc:  uc,
		log: log,
	}
}

// NotificationResponse represents a single notification in HTTP responses
type NotificationResponse struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// Index handles GET /notifications
func (h *NotificationHandler) Index(c *gin.Context) {
	req := notification.ListNotificationsRequest{
		UserID: middleware.UserID(c),
	}

	resp, err := h.uc.ListNotifications(c.Request.Context(), req)
	if err != nil {
		h.log.Warn("list notifications failed", zap.Error(err))
		handleError(c, err)
		return
	}

	out := make([]NotificationResponse, len(resp.Notifications))
	for i, n := range resp.Notifications {
		out[i] = toNotificationResponse(n)
	}

	c.JSON(http.StatusOK, out)
}

// Update handles PUT /notifications/:id
func (h *NotificationHandler) Update(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		h.log.Warn("invalid notification id", zap.String("id", idStr))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Validation fails"})
		return
	}

	resp, err := h.uc.MarkRead(c.Request.Context(), notification.MarkReadRequest{ID: id})
	if err != nil {
		h.log.Warn("mark notification read failed", zap.Error(err), zap.Int64("id", id))
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toNotificationResponse(resp.Notification))
}

func toNotificationResponse(n notification.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Content:   n.Content,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}
