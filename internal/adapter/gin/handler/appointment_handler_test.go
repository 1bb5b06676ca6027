package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap/zaptest"

	"github.com/eniomcosta/gobarber/internal/adapter/gin/middleware"
	usecase "github.com/eniomcosta/gobarber/internal/usecase/appointment"
	apperrors "github.com/eniomcosta/gobarber/pkg/errors"
)

// MockAppointmentUsecase is a mock implementation of appointment.Usecase
type MockAppointmentUsecase struct {
	mock.Mock
}

func (m *MockAppointmentUsecase) ListAppointments(ctx context.Context, req usecase.ListAppointmentsRequest) (*usecase.ListAppointmentsResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.ListAppointmentsResponse), args.Error(1)
}

func (m *MockAppointmentUsecase) CreateAppointment(ctx context.Context, req usecase.CreateAppointmentRequest) (*usecase.CreateAppointmentResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.CreateAppointmentResponse), args.Error(1)
}

func (m *MockAppointmentUsecase) CancelAppointment(ctx context.Context, req usecase.CancelAppointmentRequest) (*usecase.CancelAppointmentResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.CancelAppointmentResponse), args.Error(1)
}

func setupTest(t *testing.T) (*gin.Engine, *MockAppointmentUsecase) {
	gin.SetMode(gin.TestMode)
	mockUsecase := new(MockAppointmentUsecase)
	logger := zaptest.NewLogger(t)
	h := NewAppointmentHandler(mockUsecase, logger)

	r := gin.New()
	authed := r.Group("/", middleware.Auth(logger))
	authed.GET("/appointments", h.Index)
	authed.POST("/appointments", h.Store)
	authed.DELETE("/appointments/:id", h.Delete)

	return r, mockUsecase
}

func doRequest(r *gin.Engine, method, path, userID string, body []byte) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestStoreAppointment(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		slot := time.Date(2024, 4, 5, 14, 0, 0, 0, time.UTC)
		mockUsecase.On("CreateAppointment", mock.Anything, usecase.CreateAppointmentRequest{
			UserID:     3,
			ProviderID: 7,
			Date:       "2024-04-05T14:20:00Z",
		}).Return(&usecase.CreateAppointmentResponse{
			Appointment: usecase.Appointment{ID: 1, Date: slot, UserID: 3, ProviderID: 7},
		}, nil)

		body, _ := json.Marshal(map[string]any{
			"provider_id": 7,
			"date":        "2024-04-05T14:20:00Z",
		})
		w := doRequest(r, "POST", "/appointments", "3", body)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp AppointmentResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(1), resp.ID)
		assert.Equal(t, int64(7), resp.ProviderID)
		assert.True(t, resp.Date.Equal(slot))

		mockUsecase.AssertExpectations(t)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		r, _ := setupTest(t)

		body, _ := json.Marshal(map[string]any{"provider_id": 7, "date": "2024-04-05T14:00:00Z"})
		w := doRequest(r, "POST", "/appointments", "", body)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error": "User not authenticated"}`, w.Body.String())
	})

	t.Run("Missing Fields", func(t *testing.T) {
		r, _ := setupTest(t)

		w := doRequest(r, "POST", "/appointments", "3", []byte(`{"provider_id": 7}`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error": "Validation fails"}`, w.Body.String())
	})

	t.Run("Invalid Provider", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("CreateAppointment", mock.Anything, mock.Anything).Return(nil,
			apperrors.NewUnauthorizedError("You can only create appointments with a valid provider"))

		body, _ := json.Marshal(map[string]any{"provider_id": 99, "date": "2024-04-05T14:00:00Z"})
		w := doRequest(r, "POST", "/appointments", "3", body)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error": "You can only create appointments with a valid provider"}`, w.Body.String())
	})

	t.Run("Slot Taken", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("CreateAppointment", mock.Anything, mock.Anything).Return(nil,
			apperrors.NewBusinessRuleError("Appointment date is not available"))

		body, _ := json.Marshal(map[string]any{"provider_id": 7, "date": "2024-04-05T14:00:00Z"})
		w := doRequest(r, "POST", "/appointments", "3", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error": "Appointment date is not available"}`, w.Body.String())
	})

	t.Run("Internal Error Is Masked", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("CreateAppointment", mock.Anything, mock.Anything).Return(nil,
			apperrors.NewInternalError("db connection lost", nil))

		body, _ := json.Marshal(map[string]any{"provider_id": 7, "date": "2024-04-05T14:00:00Z"})
		w := doRequest(r, "POST", "/appointments", "3", body)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error": "Internal server error"}`, w.Body.String())
	})
}

func TestIndexAppointments(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		slot := time.Date(2024, 4, 5, 14, 0, 0, 0, time.UTC)
		mockUsecase.On("ListAppointments", mock.Anything, usecase.ListAppointmentsRequest{
			UserID: 3,
			Page:   2,
		}).Return(&usecase.ListAppointmentsResponse{
			Appointments: []usecase.Appointment{
				{
					ID:   1,
					Date: slot,
					Provider: &usecase.Provider{
						ID:   7,
						Name: "Barber Joe",
						Avatar: &usecase.Avatar{
							ID:   5,
							Path: "abc.png",
							URL:  "http://localhost:3333/files/abc.png",
						},
					},
				},
			},
		}, nil)

		w := doRequest(r, "GET", "/appointments?page=2", "3", nil)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp []AppointmentResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp, 1)
		assert.Equal(t, "Barber Joe", resp[0].Provider.Name)
		assert.Equal(t, "http://localhost:3333/files/abc.png", resp[0].Provider.Avatar.URL)

		mockUsecase.AssertExpectations(t)
	})

	t.Run("Bad Page Defaults To One", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("ListAppointments", mock.Anything, usecase.ListAppointmentsRequest{
			UserID: 3,
			Page:   1,
		}).Return(&usecase.ListAppointmentsResponse{}, nil)

		w := doRequest(r, "GET", "/appointments?page=abc", "3", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		mockUsecase.AssertExpectations(t)
	})
}

func TestDeleteAppointment(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		canceledAt := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
		mockUsecase.On("CancelAppointment", mock.Anything, usecase.CancelAppointmentRequest{
			UserID:        3,
			AppointmentID: 10,
		}).Return(&usecase.CancelAppointmentResponse{
			Appointment: usecase.Appointment{
				ID: 10, UserID: 3, ProviderID: 7, CanceledAt: &canceledAt,
			},
		}, nil)

		w := doRequest(r, "DELETE", "/appointments/10", "3", nil)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp AppointmentResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotNil(t, resp.CanceledAt)

		mockUsecase.AssertExpectations(t)
	})

	t.Run("Invalid ID", func(t *testing.T) {
		r, _ := setupTest(t)

		w := doRequest(r, "DELETE", "/appointments/abc", "3", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error": "Validation fails"}`, w.Body.String())
	})

	t.Run("Not Owner", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("CancelAppointment", mock.Anything, mock.Anything).Return(nil,
			apperrors.NewUnauthorizedError("You don't have permission to cancel this appointment"))

		w := doRequest(r, "DELETE", "/appointments/10", "4", nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error": "You don't have permission to cancel this appointment"}`, w.Body.String())
	})

	t.Run("Not Found", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("CancelAppointment", mock.Anything, mock.Anything).Return(nil,
			apperrors.NewNotFoundError("appointment", "Appointment not found"))

		w := doRequest(r, "DELETE", "/appointments/99", "3", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error": "Appointment not found"}`, w.Body.String())
	})
}
