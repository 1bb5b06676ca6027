package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap/zaptest"

	domain "github.com/eniomcosta/gobarber/internal/domain/appointment"
	notifdomain "github.com/eniomcosta/gobarber/internal/domain/notification"
	userdomain "github.com/eniomcosta/gobarber/internal/domain/user"
	"github.com/eniomcosta/gobarber/internal/job"
	"github.com/eniomcosta/gobarber/pkg/datefmt"
	apperrors "github.com/eniomcosta/gobarber/pkg/errors"
)

// MockRepository is a mock implementation of Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, a *domain.Appointment) (int64, error) {
	args := m.Called(ctx, a)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) ListUpcoming(ctx context.Context, userID int64, page, limit int) ([]domain.Appointment, error) {
	args := m.Called(ctx, userID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Appointment), args.Error(1)
}

func (m *MockRepository) FindActiveSlot(ctx context.Context, providerID int64, date time.Time) (*domain.Appointment, error) {
	args := m.Called(ctx, providerID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Appointment), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Appointment), args.Error(1)
}

func (m *MockRepository) Cancel(ctx context.Context, id int64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*userdomain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userdomain.User), args.Error(1)
}

func (m *MockUserRepository) GetProvider(ctx context.Context, id int64) (*userdomain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userdomain.User), args.Error(1)
}

// MockNotificationRepository is a mock implementation of NotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *notifdomain.Notification) (int64, error) {
	args := m.Called(ctx, n)
	return args.Get(0).(int64), args.Error(1)
}

// MockQueue is a mock implementation of Queue
type MockQueue struct {
	mock.Mock
}

func (m *MockQueue) Enqueue(ctx context.Context, jobName string, payload any) error {
	args := m.Called(ctx, jobName, payload)
	return args.Error(0)
}

type testDeps struct {
	repo          *MockRepository
	users         *MockUserRepository
	notifications *MockNotificationRepository
	queue         *MockQueue
}

// fixedNow anchors the clock so past-date checks are deterministic.
var fixedNow = time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

func setupTestService(t *testing.T) (*Service, *testDeps) {
	deps := &testDeps{
		repo:          new(MockRepository),
		users:         new(MockUserRepository),
		notifications: new(MockNotificationRepository),
		queue:         new(MockQueue),
	}

	s := New(
		deps.repo,
		deps.users,
		deps.notifications,
		deps.queue,
		datefmt.NewFormatter(""),
		20,
		zaptest.NewLogger(t),
	)
	s.now = func() time.Time { return fixedNow }

	return s, deps
}

func provider(id int64, name string) *userdomain.User {
	return &userdomain.User{ID: id, Name: name, Email: name + "@example.com", Provider: true}
}

// ==================== CREATE APPOINTMENT TESTS ====================

func TestCreateAppointment_Success(t *testing.T) {
	s, deps := setupTestService(t)
	ctx := context.Background()

	req := CreateAppointmentRequest{
		UserID:     3,
		ProviderID: 7,
		Date:       "2024-04-05T14:20:00Z",
	}
	slot := time.Date(2024, 4, 5, 14, 0, 0, 0, time.UTC)

	deps.users.On("GetProvider", ctx, int64(7)).Return(provider(7, "Barber Joe"), nil)
	deps.repo.On("FindActiveSlot", ctx, int64(7), slot).Return(nil, nil)
	deps.repo.On("Create", ctx, mock.MatchedBy(func(a *domain.Appointment) bool {
		return a.UserID == 3 && a.ProviderID == 7 && a.Date.Equal(slot)
	})).Return(int64(1), nil)
	deps.users.On("GetByID", ctx, int64(3)).Return(
		&userdomain.User{ID: 3, Name: "John Doe", Email: "john@example.com"}, nil)
	deps.notifications.On("Create", ctx, mock.MatchedBy(func(n *notifdomain.Notification) bool {
		return n.UserID == 7 &&
			n.Content == "New appointment scheduled for John Doe on April 05th at 14:00"
	})).Return(int64(1), nil)

	resp, err := s.CreateAppointment(ctx, req)

	assert.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Equal(t, int64(7), resp.Appointment.ProviderID)
	assert.True(t, resp.Appointment.Date.Equal(slot))

	deps.repo.AssertExpectations(t)
	deps.users.AssertExpectations(t)
	deps.notifications.AssertExpectations(t)
}

func TestCreateAppointment_ValidationError_MissingDate(t *testing.T) {
	s, _ := setupTestService(t)
	ctx := context.Background()

	resp, err := s.CreateAppointment(ctx, CreateAppointmentRequest{UserID: 3, ProviderID: 7})

	assert.Nil(t, resp)
	var vErr *apperrors.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Validation fails", err.Error())
}

func TestCreateAppointment_ValidationError_BadDateFormat(t *testing.T) {
	s, _ := setupTestService(t)
	ctx := context.Background()

	req := CreateAppointmentRequest{
		UserID:     3,
		ProviderID: 7,
		Date:       "next tuesday",
	}

	resp, err := s.CreateAppointment(ctx, req)

	assert.Nil(t, resp)
	var vErr *apperrors.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Validation fails", err.Error())
}

func TestCreateAppointment_InvalidProvider(t *testing.T) {
	s, deps := setupTestService(t)
	ctx := context.Background()

	req := CreateAppointmentRequest{
		UserID:     3,
		ProviderID: 99,
		Date:       "2024-04-05T14:00:00Z",
	}

	deps.users.On("GetProvider", ctx, int64(99)).Return(nil, nil)

	resp, err := s.CreateAppointment(ctx, req)

	assert.Nil(t, resp)
	var uErr *apperrors.UnauthorizedError
	assert.ErrorAs(t, err, &uErr)
	assert.Equal(t, "You can only create appointments with a valid provider", err.Error())

	deps.users.AssertExpectations(t)
}

func TestCreateAppointment_PastDate(t *testing.T) {
	s, deps := setupTestService(t)
	ctx := context.Background()

	req := CreateAppointmentRequest{
		UserID:     3,
		ProviderID: 7,
		Date:       "2024-03-31T10:00:00Z",
	}

	deps.users.On("GetProvider", ctx, int64(7)).Return(provider(7, "Barber Joe"), nil)

	resp, err := s.CreateAppointment(ctx, req)

	assert.Nil(t, resp)
	var bErr *apperrors.BusinessRuleError
	assert.ErrorAs(t, err, &bErr)
	assert.Equal(t, "Past dates are not allowed", err.Error())
}

func TestCreateAppointment_CurrentHourIsPast(t *testing.T) {
	s, deps := setupTestService(t)
	ctx := context.Background()

	// 12:40 truncates to 12:00 which is not after the 12:00 clock
	req := CreateAppointmentRequest{
		UserID:     3,
		ProviderID: 7,
		Date:       "2024-04-01T12:40:00Z",
	}

	deps.users.On("GetProvider", ctx, int64(7)).Return(provider(7, "Barber Joe"), nil)

	resp, err := s.CreateAppointment(ctx, req)

	assert.Nil(t, resp)
	assert.Equal(t, "Past dates are not allowed", err.Error())
}

func TestCreateAppointment_SlotTaken(t *testing.T) {
	s, deps := setupTestService(t)
	ctx := context.Background()

	req := CreateAppointmentRequest{
		UserID:     3,
		ProviderID: 7,
		Date:       "2024-04-05T14:00:00Z",
	}
	slot := time.Date(2024, 4, 5, 14, 0, 0, 0, time.UTC)

	deps.users.On("GetProvider", ctx, int64(7)).Return(provider(7, "Barber Joe"), nil)
	deps.repo.On("FindActiveSlot", ctx, int64(7), slot).Return(
		&domain.Appointment{ID: 42, ProviderID: 7, Date: slot}, nil)

	resp, err := s.CreateAppointment(ctx, req)

	assert.Nil(t, resp)
	var bErr *apperrors.BusinessRuleError
	assert.ErrorAs(t, err, &bErr)
	assert.Equal(t, "Appointment date is not available", err.Error())
}

func TestCreateAppointment_SlotTakenByConcurrentInsert(t *testing.T) {
	s, deps := setupTestService(t)
	ctx := context.Background()

	req := CreateAppointmentRequest{
		UserID:     3,
		ProviderID: 7,
		Date:       "2024-04-05T14:00:00Z",
	}
	slot := time.Date(2024, 4, 5, 14, 0, 0, 0, time.UTC)

	deps.users.On("GetProvider", ctx, int64(7)).Return(provider(7, "Barber Joe"), nil)
	deps.repo.On("FindActiveSlot", ctx, int64(7), slot).Return(nil, nil)
	deps.repo.On("Create", ctx, mock.Anything).Return(int64(0), domain.ErrSlotTaken)

	resp, err := s.CreateAppointment(ctx, req)

	assert.Nil(t, resp)
	assert.Equal(t, "Appointment date is not available", err.Error())
}

func TestCreateAppointment_NonUTCOffsetNormalized(t *testing.T) {
	s, deps := setupTestService(t)
	ctx := context.Background()

	// 11:30-03:00 is 14:30 UTC, stored as the 14:00 UTC slot
	req := CreateAppointmentRequest{
		UserID:     3,
		ProviderID: 7,
		Date:       "2024-04-05T11:30:00-03:00",
	}
	slot := time.Date(2024, 4, 5, 14, 0, 0, 0, time.UTC)

	deps.users.On("GetProvider", ctx, int64(7)).Return(provider(7, "Barber Joe"), nil)
	deps.repo.On("FindActiveSlot", ctx, int64(7), slot).Return(nil, nil)
	deps.repo.On("Create", ctx, mock.MatchedBy(func(a *domain.Appointment) bool {
		return a.Date.Equal(slot)
	})).Return(int64(1), nil)
	deps.users.On("GetByID", ctx, int64(3)).Return(
		&userdomain.User{ID: 3, Name: "John Doe"}, nil)
	deps.notifications.On("Create", ctx, mock.Anything).Return(int64(1), nil)

	resp, err := s.CreateAppointment(ctx, req)

	assert.NoError(t, err)
	assert.True(t, resp.Appointment.Date.Equal(slot))
}

// ==================== LIST APPOINTMENTS TESTS ====================

func TestListAppointments_Success(t *testing.T) {
	s, deps := setupTestService(t)
	ctx := context.Background()

	avatar := &userdomain.File{ID: 5, Path: "abc.png", URL: "http://localhost:3333/files/abc.png"}
	stored := []domain.Appointment{
		{
			ID:         1,
			Date:       time.Date(2024, 4, 5, 14, 0, 0, 0, time.UTC),
			UserID:     3,
			ProviderID: 7,
			Provider:   &userdomain.User{ID: 7, Name: "Barber Joe", Avatar: avatar},
		},
	}

	deps.repo.On("ListUpcoming", ctx, int64(3), 1, 20).Return(stored, nil)

	resp, err := s.ListAppointments(ctx, ListAppointmentsRequest{UserID: 3, Page: 1})

	assert.NoError(t, err)
	assert.Len(t, resp.Appointments, 1)
	assert.Equal(t, "Barber Joe", resp.Appointments[0].Provider.Name)
	assert.Equal(t, "http://localhost:3333/files/abc.png", resp.Appointments[0].Provider.Avatar.URL)
}

func TestListAppointments_DefaultsPageToOne(t *testing.T) {
	s, deps := setupTestService(t)
	ctx := context.Background()

	deps.repo.On("ListUpcoming", ctx, int64(3), 1, 20).Return([]domain.Appointment{}, nil)

	resp, err := s.ListAppointments(ctx, ListAppointmentsRequest{UserID: 3})

	assert.NoError(t, err)
	assert.Empty(t, resp.Appointments)
	deps.repo.AssertExpectations(t)
}

// ==================== CANCEL APPOINTMENT TESTS ====================

func cancelableAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:         10,
		Date:       time.Date(2024, 4, 5, 14, 0, 0, 0, time.UTC),
		UserID:     3,
		ProviderID: 7,
		Provider:   &userdomain.User{ID: 7, Name: "Barber Joe", Email: "joe@example.com"},
		User:       &userdomain.User{ID: 3, Name: "John Doe", Email: "john@example.com"},
	}
}

func TestCancelAppointment_Success(t *testing.T) {
	s, deps := setupTestService(t)
	ctx := context.Background()

	deps.repo.On("GetByID", ctx, int64(10)).Return(cancelableAppointment(), nil)
	deps.repo.On("Cancel", ctx, int64(10), fixedNow).Return(nil)
	deps.queue.On("Enqueue", ctx, job.CancellationMail, mock.MatchedBy(func(p any) bool {
		payload, ok := p.(job.CancellationMailPayload)
		return ok &&
			payload.Appointment.ID == 10 &&
			payload.Appointment.Date == "2024-04-05T14:00:00Z" &&
			payload.Appointment.Provider.Name == "Barber Joe" &&
			payload.Appointment.Provider.Email == "joe@example.com" &&
			payload.Appointment.User.Name == "John Doe"
	})).Return(nil)

	resp, err := s.CancelAppointment(ctx, CancelAppointmentRequest{UserID: 3, AppointmentID: 10})

	assert.NoError(t, err)
	assert.NotNil(t, resp.Appointment.CanceledAt)
	assert.True(t, resp.Appointment.CanceledAt.Equal(fixedNow))

	deps.repo.AssertExpectations(t)
	deps.queue.AssertExpectations(t)
}

func TestCancelAppointment_NotFound(t *testing.T) {
	s, deps := setupTestService(t)
	ctx := context.Background()

	deps.repo.On("GetByID", ctx, int64(10)).Return(nil, nil)

	resp, err := s.CancelAppointment(ctx, CancelAppointmentRequest{UserID: 3, AppointmentID: 10})

	assert.Nil(t, resp)
	var nErr *apperrors.NotFoundError
	assert.ErrorAs(t, err, &nErr)
	assert.Equal(t, "Appointment not found", err.Error())
}

func TestCancelAppointment_NotOwner(t *testing.T) {
	s, deps := setupTestService(t)
	ctx := context.Background()

	deps.repo.On("GetByID", ctx, int64(10)).Return(cancelableAppointment(), nil)

	resp, err := s.CancelAppointment(ctx, CancelAppointmentRequest{UserID: 4, AppointmentID: 10})

	assert.Nil(t, resp)
	var uErr *apperrors.UnauthorizedError
	assert.ErrorAs(t, err, &uErr)
	assert.Equal(t, "You don't have permission to cancel this appointment", err.Error())
}

func TestCancelAppointment_AlreadyCanceled(t *testing.T) {
	s, deps := setupTestService(t)
	ctx := context.Background()

	a := cancelableAppointment()
	canceledAt := fixedNow.Add(-time.Hour)
	a.CanceledAt = &canceledAt
	deps.repo.On("GetByID", ctx, int64(10)).Return(a, nil)

	resp, err := s.CancelAppointment(ctx, CancelAppointmentRequest{UserID: 3, AppointmentID: 10})

	assert.Nil(t, resp)
	var bErr *apperrors.BusinessRuleError
	assert.ErrorAs(t, err, &bErr)
	assert.Equal(t, "Appointment is already canceled", err.Error())
}

func TestCancelAppointment_EnqueueFailure(t *testing.T) {
	s, deps := setupTestService(t)
	ctx := context.Background()

	deps.repo.On("GetByID", ctx, int64(10)).Return(cancelableAppointment(), nil)
	deps.repo.On("Cancel", ctx, int64(10), fixedNow).Return(nil)
	deps.queue.On("Enqueue", ctx, job.CancellationMail, mock.Anything).
		Return(errors.New("redis down"))

	resp, err := s.CancelAppointment(ctx, CancelAppointmentRequest{UserID: 3, AppointmentID: 10})

	assert.Nil(t, resp)
	var iErr *apperrors.InternalError
	assert.ErrorAs(t, err, &iErr)
}
