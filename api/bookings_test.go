package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nattawatz/flightdesk/internal/domain"
	"github.com/nattawatz/flightdesk/internal/service/booking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) CreateBooking(ctx context.Context, input booking.CreateBookingInput) (*booking.BookingResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.BookingResult), args.Error(1)
}

func (m *MockBookingService) UpdateBooking(ctx context.Context, reservationID int64, input booking.UpdateBookingInput) error {
	args := m.Called(ctx, reservationID, input)
	return args.Error(0)
}

func (m *MockBookingService) CancelBooking(ctx context.Context, reservationID int64) error {
	args := m.Called(ctx, reservationID)
	return args.Error(0)
}

func (m *MockBookingService) DeleteBooking(ctx context.Context, reservationID int64) error {
	args := m.Called(ctx, reservationID)
	return args.Error(0)
}

func (m *MockBookingService) GetReservation(ctx context.Context, reservationID int64) (*domain.Reservation, error) {
	args := m.Called(ctx, reservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockBookingService) ListReservations(ctx context.Context) ([]domain.Reservation, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

func (m *MockBookingService) ListPassengerCandidates(ctx context.Context, flightID int64) ([]domain.PassengerCandidate, error) {
	args := m.Called(ctx, flightID)
	return args.Get(0).([]domain.PassengerCandidate), args.Error(1)
}

func (m *MockBookingService) ExpireStalePending(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	return args.Get(0).([]int64), args.Error(1)
}

func newBookingRouter(service booking.BookingUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewBookingHandler(service).Register(router.Group("/reservations"))
	return router
}

func TestBookingHandler_Create(t *testing.T) {
	service := &MockBookingService{}
	router := newBookingRouter(service)

	service.On("CreateBooking", mock.Anything, mock.MatchedBy(func(input booking.CreateBookingInput) bool {
		return input.UserID == 7 &&
			input.FlightID == 3 &&
			input.SeatNumber == "A1" &&
			input.Status == domain.ReservationStatusConfirmed &&
			input.Passenger != nil &&
			input.Passenger.FirstName == "Ada" &&
			input.Passenger.BirthDate.Equal(time.Date(1990, 12, 10, 0, 0, 0, 0, time.UTC))
	})).Return(&booking.BookingResult{ReservationID: 42, Reference: "ref-42", SeatID: 11, AmountCents: 100000}, nil).Once()

	body := map[string]interface{}{
		"user_id":      7,
		"flight_id":    3,
		"seat_number":  "A1",
		"status":       "Confirmed",
		"booking_date": "2025-05-15T08:00:00Z",
		"passenger": map[string]string{
			"first_name":      "Ada",
			"last_name":       "Lovelace",
			"nationality":     "GB",
			"birth_date":      "1990-12-10",
			"passport_number": "P1234567",
			"address":         "12 Byron St, London",
		},
	}
	payload, _ := json.Marshal(body)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/reservations/", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp createReservationResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(42), resp.ReservationID)
	assert.Equal(t, "ref-42", resp.Reference)
	assert.Equal(t, int64(11), resp.SeatID)
	assert.Equal(t, int64(100000), resp.AmountCents)
	service.AssertExpectations(t)
}

func TestBookingHandler_Create_SeatUnavailable(t *testing.T) {
	service := &MockBookingService{}
	router := newBookingRouter(service)

	service.On("CreateBooking", mock.Anything, mock.Anything).Return(nil, domain.ErrSeatUnavailable).Once()

	body := map[string]interface{}{
		"user_id":      7,
		"flight_id":    3,
		"seat_number":  "A1",
		"status":       "Pending",
		"booking_date": "2025-05-15T08:00:00Z",
	}
	payload, _ := json.Marshal(body)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/reservations/", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestBookingHandler_Create_InvalidBirthDate(t *testing.T) {
	service := &MockBookingService{}
	router := newBookingRouter(service)

	body := map[string]interface{}{
		"user_id":      7,
		"flight_id":    3,
		"seat_number":  "A1",
		"status":       "Confirmed",
		"booking_date": "2025-05-15T08:00:00Z",
		"passenger": map[string]string{
			"first_name": "Ada",
			"birth_date": "10/12/1990",
		},
	}
	payload, _ := json.Marshal(body)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/reservations/", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	service.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
}

func TestBookingHandler_Get(t *testing.T) {
	service := &MockBookingService{}
	router := newBookingRouter(service)

	res := &domain.Reservation{
		ID:          42,
		Reference:   "ref-42",
		UserID:      7,
		FlightID:    3,
		SeatID:      11,
		Status:      domain.ReservationStatusConfirmed,
		BookingDate: time.Date(2025, 5, 15, 8, 0, 0, 0, time.UTC),
	}
	service.On("GetReservation", mock.Anything, int64(42)).Return(res, nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/reservations/42", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp reservationResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(42), resp.ID)
	assert.Equal(t, "Confirmed", resp.Status)
}

func TestBookingHandler_Get_NotFound(t *testing.T) {
	service := &MockBookingService{}
	router := newBookingRouter(service)

	service.On("GetReservation", mock.Anything, int64(404)).Return(nil, domain.ErrReservationNotFound).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/reservations/404", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookingHandler_Get_InvalidID(t *testing.T) {
	service := &MockBookingService{}
	router := newBookingRouter(service)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/reservations/abc", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	service.AssertNotCalled(t, "GetReservation", mock.Anything, mock.Anything)
}

func TestBookingHandler_Update_InvalidTransition(t *testing.T) {
	service := &MockBookingService{}
	router := newBookingRouter(service)

	service.On("UpdateBooking", mock.Anything, int64(42), mock.Anything).Return(domain.ErrInvalidStatusTransition).Once()

	body := map[string]interface{}{
		"user_id":      7,
		"flight_id":    3,
		"seat_number":  "A1",
		"status":       "Confirmed",
		"booking_date": "2025-05-15T08:00:00Z",
	}
	payload, _ := json.Marshal(body)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/reservations/42", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingHandler_Cancel(t *testing.T) {
	service := &MockBookingService{}
	router := newBookingRouter(service)

	service.On("CancelBooking", mock.Anything, int64(42)).Return(nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/reservations/42/cancel", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	service.AssertExpectations(t)
}

func TestBookingHandler_Delete_MustCancelFirst(t *testing.T) {
	service := &MockBookingService{}
	router := newBookingRouter(service)

	service.On("DeleteBooking", mock.Anything, int64(42)).Return(domain.ErrMustCancelFirst).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/reservations/42", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestBookingHandler_PassengerCandidates(t *testing.T) {
	service := &MockBookingService{}
	router := newBookingRouter(service)

	candidates := []domain.PassengerCandidate{
		{ReservationID: 42, SeatID: 11, SeatNumber: "A1"},
	}
	service.On("ListPassengerCandidates", mock.Anything, int64(3)).Return(candidates, nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/reservations/passenger-candidates/3", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp []struct {
		ReservationID int64  `json:"reservation_id"`
		SeatID        int64  `json:"seat_id"`
		SeatNumber    string `json:"seat_number"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp, 1)
	assert.Equal(t, int64(42), resp[0].ReservationID)
	assert.Equal(t, "A1", resp[0].SeatNumber)
}
