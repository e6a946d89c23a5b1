package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nattawatz/flightdesk/internal/domain"
	"github.com/nattawatz/flightdesk/internal/service/booking"
)

const birthDateLayout = "2006-01-02"

type BookingHandler struct {
	service booking.BookingUseCase
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/", h.list)
	router.GET("/:id", h.get)
	router.PUT("/:id", h.update)
	router.POST("/:id/cancel", h.cancel)
	router.DELETE("/:id", h.remove)
	router.GET("/passenger-candidates/:flightID", h.passengerCandidates)
}

type passengerRequest struct {
	FirstName      string `json:"first_name"`
	MiddleName     string `json:"middle_name"`
	LastName       string `json:"last_name"`
	Nationality    string `json:"nationality"`
	BirthDate      string `json:"birth_date"`
	PassportNumber string `json:"passport_number"`
	Address        string `json:"address"`
}

func (p *passengerRequest) toInfo() (*booking.PassengerInfo, error) {
	if p == nil {
		return nil, nil
	}
	var birth time.Time
	if p.BirthDate != "" {
		parsed, err := time.Parse(birthDateLayout, p.BirthDate)
		if err != nil {
			return nil, err
		}
		birth = parsed
	}
	return &booking.PassengerInfo{
		FirstName:      p.FirstName,
		MiddleName:     p.MiddleName,
		LastName:       p.LastName,
		Nationality:    p.Nationality,
		BirthDate:      birth,
		PassportNumber: p.PassportNumber,
		Address:        p.Address,
	}, nil
}

type createReservationRequest struct {
	UserID        int64             `json:"user_id"`
	FlightID      int64             `json:"flight_id"`
	SeatNumber    string            `json:"seat_number"`
	Status        string            `json:"status"`
	BookingDate   time.Time         `json:"booking_date"`
	PaymentMethod string            `json:"payment_method"`
	PaymentDate   time.Time         `json:"payment_date"`
	Passenger     *passengerRequest `json:"passenger"`
}

type updateReservationRequest struct {
	UserID      int64             `json:"user_id"`
	FlightID    int64             `json:"flight_id"`
	SeatNumber  string            `json:"seat_number"`
	Status      string            `json:"status"`
	BookingDate time.Time         `json:"booking_date"`
	Passenger   *passengerRequest `json:"passenger"`
}

type createReservationResponse struct {
	ReservationID int64  `json:"reservation_id"`
	Reference     string `json:"reference"`
	SeatID        int64  `json:"seat_id"`
	AmountCents   int64  `json:"amount_cents"`
}

type reservationResponse struct {
	ID          int64  `json:"id"`
	Reference   string `json:"reference"`
	UserID      int64  `json:"user_id"`
	FlightID    int64  `json:"flight_id"`
	SeatID      int64  `json:"seat_id"`
	Status      string `json:"status"`
	BookingDate string `json:"booking_date"`
}

func toReservationResponse(r *domain.Reservation) reservationResponse {
	return reservationResponse{
		ID:          r.ID,
		Reference:   r.Reference,
		UserID:      r.UserID,
		FlightID:    r.FlightID,
		SeatID:      r.SeatID,
		Status:      string(r.Status),
		BookingDate: r.BookingDate.Format(time.RFC3339),
	}
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	passenger, err := req.Passenger.toInfo()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid birth_date"})
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), booking.CreateBookingInput{
		UserID:        req.UserID,
		FlightID:      req.FlightID,
		SeatNumber:    req.SeatNumber,
		Status:        domain.ReservationStatus(req.Status),
		BookingDate:   req.BookingDate,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		PaymentDate:   req.PaymentDate,
		Passenger:     passenger,
	})
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, createReservationResponse{
		ReservationID: result.ReservationID,
		Reference:     result.Reference,
		SeatID:        result.SeatID,
		AmountCents:   result.AmountCents,
	})
}

func (h *BookingHandler) list(c *gin.Context) {
	reservations, err := h.service.ListReservations(c.Request.Context())
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	out := make([]reservationResponse, 0, len(reservations))
	for i := range reservations {
		out = append(out, toReservationResponse(&reservations[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *BookingHandler) get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	res, err := h.service.GetReservation(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toReservationResponse(res))
}

func (h *BookingHandler) update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req updateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	passenger, err := req.Passenger.toInfo()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid birth_date"})
		return
	}

	if err := h.service.UpdateBooking(c.Request.Context(), id, booking.UpdateBookingInput{
		UserID:      req.UserID,
		FlightID:    req.FlightID,
		SeatNumber:  req.SeatNumber,
		Status:      domain.ReservationStatus(req.Status),
		BookingDate: req.BookingDate,
		Passenger:   passenger,
	}); err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "reservation updated"})
}

func (h *BookingHandler) cancel(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.CancelBooking(c.Request.Context(), id); err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "reservation canceled"})
}

func (h *BookingHandler) remove(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteBooking(c.Request.Context(), id); err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "reservation deleted"})
}

func (h *BookingHandler) passengerCandidates(c *gin.Context) {
	flightID, ok := parseID(c, "flightID")
	if !ok {
		return
	}

	candidates, err := h.service.ListPassengerCandidates(c.Request.Context(), flightID)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	type candidateResponse struct {
		ReservationID int64  `json:"reservation_id"`
		SeatID        int64  `json:"seat_id"`
		SeatNumber    string `json:"seat_number"`
	}
	out := make([]candidateResponse, 0, len(candidates))
	for _, cand := range candidates {
		out = append(out, candidateResponse{
			ReservationID: cand.ReservationID,
			SeatID:        cand.SeatID,
			SeatNumber:    cand.SeatNumber,
		})
	}
	c.JSON(http.StatusOK, out)
}

func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + param})
		return 0, false
	}
	return id, true
}
