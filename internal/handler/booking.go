package handler

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/tourist-event-booking/internal/model"
	"github.com/iliyamo/tourist-event-booking/internal/ticket"
)

// BookingHandler serves the tourist booking endpoints.
type BookingHandler struct {
	Bookings BookingAPI
}

func NewBookingHandler(b BookingAPI) *BookingHandler {
	return &BookingHandler{Bookings: b}
}

type bookingReq struct {
	EventID         uint64 `json:"eventId" validate:"required,gte=1"`
	PriceCategoryID uint64 `json:"priceCategoryId" validate:"required,gte=1"`
	TicketCount     int    `json:"ticketCount" validate:"required,gte=1"`
	PaymentAmount   *int64 `json:"paymentAmount" validate:"required,gte=0"`
}

// EventBooking: POST /eventBooking.
func (h *BookingHandler) EventBooking(c echo.Context) error {
	uid, err := caller(c)
	if err != nil {
		return err
	}
	var req bookingReq
	if err := bindValid(c, &req); err != nil {
		return err
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Bookings.BookEvent(ctx, uid, model.BookingRequest{
		EventID:         req.EventID,
		PriceCategoryID: req.PriceCategoryID,
		TicketCount:     req.TicketCount,
		PaymentAmount:   *req.PaymentAmount,
	}); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"status": true, "message": "Booking Success"})
}

// GetBookings: the caller's bookings, newest payment first.
func (h *BookingHandler) GetBookings(c echo.Context) error {
	uid, err := caller(c)
	if err != nil {
		return err
	}
	p, err := pageFromQuery(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	page, err := h.Bookings.ListForCaller(ctx, uid, p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":      true,
		"currentPage": page.CurrentPage,
		"totalPages":  page.TotalPages,
		"total":       page.Total,
		"bookings":    page.Bookings,
	})
}

// GetBooking: one booking with its event, price category and tourist.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	id, err := pathID(c, "id", "Invalid booking ID")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	b, err := h.Bookings.GetBooking(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"status": true, "booking": b})
}

// GetBookingsByTourist: every booking of a tourist.
func (h *BookingHandler) GetBookingsByTourist(c echo.Context) error {
	id, err := pathID(c, "id", "Invalid tourist ID")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Bookings.ListByTourist(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"status": true, "bookings": list})
}

// Ticket streams the PDF ticket of one of the caller's bookings.
func (h *BookingHandler) Ticket(c echo.Context) error {
	uid, err := caller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", "Invalid booking ID")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	d, err := h.Bookings.TicketFor(ctx, uid, id)
	if err != nil {
		return err
	}
	pdf, filename, err := ticket.Render(d)
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Stream(http.StatusOK, "application/pdf", bytes.NewReader(pdf))
}
