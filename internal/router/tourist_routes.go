package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/tourist-event-booking/internal/handler"
	"github.com/iliyamo/tourist-event-booking/internal/middleware"
	"github.com/iliyamo/tourist-event-booking/internal/model"
)

// RegisterTourist registers the booking endpoints.  Booking, listing one's
// own bookings and downloading tickets require the TOURIST role; the two
// lookups by id only need a valid token.
func RegisterTourist(e *echo.Echo, h *handler.BookingHandler, jwtSecret string) {
	auth := middleware.JWTAuth(jwtSecret)

	e.POST("/eventBooking", h.EventBooking,
		auth, middleware.RequireRoleWithMessage("Only tourist users can book events", model.RoleTourist))
	e.GET("/getBookings", h.GetBookings,
		auth, middleware.RequireRoleWithMessage("Only tourists can view bookings.", model.RoleTourist))
	e.GET("/getBooking/:id/ticket", h.Ticket,
		auth, middleware.RequireRole(model.RoleTourist))

	e.GET("/getBooking/:id", h.GetBooking, auth)
	e.GET("/getBookingByTouristId/:id", h.GetBookingsByTourist, auth)
}
