// Package handler exposes the HTTP endpoints.  Handlers bind and validate
// the request, call one service method under a short deadline and write
// the {status:true, ...} envelope.  Errors are returned to echo and
// rendered by ErrorHandler.
package handler

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/tourist-event-booking/internal/apperr"
	"github.com/iliyamo/tourist-event-booking/internal/middleware"
	"github.com/iliyamo/tourist-event-booking/internal/model"
	"github.com/iliyamo/tourist-event-booking/internal/service"
	"github.com/iliyamo/tourist-event-booking/internal/utils"
)

// dbTimeout bounds the store work behind a single request.
const dbTimeout = 5 * time.Second

// AuthAPI is implemented by *service.AuthService.
type AuthAPI interface {
	Signup(ctx context.Context, in service.SignupInput) (uint64, error)
	Signin(ctx context.Context, email, password string) (service.SigninResult, error)
	UpdateProfile(ctx context.Context, callerID, userID uint64, in service.ProfileInput) (model.User, error)
	UserDetails(ctx context.Context, callerID uint64) (model.User, error)
	TouristProfile(ctx context.Context, touristID uint64) (model.PublicProfile, error)
}

// BookingAPI is implemented by *service.BookingService.
type BookingAPI interface {
	BookEvent(ctx context.Context, callerID uint64, req model.BookingRequest) (model.Booking, error)
	ListForCaller(ctx context.Context, callerID uint64, p utils.Page) (service.BookingPage, error)
	GetBooking(ctx context.Context, id uint64) (model.BookingDetail, error)
	ListByTourist(ctx context.Context, touristID uint64) ([]model.BookingWithEvent, error)
	TicketFor(ctx context.Context, callerID, bookingID uint64) (model.BookingDetail, error)
}

// EventAPI is implemented by *service.EventService.
type EventAPI interface {
	ListEvents(ctx context.Context, p utils.Page) (service.EventPage, error)
	UpdateEvent(ctx context.Context, callerID uint64, role string, eventID uint64, name, location *string) (model.Event, error)
}

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// caller returns the id JWTAuth stored.  Routes without JWTAuth never
// reach here.
func caller(c echo.Context) (uint64, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return 0, apperr.Authentication("Unauthorized")
	}
	return id, nil
}

func pageFromQuery(c echo.Context) (utils.Page, error) {
	p, err := utils.ParsePage(c.QueryParam("page"), c.QueryParam("limit"))
	if err != nil {
		return utils.Page{}, apperr.Validation(err.Error())
	}
	return p, nil
}
