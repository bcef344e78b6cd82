package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/tourist-event-booking/internal/handler"    // event handlers
	"github.com/iliyamo/tourist-event-booking/internal/middleware" // JWT + role middlewares
	"github.com/iliyamo/tourist-event-booking/internal/model"
)

// RegisterBusiness registers BUSINESS-scoped endpoints.  Ownership of the
// event is checked by the service.
func RegisterBusiness(e *echo.Echo, h *handler.EventHandler, jwtSecret string) {
	e.PUT("/updateEvent/:id", h.UpdateEvent,
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRoleWithMessage("Only business users can update events", model.RoleBusiness),
	)
}
