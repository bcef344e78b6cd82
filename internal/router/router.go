package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/tourist-event-booking/internal/handler"    // HTTP handlers
	"github.com/iliyamo/tourist-event-booking/internal/middleware" // JWT, role and cache middleware
)

// RegisterRoutes registers routes that need no session: the health check,
// the public event catalog and public tourist profiles.  cache wraps
// /getAllEvents; pass nil to serve it uncached.
func RegisterRoutes(e *echo.Echo, health echo.HandlerFunc, ev *handler.EventHandler, a *handler.AuthHandler, cache echo.MiddlewareFunc) {
	e.GET("/healthz", health)

	if cache != nil {
		e.GET("/getAllEvents", ev.GetAllEvents, cache)
	} else {
		e.GET("/getAllEvents", ev.GetAllEvents)
	}
	e.GET("/touristProfile/:id", a.TouristProfile)
}

// RegisterAuth registers signup and signin, plus the account endpoints
// that any signed-in user may call.  Routes carry their middleware
// individually instead of sharing a prefix group, so unknown paths still
// answer 404 rather than 401.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	e.POST("/signup", a.Signup)
	e.POST("/signin", a.Signin)

	auth := middleware.JWTAuth(jwtSecret)
	e.PUT("/updateProfile/:userId", a.UpdateProfile, auth)
	e.GET("/userDetails", a.UserDetails, auth)
}
