package middleware // middleware provides shared request processing for handlers

import (
    "net/http"

    "github.com/labstack/echo/v4"
)

// RequireRole returns a middleware function that enforces that the
// authenticated user has one of the specified roles.  It assumes JWTAuth
// has already stored the role in the context.  Callers outside the
// allowed set get a 403 with a generic message.
func RequireRole(roles ...string) echo.MiddlewareFunc {
    return RequireRoleWithMessage("Forbidden", roles...)
}

// RequireRoleWithMessage is RequireRole with a route-specific 403 message.
func RequireRoleWithMessage(message string, roles ...string) echo.MiddlewareFunc {
    allowed := make(map[string]bool, len(roles))
    for _, r := range roles {
        allowed[r] = true
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if !allowed[Role(c)] {
                return c.JSON(http.StatusForbidden, echo.Map{"status": false, "message": message})
            }
            return next(c)
        }
    }
}
