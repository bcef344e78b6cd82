package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/tourist-event-booking/internal/utils"
)

// Context keys populated by JWTAuth.
const (
    CtxUserID = "user_id"
    CtxRole   = "role"
    CtxName   = "name"
)

// unauthorized is the single answer for a missing, malformed, forged or
// expired bearer token.
func unauthorized(c echo.Context) error {
    return c.JSON(http.StatusUnauthorized, echo.Map{"status": false, "message": "Unauthorized"})
}

// JWTAuth returns an Echo middleware that validates a Bearer access token and
// injects the caller's id, role and name into the request context.  The
// provided secret must match the one used when issuing tokens.  Handlers read
// the values back through UserID and Role.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get(echo.HeaderAuthorization)
            if !strings.HasPrefix(auth, "Bearer ") {
                return unauthorized(c)
            }
            raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
            if raw == "" {
                return unauthorized(c)
            }

            id, err := utils.ParseAccessToken(secret, raw)
            if err != nil {
                return unauthorized(c)
            }

            c.Set(CtxUserID, id.UserID)
            c.Set(CtxRole, id.Role)
            c.Set(CtxName, id.Name)
            return next(c)
        }
    }
}
