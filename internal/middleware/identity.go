package middleware

// identity.go reads back what JWTAuth stored in the Echo context.  Public
// routes have no identity; the rate limiter keys them as "anon".

import (
    "strconv"

    "github.com/labstack/echo/v4"
)

// UserID returns the authenticated caller id.
func UserID(c echo.Context) (uint64, bool) {
    switch v := c.Get(CtxUserID).(type) {
    case uint64:
        return v, v > 0
    case int64:
        return uint64(v), v > 0
    case int:
        return uint64(v), v > 0
    case float64:
        return uint64(v), v >= 1
    case string:
        id, err := strconv.ParseUint(v, 10, 64)
        return id, err == nil && id > 0
    default:
        return 0, false
    }
}

// Role returns the authenticated caller role, or "".
func Role(c echo.Context) string {
    r, _ := c.Get(CtxRole).(string)
    return r
}

// userKey is the caller id as a string for limiter keys.
func userKey(c echo.Context) string {
    if id, ok := UserID(c); ok {
        return strconv.FormatUint(id, 10)
    }
    return "anon"
}
