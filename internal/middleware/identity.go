package middleware

// identity.go defines helpers shared across middleware files.

import (
    "strconv"

    "github.com/labstack/echo/v4"
)

// userID returns the caller id stored by JWTAuth as a string, or "anon" on
// public routes.
func userID(c echo.Context) string {
    switch v := c.Get("user_id").(type) {
    case string:
        if v != "" {
            return v
        }
    case float64:
        return strconv.FormatFloat(v, 'f', -1, 64)
    case uint64:
        return strconv.FormatUint(v, 10)
    case int:
        return strconv.Itoa(v)
    }
    return "anon"
}
