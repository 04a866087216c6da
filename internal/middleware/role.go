package middleware // middleware provides shared request processing for handlers

import (
    "net/http" // http package defines standard HTTP status codes
    "strings"  // strings normalises role names

    "github.com/labstack/echo/v4" // echo provides middleware chaining and context
)

// RoleOwner is the role allowed to author seat maps.
const RoleOwner = "OWNER"

// RequireRole returns a middleware function that enforces that the
// authenticated user has one of the specified roles.  Roles compare without
// regard to case, so "owner" and "OWNER" are the same role.  It assumes
// JWTAuth has already stored the role under the "role" key.
func RequireRole(roles ...string) echo.MiddlewareFunc {
    allowed := make(map[string]bool, len(roles))
    for _, r := range roles {
        allowed[strings.ToUpper(r)] = true
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            role, ok := c.Get("role").(string)
            if !ok || !allowed[strings.ToUpper(role)] {
                return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
            }
            return next(c)
        }
    }
}
