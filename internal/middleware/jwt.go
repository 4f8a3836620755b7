package middleware // middleware holds the echo middleware shared by the route groups

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-booking-client/internal/utils"
)

// VisitorAuth validates the Bearer visitor token and stores its subject and
// role in the context under "visitor_id" and "role".  Every per-visitor
// route sits behind it; handlers read the id through VisitorID.
func VisitorAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing visitor token"})
			}
			id, role, err := utils.ParseVisitorToken(secret, strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid visitor token"})
			}
			c.Set(ctxVisitorID, id)
			c.Set(ctxRole, role)
			return next(c)
		}
	}
}
