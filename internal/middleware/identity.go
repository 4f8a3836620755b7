package middleware

import "github.com/labstack/echo/v4"

const (
	ctxVisitorID = "visitor_id"
	ctxRole      = "role"
)

// VisitorID returns the visitor set by VisitorAuth, or "" on routes that
// do not require one.
func VisitorID(c echo.Context) string {
	if v, ok := c.Get(ctxVisitorID).(string); ok {
		return v
	}
	return ""
}

// Role returns the visitor role set by VisitorAuth.
func Role(c echo.Context) string {
	if v, ok := c.Get(ctxRole).(string); ok {
		return v
	}
	return ""
}

// visitorOrIP keys anonymous requests by client address.
func visitorOrIP(c echo.Context) string {
	if id := VisitorID(c); id != "" {
		return "visitor:" + id
	}
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	return "ip:" + ip
}
