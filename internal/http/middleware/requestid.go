package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the request ID on both the request and the
	// response.
	RequestIDHeader = "X-Request-ID"
	// RequestIDLocalKey is where the ID lives in Fiber's context locals,
	// for the logger and the error envelope to pick up.
	RequestIDLocalKey = "request_id"
)

// RequestID tags every request with an ID so log lines and error
// responses can be correlated. An incoming X-Request-ID is kept as-is;
// requests without one get a fresh UUID.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(RequestIDLocalKey, id)
		c.Set(RequestIDHeader, id)
		return c.Next()
	}
}
