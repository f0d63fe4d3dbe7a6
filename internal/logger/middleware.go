package logger

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDKey = "requestid"

// RequestID tags every request with an X-Request-ID, generating a UUID when the client sent none.
func RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     fiber.HeaderXRequestID,
		Generator:  uuid.NewString,
		ContextKey: requestIDKey,
	})
}

// RequestIDFrom returns a copy of the request id stored by RequestID, or "".
// An id echoed from the client header points into the request buffer.
func RequestIDFrom(c *fiber.Ctx) string {
	if v, ok := c.Locals(requestIDKey).(string); ok {
		return utils.CopyString(v)
	}
	return ""
}

// FromCtx returns the global logger with the request id attached.
func FromCtx(c *fiber.Ctx) *zap.Logger {
	reqID := RequestIDFrom(c)
	if reqID == "" {
		return L()
	}
	return L().With(zap.String("request_id", reqID))
}

// AccessLog logs one line per request after the handler chain has run.
// Ctx strings are copied since a buffering core may outlive the request.
func AccessLog() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}

		FromCtx(c).Info("incoming request",
			zap.String("method", c.Method()),
			zap.String("path", utils.CopyString(c.Path())),
			zap.Int("status", status),
			zap.String("ip", c.IP()),
			zap.Duration("duration", time.Since(start)),
		)
		return err
	}
}
