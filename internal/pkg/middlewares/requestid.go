package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"potionportal.dev/backend/internal/constant"
	"potionportal.dev/backend/internal/pkg/flog"
)

// RequestID exposes the request id assigned by flog through fiber locals.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id, ok := flog.IDFromFiberCtx(c); ok {
			c.Locals(constant.ContextKeyRequestID, id.String())
		}
		return c.Next()
	}
}
