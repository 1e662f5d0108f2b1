package svr

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"potionportal.dev/backend/internal/app/appconfig"
	"potionportal.dev/backend/internal/pkg/pperr"
)

type V1 struct {
	fiber.Router
}

type Meta struct {
	fiber.Router
}

type Admin struct {
	fiber.Router
}

func CreateEndpointGroups(app *fiber.App, conf *appconfig.Config) (*V1, *Meta, *Admin) {
	v1 := app.Group("/api/v1")
	meta := app.Group("/api/_")
	admin := meta.Group("/admin", adminAuth(conf.AdminKey))

	return &V1{Router: v1}, &Meta{Router: meta}, &Admin{Router: admin}
}

var errAdminUnauthorized = pperr.New(fiber.StatusUnauthorized, "UNAUTHORIZED", "a valid admin key is required")

// adminAuth guards admin endpoints with a bearer key. An empty key leaves them open.
func adminAuth(key string) fiber.Handler {
	if key == "" {
		log.Warn().Str("evt.name", "admin.open").Msg("admin endpoints are not protected: AdminKey is empty")
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return func(c *fiber.Ctx) error {
		token := strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
		if subtle.ConstantTimeCompare([]byte(token), []byte(key)) != 1 {
			return errAdminUnauthorized
		}
		return c.Next()
	}
}
