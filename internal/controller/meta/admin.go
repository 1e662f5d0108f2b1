package meta

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"

	"potionportal.dev/backend/internal/pkg/flog"
	"potionportal.dev/backend/internal/server/svr"
	"potionportal.dev/backend/internal/service"
)

type AdminController struct {
	fx.In

	PipelineService *service.Pipeline
}

func RegisterAdmin(admin *svr.Admin, c AdminController) {
	admin.Post("/purge", c.PurgeCache)
}

// PurgeCache drops every memoized snapshot; the next read recomputes.
func (c *AdminController) PurgeCache(ctx *fiber.Ctx) error {
	n := c.PipelineService.Purge()
	flog.InfoFrom(ctx).Str("evt.name", "admin.purge").Int("purged", n).Msg("snapshot cache purged")

	return ctx.JSON(fiber.Map{
		"purged": n,
	})
}
