package v1

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"

	"potionportal.dev/backend/internal/pkg/cachectrl"
	"potionportal.dev/backend/internal/pkg/flog"
	"potionportal.dev/backend/internal/pkg/pperr"
	"potionportal.dev/backend/internal/pkg/upstream"
	"potionportal.dev/backend/internal/server/svr"
)

type Proxy struct {
	fx.In

	UpstreamClient *upstream.Client
}

func RegisterProxy(v1 *svr.V1, c Proxy) {
	v1.Get("/proxy/data", c.GetData)
}

// GetData passes the upstream level history through untouched.
func (c *Proxy) GetData(ctx *fiber.Ctx) error {
	body, err := c.UpstreamClient.Get(ctx.UserContext(), upstream.PathData)
	if err != nil {
		flog.WarnFrom(ctx).Err(err).Str("evt.name", "proxy.data.failed").Msg("failed to proxy upstream data")
		return pperr.ErrUpstreamUnavailable.Msg("failed to fetch upstream data: %s", err)
	}
	cachectrl.OptOut(ctx)
	ctx.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)

	return ctx.Send(body)
}
