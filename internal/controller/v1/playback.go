package v1

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"

	"potionportal.dev/backend/internal/pkg/cachectrl"
	"potionportal.dev/backend/internal/server/svr"
	"potionportal.dev/backend/internal/service"
	"potionportal.dev/backend/internal/util/rekuest"
)

type Playback struct {
	fx.In

	PlaybackService *service.Playback
}

func RegisterPlayback(v1 *svr.V1, c Playback) {
	playback := v1.Group("/playback", func(ctx *fiber.Ctx) error {
		cachectrl.OptOut(ctx)
		return ctx.Next()
	})

	playback.Get("/", c.GetState)
	playback.Post("/play", c.state(c.PlaybackService.Play))
	playback.Post("/pause", c.state(c.PlaybackService.Pause))
	playback.Post("/toggle", c.state(c.PlaybackService.Toggle))
	playback.Post("/reset", c.state(c.PlaybackService.Reset))
	playback.Post("/seek", c.Seek)
}

func (c *Playback) GetState(ctx *fiber.Ctx) error {
	return ctx.JSON(c.PlaybackService.State())
}

func (c *Playback) state(f func() service.PlaybackState) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		return ctx.JSON(f())
	}
}

type SeekRequest struct {
	Minute *int `json:"minute" validate:"required,gte=0,lte=1439"`
}

// Seek moves the cursor to the minute given in the body. The minute query parameter is
// accepted as well.
func (c *Playback) Seek(ctx *fiber.Ctx) error {
	minute, ok, err := rekuest.ValidMinute(ctx, "minute")
	if err != nil {
		return err
	}
	if !ok {
		var req SeekRequest
		if err := rekuest.ValidBody(ctx, &req); err != nil {
			return err
		}
		minute = *req.Minute
	}

	state, err := c.PlaybackService.Seek(minute)
	if err != nil {
		return err
	}
	return ctx.JSON(state)
}
