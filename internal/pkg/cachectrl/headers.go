package cachectrl

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Versioned marks a response derived from one dataset version as cacheable until the
// dataset changes. Clients revalidate through the ETag.
func Versioned(ctx *fiber.Ctx, version string, lastModified time.Time) {
	ctx.Set(fiber.HeaderCacheControl, "public, max-age=0, must-revalidate")
	ctx.Set(fiber.HeaderETag, strconv.Quote(version))
	ctx.Response().Header.SetLastModified(lastModified)
}

// OptOut forbids caching, for responses that move with the playback cursor.
func OptOut(ctx *fiber.Ctx) {
	ctx.Set(fiber.HeaderCacheControl, "no-cache, no-store, must-revalidate")
	ctx.Set("Pragma", "no-cache")
	ctx.Set(fiber.HeaderExpires, "0")
}
