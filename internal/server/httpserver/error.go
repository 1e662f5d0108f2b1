package httpserver

import (
	"errors"
	"strconv"

	"github.com/gofiber/contrib/fibersentry"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"potionportal.dev/backend/internal/pkg/flog"
	"potionportal.dev/backend/internal/pkg/pperr"
)

func handleCustomError(ctx *fiber.Ctx, e *pperr.PortalError) error {
	flog.WarnFrom(ctx).
		Err(e).
		Str("method", ctx.Method()).
		Str("path", ctx.Path()).
		Msg(e.Message)

	body := fiber.Map{
		"code":    e.ErrorCode,
		"message": e.Message,
	}

	if e.Extras != nil {
		for k, v := range *e.Extras {
			body[k] = v
		}
	}

	return ctx.Status(e.StatusCode).JSON(body)
}

func ErrorHandler(ctx *fiber.Ctx, err error) error {
	var pe *pperr.PortalError
	if errors.As(err, &pe) {
		return handleCustomError(ctx, pe)
	}

	re := *pperr.ErrInternalError

	var fe *fiber.Error
	if errors.As(err, &fe) {
		re.StatusCode = fe.Code
		re.ErrorCode = "UNKNOWN_ERROR"
		re.Message = fe.Message
		if fe.Code == fiber.StatusNotFound {
			re.ErrorCode = pperr.CodeNotFound
		}
		if fe.Code < fiber.StatusInternalServerError {
			return handleCustomError(ctx, &re)
		}
	}

	log.Error().
		Stack().
		Err(err).
		Str("method", ctx.Method()).
		Str("path", ctx.Path()).
		Int("status", re.StatusCode).
		Msg("Internal Server Error")

	if hub := fibersentry.GetHubFromContext(ctx); hub != nil {
		hub.Scope().SetTag("status", strconv.Itoa(re.StatusCode))
		hub.CaptureException(err)
	}

	return handleCustomError(ctx, &re)
}
