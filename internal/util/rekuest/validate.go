package rekuest

import (
	"errors"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"potionportal.dev/backend/internal/constant"
	"potionportal.dev/backend/internal/pkg/pperr"
	"potionportal.dev/backend/internal/util"
)

var (
	Validate = util.NewValidator()

	translator ut.Translator
)

func init() {
	translator, _ = ut.New(en.New()).GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(Validate, translator); err != nil {
		log.Warn().Err(err).Str("locale", "en").Msg("could not register translation")
	}
}

type ErrorResponse struct {
	Field     string `json:"field,omitempty"`
	Violation string `json:"violation"`
	Message   string `json:"message"`
}

// translate translates errors into ErrorResponses
func translate(ve validator.ValidationErrors) []*ErrorResponse {
	trans := make([]*ErrorResponse, 0, len(ve))
	for _, fe := range ve {
		trans = append(trans, &ErrorResponse{
			Field:     fe.Namespace(),
			Violation: fe.Tag(),
			Message:   fe.Translate(translator),
		})
	}
	return trans
}

func wrap(err error) error {
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return pperr.ErrInvalidReq.Msg("invalid request: %s", err)
	}
	return pperr.NewInvalidViolations(translate(ve))
}

// ValidStruct validates s and returns an INVALID_REQUEST error listing every violation, or nil.
func ValidStruct(s any) error {
	return wrap(Validate.Struct(s))
}

func ValidVar(field any, tag string) error {
	return wrap(Validate.Var(field, tag))
}

// ValidBody will get the body from *fiber.Ctx using fiber#BodyParser(),
// and validate it using the validator singleton. If the validation passed it will write the unmarshalled body
// to dest and return a nil, otherwise it will return an error. Notice that dest shall
// always be a pointer.
func ValidBody(ctx *fiber.Ctx, dest any) error {
	if err := ctx.BodyParser(dest); err != nil {
		return pperr.ErrInvalidReq.Msg("invalid request: %s", err)
	}

	return ValidStruct(dest)
}

// ValidMinute reads an optional minute-of-day query parameter. ok is false when the parameter is absent.
func ValidMinute(ctx *fiber.Ctx, key string) (minute int, ok bool, err error) {
	if ctx.Query(key) == "" {
		return 0, false, nil
	}
	minute = ctx.QueryInt(key, -1)
	if err := ValidVar(minute, "gte=0,lte="+constant.LastMinuteString); err != nil {
		return 0, false, err
	}
	return minute, true, nil
}
