package util

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/guregu/null.v3"
)

func NewValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(jsonTagName)
	validate.RegisterCustomTypeFunc(nullFloatValuer, null.Float{})
	validate.RegisterCustomTypeFunc(nullStringValuer, null.String{})

	return validate
}

// jsonTagName reports fields by their wire name so violations point at what the client sent.
func jsonTagName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}

func nullFloatValuer(field reflect.Value) any {
	if valuer, ok := field.Interface().(null.Float); ok && valuer.Valid {
		return valuer.Float64
	}

	return nil
}

func nullStringValuer(field reflect.Value) any {
	if valuer, ok := field.Interface().(null.String); ok && valuer.Valid {
		return valuer.String
	}

	return nil
}
