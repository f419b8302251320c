package helper

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

// field error dikunci dengan nama json, bukan nama field Go
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// BindAndValidate parse body JSON lalu jalankan tag `validate`.
// Return error sudah berupa response (400/422) sehingga handler cukup `return err`.
func BindAndValidate(c *fiber.Ctx, out any) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, JsonError(c, fiber.StatusBadRequest, "invalid json body")
	}
	if err := validate.Struct(out); err != nil {
		return false, ValidationError(c, err)
	}
	return true, nil
}

// Khusus error validasi (validator.v10) → 422 per field
func ValidationError(c *fiber.Ctx, err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return JsonError(c, fiber.StatusBadRequest, "invalid input")
	}

	fields := make(map[string][]string, len(ve))
	for _, fe := range ve {
		key := fe.Field()
		msg := fe.Tag()
		if p := fe.Param(); p != "" {
			msg += "=" + p
		}
		fields[key] = append(fields[key], msg)
	}
	return JsonValidationError(c, fields)
}
