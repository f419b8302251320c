package helper

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"ibuc_backend/internals/helpers/apperror"
)

// FromError mengubah error dari service (apperror) atau *fiber.Error
// menjadi response JSON konsisten via JsonError.
// Selain itu fallback ke 500 tanpa membocorkan detail internal.
func FromError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}
	var ae *apperror.Error
	if errors.As(err, &ae) {
		return JsonError(c, apperror.HTTPStatus(ae), ae.Message)
	}
	return JsonError(c, fiber.StatusInternalServerError, "internal server error")
}

// ErrorHandler untuk fiber.Config: semua error yang lolos dari handler dirender dengan shape standar.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return FromError(c, err)
}
