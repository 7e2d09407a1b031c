package serverutils

import (
	"errors"

	"notevault-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

func statusForKind(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation:
		return fiber.StatusBadRequest
	case apperror.KindNotFound:
		return fiber.StatusNotFound
	case apperror.KindAuth:
		return fiber.StatusUnauthorized
	case apperror.KindUnknownGrantee:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandlerMiddleware maps service errors to HTTP responses. Errors
// outside the taxonomy become opaque 500s.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var appErr *apperror.Error
		if errors.As(err, &appErr) {
			status := statusForKind(appErr.Kind)
			return ctx.Status(status).JSON(ErrorResponse(status, string(appErr.Kind), appErr.Message))
		}

		var granteeErr *apperror.UnknownGranteeError
		if errors.As(err, &granteeErr) {
			status := statusForKind(granteeErr.AppKind())
			return ctx.Status(status).JSON(ErrorResponse(status, string(granteeErr.AppKind()), granteeErr.Error()))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, "internal", fiberErr.Message))
		}

		return ctx.Status(fiber.StatusInternalServerError).
			JSON(ErrorResponse(fiber.StatusInternalServerError, "internal", "internal server error"))
	}
}
