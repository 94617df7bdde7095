package server

import (
	"errors"

	"notekeeper-be/internal/dto"
	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/internal/pkg/serverutils"
	"notekeeper-be/internal/service"
	"notekeeper-be/pkg/billing"
	"notekeeper-be/pkg/entitlement"

	"github.com/gofiber/fiber/v2"
)

// NewErrorHandler maps service errors onto HTTP responses. A plan-limit
// denial becomes an upgrade prompt, never a generic failure.
func NewErrorHandler(log logger.ILogger, upgradeURL string) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		if denied, ok := entitlement.AsDenied(err); ok {
			return ctx.Status(fiber.StatusForbidden).JSON(serverutils.ErrorResponseWithData(
				fiber.StatusForbidden,
				denied.Message(),
				dto.LimitReachedResponse{
					Reason:     string(denied.Reason),
					Resource:   string(denied.Kind),
					Limit:      denied.Limit,
					UpgradeURL: upgradeURL,
				},
			))
		}

		var validationErr *serverutils.ValidationError
		if errors.As(err, &validationErr) {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponseWithData(
				fiber.StatusBadRequest, "validation failed", validationErr.Fields,
			))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(serverutils.ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		code, message := statusFor(err)
		if code >= fiber.StatusInternalServerError {
			log.Error("HTTP", "Request failed", map[string]interface{}{
				"method": ctx.Method(),
				"path":   ctx.Path(),
				"status": code,
				"error":  err.Error(),
			})
		}
		return ctx.Status(code).JSON(serverutils.ErrorResponse(code, message))
	}
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return fiber.StatusNotFound, err.Error()
	case errors.Is(err, entitlement.ErrResolutionFailed), errors.Is(err, entitlement.ErrCountFailed):
		return fiber.StatusServiceUnavailable, "entitlement check unavailable"
	case errors.Is(err, service.ErrAlreadySubscribed):
		return fiber.StatusConflict, err.Error()
	case errors.Is(err, billing.ErrPriceRequired):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, billing.ErrCheckoutFailed):
		return fiber.StatusBadGateway, err.Error()
	case errors.Is(err, serverutils.ErrUnauthenticated):
		return fiber.StatusUnauthorized, err.Error()
	}
	return fiber.StatusInternalServerError, "internal server error"
}
