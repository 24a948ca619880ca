package handler

import (
	"errors"
	"fmt"
	"time"

	"retail-backoffice/internal/service"
	"retail-backoffice/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorResponse is the envelope for every non-2xx answer
type ErrorResponse struct {
	StatusCode int       `json:"statusCode"`
	Message    string    `json:"message"`
	Errors     []string  `json:"errors,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	Path       string    `json:"path"`
}

// NewErrorHandler maps service errors onto HTTP statuses and renders the envelope
func NewErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code, message, details := classify(err)

		if code >= fiber.StatusInternalServerError && code != fiber.StatusNotImplemented {
			log.Error("Request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}

		return c.Status(code).JSON(ErrorResponse{
			StatusCode: code,
			Message:    message,
			Errors:     details,
			Timestamp:  time.Now().UTC(),
			Path:       c.OriginalURL(),
		})
	}
}

func classify(err error) (int, string, []string) {
	var (
		fiberErr     *fiber.Error
		invalidArg   *service.InvalidArgumentError
		exhaustedErr *service.ConcurrencyExhaustedError
	)

	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code, fiberErr.Message, nil
	case errors.As(err, &invalidArg):
		var details []string
		for _, d := range invalidArg.Details {
			details = append(details, fmt.Sprintf("%s failed on '%s'", d.FailedField, d.Tag))
		}
		return fiber.StatusBadRequest, invalidArg.Reason, details
	case errors.Is(err, service.ErrNotFound):
		return fiber.StatusNotFound, err.Error(), nil
	case errors.Is(err, service.ErrUnimplemented):
		return fiber.StatusNotImplemented, err.Error(), nil
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, jwt.ErrInvalidToken),
		errors.Is(err, jwt.ErrMissingToken):
		return fiber.StatusUnauthorized, err.Error(), nil
	case errors.Is(err, service.ErrForbidden):
		return fiber.StatusForbidden, err.Error(), nil
	case errors.As(err, &exhaustedErr):
		return fiber.StatusInternalServerError, exhaustedErr.Error(), nil
	default:
		return fiber.StatusInternalServerError, "Internal server error", nil
	}
}
