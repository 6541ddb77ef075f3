package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-pos-api/internal/application/dto"
	"github.com/jhoicas/retail-pos-api/internal/domain"
	"github.com/jhoicas/retail-pos-api/pkg/logger"
)

// Códigos de error expuestos en dto.ErrorResponse.
const (
	CodeValidation          = "VALIDATION"
	CodeNotFound            = "NOT_FOUND"
	CodeForbidden           = "FORBIDDEN"
	CodeInsufficientStock   = "INSUFFICIENT_STOCK"
	CodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	CodeDuplicate           = "DUPLICATE"
	CodeDuplicateRequest    = "DUPLICATE_REQUEST"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeInternal            = "INTERNAL"
)

// statusFor traduce un error de dominio a status HTTP y código. El orden importa:
// ErrConcurrencyConflict envuelve ErrConflict y ErrLocationNotFound envuelve ErrNotFound.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, CodeValidation
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, CodeNotFound
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, CodeForbidden
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, CodeUnauthorized
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, CodeInsufficientStock
	case errors.Is(err, domain.ErrConcurrencyConflict), errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, CodeConcurrencyConflict
	case errors.Is(err, domain.ErrDuplicate),
		errors.Is(err, domain.ErrEmailAlreadyExists),
		errors.Is(err, domain.ErrUsernameAlreadyExists):
		return fiber.StatusConflict, CodeDuplicate
	default:
		return fiber.StatusInternalServerError, CodeInternal
	}
}

// respondError escribe el cuerpo {code, message}. Los 5xx se registran y no exponen el detalle.
func respondError(c *fiber.Ctx, err error) error {
	status, code := statusFor(err)
	msg := err.Error()
	if status >= fiber.StatusInternalServerError {
		requestLogger(c).Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("error interno")
		msg = "error interno del servidor"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func respond(c *fiber.Ctx, status int, code, msg string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

// ErrorHandler reemplaza el handler por defecto de Fiber (404 de rutas, panics recuperados).
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code := CodeInternal
			switch fe.Code {
			case fiber.StatusNotFound:
				code = CodeNotFound
			case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
				code = CodeValidation
			case fiber.StatusMethodNotAllowed:
				code = CodeNotFound
			}
			return respond(c, fe.Code, code, fe.Message)
		}
		log.Error().Err(err).Str("path", c.Path()).Msg("error no controlado")
		return respond(c, fiber.StatusInternalServerError, CodeInternal, "error interno del servidor")
	}
}
