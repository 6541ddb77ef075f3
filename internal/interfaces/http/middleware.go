package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-pos-api/pkg/logger"
	"github.com/jhoicas/retail-pos-api/pkg/metrics"
)

const (
	localLogger       = "logger"
	localRequestID    = "requestid"
	headerIdempotency = "Idempotency-Key"
)

// RequestLogger adjunta un logger con request_id a la petición y registra method, path, status y latencia.
// Debe ir después de requestid.New().
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		reqLog := log
		if id, ok := c.Locals(localRequestID).(string); ok && id != "" {
			reqLog = log.WithRequestID(id)
		}
		c.Locals(localLogger, reqLog)

		err := c.Next()
		if err != nil {
			// el ErrorHandler aún no escribió el status; se delega para registrar el definitivo
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		status := c.Response().StatusCode()
		ev := reqLog.Info()
		if status >= fiber.StatusInternalServerError {
			ev = reqLog.Error()
		} else if status >= fiber.StatusBadRequest {
			ev = reqLog.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("http")
		return nil
	}
}

func requestLogger(c *fiber.Ctx) *logger.Logger {
	if l, ok := c.Locals(localLogger).(*logger.Logger); ok && l != nil {
		return l
	}
	return logger.Nop()
}

// Metrics registra conteo y duración por ruta (plantilla, no path concreto).
func Metrics(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		m.ObserveHTTP(c.Method(), c.Route().Path, status, time.Since(start))
		return err
	}
}

// idempotencyGuard lo implementa *idempotency.Guard.
type idempotencyGuard interface {
	Acquire(ctx context.Context, scope, key string) (bool, error)
	Release(ctx context.Context, scope, key string) error
}

// Idempotency protege operaciones no idempotentes con el header Idempotency-Key.
// Sin header o sin guard (Redis desactivado) la petición pasa sin control.
// Una clave repetida responde 409 DUPLICATE_REQUEST; si la petición falla la clave se libera.
func Idempotency(guard idempotencyGuard) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get(headerIdempotency)
		if guard == nil || key == "" {
			return c.Next()
		}
		scope := GetUserID(c) + ":" + c.Method() + ":" + c.Path()
		ctx := c.UserContext()

		acquired, err := guard.Acquire(ctx, scope, key)
		if err != nil {
			requestLogger(c).Error().Err(err).Msg("idempotency: no se pudo tomar la clave")
			return respond(c, fiber.StatusInternalServerError, CodeInternal, "error interno del servidor")
		}
		if !acquired {
			return respond(c, fiber.StatusConflict, CodeDuplicateRequest, "petición duplicada: Idempotency-Key ya utilizada")
		}

		err = c.Next()
		if err != nil || c.Response().StatusCode() >= fiber.StatusBadRequest {
			if rerr := guard.Release(ctx, scope, key); rerr != nil {
				requestLogger(c).Warn().Err(rerr).Msg("idempotency: no se pudo liberar la clave")
			}
		}
		return err
	}
}
