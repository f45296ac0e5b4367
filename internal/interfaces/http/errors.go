package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/rs/zerolog/log"
)

// respondError traduce un error de dominio a la respuesta HTTP estructurada.
// Los errores de persistencia se registran y se devuelven sin detalle.
func respondError(c *fiber.Ctx, err error) error {
	kind := domain.KindOf(err)
	body := dto.ErrorResponse{Kind: string(kind), Message: err.Error()}
	status := fiber.StatusInternalServerError

	switch kind {
	case domain.KindValidation:
		status, body.Code = fiber.StatusBadRequest, "VALIDATION"
		if errors.Is(err, domain.ErrInsufficientStock) {
			body.Code = "INSUFFICIENT_STOCK"
		}
	case domain.KindNotFound:
		status, body.Code = fiber.StatusNotFound, "NOT_FOUND"
	case domain.KindConflict:
		status, body.Code = fiber.StatusConflict, "CONFLICT"
	case domain.KindConcurrency:
		status, body.Code = fiber.StatusServiceUnavailable, "CONCURRENCY_CONFLICT"
		c.Set(fiber.HeaderRetryAfter, "1")
	case domain.KindAuth:
		status, body.Code = fiber.StatusUnauthorized, "UNAUTHORIZED"
		if errors.Is(err, domain.ErrForbidden) {
			status, body.Code = fiber.StatusForbidden, "FORBIDDEN"
		}
	default:
		log.Error().Err(err).Str("path", c.Path()).Str("method", c.Method()).Msg("error interno")
		body.Code = "INTERNAL"
		body.Message = "error interno, intente más tarde"
	}
	return c.Status(status).JSON(body)
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Kind: string(domain.KindValidation), Message: "cuerpo inválido"})
}
