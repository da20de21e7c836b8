package fiber

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/engramhq/engram/core"
)

// fail maps a domain error to a client-safe 400 response. Store failures
// are logged server-side; their detail never reaches the body. Every
// client-visible failure is a 400 — the original surface makes no finer
// distinction and clients depend on that.
func (a *Adapter) fail(c fiber.Ctx, err error) error {
	var validation *core.ValidationError
	switch {
	case errors.As(err, &validation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": validation.Fields,
		})

	case errors.Is(err, core.ErrDuplicateIdentity):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": core.ErrDuplicateIdentity.Error(),
		})

	case errors.Is(err, core.ErrAuthenticationFailure):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": core.ErrAuthenticationFailure.Error(),
		})

	case errors.Is(err, core.ErrUnauthenticated):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": core.ErrUnauthenticated.Error(),
		})

	case errors.Is(err, core.ErrSessionStore):
		a.log.Error(c.Context(), "session store failure", "err", err, "path", c.Path())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "session error",
		})

	default:
		a.log.Error(c.Context(), "request failed", "err", err, "path", c.Path())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "request failed",
		})
	}
}
