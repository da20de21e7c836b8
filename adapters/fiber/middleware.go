package fiber

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/engramhq/engram/core"
)

// originHeaders applies the origin policy for a route group. Headers are
// attached before any business logic runs, and preflight requests
// short-circuit with a bare 200.
func (a *Adapter) originHeaders(group core.RouteGroup) fiber.Handler {
	return func(c fiber.Ctx) error {
		if hs := a.policy.Decide(group, c.Get(fiber.HeaderOrigin)); hs != nil {
			c.Set(fiber.HeaderAccessControlAllowOrigin, hs.AllowOrigin)
			if hs.AllowCredentials {
				c.Set(fiber.HeaderAccessControlAllowCredentials, "true")
			}
			if hs.AllowHeaders != "" {
				c.Set(fiber.HeaderAccessControlAllowHeaders, hs.AllowHeaders)
			}
		}

		if c.Method() == fiber.MethodOptions {
			return c.SendStatus(fiber.StatusOK)
		}

		return c.Next()
	}
}

// userIDKey is the context local holding the authenticated user id.
const userIDKey = "userID"

// requireSession resolves the cookie-carried token against the session
// store. Anonymous requests are rejected here; handlers behind this
// middleware can rely on userID being present and never read identity from
// the request body.
func (a *Adapter) requireSession(c fiber.Ctx) error {
	token := c.Cookies(sessionCookie)

	session, err := a.sessions.Resolve(c.Context(), token)
	if err != nil {
		if errors.Is(err, core.ErrSessionNotFound) || errors.Is(err, core.ErrSessionExpired) {
			return a.fail(c, core.ErrUnauthenticated)
		}
		return a.fail(c, err)
	}

	c.Locals(userIDKey, session.UserID)
	return c.Next()
}
