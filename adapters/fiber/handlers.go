package fiber

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/engramhq/engram/core"
	"github.com/engramhq/engram/services"
)

func (a *Adapter) handleHealth(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// handleAnalyticsEvent accepts a fire-and-forget event ping from any origin.
func (a *Adapter) handleAnalyticsEvent(c fiber.Ctx) error {
	var input struct {
		Name string            `json:"name"`
		Meta map[string]string `json:"meta,omitempty"`
	}
	if err := c.Bind().Body(&input); err != nil || input.Name == "" {
		return a.fail(c, core.NewValidationError("name", "name is required"))
	}

	a.log.Info(c.Context(), "analytics event", "name", input.Name, "meta", input.Meta)
	return c.SendStatus(fiber.StatusOK)
}

func (a *Adapter) handleSignup(c fiber.Ctx) error {
	var input services.SignUpInput
	if err := c.Bind().Body(&input); err != nil {
		return a.fail(c, core.NewValidationError("body", "invalid request body"))
	}

	result, err := a.auth.SignUp(c.Context(), input)
	if err != nil {
		return a.fail(c, err)
	}

	a.setSessionCookie(c, result.Token)
	return c.SendStatus(fiber.StatusOK)
}

func (a *Adapter) handleLogin(c fiber.Ctx) error {
	var input services.SignInInput
	if err := c.Bind().Body(&input); err != nil {
		return a.fail(c, core.NewValidationError("body", "invalid request body"))
	}

	result, err := a.auth.SignIn(c.Context(), input)
	if err != nil {
		return a.fail(c, err)
	}

	a.setSessionCookie(c, result.Token)
	return c.SendStatus(fiber.StatusOK)
}

func (a *Adapter) handleLogout(c fiber.Ctx) error {
	token := c.Cookies(sessionCookie)

	err := a.auth.SignOut(c.Context(), token)

	// The cookie goes away regardless; an unknown token is already logged out.
	a.clearSessionCookie(c)

	if err != nil && !errors.Is(err, core.ErrSessionNotFound) {
		return a.fail(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func (a *Adapter) handleCreateBlock(c fiber.Ctx) error {
	userID, _ := c.Locals(userIDKey).(string)

	var input services.BlockInput
	if err := c.Bind().Body(&input); err != nil {
		return a.fail(c, core.NewValidationError("body", "invalid request body"))
	}

	if _, err := a.blocks.Ingest(c.Context(), userID, input); err != nil {
		return a.fail(c, err)
	}

	return c.SendStatus(fiber.StatusOK)
}

func (a *Adapter) setSessionCookie(c fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(a.maxAge.Seconds()),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None", // credentials flow cross-origin
	})
}

func (a *Adapter) clearSessionCookie(c fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
	})
}
