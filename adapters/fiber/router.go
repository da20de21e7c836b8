// Package fiber exposes the gateway over HTTP. The request pipeline is an
// explicit sequence: origin policy headers, then session resolution, then
// the route handler.
package fiber

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/engramhq/engram/core"
	"github.com/engramhq/engram/logging"
	"github.com/engramhq/engram/services"
)

// sessionCookie carries the opaque session token.
const sessionCookie = "engram_session"

type Adapter struct {
	policy   core.OriginPolicy
	auth     *services.AuthService
	blocks   *services.BlockService
	sessions *services.SessionManager
	maxAge   time.Duration
	log      logging.Logger
}

func New(
	policy core.OriginPolicy,
	auth *services.AuthService,
	blocks *services.BlockService,
	sessions *services.SessionManager,
	maxAge time.Duration,
	log logging.Logger,
) *Adapter {
	return &Adapter{
		policy:   policy,
		auth:     auth,
		blocks:   blocks,
		sessions: sessions,
		maxAge:   maxAge,
		log:      log,
	}
}

// RegisterRoutes wires the full HTTP surface onto app.
func (a *Adapter) RegisterRoutes(app *fiber.App) {
	app.Get("/health", a.originHeaders(core.GroupPublic), a.handleHealth)

	analytics := app.Group("/a", a.originHeaders(core.GroupPublic))
	analytics.Post("/event", a.handleAnalyticsEvent)

	users := app.Group("/u", a.originHeaders(core.GroupAuth))
	users.Post("/signup", a.handleSignup)
	users.Post("/login", a.handleLogin)
	users.Get("/logout", a.handleLogout)

	blocks := app.Group("/blocks", a.originHeaders(core.GroupBlocks))
	blocks.Post("/", a.requireSession, a.handleCreateBlock)
}
