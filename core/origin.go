package core

// RouteGroup selects which cross-origin policy applies to a route.
type RouteGroup int

const (
	// GroupAuth covers the identity namespace (/u/*): signup, login, logout.
	GroupAuth RouteGroup = iota
	// GroupBlocks covers block ingestion (/blocks).
	GroupBlocks
	// GroupPublic covers unauthenticated routes (health, analytics).
	GroupPublic
)

// allowedHeaders is the fixed header allowance sent with credentialed groups.
const allowedHeaders = "Origin, X-Requested-With, Content-Type, Accept"

// HeaderSet is the CORS response headers a policy decision produces.
type HeaderSet struct {
	AllowOrigin      string
	AllowCredentials bool
	AllowHeaders     string
}

// OriginPolicy decides CORS headers per route group. It is an immutable
// value injected at construction; Decide is pure.
//
// Auth routes trust exactly one configured origin and emit it
// unconditionally — a fixed anchor, not a whitelist match. Block routes echo
// the request's own origin only when it is whitelisted, and emit nothing
// otherwise (the server still processes the request; the browser just cannot
// read the response). Public routes get a bare wildcard with no credential
// guarantee.
type OriginPolicy struct {
	AuthOrigin   string
	BlockOrigins []string
}

// Decide returns the headers to attach for a request, or nil for none.
func (p OriginPolicy) Decide(group RouteGroup, requestOrigin string) *HeaderSet {
	switch group {
	case GroupAuth:
		return &HeaderSet{
			AllowOrigin:      p.AuthOrigin,
			AllowCredentials: true,
			AllowHeaders:     allowedHeaders,
		}
	case GroupBlocks:
		if requestOrigin == "" {
			return nil
		}
		for _, o := range p.BlockOrigins {
			if o == requestOrigin {
				return &HeaderSet{
					AllowOrigin:      requestOrigin,
					AllowCredentials: true,
					AllowHeaders:     allowedHeaders,
				}
			}
		}
		return nil
	case GroupPublic:
		return &HeaderSet{AllowOrigin: "*"}
	}
	return nil
}
