package authz

import (
	"log/slog"

	"github.com/elitehr/elite-time/internal/auth"
	"github.com/elitehr/elite-time/internal/session"
)

// Reason codes for denied access; callers turn them into redirects, not
// error pages.
type Reason string

const (
	ReasonUnauthenticated   Reason = "unauthenticated"
	ReasonPageNotFound      Reason = "page_not_found"
	ReasonRoleMismatch      Reason = "role_mismatch"
	ReasonMissingPermission Reason = "missing_permission"
)

// Decision is the outcome of a guard evaluation. Allowed carries the
// resolved identity; denied carries the reason and a redirect target.
type Decision struct {
	Allowed  bool             `json:"allowed"`
	Reason   Reason           `json:"reason,omitempty"`
	Redirect string           `json:"redirect,omitempty"`
	User     *auth.User       `json:"-"`
	Session  *session.Session `json:"-"`
}

type SessionResolver interface {
	ResolveSession(token string) (*auth.User, *session.Session, error)
}

type Guard struct {
	resolver SessionResolver
	logger   *slog.Logger
}

func NewGuard(resolver SessionResolver, logger *slog.Logger) *Guard {
	return &Guard{
		resolver: resolver,
		logger:   logger,
	}
}

// Authorize walks the request from unauthenticated to a decision:
// resolve session, look up the page, match role, then permissions.
func (g *Guard) Authorize(token, pageCode string) Decision {
	user, sess, err := g.resolver.ResolveSession(token)
	if err != nil {
		return Decision{Allowed: false, Reason: ReasonUnauthenticated, Redirect: "/login"}
	}

	page, ok := LookupPage(pageCode)
	if !ok {
		// unknown codes are a configuration bug, not a user mistake
		g.logger.Error("page code not registered", "page", pageCode)
		return Decision{Allowed: false, Reason: ReasonPageNotFound, Redirect: "/dashboard"}
	}

	if !roleAllowed(user.Role, page.AllowedRoles) {
		g.logger.Warn("page access denied: role not allowed",
			"user_id", user.ID,
			"role", user.Role,
			"page", pageCode)
		return Decision{Allowed: false, Reason: ReasonRoleMismatch, Redirect: "/dashboard"}
	}

	// Presence of the list triggers the check; holding any one of the
	// listed permissions is enough. Admins pass implicitly.
	if len(page.RequiredPermissions) > 0 && !user.HasAnyPermission(page.RequiredPermissions) {
		g.logger.Warn("page access denied: missing permission",
			"user_id", user.ID,
			"page", pageCode,
			"required_any_of", page.RequiredPermissions)
		return Decision{Allowed: false, Reason: ReasonMissingPermission, Redirect: "/dashboard"}
	}

	return Decision{Allowed: true, User: user, Session: sess}
}

// AllowedPages filters the registry down to what a user's nav should
// show, using the same rules as Authorize.
func (g *Guard) AllowedPages(user *auth.User) []Page {
	var pages []Page
	for _, page := range Registry {
		if !roleAllowed(user.Role, page.AllowedRoles) {
			continue
		}
		if len(page.RequiredPermissions) > 0 && !user.HasAnyPermission(page.RequiredPermissions) {
			continue
		}
		pages = append(pages, page)
	}
	return pages
}

func roleAllowed(role string, allowed []string) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
