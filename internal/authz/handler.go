package authz

import (
	"net/http"
	"sort"

	"github.com/elitehr/elite-time/internal/auth"
	"github.com/elitehr/elite-time/internal/session"
	"github.com/elitehr/elite-time/internal/transport"
	"github.com/go-chi/chi"
)

type Handler struct {
	*transport.BaseHandler
	Guard *Guard
}

func NewHandler(baseHandler *transport.BaseHandler, guard *Guard) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Guard:       guard,
	}
}

// CheckAccess evaluates the guard for a page code; the response is a
// redirect instruction, never a 403 page.
func (h *Handler) CheckAccess(w http.ResponseWriter, r *http.Request) {
	pageCode := chi.URLParam(r, "code")

	var token string
	if cookie, err := r.Cookie(session.CookieName); err == nil {
		token = cookie.Value
	}
	if token == "" {
		token = h.ExtractTokenFromHeader(r)
	}

	decision := h.Guard.Authorize(token, pageCode)
	h.WriteJSON(w, http.StatusOK, decision)
}

// ListPages returns the pages the current user's navigation may show.
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	pages := h.Guard.AllowedPages(user)
	sort.Slice(pages, func(i, j int) bool { return pages[i].Code < pages[j].Code })

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"pages":   pages,
	})
}
