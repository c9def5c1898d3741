package auth

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/elitehr/elite-time/internal"
	"github.com/elitehr/elite-time/internal/session"
	"github.com/elitehr/elite-time/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	Service    ServiceAPI
	sessionTTL time.Duration
	secure     bool
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI, sessionTTL time.Duration, secureCookies bool) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
		sessionTTL:  sessionTTL,
		secure:      secureCookies,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, sess, err := h.Service.Login(r.Context(), dto)
	if err != nil {
		h.Logger.Warn("login failed", "email", dto.Email, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.setSessionCookie(w, sess.Token)
	h.WriteJSON(w, http.StatusOK, LoginResponse{Success: true, User: user})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := h.sessionToken(r)
	var userID int64
	if user, ok := UserFromContext(r.Context()); ok {
		userID = user.ID
	}

	if token != "" {
		if err := h.Service.Logout(token, userID); err != nil {
			h.Logger.Error("logout failed", "error", err)
		}
	}

	h.clearSessionCookie(w)
	h.WriteJSON(w, http.StatusOK, LogoutResponse{Success: true})
}

// Me reports the current user, or null when there is no live session;
// an anonymous caller is not an error here.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, _, err := h.Service.ResolveSession(h.sessionToken(r))
	if err != nil {
		h.WriteJSON(w, http.StatusOK, MeResponse{User: nil})
		return
	}
	h.WriteJSON(w, http.StatusOK, MeResponse{User: user})
}

func (h *Handler) GetUserPermissions(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	h.WriteJSON(w, http.StatusOK, UserPermissionsResponse{
		Success:     true,
		Permissions: user.Permissions,
		Role:        user.Role,
	})
}

// OptionalSession attaches the user when the session resolves and
// passes the request through either way. Anonymous callers reach the
// handler with an empty context.
func (h *Handler) OptionalSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := h.sessionToken(r); token != "" {
			if user, _, err := h.Service.ResolveSession(token); err == nil {
				ctx := ContextWithUser(r.Context(), user)
				ctx = internal.ContextWithUserID(ctx, user.ID)
				r = r.WithContext(ctx)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// SessionMiddleware resolves the session cookie (or bearer token) into
// a user and attaches it to the request context.
func (h *Handler) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.sessionToken(r)
		if token == "" {
			h.WriteError(w, http.StatusUnauthorized, "missing session")
			return
		}

		user, _, err := h.Service.ResolveSession(token)
		if err != nil {
			if appErr, ok := internal.IsAppError(err); ok && appErr.StatusCode == http.StatusUnauthorized {
				h.WriteError(w, http.StatusUnauthorized, appErr.Message)
				return
			}
			h.Logger.Error("session resolution failed", "error", err)
			h.WriteError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		ctx := ContextWithUser(r.Context(), user)
		ctx = internal.ContextWithUserID(ctx, user.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) sessionToken(r *http.Request) string {
	if cookie, err := r.Cookie(session.CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return h.ExtractTokenFromHeader(r)
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1, // emits Max-Age=0, deleting the cookie
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
