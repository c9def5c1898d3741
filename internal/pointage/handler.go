package pointage

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/elitehr/elite-time/internal/auth"
	"github.com/elitehr/elite-time/internal/permission"
	"github.com/elitehr/elite-time/internal/transport"
)

type ServiceAPI interface {
	ClockIn(ctx context.Context, userID int64, userName string, dto ClockDTO) (*Pointage, error)
	ClockOut(ctx context.Context, userID int64, dto ClockDTO) (*Pointage, error)
	ListForUser(userID int64, from, to time.Time) ([]*Pointage, error)
	ListAll(from, to time.Time) ([]*Pointage, error)
	StartBreak(userID int64) (*Break, error)
	EndBreak(ctx context.Context, userID int64, userName string) (*Break, error)
	ListBreaksForUser(userID int64, from, to time.Time) ([]*Break, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) ClockIn(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto ClockDTO
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	p, err := h.Service.ClockIn(r.Context(), user.ID, user.Name, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) ClockOut(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto ClockDTO
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	p, err := h.Service.ClockOut(r.Context(), user.ID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, p)
}

// List returns the caller's events for the requested window, or
// everyone's when ?scope=all and the caller holds view_all_pointages.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	from, to, err := parseWindow(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var pointages []*Pointage
	if r.URL.Query().Get("scope") == "all" {
		if !user.HasPermission(permission.PermViewAllPointages) {
			h.WriteError(w, http.StatusForbidden, "missing permission")
			return
		}
		pointages, err = h.Service.ListAll(from, to)
	} else {
		pointages, err = h.Service.ListForUser(user.ID, from, to)
	}
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, PointagesResponse{Success: true, Pointages: pointages})
}

func (h *Handler) StartBreak(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	b, err := h.Service.StartBreak(user.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, b)
}

func (h *Handler) EndBreak(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	b, err := h.Service.EndBreak(r.Context(), user.ID, user.Name)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, b)
}

func (h *Handler) ListBreaks(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	from, to, err := parseWindow(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	breaks, err := h.Service.ListBreaksForUser(user.ID, from, to)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, BreaksResponse{Success: true, Breaks: breaks})
}

// parseWindow reads from/to query params, defaulting to the last 30 days.
func parseWindow(r *http.Request) (time.Time, time.Time, error) {
	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now

	if v := r.URL.Query().Get("from"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return from, to, errBadWindow
		}
		from = parsed
	}
	if v := r.URL.Query().Get("to"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return from, to, errBadWindow
		}
		to = parsed.AddDate(0, 0, 1)
	}
	return from, to, nil
}

var errBadWindow = errors.New("from/to must be YYYY-MM-DD")
