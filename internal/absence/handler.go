package absence

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/elitehr/elite-time/internal/auth"
	"github.com/elitehr/elite-time/internal/permission"
	"github.com/elitehr/elite-time/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Create(userID int64, dto CreateAbsenceDTO) (*Absence, error)
	ListForUser(userID int64) ([]*Absence, error)
	ListAll(status string) ([]*Absence, error)
	GetByID(id int64) (*Absence, error)
	Approve(id int64, deciderID int64) (*Absence, error)
	Reject(id int64, deciderID int64) (*Absence, error)
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

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateAbsenceDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := h.Service.Create(user.ID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, a)
}

// List returns the caller's own requests, or every request when
// ?scope=all and the caller holds view_all_absences.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if r.URL.Query().Get("scope") == "all" {
		if !user.HasPermission(permission.PermViewAllAbsences) {
			h.WriteError(w, http.StatusForbidden, "missing permission")
			return
		}
		absences, err := h.Service.ListAll(r.URL.Query().Get("status"))
		if err != nil {
			h.HandleServiceError(w, err)
			return
		}
		h.WriteJSON(w, http.StatusOK, AbsencesResponse{Success: true, Absences: absences})
		return
	}

	absences, err := h.Service.ListForUser(user.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, AbsencesResponse{Success: true, Absences: absences})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, ok := h.absenceID(w, r)
	if !ok {
		return
	}

	a, err := h.Service.GetByID(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if a.UserID != user.ID && !user.HasPermission(permission.PermViewAllAbsences) {
		h.WriteError(w, http.StatusForbidden, "missing permission")
		return
	}
	h.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.Service.Approve)
}

func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.Service.Reject)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, op func(id, deciderID int64) (*Absence, error)) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if !user.HasPermission(permission.PermApproveAbsences) {
		h.WriteError(w, http.StatusForbidden, "missing permission")
		return
	}
	id, ok := h.absenceID(w, r)
	if !ok {
		return
	}

	a, err := op(id, user.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) absenceID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid absence ID")
		return 0, false
	}
	return id, true
}
