package permission

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/elitehr/elite-time/internal"
	"github.com/elitehr/elite-time/internal/activity"
	userDatamodel "github.com/elitehr/elite-time/internal/core/datamodel/user"
	"github.com/elitehr/elite-time/internal/transport"
	"github.com/go-chi/chi"
)

// UserSource resolves the target user's role for reset and effective
// lookups without importing the user package.
type UserSource interface {
	GetByID(id int64) (*userDatamodel.User, error)
}

type GrantDTO struct {
	PermissionID int64 `json:"permission_id"`
}

type PermissionsResponse struct {
	Success     bool          `json:"success"`
	Permissions []*Permission `json:"permissions"`
}

type Handler struct {
	*transport.BaseHandler
	Service  *Service
	Users    UserSource
	Recorder *activity.Recorder
}

func NewHandler(baseHandler *transport.BaseHandler, service *Service, users UserSource, recorder *activity.Recorder) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
		Users:       users,
		Recorder:    recorder,
	}
}

func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	perms, err := h.Service.AllPermissions()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, PermissionsResponse{Success: true, Permissions: perms})
}

// ListForUser returns the target's effective set, admin short-circuit
// included.
func (h *Handler) ListForUser(w http.ResponseWriter, r *http.Request) {
	target, ok := h.targetUser(w, r)
	if !ok {
		return
	}

	perms, err := h.Service.EffectivePermissions(target.ID, target.Role)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, PermissionsResponse{Success: true, Permissions: perms})
}

func (h *Handler) Grant(w http.ResponseWriter, r *http.Request) {
	actorID := internal.UserIDFromContext(r.Context())
	if actorID == 0 {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	target, ok := h.targetUser(w, r)
	if !ok {
		return
	}

	var dto GrantDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.Grant(target.ID, dto.PermissionID, actorID); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Recorder.Record(actorID, "permission_granted",
		"Granted permission to "+target.Email, activity.CategoryPermission)
	h.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) Revoke(w http.ResponseWriter, r *http.Request) {
	actorID := internal.UserIDFromContext(r.Context())
	if actorID == 0 {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	target, ok := h.targetUser(w, r)
	if !ok {
		return
	}

	permID, err := strconv.ParseInt(chi.URLParam(r, "permissionId"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid permission ID")
		return
	}

	if err := h.Service.Revoke(target.ID, permID); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Recorder.Record(actorID, "permission_revoked",
		"Revoked permission from "+target.Email, activity.CategoryPermission)
	h.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	actorID := internal.UserIDFromContext(r.Context())
	if actorID == 0 {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	target, ok := h.targetUser(w, r)
	if !ok {
		return
	}

	if err := h.Service.ResetToRoleDefaults(target.ID, target.Role); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Recorder.Record(actorID, "permissions_reset",
		"Reset permissions to role defaults for "+target.Email, activity.CategoryPermission)
	h.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) GrantAll(w http.ResponseWriter, r *http.Request) {
	actorID := internal.UserIDFromContext(r.Context())
	if actorID == 0 {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	result, err := h.Service.GrantAllToAdmins(actorID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Recorder.Record(actorID, "permissions_grant_all",
		"Materialized all permissions for admins", activity.CategoryPermission)
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":        true,
		"admins_updated": result.AdminsUpdated,
		"links_created":  result.LinksCreated,
	})
}

func (h *Handler) targetUser(w http.ResponseWriter, r *http.Request) (*userDatamodel.User, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user ID")
		return nil, false
	}
	target, err := h.Users.GetByID(id)
	if err != nil {
		h.HandleServiceError(w, internal.NewInternalError("failed to load user", err))
		return nil, false
	}
	if target == nil {
		h.HandleServiceError(w, internal.ErrUserNotFound)
		return nil, false
	}
	return target, true
}
