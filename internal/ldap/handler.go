package ldap

import (
	"context"
	"net/http"
	"time"

	"github.com/elitehr/elite-time/internal/auth"
	"github.com/elitehr/elite-time/internal/transport"
)

type SyncAPI interface {
	Sync(ctx context.Context, actorID int64) (*SyncResult, error)
}

type SyncResponse struct {
	Success     bool   `json:"success"`
	SyncedCount int    `json:"synced_count"`
	LastSyncAt  string `json:"last_sync_at"`
}

type Handler struct {
	*transport.BaseHandler
	Service SyncAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service SyncAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	result, err := h.Service.Sync(r.Context(), user.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, SyncResponse{
		Success:     true,
		SyncedCount: result.SyncedCount,
		LastSyncAt:  result.LastSyncAt.UTC().Format(time.RFC3339),
	})
}
