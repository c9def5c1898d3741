package report

import (
	"encoding/json"
	"net/http"

	"github.com/elitehr/elite-time/internal/auth"
	"github.com/elitehr/elite-time/internal/permission"
	"github.com/elitehr/elite-time/internal/transport"
)

type ServiceAPI interface {
	RequestExport(reportType, from, to string, actorID int64) (string, error)
	Render(claims *DownloadClaims) (string, []byte, error)
}

type ExportRequestDTO struct {
	Type string `json:"type"`
	From string `json:"from"`
	To   string `json:"to"`
}

type ExportResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	Tokens  *TokenIssuer
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI, tokens *TokenIssuer) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
		Tokens:      tokens,
	}
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if !user.HasPermission(permission.PermExportReports) {
		h.WriteError(w, http.StatusForbidden, "missing permission")
		return
	}

	var dto ExportRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.Service.RequestExport(dto.Type, dto.From, dto.To, user.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ExportResponse{Success: true, Token: token})
}

// Download authorizes by the signed token alone; it is the one route a
// browser can hit without a session, so the token window is short.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		h.WriteError(w, http.StatusUnauthorized, "missing token")
		return
	}

	claims, err := h.Tokens.Validate(token)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	filename, data, err := h.Service.Render(claims)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
