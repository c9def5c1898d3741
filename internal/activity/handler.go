package activity

import (
	"net/http"
	"strconv"
	"time"

	"github.com/elitehr/elite-time/internal/transport"
)

type LogsResponse struct {
	Success bool   `json:"success"`
	Logs    []*Log `json:"logs"`
}

type Handler struct {
	*transport.BaseHandler
	Recorder *Recorder
}

func NewHandler(baseHandler *transport.BaseHandler, recorder *Recorder) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Recorder:    recorder,
	}
}

// List filters by optional user_id, category, from/to and pages with
// limit/offset.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := Filter{
		Category: r.URL.Query().Get("category"),
	}
	if v := r.URL.Query().Get("user_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid user_id")
			return
		}
		filter.UserID = id
	}
	if v := r.URL.Query().Get("from"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "from must be YYYY-MM-DD")
			return
		}
		filter.From = parsed
	}
	if v := r.URL.Query().Get("to"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "to must be YYYY-MM-DD")
			return
		}
		filter.To = parsed.AddDate(0, 0, 1)
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Offset = n
		}
	}

	logs, err := h.Recorder.List(filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, LogsResponse{Success: true, Logs: logs})
}
