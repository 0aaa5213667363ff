package health

import (
	"context"
	"net/http"
	"time"

	"github.com/de-tools/emotion-atlas/pkg/handlers"
)

const pingTimeout = 2 * time.Second

type Pinger interface {
	PingContext(ctx context.Context) error
}

type Status struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

type Handler struct {
	db Pinger
}

func NewHandler(db Pinger) *Handler {
	return &Handler{db: db}
}

// Check handles GET /api/health. It answers 503 when the database is unreachable.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		handlers.WriteJSON(w, r, http.StatusServiceUnavailable, Status{Status: "degraded", Database: err.Error()})
		return
	}
	handlers.WriteJSON(w, r, http.StatusOK, Status{Status: "ok", Database: "ok"})
}
