package ranking

import (
	"encoding/json"
	"net/http"

	"github.com/parisbet/backend/internal/models"
)

// Handler serves the leaderboard.
type Handler struct {
	engine *Engine
}

func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

// Get returns the ranking, optionally labelled with ?league=.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	league := r.URL.Query().Get("league")

	rows, err := h.engine.Ranking(r.Context(), league)
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}

	label := league
	if label == "" {
		label = "global"
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.RankingResponse{
		League:     label,
		TotalUsers: len(rows),
		Users:      rows,
	})
}
