package bet

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/parisbet/backend/internal/apperr"
	"github.com/parisbet/backend/internal/models"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeErr maps an engine error to its HTTP status.
func writeErr(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperr.ErrNotCreator):
		status = http.StatusForbidden
	case errors.Is(err, apperr.ErrDuplicateVote), errors.Is(err, apperr.ErrBetNotActive):
		status = http.StatusConflict
	case errors.Is(err, apperr.ErrInvalidOption), errors.Is(err, apperr.ErrTooFewOptions):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// Handler holds the bet HTTP handlers.
type Handler struct {
	engine *Engine
}

func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

// Create opens a new bet owned by the session user.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	login, _ := r.Context().Value("user_login").(string)

	var req models.CreateBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title is required"})
		return
	}

	id, err := h.engine.Create(r.Context(), req.Title, req.Description, req.Options, login, req.League)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "bet created", "bet_id": id})
}

// List returns all bets with vote totals.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	bets, err := h.engine.List(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bets)
}

// Get returns one bet with votes and per-option counts.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.engine.Detail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// Vote records the session user's choice on a bet.
func (h *Handler) Vote(w http.ResponseWriter, r *http.Request) {
	login, _ := r.Context().Value("user_login").(string)

	var req models.VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := h.engine.Vote(r.Context(), chi.URLParam(r, "id"), login, req.OptionIndex); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "vote recorded"})
}

// Resolve declares the winning option and pays out points.
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	login, _ := r.Context().Value("user_login").(string)

	var req models.ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := h.engine.Resolve(r.Context(), chi.URLParam(r, "id"), req.WinningOptionIndex, login); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "bet resolved"})
}

// Cancel voids an active bet without distributing points.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	login, _ := r.Context().Value("user_login").(string)

	if err := h.engine.Cancel(r.Context(), chi.URLParam(r, "id"), login); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "bet cancelled"})
}
