package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/jesus-guti/tqr-rpe/internal/metrics"
	"github.com/jesus-guti/tqr-rpe/internal/models"
	"github.com/jesus-guti/tqr-rpe/internal/sheets"
)

type playerRequest struct {
	Name string `json:"name"`
}

// ListPlayers handles GET /api/players
func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.db.Players.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	metrics.UpdatePlayerCount(len(players))
	JSON(w, http.StatusOK, players)
}

// CreatePlayer handles POST /api/players. The response carries the generated
// auth token; it is the only credential the player will ever get.
func (h *Handler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	var req playerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}

	player, err := h.db.Players.Create(r.Context(), req.Name)
	if err != nil {
		WriteError(w, err)
		return
	}

	JSON(w, http.StatusCreated, player)
}

// GetPlayer handles GET /api/players/{id}
func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	player, err := h.db.Players.GetByID(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	JSON(w, http.StatusOK, player)
}

// UpdatePlayer handles PUT /api/players/{id}. Only the name is mutable; the
// auth token never changes.
func (h *Handler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req playerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}

	player, err := h.db.Players.Update(r.Context(), id, req.Name)
	if err != nil {
		WriteError(w, err)
		return
	}

	JSON(w, http.StatusOK, player)
}

// ListPlayerEntries handles GET /api/players/{id}/entries, returning the
// player's entries for the current season, oldest first
func (h *Handler) ListPlayerEntries(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if _, err := h.db.Players.GetByID(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	entries, err := h.db.Entries.ListByPlayer(r.Context(), id, sheets.SeasonStart(time.Now()))
	if err != nil {
		WriteError(w, err)
		return
	}

	out := make([]*models.DailyEntryJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.JSON())
	}
	JSON(w, http.StatusOK, out)
}

// DeletePlayer handles DELETE /api/players/{id}. Entries cascade at the
// schema level; the cached token resolution is dropped so a deleted player's
// token stops authenticating immediately.
func (h *Handler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	player, err := h.db.Players.GetByID(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.db.Players.Delete(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	if h.cache != nil {
		h.cache.InvalidateToken(r.Context(), player.AuthToken)
	}

	NoContent(w)
}
