package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jesus-guti/tqr-rpe/internal/metrics"
	"github.com/jesus-guti/tqr-rpe/internal/models"
)

// submitEntryRequest is the questionnaire submission payload. The metric
// fields are embedded so absent fields stay nil and the upsert can merge.
type submitEntryRequest struct {
	AuthToken string `json:"auth_token"`
	EntryDate string `json:"entry_date"`
	models.EntryInput
}

// SubmitEntry handles POST /api/entries
func (h *Handler) SubmitEntry(w http.ResponseWriter, r *http.Request) {
	var req submitEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.EntryDate == "" {
		WriteError(w, NewInvalidRequestError("entry_date is required"))
		return
	}
	date, err := time.Parse("2006-01-02", req.EntryDate)
	if err != nil {
		WriteError(w, NewInvalidRequestError("entry_date must be an ISO date (YYYY-MM-DD)"))
		return
	}
	if err := req.EntryInput.Validate(); err != nil {
		WriteError(w, NewInvalidRequestError(err.Error()))
		return
	}

	// Token shape is checked before any storage lookup; malformed and
	// unknown tokens surface as the same 401
	player, err := h.resolver.Resolve(r.Context(), req.AuthToken)
	if err != nil {
		WriteError(w, err)
		return
	}

	entry, err := h.db.Entries.Upsert(r.Context(), player.ID, date, &req.EntryInput)
	if err != nil {
		WriteError(w, err)
		return
	}
	metrics.RecordEntrySubmitted()

	// Best-effort incremental projection to the spreadsheet; the stored row
	// is already committed, so a sheet failure only logs
	if h.cfg.SheetsSyncOnSubmit && h.sync != nil && h.cfg.GoogleSpreadsheetID != "" {
		if err := h.sync.SyncEntry(r.Context(), h.cfg.GoogleSpreadsheetID, player.Name, date, &req.EntryInput); err != nil {
			log.Warn().
				Err(err).
				Str("player_id", player.ID).
				Msg("Incremental spreadsheet sync failed after submission")
		}
	}

	JSON(w, http.StatusOK, entry.JSON())
}
