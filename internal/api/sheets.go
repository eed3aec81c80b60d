package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jesus-guti/tqr-rpe/internal/sheets"
)

const defaultSpreadsheetTitle = "CONTROL CARGA TQR-RPE"

type syncRequest struct {
	SpreadsheetID string `json:"spreadsheet_id"`
}

type syncResponse struct {
	Success        bool   `json:"success"`
	PlayersSynced  int    `json:"players_synced"`
	EntriesSynced  int    `json:"entries_synced"`
	DurationMillis int64  `json:"duration_ms"`
	SpreadsheetURL string `json:"spreadsheet_url"`
}

type createSpreadsheetRequest struct {
	Title string `json:"title"`
}

type createSpreadsheetResponse struct {
	Success        bool   `json:"success"`
	SpreadsheetID  string `json:"spreadsheet_id"`
	SpreadsheetURL string `json:"spreadsheet_url"`
}

// SyncSheets handles POST /api/sheets/sync: a full rebuild of the season
// view from the entry store
func (h *Handler) SyncSheets(w http.ResponseWriter, r *http.Request) {
	if h.sync == nil {
		WriteError(w, &httpError{http.StatusBadRequest, APIError{CodeSheetsNotConfigured, "Google Sheets credentials not configured"}})
		return
	}

	var req syncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	spreadsheetID := req.SpreadsheetID
	if spreadsheetID == "" {
		spreadsheetID = h.cfg.GoogleSpreadsheetID
	}
	if spreadsheetID == "" {
		WriteError(w, &httpError{http.StatusBadRequest, APIError{CodeSheetsNotConfigured, "No spreadsheet ID configured"}})
		return
	}

	// The rebuild gets an explicit external time budget; past it the caller
	// sees a timeout rather than a hung request
	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.SheetsSyncTimeout)
	defer cancel()

	result, err := h.sync.SyncAll(ctx, spreadsheetID)
	if err != nil {
		WriteError(w, err)
		return
	}

	JSON(w, http.StatusOK, syncResponse{
		Success:        true,
		PlayersSynced:  result.PlayersSynced,
		EntriesSynced:  result.EntriesSynced,
		DurationMillis: result.Duration.Milliseconds(),
		SpreadsheetURL: sheets.SpreadsheetURL(spreadsheetID),
	})
}

// CreateSpreadsheet handles POST /api/sheets/create: creates a new season
// spreadsheet, optionally relocates it into the configured Drive folder, and
// applies initial headers
func (h *Handler) CreateSpreadsheet(w http.ResponseWriter, r *http.Request) {
	if h.admin == nil {
		WriteError(w, &httpError{http.StatusBadRequest, APIError{CodeSheetsNotConfigured, "Google Sheets credentials not configured"}})
		return
	}

	var req createSpreadsheetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	title := req.Title
	if title == "" {
		title = defaultSpreadsheetTitle
	}

	sheetName := sheets.SeasonLabel(time.Now())
	spreadsheetID, err := h.admin.CreateSpreadsheet(r.Context(), title, sheetName)
	if err != nil {
		WriteError(w, sheets.Classify(err))
		return
	}

	// Relocation and styling are conveniences; the spreadsheet is already
	// usable if either fails
	if h.cfg.GoogleDriveFolderID != "" {
		if err := h.admin.MoveToFolder(r.Context(), spreadsheetID, h.cfg.GoogleDriveFolderID); err != nil {
			log.Warn().Err(err).Str("folder_id", h.cfg.GoogleDriveFolderID).Msg("Failed to move spreadsheet into Drive folder")
		}
	}
	if err := h.admin.FormatHeader(r.Context(), spreadsheetID, sheetName, 26); err != nil {
		log.Warn().Err(err).Msg("Failed to apply initial header formatting")
	}

	JSON(w, http.StatusCreated, createSpreadsheetResponse{
		Success:        true,
		SpreadsheetID:  spreadsheetID,
		SpreadsheetURL: sheets.SpreadsheetURL(spreadsheetID),
	})
}
