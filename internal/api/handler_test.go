package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jesus-guti/tqr-rpe/internal/auth"
	"github.com/jesus-guti/tqr-rpe/internal/config"
	"github.com/jesus-guti/tqr-rpe/internal/models"
	"github.com/jesus-guti/tqr-rpe/internal/repository"
)

const testToken = "123e4567-e89b-12d3-a456-426614174000"

// emptyStore is a player store that knows no tokens
type emptyStore struct{}

func (emptyStore) GetByToken(context.Context, string) (*models.Player, error) {
	return nil, repository.ErrNotFound
}

func newTestHandler() *Handler {
	cfg := &config.Config{AdminToken: "hunter2"}
	resolver := auth.NewResolver(emptyStore{}, nil)
	return NewHandler(cfg, nil, resolver, nil, nil, nil)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func postEntry(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/entries", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.SubmitEntry(rec, req)
	return rec
}

func TestSubmitEntry_RejectsMalformedBody(t *testing.T) {
	h := newTestHandler()

	rec := postEntry(h, "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, CodeInvalidRequest, decodeError(t, rec).Error.Code)
}

func TestSubmitEntry_RequiresEntryDate(t *testing.T) {
	h := newTestHandler()

	rec := postEntry(h, `{"auth_token":"`+testToken+`","tqr_recovery":5}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec).Error.Message, "entry_date")
}

func TestSubmitEntry_RejectsBadDateFormat(t *testing.T) {
	h := newTestHandler()

	rec := postEntry(h, `{"auth_token":"`+testToken+`","entry_date":"21/09/2025"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec).Error.Message, "ISO date")
}

func TestSubmitEntry_RejectsOutOfRangeMetrics(t *testing.T) {
	h := newTestHandler()

	tests := []struct {
		name string
		body string
	}{
		{"recovery too high", `{"auth_token":"` + testToken + `","entry_date":"2025-09-21","tqr_recovery":11}`},
		{"energy zero", `{"auth_token":"` + testToken + `","entry_date":"2025-09-21","tqr_energy":0}`},
		{"soreness too high", `{"auth_token":"` + testToken + `","entry_date":"2025-09-21","tqr_soreness":6}`},
		{"rpe negative", `{"auth_token":"` + testToken + `","entry_date":"2025-09-21","rpe_borg_scale":-1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postEntry(h, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, CodeInvalidRequest, decodeError(t, rec).Error.Code)
		})
	}
}

func TestSubmitEntry_UnknownAndMalformedTokensLookIdentical(t *testing.T) {
	h := newTestHandler()

	unknown := postEntry(h, `{"auth_token":"`+testToken+`","entry_date":"2025-09-21","tqr_recovery":5}`)
	malformed := postEntry(h, `{"auth_token":"definitely-not-a-uuid","entry_date":"2025-09-21","tqr_recovery":5}`)

	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, http.StatusUnauthorized, malformed.Code)
	assert.Equal(t, unknown.Body.String(), malformed.Body.String(),
		"The response must not reveal whether a well-formed token exists")
}

func TestAdminOnly(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	protected := AdminOnly("hunter2")(next)

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/players", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/players", nil)
		req.Header.Set("X-Admin-Token", "guess")
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("correct token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/players", nil)
		req.Header.Set("X-Admin-Token", "hunter2")
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unconfigured token disables the check", func(t *testing.T) {
		open := AdminOnly("")(next)
		rec := httptest.NewRecorder()
		open.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/players", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRouter_AdminRoutesRequireToken(t *testing.T) {
	h := newTestHandler()
	router := NewRouter(h)

	for _, tc := range []struct {
		method, path string
	}{
		{http.MethodGet, "/api/players"},
		{http.MethodPost, "/api/players"},
		{http.MethodDelete, "/api/players/p1"},
		{http.MethodGet, "/api/players/p1/entries"},
		{http.MethodPost, "/api/sheets/sync"},
		{http.MethodPost, "/api/sheets/create"},
	} {
		req := httptest.NewRequest(tc.method, tc.path, strings.NewReader("{}"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s should be admin-only", tc.method, tc.path)
	}
}

func TestRouter_SubmissionEndpointIsPublic(t *testing.T) {
	h := newTestHandler()
	router := NewRouter(h)

	// No admin header: the endpoint must still run and fail on its own
	// validation, not on the admin check
	req := httptest.NewRequest(http.MethodPost, "/api/entries", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec).Error.Message, "entry_date")
}

func TestCreatePlayer_RequiresName(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/players", strings.NewReader(`{"name":""}`))
	rec := httptest.NewRecorder()
	h.CreatePlayer(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec).Error.Message, "name")
}

func TestSyncSheets_WithoutSheetsConfigured(t *testing.T) {
	h := newTestHandler() // sync service is nil

	req := httptest.NewRequest(http.MethodPost, "/api/sheets/sync", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.SyncSheets(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, CodeSheetsNotConfigured, decodeError(t, rec).Error.Code)
}

func TestCreateSpreadsheet_WithoutSheetsConfigured(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/sheets/create", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.CreateSpreadsheet(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, CodeSheetsNotConfigured, decodeError(t, rec).Error.Code)
}
