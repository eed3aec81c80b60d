package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jesus-guti/tqr-rpe/internal/auth"
	"github.com/jesus-guti/tqr-rpe/internal/repository"
	"github.com/jesus-guti/tqr-rpe/internal/sheets"
)

func TestToHTTPError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized, CodeUnauthorized},
		{"wrapped invalid token", fmt.Errorf("resolve: %w", auth.ErrInvalidToken), http.StatusUnauthorized, CodeUnauthorized},
		{"not found", repository.ErrNotFound, http.StatusNotFound, CodePlayerNotFound},
		{"sheets timeout", sheets.ErrServiceTimeout, http.StatusGatewayTimeout, CodeSheetsTimeout},
		{"sheets permission", sheets.ErrPermissionDenied, http.StatusBadGateway, CodeSheetsError},
		{"sheets tab missing", sheets.ErrSheetTabMissing, http.StatusBadGateway, CodeSheetsError},
		{"unknown error", errors.New("kaboom"), http.StatusInternalServerError, CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			he := toHTTPError(tt.err)
			assert.Equal(t, tt.wantStatus, he.status)
			assert.Equal(t, tt.wantCode, he.apiError.Code)
		})
	}
}

func TestToHTTPError_DoesNotLeakInternals(t *testing.T) {
	he := toHTTPError(errors.New("pq: connection refused host=10.0.0.5"))
	assert.NotContains(t, he.apiError.Message, "10.0.0.5", "Internal details stay out of responses")
	assert.Equal(t, "Internal server error", he.apiError.Message)
}

func TestToHTTPError_SheetsMessagesAreHumanReadable(t *testing.T) {
	he := toHTTPError(sheets.ErrSpreadsheetNotFound)
	assert.Contains(t, he.apiError.Message, "spreadsheet ID")
}
