package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/jesus-guti/tqr-rpe/internal/auth"
	"github.com/jesus-guti/tqr-rpe/internal/metrics"
	"github.com/jesus-guti/tqr-rpe/internal/repository"
	"github.com/jesus-guti/tqr-rpe/internal/sheets"
)

// APIError is the error payload of every non-2xx response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodePlayerNotFound      = "PLAYER_NOT_FOUND"
	CodeSheetsNotConfigured = "SHEETS_NOT_CONFIGURED"
	CodeSheetsError         = "SHEETS_ERROR"
	CodeSheetsTimeout       = "SHEETS_TIMEOUT"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// NewInvalidRequestError builds a 400 error with the given message
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	if he.status >= http.StatusInternalServerError {
		log.Error().Err(err).Msg("Request failed")
		metrics.RecordError("api", he.apiError.Code)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken):
		// Malformed and unknown tokens are deliberately indistinguishable
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid auth token"}}
	case errors.Is(err, repository.ErrNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, sheets.ErrServiceTimeout):
		return &httpError{http.StatusGatewayTimeout, APIError{CodeSheetsTimeout, sheets.HumanMessage(err)}}
	case errors.Is(err, sheets.ErrPermissionDenied),
		errors.Is(err, sheets.ErrSpreadsheetNotFound),
		errors.Is(err, sheets.ErrSheetTabMissing),
		errors.Is(err, sheets.ErrServiceUnavailable):
		return &httpError{http.StatusBadGateway, APIError{CodeSheetsError, sheets.HumanMessage(err)}}
	}

	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
