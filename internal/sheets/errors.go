package sheets

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
)

// Classified spreadsheet-service failures. Handlers map these to statuses and
// human-readable messages instead of surfacing raw client errors.
var (
	ErrPermissionDenied    = errors.New("spreadsheet permission denied")
	ErrSpreadsheetNotFound = errors.New("spreadsheet not found")
	ErrSheetTabMissing     = errors.New("sheet tab not found")
	ErrServiceTimeout      = errors.New("spreadsheet service timeout")
	ErrServiceUnavailable  = errors.New("spreadsheet service unavailable")
)

// Classify wraps a raw spreadsheet client error with the matching sentinel.
// Unclassifiable errors pass through unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrPermissionDenied),
		errors.Is(err, ErrSpreadsheetNotFound),
		errors.Is(err, ErrSheetTabMissing),
		errors.Is(err, ErrServiceTimeout),
		errors.Is(err, ErrServiceUnavailable):
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrServiceTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrServiceTimeout, err)
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusForbidden:
			return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %v", ErrSpreadsheetNotFound, err)
		case http.StatusBadRequest:
			// The values API reports a missing tab as a range-parse failure
			if strings.Contains(apiErr.Message, "Unable to parse range") {
				return fmt.Errorf("%w: %v", ErrSheetTabMissing, err)
			}
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
		}
	}

	return err
}

// IsRetryable reports whether an error is a transient condition worth an
// exponential-backoff retry. Context expiry is terminal: the time budget is
// spent.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, ErrServiceUnavailable) {
		return true
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	return false
}

// HumanMessage translates a classified error into the message shown to the
// administrator who triggered the sync
func HumanMessage(err error) string {
	switch {
	case errors.Is(err, ErrPermissionDenied):
		return "permission denied — share the spreadsheet with the service account"
	case errors.Is(err, ErrSpreadsheetNotFound):
		return "spreadsheet not found — check the configured spreadsheet ID"
	case errors.Is(err, ErrSheetTabMissing):
		return "spreadsheet tab not found — create it first"
	case errors.Is(err, ErrServiceTimeout):
		return "spreadsheet service timed out — try again later"
	case errors.Is(err, ErrServiceUnavailable):
		return "spreadsheet service unavailable — try again later"
	default:
		return "spreadsheet sync failed"
	}
}
