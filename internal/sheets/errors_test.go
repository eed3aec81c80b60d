package sheets

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"forbidden", &googleapi.Error{Code: 403}, ErrPermissionDenied},
		{"not found", &googleapi.Error{Code: 404}, ErrSpreadsheetNotFound},
		{"missing tab", &googleapi.Error{Code: 400, Message: "Unable to parse range: 'TEMPORADA 2025/2026'!A1"}, ErrSheetTabMissing},
		{"rate limited", &googleapi.Error{Code: 429}, ErrServiceUnavailable},
		{"backend error", &googleapi.Error{Code: 503}, ErrServiceUnavailable},
		{"deadline", context.DeadlineExceeded, ErrServiceTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, Classify(tt.err), tt.want)
		})
	}
}

func TestClassify_PassesThroughUnknownErrors(t *testing.T) {
	err := errors.New("something else entirely")
	assert.Equal(t, err, Classify(err))
	assert.NoError(t, Classify(nil))
}

func TestClassify_IsIdempotent(t *testing.T) {
	classified := Classify(&googleapi.Error{Code: 403})
	assert.Equal(t, classified, Classify(classified), "Re-classifying must not double-wrap")
}

func TestClassify_OtherBadRequestPassesThrough(t *testing.T) {
	err := &googleapi.Error{Code: 400, Message: "Invalid value at data.values"}
	assert.NotErrorIs(t, Classify(err), ErrSheetTabMissing)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&googleapi.Error{Code: 429}))
	assert.True(t, IsRetryable(&googleapi.Error{Code: 500}))
	assert.True(t, IsRetryable(&googleapi.Error{Code: 503}))
	assert.True(t, IsRetryable(Classify(&googleapi.Error{Code: 503})))

	assert.False(t, IsRetryable(&googleapi.Error{Code: 403}))
	assert.False(t, IsRetryable(&googleapi.Error{Code: 404}))
	assert.False(t, IsRetryable(nil))

	// A spent time budget is terminal even though it looks transient
	assert.False(t, IsRetryable(context.DeadlineExceeded))
	assert.False(t, IsRetryable(fmt.Errorf("wrapped: %w", context.Canceled)))
}

func TestHumanMessage(t *testing.T) {
	assert.Contains(t, HumanMessage(Classify(&googleapi.Error{Code: 403})), "share the spreadsheet")
	assert.Contains(t, HumanMessage(Classify(&googleapi.Error{Code: 404})), "spreadsheet ID")
	assert.Contains(t, HumanMessage(ErrSheetTabMissing), "tab not found")
	assert.Equal(t, "spreadsheet sync failed", HumanMessage(errors.New("mystery")))
}
