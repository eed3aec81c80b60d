package models

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v int) *int { return &v }

func TestEntryInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		input   EntryInput
		wantErr string
	}{
		{"empty input", EntryInput{}, ""},
		{"full valid input", EntryInput{TQRRecovery: ptr(10), TQREnergy: ptr(5), TQRSoreness: ptr(1), RPEBorgScale: ptr(0)}, ""},
		{"recovery floor", EntryInput{TQRRecovery: ptr(0)}, ""},
		{"recovery too high", EntryInput{TQRRecovery: ptr(11)}, "tqr_recovery must be between 0 and 10"},
		{"recovery negative", EntryInput{TQRRecovery: ptr(-1)}, "tqr_recovery must be between 0 and 10"},
		{"energy zero", EntryInput{TQREnergy: ptr(0)}, "tqr_energy must be between 1 and 5"},
		{"energy too high", EntryInput{TQREnergy: ptr(6)}, "tqr_energy must be between 1 and 5"},
		{"soreness zero", EntryInput{TQRSoreness: ptr(0)}, "tqr_soreness must be between 1 and 5"},
		{"rpe too high", EntryInput{RPEBorgScale: ptr(11)}, "rpe_borg_scale must be between 0 and 10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.EqualError(t, err, tt.wantErr)
			}
		})
	}
}

func TestEntryInput_HasMetrics(t *testing.T) {
	assert.False(t, (&EntryInput{}).HasMetrics())
	assert.True(t, (&EntryInput{TQRRecovery: ptr(5)}).HasMetrics())
	assert.True(t, (&EntryInput{RPEBorgScale: ptr(0)}).HasMetrics(), "A zero value is still a present metric")
}

func TestDailyEntry_JSON(t *testing.T) {
	entry := &DailyEntry{
		ID:           42,
		PlayerID:     "p1",
		EntryDate:    time.Date(2025, time.September, 21, 0, 0, 0, 0, time.UTC),
		TQRRecovery:  sql.NullInt16{Int16: 7, Valid: true},
		RPEBorgScale: sql.NullInt16{},
	}

	out := entry.JSON()
	assert.Equal(t, "2025-09-21", out.EntryDate)
	require.NotNil(t, out.TQRRecovery)
	assert.Equal(t, 7, *out.TQRRecovery)
	assert.Nil(t, out.RPEBorgScale, "Absent metrics serialize as null, not zero")
	assert.Nil(t, out.TQREnergy)
}
