package models

import (
	"database/sql"
	"fmt"
	"time"
)

// DailyEntry is one wellness record per (player, calendar date). The four
// metrics are independently optional: the TQR fields arrive with the
// pre-session questionnaire and the RPE field with the post-session one.
type DailyEntry struct {
	ID           int64         `db:"id"`
	PlayerID     string        `db:"player_id"`
	EntryDate    time.Time     `db:"entry_date"`
	TQRRecovery  sql.NullInt16 `db:"tqr_recovery"`
	TQREnergy    sql.NullInt16 `db:"tqr_energy"`
	TQRSoreness  sql.NullInt16 `db:"tqr_soreness"`
	RPEBorgScale sql.NullInt16 `db:"rpe_borg_scale"`
	CreatedAt    time.Time     `db:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at"`
}

// EntryInput carries the metrics of a single submission. Nil fields were not
// part of the submission and must not disturb stored values.
type EntryInput struct {
	TQRRecovery  *int `json:"tqr_recovery,omitempty"`
	TQREnergy    *int `json:"tqr_energy,omitempty"`
	TQRSoreness  *int `json:"tqr_soreness,omitempty"`
	RPEBorgScale *int `json:"rpe_borg_scale,omitempty"`
}

// HasMetrics reports whether at least one metric is present. Empty inputs are
// still valid submissions; the upsert becomes a read.
func (in *EntryInput) HasMetrics() bool {
	return in.TQRRecovery != nil || in.TQREnergy != nil ||
		in.TQRSoreness != nil || in.RPEBorgScale != nil
}

// Validate checks that every present metric is inside its questionnaire range.
func (in *EntryInput) Validate() error {
	if err := checkRange("tqr_recovery", in.TQRRecovery, 0, 10); err != nil {
		return err
	}
	if err := checkRange("tqr_energy", in.TQREnergy, 1, 5); err != nil {
		return err
	}
	if err := checkRange("tqr_soreness", in.TQRSoreness, 1, 5); err != nil {
		return err
	}
	if err := checkRange("rpe_borg_scale", in.RPEBorgScale, 0, 10); err != nil {
		return err
	}
	return nil
}

func checkRange(field string, v *int, min, max int) error {
	if v == nil {
		return nil
	}
	if *v < min || *v > max {
		return fmt.Errorf("%s must be between %d and %d", field, min, max)
	}
	return nil
}

// JSON returns the entry with nullable metrics flattened to pointers for the
// API response.
func (e *DailyEntry) JSON() *DailyEntryJSON {
	return &DailyEntryJSON{
		ID:           e.ID,
		PlayerID:     e.PlayerID,
		EntryDate:    e.EntryDate.Format("2006-01-02"),
		TQRRecovery:  nullToPtr(e.TQRRecovery),
		TQREnergy:    nullToPtr(e.TQREnergy),
		TQRSoreness:  nullToPtr(e.TQRSoreness),
		RPEBorgScale: nullToPtr(e.RPEBorgScale),
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

// DailyEntryJSON is the wire form of a daily entry
type DailyEntryJSON struct {
	ID           int64     `json:"id"`
	PlayerID     string    `json:"player_id"`
	EntryDate    string    `json:"entry_date"`
	TQRRecovery  *int      `json:"tqr_recovery"`
	TQREnergy    *int      `json:"tqr_energy"`
	TQRSoreness  *int      `json:"tqr_soreness"`
	RPEBorgScale *int      `json:"rpe_borg_scale"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func nullToPtr(v sql.NullInt16) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int16)
	return &n
}
