package models

import (
	"time"
)

// Player represents a squad member who submits wellness questionnaires.
// The auth token is a canonical UUID string generated at creation time and is
// the player's sole submission credential; it never changes.
type Player struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	AuthToken string    `db:"auth_token" json:"auth_token"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// PlayerWithEntries bundles a player with their daily entries, ordered by
// entry date. Used by the spreadsheet sync to build the season view.
type PlayerWithEntries struct {
	Player
	Entries []*DailyEntry
}
