package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/jesus-guti/tqr-rpe/internal/metrics"
	"github.com/jesus-guti/tqr-rpe/internal/models"
)

// EntryRepository handles daily-entry database operations
type EntryRepository struct {
	db *Database
}

const entryColumns = `id, player_id, entry_date, tqr_recovery, tqr_energy, tqr_soreness, rpe_borg_scale, created_at, updated_at`

// Upsert inserts the entry for (player, date) or merges the provided metrics
// into the existing row. A single statement keyed on the uniqueness constraint
// keeps racing pre- and post-session submissions from losing fields: COALESCE
// only overwrites a column when the submission actually carried it.
// Returns the full merged row.
func (r *EntryRepository) Upsert(ctx context.Context, playerID string, date time.Time, in *models.EntryInput) (*models.DailyEntry, error) {
	query := `
		INSERT INTO daily_entries (
			player_id, entry_date, tqr_recovery, tqr_energy, tqr_soreness, rpe_borg_scale
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (player_id, entry_date) DO UPDATE SET
			tqr_recovery   = COALESCE(EXCLUDED.tqr_recovery, daily_entries.tqr_recovery),
			tqr_energy     = COALESCE(EXCLUDED.tqr_energy, daily_entries.tqr_energy),
			tqr_soreness   = COALESCE(EXCLUDED.tqr_soreness, daily_entries.tqr_soreness),
			rpe_borg_scale = COALESCE(EXCLUDED.rpe_borg_scale, daily_entries.rpe_borg_scale),
			updated_at     = NOW()
		RETURNING ` + entryColumns

	start := time.Now()
	entry := &models.DailyEntry{}
	err := r.db.Pool.QueryRow(
		ctx, query,
		playerID, date,
		in.TQRRecovery, in.TQREnergy, in.TQRSoreness, in.RPEBorgScale,
	).Scan(
		&entry.ID, &entry.PlayerID, &entry.EntryDate,
		&entry.TQRRecovery, &entry.TQREnergy, &entry.TQRSoreness, &entry.RPEBorgScale,
		&entry.CreatedAt, &entry.UpdatedAt,
	)
	if err != nil {
		metrics.RecordDBQuery("upsert", "daily_entries", "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("failed to upsert entry: %w", err)
	}
	metrics.RecordDBQuery("upsert", "daily_entries", "success", time.Since(start).Seconds())

	log.Debug().
		Str("player_id", playerID).
		Str("entry_date", date.Format("2006-01-02")).
		Msg("Entry upserted")

	return entry, nil
}

// GetByPlayerDate retrieves the entry for a (player, date) pair
func (r *EntryRepository) GetByPlayerDate(ctx context.Context, playerID string, date time.Time) (*models.DailyEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM daily_entries WHERE player_id = $1 AND entry_date = $2`

	entry := &models.DailyEntry{}
	err := r.db.Pool.QueryRow(ctx, query, playerID, date).Scan(
		&entry.ID, &entry.PlayerID, &entry.EntryDate,
		&entry.TQRRecovery, &entry.TQREnergy, &entry.TQRSoreness, &entry.RPEBorgScale,
		&entry.CreatedAt, &entry.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}

	return entry, nil
}

// ListByPlayer retrieves a player's entries since the given date, oldest first
func (r *EntryRepository) ListByPlayer(ctx context.Context, playerID string, since time.Time) ([]*models.DailyEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM daily_entries
		WHERE player_id = $1 AND entry_date >= $2
		ORDER BY entry_date`

	rows, err := r.db.Pool.Query(ctx, query, playerID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListPlayersWithEntries retrieves every player together with their entries
// since the given date. Players without entries are included with an empty
// entry list so the season view still shows them. Ordered by player name,
// then entry date.
func (r *EntryRepository) ListPlayersWithEntries(ctx context.Context, since time.Time) ([]*models.PlayerWithEntries, error) {
	query := `
		SELECT p.id, p.name, p.auth_token, p.created_at, p.updated_at,
		       e.id, e.player_id, e.entry_date,
		       e.tqr_recovery, e.tqr_energy, e.tqr_soreness, e.rpe_borg_scale,
		       e.created_at, e.updated_at
		FROM players p
		LEFT JOIN daily_entries e
		  ON e.player_id = p.id AND e.entry_date >= $1
		ORDER BY p.name, e.entry_date`

	rows, err := r.db.Pool.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list players with entries: %w", err)
	}
	defer rows.Close()

	var result []*models.PlayerWithEntries
	byID := make(map[string]*models.PlayerWithEntries)

	for rows.Next() {
		var p models.Player
		var (
			entryID      *int64
			entryPlayer  *string
			entryDate    *time.Time
			recovery     *int16
			energy       *int16
			soreness     *int16
			rpe          *int16
			entryCreated *time.Time
			entryUpdated *time.Time
		)

		err := rows.Scan(
			&p.ID, &p.Name, &p.AuthToken, &p.CreatedAt, &p.UpdatedAt,
			&entryID, &entryPlayer, &entryDate,
			&recovery, &energy, &soreness, &rpe,
			&entryCreated, &entryUpdated,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player with entries: %w", err)
		}

		pw, ok := byID[p.ID]
		if !ok {
			pw = &models.PlayerWithEntries{Player: p}
			byID[p.ID] = pw
			result = append(result, pw)
		}

		if entryID != nil {
			pw.Entries = append(pw.Entries, &models.DailyEntry{
				ID:           *entryID,
				PlayerID:     *entryPlayer,
				EntryDate:    *entryDate,
				TQRRecovery:  int16ToNull(recovery),
				TQREnergy:    int16ToNull(energy),
				TQRSoreness:  int16ToNull(soreness),
				RPEBorgScale: int16ToNull(rpe),
				CreatedAt:    *entryCreated,
				UpdatedAt:    *entryUpdated,
			})
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating players with entries: %w", err)
	}

	return result, nil
}

// Count returns the total number of entries
func (r *EntryRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM daily_entries`

	var count int
	err := r.db.Pool.QueryRow(ctx, query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}

	return count, nil
}

func scanEntries(rows pgx.Rows) ([]*models.DailyEntry, error) {
	var entries []*models.DailyEntry
	for rows.Next() {
		entry := &models.DailyEntry{}
		err := rows.Scan(
			&entry.ID, &entry.PlayerID, &entry.EntryDate,
			&entry.TQRRecovery, &entry.TQREnergy, &entry.TQRSoreness, &entry.RPEBorgScale,
			&entry.CreatedAt, &entry.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entries: %w", err)
	}

	return entries, nil
}

func int16ToNull(v *int16) (n sql.NullInt16) {
	if v != nil {
		n.Int16 = *v
		n.Valid = true
	}
	return n
}
