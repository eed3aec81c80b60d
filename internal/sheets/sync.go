// Package sheets reconciles stored wellness entries against the layout of an
// external spreadsheet. The adapter is stateless: row and column positions
// are rediscovered from the grid on every call, so manual edits between syncs
// cannot strand it on stale indices.
package sheets

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jesus-guti/tqr-rpe/internal/metrics"
	"github.com/jesus-guti/tqr-rpe/internal/models"
)

// EntrySource is the slice of the entry store the full rebuild reads from
type EntrySource interface {
	ListPlayersWithEntries(ctx context.Context, since time.Time) ([]*models.PlayerWithEntries, error)
}

// SyncResult summarizes a completed full rebuild
type SyncResult struct {
	PlayersSynced int
	EntriesSynced int
	Duration      time.Duration
}

// SyncService applies application-side entries to the external season grid.
// Incremental mode touches only the cells of one (player, date) update; full
// rebuild regenerates the whole season view from the entry store.
type SyncService struct {
	api     API
	admin   Admin // nil when the backend cannot format (e.g. test fakes)
	entries EntrySource

	maxRetries int
	retryDelay time.Duration
	now        func() time.Time
}

// NewSyncService creates a sync service. admin may be nil; formatting is then
// skipped.
func NewSyncService(api API, admin Admin, entries EntrySource) *SyncService {
	return &SyncService{
		api:        api,
		admin:      admin,
		entries:    entries,
		maxRetries: 3,
		retryDelay: 1 * time.Second,
		now:        time.Now,
	}
}

// SyncEntry applies one player's one-date update to the grid without
// rewriting the whole sheet. Only the metrics present in the input produce
// cell writes; absent metrics leave the external cells untouched, mirroring
// the merge semantics of the entry store.
//
// Two concurrent calls that both miss the same new date column can race to
// append duplicate column groups; the external service offers no cross-call
// isolation and this adapter does not add any.
func (s *SyncService) SyncEntry(ctx context.Context, spreadsheetID, playerName string, date time.Time, in *models.EntryInput) error {
	if !in.HasMetrics() {
		return nil
	}

	sheetName := SeasonLabel(s.now())

	baseCol, err := s.findOrCreateDateColumn(ctx, spreadsheetID, sheetName, date)
	if err != nil {
		return Classify(err)
	}

	playerRow, err := s.findOrCreatePlayerRow(ctx, spreadsheetID, sheetName, playerName)
	if err != nil {
		return Classify(err)
	}

	// Stage one single-cell write per provided metric
	var writes []ValueRange
	stage := func(offset int, v *int) {
		if v == nil {
			return
		}
		writes = append(writes, ValueRange{
			Range:  cellRef(sheetName, baseCol+offset, playerRow),
			Values: [][]interface{}{{*v}},
		})
	}
	stage(offsetRecovery, in.TQRRecovery)
	stage(offsetEnergy, in.TQREnergy)
	stage(offsetSoreness, in.TQRSoreness)
	stage(offsetRPE, in.RPEBorgScale)

	start := time.Now()
	err = s.withRetry(ctx, "entry_write", func() error {
		return s.api.BatchWrite(ctx, spreadsheetID, writes)
	})
	if err != nil {
		metrics.RecordSync("incremental", "failure", time.Since(start).Seconds())
		return Classify(err)
	}

	metrics.RecordSync("incremental", "success", time.Since(start).Seconds())
	log.Debug().
		Str("player", playerName).
		Str("date", DateLabel(date)).
		Int("cells", len(writes)).
		Msg("Entry synced to spreadsheet")

	return nil
}

// SyncAll regenerates the entire season view from the entry store: one row
// per player, one four-column group per calendar date from the season start
// through today. Players without entries still get a row with blank metric
// cells.
func (s *SyncService) SyncAll(ctx context.Context, spreadsheetID string) (*SyncResult, error) {
	start := time.Now()
	now := s.now()
	sheetName := SeasonLabel(now)

	players, err := s.entries.ListPlayersWithEntries(ctx, SeasonStart(now))
	if err != nil {
		return nil, fmt.Errorf("failed to load entries for sync: %w", err)
	}

	matrix, entryCount := buildSeasonMatrix(players, now)

	writeAll := func(format bool) error {
		clearRange := fmt.Sprintf("'%s'!A1:%s%d", sheetName, colLetter(len(matrix[0])), headerRows+len(players)+100)
		if err := s.api.ClearRange(ctx, spreadsheetID, clearRange); err != nil {
			return err
		}
		if err := s.api.WriteRange(ctx, spreadsheetID, fmt.Sprintf("'%s'!A1", sheetName), matrix); err != nil {
			return err
		}
		if format && s.admin != nil {
			// Styling is cosmetic: a sheet with data and no shading beats no
			// sheet at all
			if err := s.admin.FormatHeader(ctx, spreadsheetID, sheetName, len(matrix[0])); err != nil {
				log.Warn().Err(err).Msg("Header formatting failed, keeping unformatted sheet")
			}
		}
		return nil
	}

	err = s.withRetry(ctx, "full_rebuild", func() error { return writeAll(true) })
	if err != nil {
		log.Warn().Err(err).Msg("Formatted rebuild exhausted retries, attempting plain data write")
		if err = writeAll(false); err != nil {
			metrics.RecordSync("full", "failure", time.Since(start).Seconds())
			return nil, Classify(err)
		}
	}

	result := &SyncResult{
		PlayersSynced: len(players),
		EntriesSynced: entryCount,
		Duration:      time.Since(start),
	}

	metrics.RecordSync("full", "success", result.Duration.Seconds())
	log.Info().
		Int("players", result.PlayersSynced).
		Int("entries", result.EntriesSynced).
		Dur("duration", result.Duration).
		Str("sheet", sheetName).
		Msg("Full spreadsheet sync complete")

	return result, nil
}

// findOrCreateDateColumn locates the base column of the date's four-column
// group in the first header row, appending a new group at the end of the
// header area when absent. Idempotent: a second call for the same date finds
// the group it created.
func (s *SyncService) findOrCreateDateColumn(ctx context.Context, spreadsheetID, sheetName string, date time.Time) (int, error) {
	header, err := s.api.ReadRange(ctx, spreadsheetID, fmt.Sprintf("'%s'!1:2", sheetName))
	if err != nil {
		return 0, fmt.Errorf("failed to read header rows: %w", err)
	}

	label := DateLabel(date)

	var row1 []interface{}
	if len(header) > 0 {
		row1 = header[0]
	}
	for col := firstDateCol; col < len(row1); col++ {
		if cellString(row1[col]) == label {
			return col, nil
		}
	}

	// Append a new group after the last occupied header column, snapped to
	// the four-column grid: the read trims trailing empty cells, so the raw
	// row length can land inside the previous group.
	occupied := len(row1) - firstDateCol
	if occupied < 0 {
		occupied = 0
	}
	groups := (occupied + metricsPerDate - 1) / metricsPerDate
	baseCol := firstDateCol + groups*metricsPerDate

	headerRange := fmt.Sprintf("'%s'!%s1:%s2", sheetName, colLetter(baseCol), colLetter(baseCol+metricsPerDate-1))
	values := [][]interface{}{
		{label, "", "", ""},
		{metricLabels[0], metricLabels[1], metricLabels[2], metricLabels[3]},
	}
	if err := s.api.WriteRange(ctx, spreadsheetID, headerRange, values); err != nil {
		return 0, fmt.Errorf("failed to create date column group: %w", err)
	}

	log.Debug().Str("label", label).Int("column", baseCol).Msg("Date column group created")
	return baseCol, nil
}

// findOrCreatePlayerRow locates the player's row by exact name match in
// column A below the headers, appending a new row when absent. First exact
// match wins; differently-cased duplicates are left alone.
func (s *SyncService) findOrCreatePlayerRow(ctx context.Context, spreadsheetID, sheetName string, playerName string) (int, error) {
	names, err := s.api.ReadRange(ctx, spreadsheetID, fmt.Sprintf("'%s'!A%d:A", sheetName, firstPlayerRow))
	if err != nil {
		return 0, fmt.Errorf("failed to read player column: %w", err)
	}

	for i, row := range names {
		if len(row) > 0 && cellString(row[0]) == playerName {
			return firstPlayerRow + i, nil
		}
	}

	row := firstPlayerRow + len(names)
	nameRange := cellRef(sheetName, 0, row)
	if err := s.api.WriteRange(ctx, spreadsheetID, nameRange, [][]interface{}{{playerName}}); err != nil {
		return 0, fmt.Errorf("failed to create player row: %w", err)
	}

	log.Debug().Str("player", playerName).Int("row", row).Msg("Player row created")
	return row, nil
}

// withRetry runs fn, retrying transient failures with exponential backoff
// (1s, 2s, 4s) up to the attempt cap
func (s *SyncService) withRetry(ctx context.Context, op string, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := s.retryDelay * time.Duration(1<<uint(attempt-1))
			log.Info().
				Str("operation", op).
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("Retrying spreadsheet operation after backoff")

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		err := fn()
		if err == nil {
			return nil
		}

		lastErr = err
		if !IsRetryable(Classify(err)) {
			return err
		}
	}

	return lastErr
}

// buildSeasonMatrix assembles the in-memory grid for the full rebuild:
// header rows plus one row per player, four cells per season date. Returns
// the matrix and the number of entries placed into it.
func buildSeasonMatrix(players []*models.PlayerWithEntries, now time.Time) ([][]interface{}, int) {
	dates := seasonDates(now)

	colForDate := make(map[string]int, len(dates))
	width := firstDateCol + len(dates)*metricsPerDate

	row1 := make([]interface{}, width)
	row2 := make([]interface{}, width)
	for i := range row1 {
		row1[i] = ""
		row2[i] = ""
	}
	row2[0] = "Jugador"
	for i, d := range dates {
		base := firstDateCol + i*metricsPerDate
		colForDate[d.Format("2006-01-02")] = base
		row1[base] = DateLabel(d)
		for m, label := range metricLabels {
			row2[base+m] = label
		}
	}

	matrix := [][]interface{}{row1, row2}
	entryCount := 0

	for _, p := range players {
		row := make([]interface{}, width)
		for i := range row {
			row[i] = ""
		}
		row[0] = p.Name

		for _, e := range p.Entries {
			base, ok := colForDate[e.EntryDate.Format("2006-01-02")]
			if !ok {
				continue
			}
			if e.TQRRecovery.Valid {
				row[base+offsetRecovery] = int(e.TQRRecovery.Int16)
			}
			if e.TQREnergy.Valid {
				row[base+offsetEnergy] = int(e.TQREnergy.Int16)
			}
			if e.TQRSoreness.Valid {
				row[base+offsetSoreness] = int(e.TQRSoreness.Int16)
			}
			if e.RPEBorgScale.Valid {
				row[base+offsetRPE] = int(e.RPEBorgScale.Int16)
			}
			entryCount++
		}

		matrix = append(matrix, row)
	}

	return matrix, entryCount
}

func cellString(v interface{}) string {
	s, _ := v.(string)
	return s
}
