package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/jesus-guti/tqr-rpe/internal/metrics"
	"github.com/jesus-guti/tqr-rpe/internal/models"
)

// PlayerRepository handles player database operations
type PlayerRepository struct {
	db *Database
}

const playerColumns = `id, name, auth_token, created_at, updated_at`

// Create inserts a new player, generating the auth token server-side.
// The token is immutable after creation.
func (r *PlayerRepository) Create(ctx context.Context, name string) (*models.Player, error) {
	query := `
		INSERT INTO players (name, auth_token)
		VALUES ($1, $2)
		RETURNING ` + playerColumns

	player := &models.Player{}
	err := r.db.Pool.QueryRow(ctx, query, name, uuid.NewString()).Scan(
		&player.ID, &player.Name, &player.AuthToken,
		&player.CreatedAt, &player.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	log.Debug().
		Str("id", player.ID).
		Str("name", player.Name).
		Msg("Player created")

	return player, nil
}

// GetByID retrieves a player by ID
func (r *PlayerRepository) GetByID(ctx context.Context, id string) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE id = $1`

	player := &models.Player{}
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&player.ID, &player.Name, &player.AuthToken,
		&player.CreatedAt, &player.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return player, nil
}

// GetByToken retrieves a player by exact auth-token match
func (r *PlayerRepository) GetByToken(ctx context.Context, token string) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE auth_token = $1`

	start := time.Now()
	player := &models.Player{}
	err := r.db.Pool.QueryRow(ctx, query, token).Scan(
		&player.ID, &player.Name, &player.AuthToken,
		&player.CreatedAt, &player.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		metrics.RecordDBQuery("get_by_token", "players", "miss", time.Since(start).Seconds())
		return nil, ErrNotFound
	}
	if err != nil {
		metrics.RecordDBQuery("get_by_token", "players", "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("failed to get player by token: %w", err)
	}

	metrics.RecordDBQuery("get_by_token", "players", "success", time.Since(start).Seconds())
	return player, nil
}

// List retrieves all players ordered by name
func (r *PlayerRepository) List(ctx context.Context) ([]*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players ORDER BY name`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	var players []*models.Player
	for rows.Next() {
		player := &models.Player{}
		err := rows.Scan(
			&player.ID, &player.Name, &player.AuthToken,
			&player.CreatedAt, &player.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, player)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating players: %w", err)
	}

	return players, nil
}

// Update updates a player's name. The auth token is never touched.
func (r *PlayerRepository) Update(ctx context.Context, id, name string) (*models.Player, error) {
	query := `
		UPDATE players SET
			name = $1,
			updated_at = NOW()
		WHERE id = $2
		RETURNING ` + playerColumns

	player := &models.Player{}
	err := r.db.Pool.QueryRow(ctx, query, name, id).Scan(
		&player.ID, &player.Name, &player.AuthToken,
		&player.CreatedAt, &player.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update player: %w", err)
	}

	return player, nil
}

// Delete deletes a player. Daily entries cascade at the schema level.
func (r *PlayerRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM players WHERE id = $1`

	result, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete player: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	log.Debug().Str("id", id).Msg("Player deleted")
	return nil
}

// Count returns the total number of players
func (r *PlayerRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM players`

	var count int
	err := r.db.Pool.QueryRow(ctx, query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}

	return count, nil
}
