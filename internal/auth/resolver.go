// Package auth resolves opaque bearer tokens to player identities.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jesus-guti/tqr-rpe/internal/models"
	"github.com/jesus-guti/tqr-rpe/internal/repository"
)

// ErrInvalidToken covers both malformed and unknown tokens. Callers must not
// be able to tell the two apart, so well-formedness of a guessed token leaks
// nothing.
var ErrInvalidToken = errors.New("invalid auth token")

// PlayerGetter is the slice of the player store the resolver needs
type PlayerGetter interface {
	GetByToken(ctx context.Context, token string) (*models.Player, error)
}

// TokenCache is an optional lookaside cache for resolved tokens. Cache
// failures are ignored; the store stays authoritative.
type TokenCache interface {
	GetPlayer(ctx context.Context, token string) (*models.Player, bool)
	SetPlayer(ctx context.Context, token string, player *models.Player)
}

// Resolver validates token shape and resolves tokens against the player store
type Resolver struct {
	players PlayerGetter
	cache   TokenCache
}

// NewResolver creates a resolver. cache may be nil.
func NewResolver(players PlayerGetter, cache TokenCache) *Resolver {
	return &Resolver{players: players, cache: cache}
}

// Resolve validates the candidate token and returns the matching player.
// Tokens that do not match the canonical 36-character UUID shape are rejected
// before any storage lookup.
func (r *Resolver) Resolve(ctx context.Context, token string) (*models.Player, error) {
	if !ValidTokenShape(token) {
		return nil, ErrInvalidToken
	}

	if r.cache != nil {
		if player, ok := r.cache.GetPlayer(ctx, token); ok {
			return player, nil
		}
	}

	player, err := r.players.GetByToken(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve token: %w", err)
	}

	if r.cache != nil {
		r.cache.SetPlayer(ctx, token, player)
	}

	log.Debug().Str("player_id", player.ID).Msg("Token resolved")
	return player, nil
}

// ValidTokenShape reports whether the candidate matches the canonical UUID
// textual form: 32 hex digits grouped 8-4-4-4-12, case-insensitive.
// uuid.Parse alone also accepts braced, URN and bare-hex forms, so the length
// check pins the canonical shape.
func ValidTokenShape(token string) bool {
	if len(token) != 36 {
		return false
	}
	_, err := uuid.Parse(token)
	return err == nil
}
