package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jesus-guti/tqr-rpe/internal/models"
	"github.com/jesus-guti/tqr-rpe/internal/repository"
)

const knownToken = "123e4567-e89b-12d3-a456-426614174000"

// fakeStore records lookups so tests can assert which tokens ever reach it
type fakeStore struct {
	players map[string]*models.Player
	lookups []string
	err     error
}

func (f *fakeStore) GetByToken(_ context.Context, token string) (*models.Player, error) {
	f.lookups = append(f.lookups, token)
	if f.err != nil {
		return nil, f.err
	}
	if p, ok := f.players[token]; ok {
		return p, nil
	}
	return nil, repository.ErrNotFound
}

type fakeCache struct {
	players map[string]*models.Player
	sets    int
}

func (f *fakeCache) GetPlayer(_ context.Context, token string) (*models.Player, bool) {
	p, ok := f.players[token]
	return p, ok
}

func (f *fakeCache) SetPlayer(_ context.Context, token string, player *models.Player) {
	if f.players == nil {
		f.players = map[string]*models.Player{}
	}
	f.players[token] = player
	f.sets++
}

func TestResolver_ResolvesKnownToken(t *testing.T) {
	store := &fakeStore{players: map[string]*models.Player{
		knownToken: {ID: "p1", Name: "Jude Bellingham", AuthToken: knownToken},
	}}
	r := NewResolver(store, nil)

	player, err := r.Resolve(context.Background(), knownToken)
	require.NoError(t, err)
	assert.Equal(t, "p1", player.ID)
	assert.Equal(t, "Jude Bellingham", player.Name)
}

func TestResolver_MalformedTokenNeverReachesStore(t *testing.T) {
	store := &fakeStore{}
	r := NewResolver(store, nil)

	for _, token := range []string{
		"",
		"short",
		"not-a-uuid-at-all-but-36-chars-long!",
		"123e4567e89b12d3a456426614174000",                       // bare hex, wrong shape
		"{123e4567-e89b-12d3-a456-426614174000}",                 // braced form
		"urn:uuid:123e4567-e89b-12d3-a456-426614174000",          // URN form
		"123e4567-e89b-12d3-a456-426614174000-extra",             // trailing junk
		"' OR '1'='1                         ",                   // padded injection attempt
	} {
		_, err := r.Resolve(context.Background(), token)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q should be rejected", token)
	}

	assert.Empty(t, store.lookups, "Malformed tokens must be rejected before any storage lookup")
}

func TestResolver_UnknownTokenIndistinguishableFromMalformed(t *testing.T) {
	store := &fakeStore{}
	r := NewResolver(store, nil)

	_, unknownErr := r.Resolve(context.Background(), knownToken)
	_, malformedErr := r.Resolve(context.Background(), "nope")

	require.Error(t, unknownErr)
	require.Error(t, malformedErr)
	assert.Equal(t, malformedErr, unknownErr, "Callers must not be able to tell unknown from malformed")
}

func TestResolver_StoreFailureIsNotAnAuthFailure(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	r := NewResolver(store, nil)

	_, err := r.Resolve(context.Background(), knownToken)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidToken, "Infrastructure failures must not look like bad credentials")
}

func TestResolver_CacheHitSkipsStore(t *testing.T) {
	store := &fakeStore{}
	cache := &fakeCache{players: map[string]*models.Player{
		knownToken: {ID: "p1", Name: "Jude Bellingham"},
	}}
	r := NewResolver(store, cache)

	player, err := r.Resolve(context.Background(), knownToken)
	require.NoError(t, err)
	assert.Equal(t, "p1", player.ID)
	assert.Empty(t, store.lookups)
}

func TestResolver_CacheMissFillsCache(t *testing.T) {
	store := &fakeStore{players: map[string]*models.Player{
		knownToken: {ID: "p1", Name: "Jude Bellingham"},
	}}
	cache := &fakeCache{}
	r := NewResolver(store, cache)

	_, err := r.Resolve(context.Background(), knownToken)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)
	assert.Len(t, store.lookups, 1)

	// Second resolve comes from the cache
	_, err = r.Resolve(context.Background(), knownToken)
	require.NoError(t, err)
	assert.Len(t, store.lookups, 1)
}

func TestValidTokenShape(t *testing.T) {
	assert.True(t, ValidTokenShape(knownToken))
	assert.True(t, ValidTokenShape("123E4567-E89B-12D3-A456-426614174000"), "Shape check is case-insensitive")

	assert.False(t, ValidTokenShape(""))
	assert.False(t, ValidTokenShape("123e4567e89b12d3a456426614174000"), "Bare hex is not the canonical shape")
	assert.False(t, ValidTokenShape("123e4567-e89b-12d3-a456-42661417400"), "35 characters")
	assert.False(t, ValidTokenShape("123e4567-e89b-12d3-a456-4266141740000"), "37 characters")
	assert.False(t, ValidTokenShape("zzze4567-e89b-12d3-a456-426614174000"), "Non-hex digits")
}
