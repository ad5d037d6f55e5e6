package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

type memoryCacheRepo struct {
	items map[string]interface{}
	ttls  map[string]time.Duration
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{items: make(map[string]interface{}), ttls: make(map[string]time.Duration)}
}

func (m *memoryCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	v, ok := m.items[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	p := dest.(*dto.TimetableProposal)
	*p = *(v.(*dto.TimetableProposal))
	return nil
}

func (m *memoryCacheRepo) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	m.items[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *memoryCacheRepo) Delete(_ context.Context, key string) error {
	delete(m.items, key)
	return nil
}

func TestMemoryProposalStoreExpires(t *testing.T) {
	now := time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)
	store := newMemoryProposalStore(time.Minute, func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &dto.TimetableProposal{ID: "p-1", GeneratedAt: now}))
	got, err := store.Get(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, "p-1", got.ID)

	now = now.Add(2 * time.Minute)
	_, err = store.Get(ctx, "p-1")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestNewProposalStoreUsesCacheWhenEnabled(t *testing.T) {
	repo := newMemoryCacheRepo()
	cache := NewCacheService(repo, NewMetricsService(), time.Minute, nil, true)
	store := NewProposalStore(cache, 10*time.Minute)
	ctx := context.Background()

	require.IsType(t, &cachedProposalStore{}, store)
	require.NoError(t, store.Save(ctx, &dto.TimetableProposal{ID: "p-2"}))
	assert.Equal(t, 10*time.Minute, repo.ttls["proposal:p-2"])

	got, err := store.Get(ctx, "p-2")
	require.NoError(t, err)
	assert.Equal(t, "p-2", got.ID)

	require.NoError(t, store.Delete(ctx, "p-2"))
	_, err = store.Get(ctx, "p-2")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestNewProposalStoreFallsBackToMemory(t *testing.T) {
	disabled := NewCacheService(newMemoryCacheRepo(), nil, time.Minute, nil, false)
	assert.IsType(t, &memoryProposalStore{}, NewProposalStore(disabled, 0))
	assert.IsType(t, &memoryProposalStore{}, NewProposalStore(nil, 0))
}
