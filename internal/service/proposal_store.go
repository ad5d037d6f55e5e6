package service

import (
	"context"
	"sync"
	"time"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

// ProposalStore keeps generation proposals until they are saved or expire.
type ProposalStore interface {
	Save(ctx context.Context, proposal *dto.TimetableProposal) error
	Get(ctx context.Context, id string) (*dto.TimetableProposal, error)
	Delete(ctx context.Context, id string) error
}

// NewProposalStore uses the cache when it is enabled and an in-process map otherwise.
func NewProposalStore(cache *CacheService, ttl time.Duration) ProposalStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if cache.Enabled() {
		return &cachedProposalStore{cache: cache, ttl: ttl}
	}
	return newMemoryProposalStore(ttl, time.Now)
}

func proposalKey(id string) string {
	return "proposal:" + id
}

func proposalNotFound() error {
	return appErrors.Clone(appErrors.ErrNotFound, "proposal not found or expired")
}

type cachedProposalStore struct {
	cache *CacheService
	ttl   time.Duration
}

func (s *cachedProposalStore) Save(ctx context.Context, proposal *dto.TimetableProposal) error {
	if err := s.cache.Set(ctx, proposalKey(proposal.ID), proposal, s.ttl); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store proposal")
	}
	return nil
}

func (s *cachedProposalStore) Get(ctx context.Context, id string) (*dto.TimetableProposal, error) {
	var proposal dto.TimetableProposal
	hit, err := s.cache.Get(ctx, proposalKey(id), &proposal)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load proposal")
	}
	if !hit {
		return nil, proposalNotFound()
	}
	return &proposal, nil
}

func (s *cachedProposalStore) Delete(ctx context.Context, id string) error {
	return s.cache.Delete(ctx, proposalKey(id))
}

type memoryProposalStore struct {
	ttl   time.Duration
	now   func() time.Time
	mu    sync.RWMutex
	items map[string]dto.TimetableProposal
}

func newMemoryProposalStore(ttl time.Duration, now func() time.Time) *memoryProposalStore {
	return &memoryProposalStore{ttl: ttl, now: now, items: make(map[string]dto.TimetableProposal)}
}

func (s *memoryProposalStore) Save(_ context.Context, proposal *dto.TimetableProposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[proposal.ID] = *proposal
	return nil
}

func (s *memoryProposalStore) Get(ctx context.Context, id string) (*dto.TimetableProposal, error) {
	s.mu.RLock()
	proposal, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return nil, proposalNotFound()
	}
	if s.now().Sub(proposal.GeneratedAt) > s.ttl {
		_ = s.Delete(ctx, id)
		return nil, proposalNotFound()
	}
	return &proposal, nil
}

func (s *memoryProposalStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
	return nil
}
