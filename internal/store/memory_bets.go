package store

import (
	"context"
	"sync"

	"github.com/parisbet/backend/internal/apperr"
	"github.com/parisbet/backend/internal/models"
)

// MemoryBetStore holds bets and their vote sets in mutex-guarded
// maps, preserving insertion order for listing. It is the reference
// bet store; MongoBetStore is the persistent alternative.
//
// The store is plain CRUD: the multi-step checks (duplicate vote,
// status transitions) belong to the lifecycle engine, which serializes
// them.
type MemoryBetStore struct {
	mu    sync.RWMutex
	bets  map[string]models.Bet
	order []string
	votes map[string][]models.Vote
}

func NewMemoryBetStore() *MemoryBetStore {
	return &MemoryBetStore{
		bets:  make(map[string]models.Bet),
		votes: make(map[string][]models.Vote),
	}
}

func (s *MemoryBetStore) CreateBet(ctx context.Context, b *models.Bet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bets[b.ID] = *b
	s.order = append(s.order, b.ID)
	return nil
}

func (s *MemoryBetStore) GetBet(ctx context.Context, id string) (*models.Bet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bets[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return &b, nil
}

// ListBets returns bets in insertion order.
func (s *MemoryBetStore) ListBets(ctx context.Context) ([]models.Bet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Bet, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.bets[id])
	}
	return out, nil
}

func (s *MemoryBetStore) Votes(ctx context.Context, id string) ([]models.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.bets[id]; !ok {
		return nil, apperr.ErrNotFound
	}
	votes := s.votes[id]
	out := make([]models.Vote, len(votes))
	copy(out, votes)
	return out, nil
}

func (s *MemoryBetStore) AddVote(ctx context.Context, id string, v models.Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bets[id]; !ok {
		return apperr.ErrNotFound
	}
	s.votes[id] = append(s.votes[id], v)
	return nil
}

// SetStatus transitions a bet's status. resolvedOption is nil for
// every status except resolved.
func (s *MemoryBetStore) SetStatus(ctx context.Context, id string, status models.BetStatus, resolvedOption *int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bets[id]
	if !ok {
		return apperr.ErrNotFound
	}
	b.Status = status
	b.ResolvedOption = resolvedOption
	s.bets[id] = b
	return nil
}
