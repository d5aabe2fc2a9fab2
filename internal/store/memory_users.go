package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/parisbet/backend/internal/apperr"
	"github.com/parisbet/backend/internal/models"
)

// MemoryUserStore holds users and their stats in mutex-guarded maps.
// It is the reference identity store; PostgresUserStore is the
// persistent alternative.
type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]models.User
	stats map[string]models.UserStats
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		users: make(map[string]models.User),
		stats: make(map[string]models.UserStats),
	}
}

// CreateUser stores a new user with zeroed stats. Fails with
// apperr.ErrAlreadyExists if the login is taken.
func (s *MemoryUserStore) CreateUser(ctx context.Context, login, hashedPassword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[login]; ok {
		return apperr.ErrAlreadyExists
	}
	s.users[login] = models.User{
		Login:     login,
		Password:  hashedPassword,
		CreatedAt: time.Now(),
	}
	s.stats[login] = models.UserStats{Login: login}
	return nil
}

func (s *MemoryUserStore) GetUser(ctx context.Context, login string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[login]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return &u, nil
}

func (s *MemoryUserStore) ListLogins(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	logins := make([]string, 0, len(s.users))
	for login := range s.users {
		logins = append(logins, login)
	}
	sort.Strings(logins)
	return logins, nil
}

// GetStats returns the user's stats, or all-zero stats if none were
// recorded yet.
func (s *MemoryUserStore) GetStats(ctx context.Context, login string) (*models.UserStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.stats[login]
	if !ok {
		st = models.UserStats{Login: login}
	}
	return &st, nil
}

// ApplyStatsDelta adds the delta to the user's stats, creating a
// zero-valued record first if none exists.
func (s *MemoryUserStore) ApplyStatsDelta(ctx context.Context, login string, d models.StatsDelta) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stats[login]
	if !ok {
		st = models.UserStats{Login: login}
	}
	st.Points += d.Points
	st.TotalBets += d.TotalBets
	st.WonBets += d.WonBets
	st.LostBets += d.LostBets
	s.stats[login] = st
	return nil
}

// AllStats returns a snapshot of every stats record.
func (s *MemoryUserStore) AllStats(ctx context.Context) ([]models.UserStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.UserStats, 0, len(s.stats))
	for _, st := range s.stats {
		out = append(out, st)
	}
	return out, nil
}
