package bet

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/parisbet/backend/internal/apperr"
	"github.com/parisbet/backend/internal/models"
)

// Points moved on resolution: each correct voter gains WinPoints,
// each incorrect voter loses LossPenalty.
const (
	WinPoints   = 10
	LossPenalty = 5
)

// BetStore defines the bet persistence the engine needs. The store is
// plain CRUD; all precondition checks happen in the engine under its
// lock.
type BetStore interface {
	CreateBet(ctx context.Context, b *models.Bet) error
	GetBet(ctx context.Context, id string) (*models.Bet, error)
	ListBets(ctx context.Context) ([]models.Bet, error)
	Votes(ctx context.Context, id string) ([]models.Vote, error)
	AddVote(ctx context.Context, id string, v models.Vote) error
	SetStatus(ctx context.Context, id string, status models.BetStatus, resolvedOption *int) error
}

// UserStore is the slice of the identity store the engine mutates.
type UserStore interface {
	ApplyStatsDelta(ctx context.Context, login string, d models.StatsDelta) error
}

// Engine enforces the bet state machine: active -> resolved and
// active -> cancelled, both one-way. Its mutex serializes every
// mutating operation, so the duplicate-vote check and the
// resolve-partition-payout sequence each run as a single critical
// section; no vote can land once resolution has started reading the
// vote set.
type Engine struct {
	mu    sync.Mutex
	bets  BetStore
	users UserStore
}

func NewEngine(bets BetStore, users UserStore) *Engine {
	return &Engine{bets: bets, users: users}
}

// Create allocates a new active bet and returns its id. League
// defaults to "general" when empty.
func (e *Engine) Create(ctx context.Context, title, description string, options []string, creator, league string) (string, error) {
	if len(options) < 2 {
		return "", apperr.ErrTooFewOptions
	}
	if league == "" {
		league = "general"
	}

	b := &models.Bet{
		ID:          uuid.New().String(),
		Title:       title,
		Description: description,
		Options:     options,
		Status:      models.BetStatusActive,
		Creator:     creator,
		League:      league,
		CreatedAt:   time.Now(),
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.bets.CreateBet(ctx, b); err != nil {
		return "", err
	}
	return b.ID, nil
}

// Vote records login's choice on an active bet and bumps the user's
// total-bets counter. The counter moves at vote time, not at
// resolution, so a later-cancelled bet leaves it incremented.
func (e *Engine) Vote(ctx context.Context, betID, login string, optionIndex int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	b, err := e.bets.GetBet(ctx, betID)
	if err != nil {
		return err
	}
	if b.Status != models.BetStatusActive {
		return apperr.ErrBetNotActive
	}
	if optionIndex < 0 || optionIndex >= len(b.Options) {
		return apperr.ErrInvalidOption
	}

	votes, err := e.bets.Votes(ctx, betID)
	if err != nil {
		return err
	}
	for _, v := range votes {
		if v.User == login {
			return apperr.ErrDuplicateVote
		}
	}

	vote := models.Vote{User: login, OptionIndex: optionIndex, VotedAt: time.Now()}
	if err := e.bets.AddVote(ctx, betID, vote); err != nil {
		return err
	}
	return e.users.ApplyStatsDelta(ctx, login, models.StatsDelta{TotalBets: 1})
}

// Resolve declares the winning option and distributes points: +10 and
// a won-bet for every correct voter, -5 and a lost-bet for everyone
// else. Only the creator may resolve, and only once; the status flip
// makes any further vote or resolve fail.
func (e *Engine) Resolve(ctx context.Context, betID string, winningOptionIndex int, resolver string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	b, err := e.bets.GetBet(ctx, betID)
	if err != nil {
		return err
	}
	if b.Status != models.BetStatusActive {
		return apperr.ErrBetNotActive
	}
	if b.Creator != resolver {
		return apperr.ErrNotCreator
	}
	if winningOptionIndex < 0 || winningOptionIndex >= len(b.Options) {
		return apperr.ErrInvalidOption
	}

	votes, err := e.bets.Votes(ctx, betID)
	if err != nil {
		return err
	}
	winning := winningOptionIndex
	if err := e.bets.SetStatus(ctx, betID, models.BetStatusResolved, &winning); err != nil {
		return err
	}

	for _, v := range votes {
		var delta models.StatsDelta
		if v.OptionIndex == winningOptionIndex {
			delta = models.StatsDelta{Points: WinPoints, WonBets: 1}
		} else {
			delta = models.StatsDelta{Points: -LossPenalty, LostBets: 1}
		}
		if err := e.users.ApplyStatsDelta(ctx, v.User, delta); err != nil {
			return err
		}
	}
	return nil
}

// Cancel moves an active bet to cancelled. Creator-only, like
// Resolve. Votes already cast stay recorded and their total-bets
// increments stand, but no points are distributed.
func (e *Engine) Cancel(ctx context.Context, betID, requester string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	b, err := e.bets.GetBet(ctx, betID)
	if err != nil {
		return err
	}
	if b.Status != models.BetStatusActive {
		return apperr.ErrBetNotActive
	}
	if b.Creator != requester {
		return apperr.ErrNotCreator
	}
	return e.bets.SetStatus(ctx, betID, models.BetStatusCancelled, nil)
}

// List returns all bets with their vote totals.
func (e *Engine) List(ctx context.Context) ([]models.BetSummary, error) {
	bets, err := e.bets.ListBets(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.BetSummary, 0, len(bets))
	for _, b := range bets {
		votes, err := e.bets.Votes(ctx, b.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, models.BetSummary{Bet: b, TotalVotes: len(votes)})
	}
	return out, nil
}

// Detail returns a bet with its votes and a sparse per-option tally.
func (e *Engine) Detail(ctx context.Context, betID string) (*models.BetDetail, error) {
	b, err := e.bets.GetBet(ctx, betID)
	if err != nil {
		return nil, err
	}
	votes, err := e.bets.Votes(ctx, betID)
	if err != nil {
		return nil, err
	}

	counts := make(map[int]int)
	for _, v := range votes {
		counts[v.OptionIndex]++
	}
	return &models.BetDetail{Bet: *b, Votes: votes, VoteCounts: counts}, nil
}
