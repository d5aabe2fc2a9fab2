package bet_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parisbet/backend/internal/apperr"
	"github.com/parisbet/backend/internal/bet"
	"github.com/parisbet/backend/internal/models"
	"github.com/parisbet/backend/internal/store"
)

func newEngine(t *testing.T) (*bet.Engine, *store.MemoryUserStore) {
	t.Helper()
	users := store.NewMemoryUserStore()
	return bet.NewEngine(store.NewMemoryBetStore(), users), users
}

func mustCreate(t *testing.T, e *bet.Engine, creator string, options ...string) string {
	t.Helper()
	id, err := e.Create(context.Background(), "Who wins?", "the eternal question", options, creator, "")
	require.NoError(t, err)
	return id
}

func stats(t *testing.T, users *store.MemoryUserStore, login string) models.UserStats {
	t.Helper()
	st, err := users.GetStats(context.Background(), login)
	require.NoError(t, err)
	return *st
}

func TestCreate_AssignsActiveBetWithUniqueID(t *testing.T) {
	e, _ := newEngine(t)
	ctx := context.Background()

	id1 := mustCreate(t, e, "alice", "cats", "dogs")
	id2 := mustCreate(t, e, "alice", "cats", "dogs")
	assert.NotEqual(t, id1, id2)

	detail, err := e.Detail(ctx, id1)
	require.NoError(t, err)
	assert.Equal(t, models.BetStatusActive, detail.Status)
	assert.Equal(t, "alice", detail.Creator)
	assert.Equal(t, "general", detail.League)
	assert.Nil(t, detail.ResolvedOption)
	assert.Empty(t, detail.Votes)
}

func TestCreate_RejectsSingleOption(t *testing.T) {
	e, _ := newEngine(t)

	_, err := e.Create(context.Background(), "Sure thing", "", []string{"yes"}, "alice", "")
	assert.ErrorIs(t, err, apperr.ErrTooFewOptions)
}

func TestVote_WinnerGetsTenPoints(t *testing.T) {
	e, users := newEngine(t)
	ctx := context.Background()

	id := mustCreate(t, e, "alice", "cats", "dogs")
	require.NoError(t, e.Vote(ctx, id, "bob", 0))
	require.NoError(t, e.Resolve(ctx, id, 0, "alice"))

	st := stats(t, users, "bob")
	assert.Equal(t, 10, st.Points)
	assert.Equal(t, 1, st.WonBets)
	assert.Equal(t, 0, st.LostBets)
	assert.Equal(t, 1, st.TotalBets)
}

func TestVote_LoserLosesFivePoints(t *testing.T) {
	e, users := newEngine(t)
	ctx := context.Background()

	id := mustCreate(t, e, "alice", "cats", "dogs")
	require.NoError(t, e.Vote(ctx, id, "bob", 1))
	require.NoError(t, e.Resolve(ctx, id, 0, "alice"))

	st := stats(t, users, "bob")
	assert.Equal(t, -5, st.Points)
	assert.Equal(t, 0, st.WonBets)
	assert.Equal(t, 1, st.LostBets)
	assert.Equal(t, 1, st.TotalBets)
}

func TestVote_SecondVoteRejected(t *testing.T) {
	e, users := newEngine(t)
	ctx := context.Background()

	id := mustCreate(t, e, "alice", "cats", "dogs")
	require.NoError(t, e.Vote(ctx, id, "bob", 0))
	assert.ErrorIs(t, e.Vote(ctx, id, "bob", 1), apperr.ErrDuplicateVote)

	// The rejected vote must not bump the counter.
	assert.Equal(t, 1, stats(t, users, "bob").TotalBets)
}

func TestVote_Rejections(t *testing.T) {
	e, _ := newEngine(t)
	ctx := context.Background()

	id := mustCreate(t, e, "alice", "cats", "dogs")

	assert.ErrorIs(t, e.Vote(ctx, "no-such-bet", "bob", 0), apperr.ErrNotFound)
	assert.ErrorIs(t, e.Vote(ctx, id, "bob", 2), apperr.ErrInvalidOption)
	assert.ErrorIs(t, e.Vote(ctx, id, "bob", -1), apperr.ErrInvalidOption)

	require.NoError(t, e.Resolve(ctx, id, 0, "alice"))
	assert.ErrorIs(t, e.Vote(ctx, id, "carol", 0), apperr.ErrBetNotActive)
}

func TestResolve_OnlyCreator(t *testing.T) {
	e, users := newEngine(t)
	ctx := context.Background()

	id := mustCreate(t, e, "alice", "cats", "dogs")
	require.NoError(t, e.Vote(ctx, id, "bob", 0))

	assert.ErrorIs(t, e.Resolve(ctx, id, 0, "bob"), apperr.ErrNotCreator)
	// Failed resolve must leave points untouched.
	assert.Equal(t, 0, stats(t, users, "bob").Points)
}

func TestResolve_Rejections(t *testing.T) {
	e, _ := newEngine(t)
	ctx := context.Background()

	id := mustCreate(t, e, "alice", "cats", "dogs")
	assert.ErrorIs(t, e.Resolve(ctx, "no-such-bet", 0, "alice"), apperr.ErrNotFound)
	assert.ErrorIs(t, e.Resolve(ctx, id, 5, "alice"), apperr.ErrInvalidOption)
}

func TestResolve_IsTerminal(t *testing.T) {
	e, users := newEngine(t)
	ctx := context.Background()

	id := mustCreate(t, e, "alice", "cats", "dogs")
	require.NoError(t, e.Vote(ctx, id, "bob", 0))
	require.NoError(t, e.Resolve(ctx, id, 0, "alice"))

	assert.ErrorIs(t, e.Resolve(ctx, id, 1, "alice"), apperr.ErrBetNotActive)
	assert.ErrorIs(t, e.Cancel(ctx, id, "alice"), apperr.ErrBetNotActive)

	// Double resolution must not pay out twice.
	assert.Equal(t, 10, stats(t, users, "bob").Points)

	detail, err := e.Detail(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.BetStatusResolved, detail.Status)
	require.NotNil(t, detail.ResolvedOption)
	assert.Equal(t, 0, *detail.ResolvedOption)
}

func TestResolve_PartitionsAllVoters(t *testing.T) {
	e, users := newEngine(t)
	ctx := context.Background()

	id := mustCreate(t, e, "alice", "cats", "dogs", "birds")
	require.NoError(t, e.Vote(ctx, id, "bob", 0))
	require.NoError(t, e.Vote(ctx, id, "carol", 1))
	require.NoError(t, e.Vote(ctx, id, "dave", 2))
	require.NoError(t, e.Resolve(ctx, id, 0, "alice"))

	assert.Equal(t, 10, stats(t, users, "bob").Points)
	assert.Equal(t, -5, stats(t, users, "carol").Points)
	assert.Equal(t, -5, stats(t, users, "dave").Points)
	// Non-voters are untouched.
	assert.Equal(t, 0, stats(t, users, "alice").Points)
}

func TestCancel_LeavesVoteCountersInPlace(t *testing.T) {
	e, users := newEngine(t)
	ctx := context.Background()

	id := mustCreate(t, e, "alice", "cats", "dogs")
	require.NoError(t, e.Vote(ctx, id, "bob", 0))

	assert.ErrorIs(t, e.Cancel(ctx, id, "bob"), apperr.ErrNotCreator)
	require.NoError(t, e.Cancel(ctx, id, "alice"))

	detail, err := e.Detail(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.BetStatusCancelled, detail.Status)
	assert.Nil(t, detail.ResolvedOption)

	// TotalBets moved at vote time and stays; no points, no won/lost.
	st := stats(t, users, "bob")
	assert.Equal(t, models.UserStats{Login: "bob", TotalBets: 1}, st)

	assert.ErrorIs(t, e.Vote(ctx, id, "carol", 0), apperr.ErrBetNotActive)
	assert.ErrorIs(t, e.Resolve(ctx, id, 0, "alice"), apperr.ErrBetNotActive)
}

func TestDetail_SparseVoteCounts(t *testing.T) {
	e, _ := newEngine(t)
	ctx := context.Background()

	id := mustCreate(t, e, "alice", "cats", "dogs", "birds")
	require.NoError(t, e.Vote(ctx, id, "bob", 0))
	require.NoError(t, e.Vote(ctx, id, "carol", 0))
	require.NoError(t, e.Vote(ctx, id, "dave", 2))

	detail, err := e.Detail(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{0: 2, 2: 1}, detail.VoteCounts)
	assert.Len(t, detail.Votes, 3)
}

func TestList_ReportsVoteTotals(t *testing.T) {
	e, _ := newEngine(t)
	ctx := context.Background()

	id1 := mustCreate(t, e, "alice", "cats", "dogs")
	mustCreate(t, e, "alice", "rain", "shine")
	require.NoError(t, e.Vote(ctx, id1, "bob", 0))
	require.NoError(t, e.Vote(ctx, id1, "carol", 1))

	bets, err := e.List(ctx)
	require.NoError(t, err)
	require.Len(t, bets, 2)

	totals := map[string]int{}
	for _, b := range bets {
		totals[b.ID] = b.TotalVotes
	}
	assert.Equal(t, 2, totals[id1])
}

func TestVote_ConcurrentSameUserSingleVote(t *testing.T) {
	e, users := newEngine(t)
	ctx := context.Background()

	id := mustCreate(t, e, "alice", "cats", "dogs")

	const attempts = 50
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = e.Vote(ctx, id, "bob", 0)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, apperr.ErrDuplicateVote)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, stats(t, users, "bob").TotalBets)
}

func TestResolve_ConcurrentVotesNoLostPoints(t *testing.T) {
	e, users := newEngine(t)
	ctx := context.Background()

	id := mustCreate(t, e, "alice", "cats", "dogs")

	const voters = 20
	var wg sync.WaitGroup
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e.Vote(ctx, id, string(rune('a'+i))+"-voter", 0)
		}(i)
	}
	wg.Wait()
	require.NoError(t, e.Resolve(ctx, id, 0, "alice"))

	all, err := users.AllStats(ctx)
	require.NoError(t, err)
	total := 0
	for _, st := range all {
		total += st.Points
	}
	assert.Equal(t, voters*bet.WinPoints, total)
}
