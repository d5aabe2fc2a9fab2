package ranking_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parisbet/backend/internal/models"
	"github.com/parisbet/backend/internal/ranking"
	"github.com/parisbet/backend/internal/store"
)

func seedStats(t *testing.T, users *store.MemoryUserStore, all []models.UserStats) {
	t.Helper()
	ctx := context.Background()
	for _, st := range all {
		err := users.ApplyStatsDelta(ctx, st.Login, models.StatsDelta{
			Points:    st.Points,
			TotalBets: st.TotalBets,
			WonBets:   st.WonBets,
			LostBets:  st.LostBets,
		})
		require.NoError(t, err)
	}
}

func TestRanking_OrdersByPointsThenWinRate(t *testing.T) {
	users := store.NewMemoryUserStore()
	seedStats(t, users, []models.UserStats{
		{Login: "carol", Points: 5, TotalBets: 2, WonBets: 1, LostBets: 1},
		{Login: "alice", Points: 20, TotalBets: 2, WonBets: 2},
		{Login: "bob", Points: 20, TotalBets: 4, WonBets: 2, LostBets: 2},
	})

	rows, err := ranking.NewEngine(users).Ranking(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// alice and bob tie on points; alice's higher win rate breaks it.
	assert.Equal(t, "alice", rows[0].Login)
	assert.Equal(t, "bob", rows[1].Login)
	assert.Equal(t, "carol", rows[2].Login)

	for i := 1; i < len(rows); i++ {
		prev, cur := rows[i-1], rows[i]
		ordered := prev.Points > cur.Points ||
			(prev.Points == cur.Points && prev.WinRate >= cur.WinRate)
		assert.True(t, ordered, "rows %d and %d out of order", i-1, i)
	}
}

func TestRanking_ExcludesUsersWithoutBets(t *testing.T) {
	users := store.NewMemoryUserStore()
	ctx := context.Background()

	// Registration creates zero stats; those users must not rank.
	require.NoError(t, users.CreateUser(ctx, "spectator", "hash"))
	seedStats(t, users, []models.UserStats{
		{Login: "bob", Points: 10, TotalBets: 1, WonBets: 1},
	})

	rows, err := ranking.NewEngine(users).Ranking(ctx, "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "bob", rows[0].Login)
}

func TestRanking_WinRateRoundedToTwoDecimals(t *testing.T) {
	users := store.NewMemoryUserStore()
	seedStats(t, users, []models.UserStats{
		{Login: "bob", Points: 0, TotalBets: 3, WonBets: 1, LostBets: 2},
		{Login: "carol", Points: 0, TotalBets: 3, WonBets: 2, LostBets: 1},
	})

	rows, err := ranking.NewEngine(users).Ranking(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	rates := map[string]float64{}
	for _, row := range rows {
		rates[row.Login] = row.WinRate
	}
	assert.Equal(t, 0.33, rates["bob"])
	assert.Equal(t, 0.67, rates["carol"])
}

func TestRanking_LeagueFilterDoesNotNarrowResults(t *testing.T) {
	users := store.NewMemoryUserStore()
	seedStats(t, users, []models.UserStats{
		{Login: "alice", Points: 10, TotalBets: 1, WonBets: 1},
		{Login: "bob", Points: -5, TotalBets: 1, LostBets: 1},
	})
	e := ranking.NewEngine(users)
	ctx := context.Background()

	global, err := e.Ranking(ctx, "")
	require.NoError(t, err)
	filtered, err := e.Ranking(ctx, "football")
	require.NoError(t, err)

	// Stats carry no league dimension; the filter is a label only.
	assert.Equal(t, global, filtered)
}
