package ranking

import (
	"context"
	"math"
	"sort"

	"github.com/parisbet/backend/internal/models"
)

// StatsSource is the slice of the identity store the ranking reads.
type StatsSource interface {
	AllStats(ctx context.Context) ([]models.UserStats, error)
}

// Engine derives the leaderboard from user stats.
type Engine struct {
	stats StatsSource
}

func NewEngine(stats StatsSource) *Engine {
	return &Engine{stats: stats}
}

// Ranking returns users with at least one vote cast, ordered by
// points descending, win rate descending on ties. The league argument
// is echoed by the HTTP layer but does not narrow the result set: the
// stats model has no per-league dimension.
func (e *Engine) Ranking(ctx context.Context, league string) ([]models.RankingRow, error) {
	all, err := e.stats.AllStats(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]models.RankingRow, 0, len(all))
	for _, st := range all {
		if st.TotalBets == 0 {
			continue
		}
		rows = append(rows, models.RankingRow{
			Login:     st.Login,
			Points:    st.Points,
			TotalBets: st.TotalBets,
			WonBets:   st.WonBets,
			WinRate:   winRate(st.WonBets, st.TotalBets),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		return rows[i].WinRate > rows[j].WinRate
	})
	return rows, nil
}

// winRate is wonBets/totalBets rounded to 2 decimal places.
func winRate(won, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(won)/float64(total)*100) / 100
}
