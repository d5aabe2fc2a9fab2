package models

import "time"

// BetStatus is the lifecycle state of a bet.
type BetStatus string

const (
	BetStatusActive    BetStatus = "active"
	BetStatusResolved  BetStatus = "resolved"
	BetStatusCancelled BetStatus = "cancelled"
)

// Bet is a proposition with two or more mutually exclusive options.
// ResolvedOption is an index into Options and is set exactly when
// Status is resolved.
type Bet struct {
	ID             string    `json:"id"              bson:"_id"`
	Title          string    `json:"title"           bson:"title"`
	Description    string    `json:"description"     bson:"description"`
	Options        []string  `json:"options"         bson:"options"`
	Status         BetStatus `json:"status"          bson:"status"`
	Creator        string    `json:"creator"         bson:"creator"`
	League         string    `json:"league"          bson:"league"`
	CreatedAt      time.Time `json:"created_at"      bson:"created_at"`
	ResolvedOption *int      `json:"resolved_option,omitempty" bson:"resolved_option,omitempty"`
}

// Vote is one user's single, immutable choice on a bet. At most one
// vote exists per (bet, user) pair.
type Vote struct {
	User        string    `json:"user"         bson:"user"`
	OptionIndex int       `json:"option_index" bson:"option_index"`
	VotedAt     time.Time `json:"voted_at"     bson:"voted_at"`
}

// BetSummary is the list-view shape: the bet plus its vote total.
type BetSummary struct {
	Bet
	TotalVotes int `json:"total_votes"`
}

// BetDetail is the single-bet view: full vote list plus a sparse
// option-index -> count tally (options with zero votes are omitted).
type BetDetail struct {
	Bet
	Votes      []Vote      `json:"votes"`
	VoteCounts map[int]int `json:"vote_counts"`
}

// CreateBetRequest is the JSON body for POST /api/bets.
type CreateBetRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Options     []string `json:"options"`
	League      string   `json:"league"`
}

// VoteRequest is the JSON body for POST /api/bets/{id}/vote.
type VoteRequest struct {
	OptionIndex int `json:"option_index"`
}

// ResolveRequest is the JSON body for POST /api/bets/{id}/resolve.
type ResolveRequest struct {
	WinningOptionIndex int `json:"winning_option_index"`
}

// RankingRow is one leaderboard entry.
type RankingRow struct {
	Login     string  `json:"login"`
	Points    int     `json:"points"`
	TotalBets int     `json:"total_bets"`
	WonBets   int     `json:"won_bets"`
	WinRate   float64 `json:"win_rate"`
}

// RankingResponse is the GET /api/ranking envelope.
type RankingResponse struct {
	League     string       `json:"league"`
	TotalUsers int          `json:"total_users"`
	Users      []RankingRow `json:"users"`
}
