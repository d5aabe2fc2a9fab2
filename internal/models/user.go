package models

import "time"

// User is a registered account. The login doubles as the primary key
// and never changes once created.
type User struct {
	Login     string    `json:"login"`
	Password  string    `json:"-"` // bcrypt hash, never serialize
	CreatedAt time.Time `json:"created_at"`
}

// UserStats is the per-user aggregate the ranking is computed from.
// Created lazily with all-zero values the first time a user votes, or
// eagerly at registration. TotalBets counts votes cast; WonBets and
// LostBets only move when a bet the user voted on is resolved, so
// WonBets+LostBets <= TotalBets while bets are still open.
type UserStats struct {
	Login     string `json:"login"`
	Points    int    `json:"points"`
	TotalBets int    `json:"total_bets"`
	WonBets   int    `json:"won_bets"`
	LostBets  int    `json:"lost_bets"`
}

// StatsDelta is an increment applied atomically to a user's stats.
type StatsDelta struct {
	Points    int
	TotalBets int
	WonBets   int
	LostBets  int
}

// RegisterRequest is the JSON body for POST /api/auth/register.
type RegisterRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// LoginRequest is the JSON body for POST /api/auth/login.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// LoginResponse carries the session token back to the client. The
// token is also set as a cookie for browser clients.
type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}
