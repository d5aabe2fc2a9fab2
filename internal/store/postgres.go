package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/parisbet/backend/internal/apperr"
	"github.com/parisbet/backend/internal/models"
)

// PostgresUserStore is the persistent identity store, selected when
// POSTGRES_DSN is set. Stats live in their own table so they can be
// created lazily by upsert, matching the in-memory behavior.
type PostgresUserStore struct {
	pool *pgxpool.Pool
}

func NewPostgresUserStore(pool *pgxpool.Pool) *PostgresUserStore {
	return &PostgresUserStore{pool: pool}
}

// Migrate creates the users and user_stats tables if they don't exist.
func (s *PostgresUserStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			login      VARCHAR(50) PRIMARY KEY,
			password   VARCHAR(255) NOT NULL,
			created_at TIMESTAMPTZ  DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS user_stats (
			login      VARCHAR(50) PRIMARY KEY,
			points     INT NOT NULL DEFAULT 0,
			total_bets INT NOT NULL DEFAULT 0,
			won_bets   INT NOT NULL DEFAULT 0,
			lost_bets  INT NOT NULL DEFAULT 0
		)
	`)
	return err
}

func (s *PostgresUserStore) CreateUser(ctx context.Context, login, hashedPassword string) error {
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO users (login, password) VALUES ($1, $2)
		 ON CONFLICT (login) DO NOTHING`,
		login, hashedPassword,
	)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrAlreadyExists
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO user_stats (login) VALUES ($1) ON CONFLICT (login) DO NOTHING`, login)
	return err
}

func (s *PostgresUserStore) GetUser(ctx context.Context, login string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx,
		`SELECT login, password, created_at FROM users WHERE login = $1`, login,
	).Scan(&u.Login, &u.Password, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *PostgresUserStore) ListLogins(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT login FROM users ORDER BY login`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logins []string
	for rows.Next() {
		var login string
		if err := rows.Scan(&login); err != nil {
			return nil, err
		}
		logins = append(logins, login)
	}
	return logins, rows.Err()
}

func (s *PostgresUserStore) GetStats(ctx context.Context, login string) (*models.UserStats, error) {
	var st models.UserStats
	err := s.pool.QueryRow(ctx,
		`SELECT login, points, total_bets, won_bets, lost_bets
		 FROM user_stats WHERE login = $1`, login,
	).Scan(&st.Login, &st.Points, &st.TotalBets, &st.WonBets, &st.LostBets)
	if errors.Is(err, pgx.ErrNoRows) {
		return &models.UserStats{Login: login}, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *PostgresUserStore) ApplyStatsDelta(ctx context.Context, login string, d models.StatsDelta) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO user_stats (login, points, total_bets, won_bets, lost_bets)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (login) DO UPDATE SET
			points     = user_stats.points     + EXCLUDED.points,
			total_bets = user_stats.total_bets + EXCLUDED.total_bets,
			won_bets   = user_stats.won_bets   + EXCLUDED.won_bets,
			lost_bets  = user_stats.lost_bets  + EXCLUDED.lost_bets`,
		login, d.Points, d.TotalBets, d.WonBets, d.LostBets,
	)
	if err != nil {
		return fmt.Errorf("apply stats delta: %w", err)
	}
	return nil
}

func (s *PostgresUserStore) AllStats(ctx context.Context) ([]models.UserStats, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT login, points, total_bets, won_bets, lost_bets FROM user_stats`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.UserStats
	for rows.Next() {
		var st models.UserStats
		if err := rows.Scan(&st.Login, &st.Points, &st.TotalBets, &st.WonBets, &st.LostBets); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}
