// Package repository persists work time sessions.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound      = errors.New("session not found")
	ErrSessionOpen   = errors.New("an open session already exists")
	ErrNoOpenSession = errors.New("no open session")
)

type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	StartedAt time.Time
	EndedAt   *time.Time
	CreatedAt time.Time
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const sessionColumns = `id, user_id, started_at, ended_at, created_at`

func scanSession(row pgx.Row) (Session, error) {
	var s Session
	err := row.Scan(&s.ID, &s.UserID, &s.StartedAt, &s.EndedAt, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Session{}, ErrNotFound
		}
		return Session{}, err
	}
	return s, nil
}

// Start opens a session. The partial unique index on open sessions makes a
// second concurrent start fail with a unique violation.
func (r *Repository) Start(ctx context.Context, userID uuid.UUID) (Session, error) {
	session, err := scanSession(r.pool.QueryRow(ctx, `
		INSERT INTO time_sessions (user_id)
		VALUES ($1)
		RETURNING `+sessionColumns, userID))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Session{}, ErrSessionOpen
		}
		return Session{}, err
	}
	return session, nil
}

// Stop closes the user's open session. ErrNoOpenSession when there is none.
func (r *Repository) Stop(ctx context.Context, userID uuid.UUID) (Session, error) {
	session, err := scanSession(r.pool.QueryRow(ctx, `
		UPDATE time_sessions SET ended_at = now()
		WHERE user_id = $1 AND ended_at IS NULL
		RETURNING `+sessionColumns, userID))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Session{}, ErrNoOpenSession
		}
		return Session{}, err
	}
	return session, nil
}

// Open returns the user's open session, if any.
func (r *Repository) Open(ctx context.Context, userID uuid.UUID) (Session, error) {
	return scanSession(r.pool.QueryRow(ctx, `
		SELECT `+sessionColumns+` FROM time_sessions
		WHERE user_id = $1 AND ended_at IS NULL`, userID))
}

// ListByUser returns the user's sessions, most recent first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]Session, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+sessionColumns+` FROM time_sessions
		WHERE user_id = $1
		ORDER BY started_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}
