// Package service implements work session start/stop tracking. A user has at
// most one open session at a time.
package service

import (
	"context"
	"errors"

	"academy_crm_backend/internal/timetrack/repository"
	"academy_crm_backend/internal/timetrack/transport"
	"academy_crm_backend/platform/apperr"

	"github.com/google/uuid"
)

const defaultListLimit = 50

type Store interface {
	Start(ctx context.Context, userID uuid.UUID) (repository.Session, error)
	Stop(ctx context.Context, userID uuid.UUID) (repository.Session, error)
	Open(ctx context.Context, userID uuid.UUID) (repository.Session, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]repository.Session, error)
}

type Service struct {
	store Store
}

func New(store Store) *Service {
	return &Service{store: store}
}

// Start opens a session for the user. Conflict when one is already open.
func (s *Service) Start(ctx context.Context, userID uuid.UUID) (transport.SessionResponse, error) {
	session, err := s.store.Start(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionOpen) {
			return transport.SessionResponse{}, apperr.Conflict("a session is already running")
		}
		return transport.SessionResponse{}, apperr.Store("timetrack.start", err)
	}
	return toSessionResponse(session), nil
}

// Stop closes the user's open session.
func (s *Service) Stop(ctx context.Context, userID uuid.UUID) (transport.SessionResponse, error) {
	session, err := s.store.Stop(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNoOpenSession) {
			return transport.SessionResponse{}, apperr.Conflict("no session is running")
		}
		return transport.SessionResponse{}, apperr.Store("timetrack.stop", err)
	}
	return toSessionResponse(session), nil
}

// List returns recent sessions plus the open one when present.
func (s *Service) List(ctx context.Context, userID uuid.UUID) (transport.SessionListResponse, error) {
	sessions, err := s.store.ListByUser(ctx, userID, defaultListLimit)
	if err != nil {
		return transport.SessionListResponse{}, apperr.Store("timetrack.list", err)
	}

	resp := transport.SessionListResponse{Items: make([]transport.SessionResponse, len(sessions))}
	for i, session := range sessions {
		item := toSessionResponse(session)
		resp.Items[i] = item
		if session.EndedAt == nil {
			open := item
			resp.Open = &open
		}
	}
	return resp, nil
}

func toSessionResponse(session repository.Session) transport.SessionResponse {
	resp := transport.SessionResponse{
		ID:        session.ID,
		UserID:    session.UserID,
		StartedAt: session.StartedAt,
		EndedAt:   session.EndedAt,
	}
	if session.EndedAt != nil {
		resp.DurationSeconds = int64(session.EndedAt.Sub(session.StartedAt).Seconds())
	}
	return resp
}
