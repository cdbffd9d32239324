package service

import (
	"context"
	"testing"
	"time"

	"academy_crm_backend/internal/timetrack/repository"
	"academy_crm_backend/platform/apperr"

	"github.com/google/uuid"
)

type fakeStore struct {
	sessions []repository.Session
}

func (f *fakeStore) openIndex(userID uuid.UUID) int {
	for i, session := range f.sessions {
		if session.UserID == userID && session.EndedAt == nil {
			return i
		}
	}
	return -1
}

func (f *fakeStore) Start(_ context.Context, userID uuid.UUID) (repository.Session, error) {
	if f.openIndex(userID) >= 0 {
		return repository.Session{}, repository.ErrSessionOpen
	}
	session := repository.Session{
		ID:        uuid.New(),
		UserID:    userID,
		StartedAt: time.Now(),
		CreatedAt: time.Now(),
	}
	f.sessions = append(f.sessions, session)
	return session, nil
}

func (f *fakeStore) Stop(_ context.Context, userID uuid.UUID) (repository.Session, error) {
	i := f.openIndex(userID)
	if i < 0 {
		return repository.Session{}, repository.ErrNoOpenSession
	}
	ended := time.Now()
	f.sessions[i].EndedAt = &ended
	return f.sessions[i], nil
}

func (f *fakeStore) Open(_ context.Context, userID uuid.UUID) (repository.Session, error) {
	i := f.openIndex(userID)
	if i < 0 {
		return repository.Session{}, repository.ErrNotFound
	}
	return f.sessions[i], nil
}

func (f *fakeStore) ListByUser(_ context.Context, userID uuid.UUID, limit int) ([]repository.Session, error) {
	var out []repository.Session
	for _, session := range f.sessions {
		if session.UserID == userID && len(out) < limit {
			out = append(out, session)
		}
	}
	return out, nil
}

func TestStartStop_SingleOpenSession(t *testing.T) {
	svc := New(&fakeStore{})
	ctx := context.Background()
	userID := uuid.New()

	started, err := svc.Start(ctx, userID)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if started.EndedAt != nil {
		t.Fatal("new session should be open")
	}

	_, err = svc.Start(ctx, userID)
	if apperr.GetKind(err) != apperr.KindConflict {
		t.Fatalf("expected conflict for second start, got %v", err)
	}

	stopped, err := svc.Stop(ctx, userID)
	if err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if stopped.EndedAt == nil {
		t.Fatal("stopped session should carry an end time")
	}

	_, err = svc.Stop(ctx, userID)
	if apperr.GetKind(err) != apperr.KindConflict {
		t.Fatalf("expected conflict for stop without open session, got %v", err)
	}

	// A fresh start after stopping is allowed.
	if _, err := svc.Start(ctx, userID); err != nil {
		t.Fatalf("restart failed: %v", err)
	}
}

func TestList_MarksOpenSession(t *testing.T) {
	svc := New(&fakeStore{})
	ctx := context.Background()
	userID := uuid.New()
	other := uuid.New()

	if _, err := svc.Start(ctx, userID); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, err := svc.Stop(ctx, userID); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if _, err := svc.Start(ctx, userID); err != nil {
		t.Fatalf("second start failed: %v", err)
	}
	if _, err := svc.Start(ctx, other); err != nil {
		t.Fatalf("other user start failed: %v", err)
	}

	list, err := svc.List(ctx, userID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list.Items) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(list.Items))
	}
	if list.Open == nil {
		t.Fatal("expected an open session marker")
	}
	if list.Open.UserID != userID {
		t.Fatalf("open session belongs to someone else: %s", list.Open.UserID)
	}

	for _, item := range list.Items {
		if item.EndedAt != nil && item.DurationSeconds < 0 {
			t.Fatalf("negative duration: %d", item.DurationSeconds)
		}
	}
}
