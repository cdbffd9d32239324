package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"academy_crm_backend/internal/notification/repository"
	"academy_crm_backend/internal/scheduler"
	"academy_crm_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeStore struct {
	notifications []repository.Notification
}

func (f *fakeStore) Create(_ context.Context, params repository.CreateParams) (repository.Notification, error) {
	n := repository.Notification{
		ID:        uuid.New(),
		UserID:    params.UserID,
		Title:     params.Title,
		Message:   params.Message,
		Type:      params.Type,
		CreatedAt: time.Now(),
	}
	f.notifications = append(f.notifications, n)
	return n, nil
}

func (f *fakeStore) ListByUser(_ context.Context, userID uuid.UUID, limit int) ([]repository.Notification, error) {
	var out []repository.Notification
	for _, n := range f.notifications {
		if n.UserID == userID && len(out) < limit {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeStore) UnreadCount(_ context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, n := range f.notifications {
		if n.UserID == userID && n.ReadAt == nil {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) MarkRead(_ context.Context, userID, id uuid.UUID) (repository.Notification, error) {
	for i, n := range f.notifications {
		if n.ID == id && n.UserID == userID && n.ReadAt == nil {
			now := time.Now()
			f.notifications[i].ReadAt = &now
			return f.notifications[i], nil
		}
	}
	return repository.Notification{}, repository.ErrNotFound
}

func (f *fakeStore) MarkAllRead(_ context.Context, userID uuid.UUID) error {
	now := time.Now()
	for i, n := range f.notifications {
		if n.UserID == userID && n.ReadAt == nil {
			f.notifications[i].ReadAt = &now
		}
	}
	return nil
}

type fakeEnqueuer struct {
	payloads []scheduler.NotificationEmailPayload
	fail     bool
}

func (f *fakeEnqueuer) EnqueueNotificationEmail(_ context.Context, payload scheduler.NotificationEmailPayload) error {
	if f.fail {
		return errors.New("redis unavailable")
	}
	f.payloads = append(f.payloads, payload)
	return nil
}

func TestNotify_StoresAndEnqueues(t *testing.T) {
	store := &fakeStore{}
	enqueuer := &fakeEnqueuer{}
	svc := New(store, enqueuer, logger.New("test"))
	userID := uuid.New()

	err := svc.Notify(context.Background(), userID, "sales@example.com", TypeLeadPool,
		"New lead in the pool", "LEAD-000001 is waiting to be claimed.")
	if err != nil {
		t.Fatalf("notify failed: %v", err)
	}

	if len(store.notifications) != 1 {
		t.Fatalf("expected 1 stored notification, got %d", len(store.notifications))
	}
	if len(enqueuer.payloads) != 1 {
		t.Fatalf("expected 1 enqueued email, got %d", len(enqueuer.payloads))
	}
	if enqueuer.payloads[0].Email != "sales@example.com" {
		t.Fatalf("unexpected email target: %s", enqueuer.payloads[0].Email)
	}
}

func TestNotify_EnqueueFailureIsNotFatal(t *testing.T) {
	store := &fakeStore{}
	svc := New(store, &fakeEnqueuer{fail: true}, logger.New("test"))

	err := svc.Notify(context.Background(), uuid.New(), "sales@example.com", TypeInfo, "t", "m")
	if err != nil {
		t.Fatalf("notify should swallow enqueue failures, got %v", err)
	}
	if len(store.notifications) != 1 {
		t.Fatal("in-app notification should still be stored")
	}
}

func TestNotify_NilEnqueuer(t *testing.T) {
	store := &fakeStore{}
	svc := New(store, nil, logger.New("test"))

	if err := svc.Notify(context.Background(), uuid.New(), "x@example.com", TypeInfo, "t", "m"); err != nil {
		t.Fatalf("notify without queue failed: %v", err)
	}
}

func TestListAndMarkRead(t *testing.T) {
	store := &fakeStore{}
	svc := New(store, nil, logger.New("test"))
	ctx := context.Background()
	userID := uuid.New()

	for i := 0; i < 3; i++ {
		if err := svc.Notify(ctx, userID, "", TypeInfo, "t", "m"); err != nil {
			t.Fatalf("notify failed: %v", err)
		}
	}

	list, err := svc.List(ctx, userID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list.Items) != 3 || list.UnreadCount != 3 {
		t.Fatalf("expected 3 unread, got %d items %d unread", len(list.Items), list.UnreadCount)
	}

	marked, err := svc.MarkRead(ctx, userID, list.Items[0].ID)
	if err != nil {
		t.Fatalf("mark read failed: %v", err)
	}
	if marked.ReadAt == nil {
		t.Fatal("expected read timestamp")
	}

	list, err = svc.List(ctx, userID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if list.UnreadCount != 2 {
		t.Fatalf("expected 2 unread after mark, got %d", list.UnreadCount)
	}

	if err := svc.MarkAllRead(ctx, userID); err != nil {
		t.Fatalf("mark all read failed: %v", err)
	}
	list, err = svc.List(ctx, userID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if list.UnreadCount != 0 {
		t.Fatalf("expected 0 unread, got %d", list.UnreadCount)
	}
}
