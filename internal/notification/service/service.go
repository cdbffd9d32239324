// Package service stores in-app notifications and hands email copies to the
// background worker.
package service

import (
	"context"
	"errors"

	"academy_crm_backend/internal/notification/repository"
	"academy_crm_backend/internal/notification/transport"
	"academy_crm_backend/internal/scheduler"
	"academy_crm_backend/platform/apperr"
	"academy_crm_backend/platform/logger"

	"github.com/google/uuid"
)

const defaultListLimit = 50

const (
	TypeInfo       = "info"
	TypeLeadPool   = "lead_pool"
	TypeDealClosed = "deal_closed"
)

type Store interface {
	Create(ctx context.Context, params repository.CreateParams) (repository.Notification, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]repository.Notification, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) (repository.Notification, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}

type Service struct {
	store    Store
	enqueuer scheduler.EmailEnqueuer
	log      *logger.Logger
}

// New creates the notification service. enqueuer may be nil when no task
// queue is configured; notifications then stay in-app only.
func New(store Store, enqueuer scheduler.EmailEnqueuer, log *logger.Logger) *Service {
	return &Service{store: store, enqueuer: enqueuer, log: log}
}

// Notify stores an in-app notification and queues an email copy. Email
// enqueue failures are logged, not returned: the in-app notification is the
// source of truth.
func (s *Service) Notify(ctx context.Context, userID uuid.UUID, userEmail, notifType, title, message string) error {
	created, err := s.store.Create(ctx, repository.CreateParams{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    notifType,
	})
	if err != nil {
		return apperr.Store("notifications.create", err)
	}

	if s.enqueuer != nil && userEmail != "" {
		err := s.enqueuer.EnqueueNotificationEmail(ctx, scheduler.NotificationEmailPayload{
			UserID:  userID.String(),
			Email:   userEmail,
			Subject: title,
			Heading: title,
			Message: message,
		})
		if err != nil {
			s.log.Error("notification email enqueue failed",
				"notification_id", created.ID.String(), "error", err.Error())
		}
	}

	return nil
}

// List returns the user's notifications with the unread count.
func (s *Service) List(ctx context.Context, userID uuid.UUID) (transport.NotificationListResponse, error) {
	notifications, err := s.store.ListByUser(ctx, userID, defaultListLimit)
	if err != nil {
		return transport.NotificationListResponse{}, apperr.Store("notifications.list", err)
	}

	unread, err := s.store.UnreadCount(ctx, userID)
	if err != nil {
		return transport.NotificationListResponse{}, apperr.Store("notifications.unread", err)
	}

	items := make([]transport.NotificationResponse, len(notifications))
	for i, n := range notifications {
		items[i] = toResponse(n)
	}
	return transport.NotificationListResponse{Items: items, UnreadCount: unread}, nil
}

func (s *Service) MarkRead(ctx context.Context, userID, id uuid.UUID) (transport.NotificationResponse, error) {
	n, err := s.store.MarkRead(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.NotificationResponse{}, apperr.NotFound("notification not found")
		}
		return transport.NotificationResponse{}, apperr.Store("notifications.mark_read", err)
	}
	return toResponse(n), nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	if err := s.store.MarkAllRead(ctx, userID); err != nil {
		return apperr.Store("notifications.mark_all_read", err)
	}
	return nil
}

func toResponse(n repository.Notification) transport.NotificationResponse {
	return transport.NotificationResponse{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}
