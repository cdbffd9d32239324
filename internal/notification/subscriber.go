package notification

import (
	"context"
	"fmt"

	"academy_crm_backend/internal/events"
	"academy_crm_backend/internal/notification/service"
	userstransport "academy_crm_backend/internal/users/transport"
	"academy_crm_backend/platform/logger"

	"golang.org/x/sync/errgroup"
)

// UserDirectory supplies the notification fan-out targets. Implemented by
// the users service.
type UserDirectory interface {
	ActiveSalesPeople(ctx context.Context) ([]userstransport.UserResponse, error)
	ActiveAdmins(ctx context.Context) ([]userstransport.UserResponse, error)
}

// subscriber reacts to lead lifecycle events.
type subscriber struct {
	svc   *service.Service
	users UserDirectory
	log   *logger.Logger
}

// Subscribe registers the notification fan-out on the event bus:
// public intake leads alert every active sales person, closed deals alert
// the admins.
func Subscribe(bus events.Bus, svc *service.Service, users UserDirectory, log *logger.Logger) {
	s := &subscriber{svc: svc, users: users, log: log}

	bus.Subscribe(events.LeadCreated{}.EventName(), events.HandlerFunc(s.onLeadCreated))
	bus.Subscribe(events.LeadStatusChanged{}.EventName(), events.HandlerFunc(s.onLeadStatusChanged))
}

func (s *subscriber) onLeadCreated(ctx context.Context, event events.Event) error {
	created, ok := event.(events.LeadCreated)
	if !ok || !created.PublicIntake {
		return nil
	}

	salesPeople, err := s.users.ActiveSalesPeople(ctx)
	if err != nil {
		return err
	}

	title := "New lead in the pool"
	message := fmt.Sprintf("%s (%s) just arrived via the website and is waiting to be claimed.",
		created.Name, created.LeadCode)

	s.fanOut(ctx, salesPeople, service.TypeLeadPool, title, message)
	return nil
}

func (s *subscriber) onLeadStatusChanged(ctx context.Context, event events.Event) error {
	changed, ok := event.(events.LeadStatusChanged)
	if !ok || changed.NewStatus != "closed" {
		return nil
	}

	admins, err := s.users.ActiveAdmins(ctx)
	if err != nil {
		return err
	}

	title := "Deal closed"
	message := fmt.Sprintf("%s was closed with a deal value of %.2f.",
		changed.LeadCode, changed.DealValue)

	s.fanOut(ctx, admins, service.TypeDealClosed, title, message)
	return nil
}

// fanOut notifies every recipient, a few at a time. One failed recipient
// must not block the rest, so failures are logged and swallowed.
func (s *subscriber) fanOut(ctx context.Context, recipients []userstransport.UserResponse, notifType, title, message string) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(5)

	for _, recipient := range recipients {
		recipient := recipient
		g.Go(func() error {
			if err := s.svc.Notify(gctx, recipient.ID, recipient.Email, notifType, title, message); err != nil {
				s.log.Error("notification fan-out failed",
					"user_id", recipient.ID.String(), "type", notifType, "error", err.Error())
			}
			return nil
		})
	}
	_ = g.Wait()
}
