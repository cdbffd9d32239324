// Package service computes monthly sales target progress from closed deal
// values.
package service

import (
	"context"
	"errors"
	"math"
	"time"

	leadsrepo "academy_crm_backend/internal/leads/repository"
	"academy_crm_backend/internal/targets/transport"
	usersrepo "academy_crm_backend/internal/users/repository"
	"academy_crm_backend/platform/apperr"

	"github.com/google/uuid"
)

// LeadAggregator sums closed deal values. Implemented by the leads
// repository.
type LeadAggregator interface {
	ClosedValue(ctx context.Context, userID uuid.UUID, from, to time.Time) (float64, error)
	ClosedValueByAssignee(ctx context.Context, from, to time.Time) ([]leadsrepo.ClosedValueByUser, error)
}

// UserDirectory provides the target holders. Implemented by the users
// repository.
type UserDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (usersrepo.User, error)
	ListActiveByRole(ctx context.Context, role string) ([]usersrepo.User, error)
}

type Service struct {
	leads LeadAggregator
	users UserDirectory
	now   func() time.Time
}

func New(leads LeadAggregator, users UserDirectory) *Service {
	return &Service{leads: leads, users: users, now: time.Now}
}

// ComputeTargetProgress converts an achieved value against a target into a
// whole percentage. A zero target always reads as zero progress; values over
// the target are not clamped to 100.
func ComputeTargetProgress(achieved, target float64) int {
	if target <= 0 {
		return 0
	}
	return int(math.Round(achieved / target * 100))
}

// monthWindow returns [first of current month, first of next month).
func monthWindow(now time.Time) (time.Time, time.Time) {
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return from, from.AddDate(0, 1, 0)
}

// MyProgress returns the calling user's standing for the current calendar
// month.
func (s *Service) MyProgress(ctx context.Context, userID uuid.UUID) (transport.TargetProgress, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, usersrepo.ErrNotFound) {
			return transport.TargetProgress{}, apperr.NotFound("user not found")
		}
		return transport.TargetProgress{}, apperr.Store("targets.my", err)
	}

	from, to := monthWindow(s.now())
	achieved, err := s.leads.ClosedValue(ctx, userID, from, to)
	if err != nil {
		return transport.TargetProgress{}, apperr.Store("targets.closed_value", err)
	}

	return transport.TargetProgress{
		UserID:      user.ID,
		FullName:    user.FullName,
		Target:      user.MonthlyTarget,
		Achieved:    achieved,
		Percentage:  ComputeTargetProgress(achieved, user.MonthlyTarget),
		PeriodStart: from,
		PeriodEnd:   to,
	}, nil
}

// TeamProgress returns per-person standings for every active sales person
// plus the team aggregate. Admin dashboards only.
func (s *Service) TeamProgress(ctx context.Context) (transport.TeamTargetResponse, error) {
	salesPeople, err := s.users.ListActiveByRole(ctx, "sales_person")
	if err != nil {
		return transport.TeamTargetResponse{}, apperr.Store("targets.team", err)
	}

	from, to := monthWindow(s.now())
	totals, err := s.leads.ClosedValueByAssignee(ctx, from, to)
	if err != nil {
		return transport.TeamTargetResponse{}, apperr.Store("targets.closed_values", err)
	}

	achievedByUser := make(map[uuid.UUID]float64, len(totals))
	for _, row := range totals {
		achievedByUser[row.UserID] = row.Total
	}

	resp := transport.TeamTargetResponse{
		Items:       make([]transport.TargetProgress, 0, len(salesPeople)),
		PeriodStart: from,
		PeriodEnd:   to,
	}

	for _, user := range salesPeople {
		achieved := achievedByUser[user.ID]
		resp.Items = append(resp.Items, transport.TargetProgress{
			UserID:      user.ID,
			FullName:    user.FullName,
			Target:      user.MonthlyTarget,
			Achieved:    achieved,
			Percentage:  ComputeTargetProgress(achieved, user.MonthlyTarget),
			PeriodStart: from,
			PeriodEnd:   to,
		})
		resp.TeamTarget += user.MonthlyTarget
		resp.TeamAchieved += achieved
	}

	resp.TeamProgress = ComputeTargetProgress(resp.TeamAchieved, resp.TeamTarget)
	return resp, nil
}
