package service

import (
	"context"
	"testing"
	"time"

	leadsrepo "academy_crm_backend/internal/leads/repository"
	usersrepo "academy_crm_backend/internal/users/repository"

	"github.com/google/uuid"
)

func TestComputeTargetProgress(t *testing.T) {
	cases := []struct {
		name     string
		achieved float64
		target   float64
		want     int
	}{
		{"zero target reads zero", 5000, 0, 0},
		{"negative target reads zero", 5000, -100, 0},
		{"exact", 50000, 100000, 50},
		{"rounds up", 333, 1000, 33},
		{"rounds half up", 335, 1000, 34},
		{"full", 100000, 100000, 100},
		{"over target is not clamped", 150000, 100000, 150},
		{"nothing achieved", 0, 100000, 0},
	}

	for _, tc := range cases {
		if got := ComputeTargetProgress(tc.achieved, tc.target); got != tc.want {
			t.Errorf("%s: ComputeTargetProgress(%v, %v) = %d, want %d",
				tc.name, tc.achieved, tc.target, got, tc.want)
		}
	}
}

func TestMonthWindow(t *testing.T) {
	now := time.Date(2025, time.March, 17, 14, 30, 0, 0, time.UTC)
	from, to := monthWindow(now)

	if !from.Equal(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected window start: %v", from)
	}
	if !to.Equal(time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected window end: %v", to)
	}
}

type fakeAggregator struct {
	byUser map[uuid.UUID]float64
	from   time.Time
	to     time.Time
}

func (f *fakeAggregator) ClosedValue(_ context.Context, userID uuid.UUID, from, to time.Time) (float64, error) {
	f.from, f.to = from, to
	return f.byUser[userID], nil
}

func (f *fakeAggregator) ClosedValueByAssignee(_ context.Context, from, to time.Time) ([]leadsrepo.ClosedValueByUser, error) {
	f.from, f.to = from, to
	out := make([]leadsrepo.ClosedValueByUser, 0, len(f.byUser))
	for id, total := range f.byUser {
		out = append(out, leadsrepo.ClosedValueByUser{UserID: id, Total: total})
	}
	return out, nil
}

type fakeDirectory struct {
	users map[uuid.UUID]usersrepo.User
}

func (f *fakeDirectory) GetByID(_ context.Context, id uuid.UUID) (usersrepo.User, error) {
	user, ok := f.users[id]
	if !ok {
		return usersrepo.User{}, usersrepo.ErrNotFound
	}
	return user, nil
}

func (f *fakeDirectory) ListActiveByRole(_ context.Context, role string) ([]usersrepo.User, error) {
	var out []usersrepo.User
	for _, user := range f.users {
		if user.Status == "active" && user.Role == role {
			out = append(out, user)
		}
	}
	return out, nil
}

func TestMyProgress_CurrentCalendarMonth(t *testing.T) {
	userID := uuid.New()
	agg := &fakeAggregator{byUser: map[uuid.UUID]float64{userID: 75000}}
	dir := &fakeDirectory{users: map[uuid.UUID]usersrepo.User{
		userID: {ID: userID, FullName: "Sales Person", Role: "sales_person", Status: "active", MonthlyTarget: 100000},
	}}

	svc := New(agg, dir)
	svc.now = func() time.Time {
		return time.Date(2025, time.June, 20, 9, 0, 0, 0, time.UTC)
	}

	progress, err := svc.MyProgress(context.Background(), userID)
	if err != nil {
		t.Fatalf("my progress failed: %v", err)
	}

	if progress.Achieved != 75000 || progress.Target != 100000 {
		t.Fatalf("unexpected amounts: %+v", progress)
	}
	if progress.Percentage != 75 {
		t.Fatalf("expected 75%%, got %d", progress.Percentage)
	}
	if agg.from.Day() != 1 || agg.from.Month() != time.June {
		t.Fatalf("aggregation window does not start at month begin: %v", agg.from)
	}
	if agg.to.Month() != time.July {
		t.Fatalf("aggregation window does not end at next month: %v", agg.to)
	}
}

func TestTeamProgress_AggregatesActiveSalesOnly(t *testing.T) {
	hitter := uuid.New()
	starter := uuid.New()
	gone := uuid.New()

	agg := &fakeAggregator{byUser: map[uuid.UUID]float64{
		hitter: 120000,
		gone:   99999,
	}}
	dir := &fakeDirectory{users: map[uuid.UUID]usersrepo.User{
		hitter:  {ID: hitter, FullName: "Hitter", Role: "sales_person", Status: "active", MonthlyTarget: 100000},
		starter: {ID: starter, FullName: "Starter", Role: "sales_person", Status: "active", MonthlyTarget: 50000},
		gone:    {ID: gone, FullName: "Gone", Role: "sales_person", Status: "deactivated", MonthlyTarget: 50000},
	}}

	svc := New(agg, dir)
	svc.now = func() time.Time {
		return time.Date(2025, time.June, 20, 9, 0, 0, 0, time.UTC)
	}

	resp, err := svc.TeamProgress(context.Background())
	if err != nil {
		t.Fatalf("team progress failed: %v", err)
	}

	if len(resp.Items) != 2 {
		t.Fatalf("expected 2 active sales people, got %d", len(resp.Items))
	}
	if resp.TeamTarget != 150000 {
		t.Fatalf("expected team target 150000, got %v", resp.TeamTarget)
	}
	if resp.TeamAchieved != 120000 {
		t.Fatalf("expected team achieved 120000, got %v", resp.TeamAchieved)
	}
	if resp.TeamProgress != 80 {
		t.Fatalf("expected team progress 80, got %d", resp.TeamProgress)
	}

	for _, item := range resp.Items {
		if item.UserID == hitter && item.Percentage != 120 {
			t.Fatalf("over-target percentage should not clamp: %d", item.Percentage)
		}
		if item.UserID == starter && (item.Achieved != 0 || item.Percentage != 0) {
			t.Fatalf("expected zero progress for starter: %+v", item)
		}
	}
}
