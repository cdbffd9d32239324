package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from Status
		to   Status
		want bool
	}{
		{StatusFresh, StatusInProgress, true},
		{StatusFresh, StatusClosed, false},
		{StatusFresh, StatusLost, false},
		{StatusFresh, StatusFresh, false},
		{StatusInProgress, StatusClosed, true},
		{StatusInProgress, StatusLost, true},
		{StatusInProgress, StatusInProgress, true},
		{StatusInProgress, StatusFresh, false},
		{StatusClosed, StatusInProgress, false},
		{StatusClosed, StatusLost, false},
		{StatusLost, StatusInProgress, false},
		{StatusLost, StatusClosed, false},
	}

	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestCanMutate(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()

	admin := Actor{ID: other, Role: RoleAdmin}
	assignee := Actor{ID: owner, Role: RoleSalesPerson}
	stranger := Actor{ID: other, Role: RoleSalesPerson}

	if !CanMutate(admin, &owner) {
		t.Error("admin should be allowed to mutate any lead")
	}
	if !CanMutate(admin, nil) {
		t.Error("admin should be allowed to mutate an unassigned lead")
	}
	if !CanMutate(assignee, &owner) {
		t.Error("assignee should be allowed to mutate their own lead")
	}
	if CanMutate(stranger, &owner) {
		t.Error("sales person should not be allowed to mutate another person's lead")
	}
	if CanMutate(stranger, nil) {
		t.Error("sales person should not be allowed to mutate an unassigned lead")
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusFresh, StatusInProgress, StatusClosed, StatusLost} {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if Status("pending").Valid() {
		t.Error("unknown status should be invalid")
	}
}

func TestSourceValid(t *testing.T) {
	for _, s := range []Source{SourceWebsite, SourceReferral, SourceSocialMedia, SourceAdvertisement, SourceColdCall, SourceEmailCampaign} {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if Source("billboard").Valid() {
		t.Error("unknown source should be invalid")
	}
}
