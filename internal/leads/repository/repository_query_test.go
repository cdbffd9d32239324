package repository

import (
	"strings"
	"testing"
)

func TestClaimQueryGuardsAgainstReassignment(t *testing.T) {
	query := strings.ToLower(claimQuery)

	requiredFragments := []string{
		"assigned_to is null",
		"status = 'in_progress'",
		"updated_at = now()",
	}

	for _, fragment := range requiredFragments {
		if !strings.Contains(query, fragment) {
			t.Fatalf("expected claim query fragment %q to be present", fragment)
		}
	}
}

func TestPoolQueryOnlyReturnsUnclaimedFreshLeads(t *testing.T) {
	query := strings.ToLower(poolQuery)

	if !strings.Contains(query, "status = 'fresh'") {
		t.Fatal("pool query must filter on fresh status")
	}
	if !strings.Contains(query, "assigned_to is null") {
		t.Fatal("pool query must filter on unassigned leads")
	}
}

func TestClosedValueQueryIsScopedToClosedLeads(t *testing.T) {
	query := strings.ToLower(closedValueQuery)

	if !strings.Contains(query, "status = 'closed'") {
		t.Fatal("closed value query must only count closed leads")
	}
	if !strings.Contains(query, "assigned_to = $1") {
		t.Fatal("closed value query must be scoped to a single assignee")
	}
}
