// Package domain holds the lead pipeline rules: status enums, the transition
// table and the authorization predicate. It has no dependencies on storage or
// transport so the rules are testable in isolation.
package domain

import "github.com/google/uuid"

// Status is the lead pipeline status.
type Status string

const (
	// StatusFresh is the initial status of every lead; fresh leads are unassigned.
	StatusFresh Status = "fresh"
	// StatusInProgress is entered when a sales person claims the lead.
	StatusInProgress Status = "in_progress"
	// StatusClosed is a terminal status for won deals.
	StatusClosed Status = "closed"
	// StatusLost is a terminal status for lost deals.
	StatusLost Status = "lost"
)

// Valid reports whether s is one of the four pipeline statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusFresh, StatusInProgress, StatusClosed, StatusLost:
		return true
	}
	return false
}

// Source identifies where a lead came from.
type Source string

const (
	SourceWebsite       Source = "website"
	SourceReferral      Source = "referral"
	SourceSocialMedia   Source = "social_media"
	SourceAdvertisement Source = "advertisement"
	SourceColdCall      Source = "cold_call"
	SourceEmailCampaign Source = "email_campaign"
)

// Valid reports whether s is a known lead source.
func (s Source) Valid() bool {
	switch s {
	case SourceWebsite, SourceReferral, SourceSocialMedia, SourceAdvertisement, SourceColdCall, SourceEmailCampaign:
		return true
	}
	return false
}

// Role is the actor role.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleSalesPerson Role = "sales_person"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleSalesPerson
}

// Actor is the authenticated user performing an engine operation. Every
// mutating operation receives an explicit Actor; there is no ambient session
// state.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanTransition reports whether a lead may move from one status to another.
// The only path out of fresh is the claim operation (fresh -> in_progress);
// closed and lost are terminal.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusFresh:
		return to == StatusInProgress
	case StatusInProgress:
		return to == StatusInProgress || to == StatusClosed || to == StatusLost
	default:
		return false
	}
}

// CanMutate is the single authorization predicate for lead mutations:
// admins may mutate any lead, a sales person only leads assigned to them.
func CanMutate(actor Actor, assignedTo *uuid.UUID) bool {
	if actor.IsAdmin() {
		return true
	}
	return assignedTo != nil && *assignedTo == actor.ID
}
