// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	platformevents "academy_crm_backend/platform/events"
	"academy_crm_backend/platform/logger"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = platformevents.Event
	Bus         = platformevents.Bus
	Handler     = platformevents.Handler
	HandlerFunc = platformevents.HandlerFunc
	BaseEvent   = platformevents.BaseEvent
	InMemoryBus = platformevents.InMemoryBus
)

// Re-export platform functions
var NewBaseEvent = platformevents.NewBaseEvent

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return platformevents.NewInMemoryBus(log)
}

// =============================================================================
// Lead Domain Events
// =============================================================================

// LeadCreated is published when a new lead enters the pipeline.
type LeadCreated struct {
	BaseEvent
	LeadID   uuid.UUID `json:"leadId"`
	LeadCode string    `json:"leadCode"`
	Name     string    `json:"name"`
	Source   string    `json:"source"`
	// PublicIntake is true when the lead came from the public website form
	// rather than an authenticated operator.
	PublicIntake bool `json:"publicIntake"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// LeadClaimed is published when a sales person takes ownership of a fresh lead.
type LeadClaimed struct {
	BaseEvent
	LeadID    uuid.UUID `json:"leadId"`
	LeadCode  string    `json:"leadCode"`
	ClaimedBy uuid.UUID `json:"claimedBy"`
}

func (e LeadClaimed) EventName() string { return "leads.lead.claimed" }

// LeadStatusChanged is published when a lead moves between pipeline statuses.
type LeadStatusChanged struct {
	BaseEvent
	LeadID    uuid.UUID `json:"leadId"`
	LeadCode  string    `json:"leadCode"`
	OldStatus string    `json:"oldStatus"`
	NewStatus string    `json:"newStatus"`
	DealValue float64   `json:"dealValue"`
	ActorID   uuid.UUID `json:"actorId"`
}

func (e LeadStatusChanged) EventName() string { return "leads.lead.status_changed" }

// =============================================================================
// User Domain Events
// =============================================================================

// UserDeactivated is published when an admin deactivates a user account.
type UserDeactivated struct {
	BaseEvent
	UserID uuid.UUID `json:"userId"`
	Email  string    `json:"email"`
}

func (e UserDeactivated) EventName() string { return "users.user.deactivated" }
