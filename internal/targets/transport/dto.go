package transport

import (
	"time"

	"github.com/google/uuid"
)

// TargetProgress is one user's monthly sales target standing.
type TargetProgress struct {
	UserID      uuid.UUID `json:"userId"`
	FullName    string    `json:"fullName"`
	Target      float64   `json:"target"`
	Achieved    float64   `json:"achieved"`
	Percentage  int       `json:"percentage"`
	PeriodStart time.Time `json:"periodStart"`
	PeriodEnd   time.Time `json:"periodEnd"`
}

// TeamTargetResponse is the admin dashboard view: per-person standings plus
// the team aggregate.
type TeamTargetResponse struct {
	Items        []TargetProgress `json:"items"`
	TeamTarget   float64          `json:"teamTarget"`
	TeamAchieved float64          `json:"teamAchieved"`
	TeamProgress int              `json:"teamProgress"`
	PeriodStart  time.Time        `json:"periodStart"`
	PeriodEnd    time.Time        `json:"periodEnd"`
}
