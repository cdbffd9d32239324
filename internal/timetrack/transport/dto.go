package transport

import (
	"time"

	"github.com/google/uuid"
)

type SessionResponse struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"userId"`
	StartedAt time.Time  `json:"startedAt"`
	EndedAt   *time.Time `json:"endedAt,omitempty"`
	// DurationSeconds is filled for closed sessions.
	DurationSeconds int64 `json:"durationSeconds,omitempty"`
}

type SessionListResponse struct {
	Items []SessionResponse `json:"items"`
	Open  *SessionResponse  `json:"open,omitempty"`
}
