package transport

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateLeadRequest struct {
	Name       string   `json:"name" validate:"required,min=1,max=200"`
	Email      string   `json:"email" validate:"required,email"`
	Phone      string   `json:"phone" validate:"required,min=5,max=20"`
	Experience *string  `json:"experience,omitempty" validate:"omitempty,max=2000"`
	LeadSource string   `json:"leadSource,omitempty" validate:"omitempty,oneof=website referral social_media advertisement cold_call email_campaign"`
	DealValue  *float64 `json:"dealValue,omitempty" validate:"omitempty,gte=0"`
}

type UpdateLeadRequest struct {
	Name       *string  `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Email      *string  `json:"email,omitempty" validate:"omitempty,email"`
	Phone      *string  `json:"phone,omitempty" validate:"omitempty,min=5,max=20"`
	Experience *string  `json:"experience,omitempty" validate:"omitempty,max=2000"`
	DealValue  *float64 `json:"dealValue,omitempty" validate:"omitempty,gte=0"`
	Status     *string  `json:"status,omitempty" validate:"omitempty,oneof=in_progress closed lost"`
}

type UpdateLeadStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=in_progress closed lost"`
}

type ListLeadsRequest struct {
	Status string `form:"status" validate:"omitempty,oneof=fresh in_progress closed lost"`
	Source string `form:"source" validate:"omitempty,oneof=website referral social_media advertisement cold_call email_campaign"`
	Search string `form:"search" validate:"max=100"`
}

type CreateLeadNoteRequest struct {
	Note string `json:"note" validate:"required,min=1,max=2000"`
}

// Response DTOs

type LeadResponse struct {
	ID         uuid.UUID  `json:"id"`
	LeadID     string     `json:"leadId"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
	Experience *string    `json:"experience,omitempty"`
	LeadSource string     `json:"leadSource"`
	Status     string     `json:"status"`
	DealValue  float64    `json:"dealValue"`
	AssignedTo *uuid.UUID `json:"assignedTo,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

type LeadListResponse struct {
	Items []LeadResponse `json:"items"`
	Total int            `json:"total"`
}

type LeadNoteResponse struct {
	ID         uuid.UUID `json:"id"`
	LeadID     uuid.UUID `json:"leadId"`
	AuthorID   uuid.UUID `json:"authorId"`
	AuthorName string    `json:"authorName"`
	Note       string    `json:"note"`
	CreatedAt  time.Time `json:"createdAt"`
}

type LeadNotesResponse struct {
	Items []LeadNoteResponse `json:"items"`
}

// ImportRowError describes a single rejected row of a bulk CSV import.
type ImportRowError struct {
	Row   int      `json:"row"`
	Error string   `json:"error"`
	Data  []string `json:"data"`
}

// ImportResult is the row-granular outcome of a bulk CSV import.
type ImportResult struct {
	Total      int              `json:"total"`
	Successful int              `json:"successful"`
	Errors     []ImportRowError `json:"errors"`
}
