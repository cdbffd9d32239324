package transport

import (
	"time"

	"github.com/google/uuid"
)

type CreateUserRequest struct {
	Email         string  `json:"email" validate:"required,email"`
	Password      string  `json:"password" validate:"required,min=8,max=128"`
	FullName      string  `json:"fullName" validate:"required,min=1,max=200"`
	Role          string  `json:"role" validate:"required,oneof=admin sales_person"`
	MonthlyTarget float64 `json:"monthlyTarget" validate:"gte=0"`
}

type UpdateUserRequest struct {
	FullName      *string  `json:"fullName,omitempty" validate:"omitempty,min=1,max=200"`
	Role          *string  `json:"role,omitempty" validate:"omitempty,oneof=admin sales_person"`
	MonthlyTarget *float64 `json:"monthlyTarget,omitempty" validate:"omitempty,gte=0"`
	Password      *string  `json:"password,omitempty" validate:"omitempty,min=8,max=128"`
}

type UserResponse struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	FullName      string    `json:"fullName"`
	Role          string    `json:"role"`
	Status        string    `json:"status"`
	MonthlyTarget float64   `json:"monthlyTarget"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Total int            `json:"total"`
}
