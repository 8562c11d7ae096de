package model

import (
	"time"

	"github.com/google/uuid"
)

// ClassCapacity is the seat budget of a class.
type ClassCapacity struct {
	ClassID           uuid.UUID `json:"class_id"`
	Capacity          int       `json:"capacity"`
	CurrentEnrollment int       `json:"current_enrollment"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// CapacityView is the read-only projection returned by capacity queries.
type CapacityView struct {
	ClassID           uuid.UUID `json:"class_id"`
	Capacity          int       `json:"capacity"`
	CurrentEnrollment int       `json:"current_enrollment"`
	Waitlisted        int       `json:"waitlisted"`
}

// SeatsLeft returns the number of free ACTIVE seats.
func (v CapacityView) SeatsLeft() int {
	if left := v.Capacity - v.CurrentEnrollment; left > 0 {
		return left
	}
	return 0
}

// CapacityEvent is published after every committed enrollment mutation.
type CapacityEvent struct {
	CapacityView
	Reason    string    `json:"reason"`
	StudentID uuid.UUID `json:"student_id,omitempty"`
	At        time.Time `json:"at"`
}

// CapacityRequest is the payload for configuring a class's seat budget.
type CapacityRequest struct {
	Capacity *int `json:"capacity" binding:"required"`
}
