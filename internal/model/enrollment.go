package model

import (
	"time"

	"github.com/google/uuid"
)

// EnrollmentStatus represents the lifecycle of an enrollment.
type EnrollmentStatus string

const (
	EnrollmentStatusActive     EnrollmentStatus = "ACTIVE"
	EnrollmentStatusWaitlisted EnrollmentStatus = "WAITLISTED"
	EnrollmentStatusDropped    EnrollmentStatus = "DROPPED"
	EnrollmentStatusCompleted  EnrollmentStatus = "COMPLETED"
)

// Admission is the outcome of an enrollment request.
type Admission string

const (
	AdmissionAdmitted   Admission = "ADMITTED"
	AdmissionWaitlisted Admission = "WAITLISTED"
)

// Enrollment links one student to one class.
type Enrollment struct {
	ID        uuid.UUID        `json:"id"`
	StudentID uuid.UUID        `json:"student_id"`
	ClassID   uuid.UUID        `json:"class_id"`
	Status    EnrollmentStatus `json:"status"`
	JoinedAt  time.Time        `json:"joined_at"`
	// Position is the 1-based waitlist order; zero unless WAITLISTED.
	Position  int       `json:"position,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Holds reports whether the enrollment still blocks a new request by the
// same student for the same class.
func (e *Enrollment) Holds() bool {
	return e.Status != EnrollmentStatusDropped
}

// EnrollmentRequest is the payload for requesting a seat in a class.
type EnrollmentRequest struct {
	StudentID uuid.UUID `json:"student_id" binding:"required"`
	ClassID   uuid.UUID `json:"class_id" binding:"required"`
}

// EnrollmentResult reports the stored enrollment and how it was admitted.
type EnrollmentResult struct {
	Enrollment Enrollment `json:"enrollment"`
	Admission  Admission  `json:"admission"`
}
