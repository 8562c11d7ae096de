package model

import (
	"fmt"

	"github.com/google/uuid"
)

// ConflictDimension names the shared resource two sessions compete for.
type ConflictDimension string

const (
	ConflictTeacher ConflictDimension = "teacher"
	ConflictRoom    ConflictDimension = "room"
)

// ConflictError is returned when a proposed session overlaps a committed one.
type ConflictError struct {
	Dimension ConflictDimension `json:"dimension"`
	Existing  Session           `json:"existing"`
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflict with session %s at %s", e.Dimension, e.Existing.ID, e.Existing.Slot)
}

// NotFoundError is returned when an operation references a missing entity.
type NotFoundError struct {
	Resource string    `json:"resource"`
	ID       uuid.UUID `json:"id"`
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// DuplicateEnrollmentError is returned when a student already holds a
// non-dropped enrollment in the class.
type DuplicateEnrollmentError struct {
	StudentID    uuid.UUID        `json:"student_id"`
	ClassID      uuid.UUID        `json:"class_id"`
	EnrollmentID uuid.UUID        `json:"enrollment_id"`
	Status       EnrollmentStatus `json:"status"`
}

func (e *DuplicateEnrollmentError) Error() string {
	return fmt.Sprintf("student %s already holds %s enrollment %s in class %s",
		e.StudentID, e.Status, e.EnrollmentID, e.ClassID)
}

// InvalidCapacityError is returned when a class capacity is not positive or
// would drop below the number of active enrollments.
type InvalidCapacityError struct {
	Capacity          int `json:"capacity"`
	CurrentEnrollment int `json:"current_enrollment,omitempty"`
}

func (e *InvalidCapacityError) Error() string {
	if e.Capacity <= 0 {
		return fmt.Sprintf("capacity must be positive, got %d", e.Capacity)
	}
	return fmt.Sprintf("capacity %d is below current enrollment %d", e.Capacity, e.CurrentEnrollment)
}

// InvalidGradeDataError is returned for scores that cannot yield a percentage.
type InvalidGradeDataError struct {
	Score      float64 `json:"score"`
	TotalScore float64 `json:"total_score"`
}

func (e *InvalidGradeDataError) Error() string {
	switch {
	case e.TotalScore <= 0:
		return fmt.Sprintf("total score must be positive, got %g", e.TotalScore)
	case e.Score < 0:
		return fmt.Sprintf("score must not be negative, got %g", e.Score)
	default:
		return fmt.Sprintf("score %g exceeds total score %g", e.Score, e.TotalScore)
	}
}

// InvalidStudentCountError is returned for family sizes without a discount tier.
type InvalidStudentCountError struct {
	Count int `json:"count"`
	Min   int `json:"min"`
	Max   int `json:"max"`
}

func (e *InvalidStudentCountError) Error() string {
	return fmt.Sprintf("student count %d outside supported range %d..%d", e.Count, e.Min, e.Max)
}

// InvalidTransitionError is returned when a status change is not allowed
// from the entity's current status.
type InvalidTransitionError struct {
	Resource string `json:"resource"`
	From     string `json:"from"`
	To       string `json:"to"`
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s cannot move from %s to %s", e.Resource, e.From, e.To)
}

// ValidationError reports a payload field that passed binding but is
// semantically invalid, such as an unknown timezone.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
