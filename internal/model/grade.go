package model

import (
	"time"

	"github.com/google/uuid"
)

// GradeRecord is one scored assessment.
type GradeRecord struct {
	ID         uuid.UUID `json:"id"`
	StudentID  uuid.UUID `json:"student_id"`
	SubjectID  uuid.UUID `json:"subject_id"`
	ExamType   string    `json:"exam_type"`
	Score      float64   `json:"score"`
	TotalScore float64   `json:"total_score"`
	CreatedAt  time.Time `json:"created_at"`
}

// GradeRequest is the payload for recording an assessment score.
type GradeRequest struct {
	StudentID  uuid.UUID `json:"student_id" binding:"required"`
	SubjectID  uuid.UUID `json:"subject_id" binding:"required"`
	ExamType   string    `json:"exam_type" binding:"required,max=64"`
	Score      *float64  `json:"score" binding:"required"`
	TotalScore *float64  `json:"total_score" binding:"required"`
}

// Letter is a grade band.
type Letter string

const (
	LetterA Letter = "A"
	LetterB Letter = "B"
	LetterC Letter = "C"
	LetterD Letter = "D"
	LetterF Letter = "F"
)
