package model

import (
	"time"

	"github.com/google/uuid"
)

// AttendanceStatus is the mark recorded for one student on one day.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "PRESENT"
	AttendanceAbsent  AttendanceStatus = "ABSENT"
	AttendanceLate    AttendanceStatus = "LATE"
	AttendanceExcused AttendanceStatus = "EXCUSED"
)

// Valid reports whether s is one of the known statuses.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceExcused:
		return true
	}
	return false
}

// AttendanceRecord is an append-only attendance log entry.
type AttendanceRecord struct {
	StudentID uuid.UUID        `json:"student_id"`
	ClassID   uuid.UUID        `json:"class_id"`
	Date      time.Time        `json:"date"`
	Status    AttendanceStatus `json:"status"`
}

// AttendanceEntry is one student's mark within an AttendanceRequest.
type AttendanceEntry struct {
	StudentID uuid.UUID        `json:"student_id" binding:"required"`
	Status    AttendanceStatus `json:"status" binding:"required,oneof=PRESENT ABSENT LATE EXCUSED"`
}

// AttendanceRequest marks a class roster for one date.
type AttendanceRequest struct {
	ClassID uuid.UUID         `json:"class_id" binding:"required"`
	Date    string            `json:"date" binding:"required,datetime=2006-01-02"`
	Entries []AttendanceEntry `json:"entries" binding:"required,min=1,max=500,dive"`
}
