package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nurulquran/academy-backend/internal/model"
)

// RecordRepository stores attendance and grade records in insertion order.
type RecordRepository struct {
	mu         sync.RWMutex
	attendance []model.AttendanceRecord
	grades     []model.GradeRecord
}

// NewRecordRepository creates an empty RecordRepository.
func NewRecordRepository() *RecordRepository {
	return &RecordRepository{}
}

func (r *RecordRepository) InsertAttendance(_ context.Context, records []model.AttendanceRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.attendance = append(r.attendance, records...)
	return nil
}

func (r *RecordRepository) AttendanceByStudent(_ context.Context, studentID uuid.UUID) ([]model.AttendanceRecord, error) {
	return r.attendanceWhere(func(rec model.AttendanceRecord) bool { return rec.StudentID == studentID }), nil
}

func (r *RecordRepository) AttendanceByClass(_ context.Context, classID uuid.UUID) ([]model.AttendanceRecord, error) {
	return r.attendanceWhere(func(rec model.AttendanceRecord) bool { return rec.ClassID == classID }), nil
}

func (r *RecordRepository) InsertGrade(_ context.Context, g *model.GradeRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g.CreatedAt = time.Now().UTC()
	r.grades = append(r.grades, *g)
	return nil
}

func (r *RecordRepository) GradesByStudent(_ context.Context, studentID uuid.UUID) ([]model.GradeRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []model.GradeRecord
	for _, g := range r.grades {
		if g.StudentID == studentID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *RecordRepository) attendanceWhere(keep func(model.AttendanceRecord) bool) []model.AttendanceRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []model.AttendanceRecord
	for _, rec := range r.attendance {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	return out
}
