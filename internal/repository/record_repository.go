package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nurulquran/academy-backend/internal/model"
)

// RecordRepository handles attendance and grade data access. Both tables are
// append-only.
type RecordRepository struct {
	pool *pgxpool.Pool
}

// NewRecordRepository creates a new RecordRepository.
func NewRecordRepository(pool *pgxpool.Pool) *RecordRepository {
	return &RecordRepository{pool: pool}
}

// InsertAttendance bulk-inserts attendance records with COPY.
func (r *RecordRepository) InsertAttendance(ctx context.Context, records []model.AttendanceRecord) error {
	if len(records) == 0 {
		return nil
	}
	_, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"attendance_records"},
		[]string{"student_id", "class_id", "date", "status"},
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			rec := records[i]
			return []any{rec.StudentID, rec.ClassID, rec.Date, string(rec.Status)}, nil
		}),
	)
	return err
}

// AttendanceByStudent retrieves every attendance record of a student.
func (r *RecordRepository) AttendanceByStudent(ctx context.Context, studentID uuid.UUID) ([]model.AttendanceRecord, error) {
	return r.listAttendance(ctx,
		`SELECT student_id, class_id, date, status FROM attendance_records
		 WHERE student_id = $1 ORDER BY date, id`, studentID)
}

// AttendanceByClass retrieves every attendance record of a class.
func (r *RecordRepository) AttendanceByClass(ctx context.Context, classID uuid.UUID) ([]model.AttendanceRecord, error) {
	return r.listAttendance(ctx,
		`SELECT student_id, class_id, date, status FROM attendance_records
		 WHERE class_id = $1 ORDER BY date, id`, classID)
}

// InsertGrade inserts a grade record. The caller assigns the ID.
func (r *RecordRepository) InsertGrade(ctx context.Context, g *model.GradeRecord) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO grade_records (id, student_id, subject_id, exam_type, score, total_score)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		g.ID, g.StudentID, g.SubjectID, g.ExamType, g.Score, g.TotalScore,
	).Scan(&g.CreatedAt)
}

// GradesByStudent retrieves every grade record of a student, oldest first.
func (r *RecordRepository) GradesByStudent(ctx context.Context, studentID uuid.UUID) ([]model.GradeRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, student_id, subject_id, exam_type, score::float8, total_score::float8, created_at
		 FROM grade_records WHERE student_id = $1 ORDER BY created_at, id`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grades []model.GradeRecord
	for rows.Next() {
		var g model.GradeRecord
		if err := rows.Scan(&g.ID, &g.StudentID, &g.SubjectID, &g.ExamType, &g.Score, &g.TotalScore, &g.CreatedAt); err != nil {
			return nil, err
		}
		grades = append(grades, g)
	}
	return grades, rows.Err()
}

func (r *RecordRepository) listAttendance(ctx context.Context, query string, args ...any) ([]model.AttendanceRecord, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.AttendanceRecord
	for rows.Next() {
		var rec model.AttendanceRecord
		if err := rows.Scan(&rec.StudentID, &rec.ClassID, &rec.Date, &rec.Status); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
