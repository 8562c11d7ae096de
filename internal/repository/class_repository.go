package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nurulquran/academy-backend/internal/model"
)

const enrollmentColumns = `id, student_id, class_id, status, COALESCE(position, 0), joined_at, updated_at`

// ClassRepository handles class capacity and enrollment data access.
type ClassRepository struct {
	pool *pgxpool.Pool
}

// NewClassRepository creates a new ClassRepository.
func NewClassRepository(pool *pgxpool.Pool) *ClassRepository {
	return &ClassRepository{pool: pool}
}

// GetCapacity retrieves the capacity row of a class.
func (r *ClassRepository) GetCapacity(ctx context.Context, classID uuid.UUID) (*model.ClassCapacity, error) {
	c := &model.ClassCapacity{}
	err := r.pool.QueryRow(ctx,
		`SELECT class_id, capacity, current_enrollment, updated_at
		 FROM class_capacities WHERE class_id = $1`, classID,
	).Scan(&c.ClassID, &c.Capacity, &c.CurrentEnrollment, &c.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

// GetCapacityView retrieves capacity together with the waitlist length.
func (r *ClassRepository) GetCapacityView(ctx context.Context, classID uuid.UUID) (*model.CapacityView, error) {
	v := &model.CapacityView{}
	err := r.pool.QueryRow(ctx,
		`SELECT c.class_id, c.capacity, c.current_enrollment,
			(SELECT COUNT(*) FROM enrollments e WHERE e.class_id = c.class_id AND e.status = $2)
		 FROM class_capacities c WHERE c.class_id = $1`,
		classID, model.EnrollmentStatusWaitlisted,
	).Scan(&v.ClassID, &v.Capacity, &v.CurrentEnrollment, &v.Waitlisted)
	if err != nil {
		return nil, notFound(err)
	}
	return v, nil
}

// GetEnrollment retrieves an enrollment by its ID.
func (r *ClassRepository) GetEnrollment(ctx context.Context, id uuid.UUID) (*model.Enrollment, error) {
	e, err := scanEnrollment(r.pool.QueryRow(ctx,
		`SELECT `+enrollmentColumns+` FROM enrollments WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return e, nil
}

// ListByClass retrieves every enrollment of a class, oldest first.
func (r *ClassRepository) ListByClass(ctx context.Context, classID uuid.UUID) ([]model.Enrollment, error) {
	return r.listEnrollments(ctx,
		`SELECT `+enrollmentColumns+` FROM enrollments WHERE class_id = $1 ORDER BY joined_at, id`, classID)
}

// ListByStudent retrieves every enrollment of a student, oldest first.
func (r *ClassRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]model.Enrollment, error) {
	return r.listEnrollments(ctx,
		`SELECT `+enrollmentColumns+` FROM enrollments WHERE student_id = $1 ORDER BY joined_at, id`, studentID)
}

// SaveClass writes the capacity row and every changed enrollment in one
// transaction. Enrollments are upserted by ID; a second holding enrollment for
// the same student and class yields ErrDuplicate.
func (r *ClassRepository) SaveClass(ctx context.Context, c *model.ClassCapacity, changed []model.Enrollment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO class_capacities (class_id, capacity, current_enrollment)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (class_id) DO UPDATE
		 SET capacity = EXCLUDED.capacity, current_enrollment = EXCLUDED.current_enrollment, updated_at = NOW()
		 RETURNING updated_at`,
		c.ClassID, c.Capacity, c.CurrentEnrollment,
	).Scan(&c.UpdatedAt)
	if err != nil {
		return err
	}

	if len(changed) > 0 {
		batch := &pgx.Batch{}
		for _, e := range changed {
			var position *int
			if e.Status == model.EnrollmentStatusWaitlisted {
				p := e.Position
				position = &p
			}
			batch.Queue(
				`INSERT INTO enrollments (id, student_id, class_id, status, position, joined_at)
				 VALUES ($1, $2, $3, $4, $5, $6)
				 ON CONFLICT (id) DO UPDATE
				 SET status = EXCLUDED.status, position = EXCLUDED.position, updated_at = NOW()`,
				e.ID, e.StudentID, e.ClassID, e.Status, position, e.JoinedAt,
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return duplicate(err)
		}
	}

	return tx.Commit(ctx)
}

func (r *ClassRepository) listEnrollments(ctx context.Context, query string, args ...any) ([]model.Enrollment, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []model.Enrollment
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, err
		}
		enrollments = append(enrollments, *e)
	}
	return enrollments, rows.Err()
}

func scanEnrollment(row pgx.Row) (*model.Enrollment, error) {
	e := &model.Enrollment{}
	err := row.Scan(&e.ID, &e.StudentID, &e.ClassID, &e.Status, &e.Position, &e.JoinedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}
