package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurulquran/academy-backend/internal/config"
	"github.com/nurulquran/academy-backend/internal/lock"
	"github.com/nurulquran/academy-backend/internal/model"
	"github.com/nurulquran/academy-backend/internal/repository"
)

// Capacity event reasons.
const (
	ReasonConfigured = "configured"
	ReasonAdmitted   = "admitted"
	ReasonWaitlisted = "waitlisted"
	ReasonWithdrawn  = "withdrawn"
	ReasonCompleted  = "completed"
)

// CapacityPublisher receives an event after every committed roster change.
type CapacityPublisher interface {
	Publish(ctx context.Context, event model.CapacityEvent) error
}

// EnrollmentService admits, waitlists and releases students per class. Every
// roster mutation runs under the class lock so CurrentEnrollment never
// exceeds Capacity and waitlist positions stay contiguous.
type EnrollmentService struct {
	classes   ClassStore
	locker    lock.Locker
	publisher CapacityPublisher
	log       zerolog.Logger
	now       func() time.Time
}

// NewEnrollmentService creates a new EnrollmentService.
func NewEnrollmentService(
	classes ClassStore,
	locker lock.Locker,
	publisher CapacityPublisher,
	log zerolog.Logger,
) *EnrollmentService {
	return &EnrollmentService{
		classes:   classes,
		locker:    locker,
		publisher: publisher,
		log:       log.With().Str("component", "enrollment_service").Logger(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// ConfigureClass creates a class with the given capacity or resizes it.
// Growing promotes waitlisted students; shrinking below the number of ACTIVE
// students is rejected.
func (s *EnrollmentService) ConfigureClass(ctx context.Context, classID uuid.UUID, capacity int) (*model.CapacityView, error) {
	if capacity <= 0 {
		return nil, &model.InvalidCapacityError{Capacity: capacity}
	}

	var view model.CapacityView
	err := s.withClass(ctx, classID, true, func(l *ledger) (string, uuid.UUID, error) {
		if err := l.resize(capacity); err != nil {
			return "", uuid.Nil, err
		}
		view = l.view()
		return ReasonConfigured, uuid.Nil, nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// RequestEnrollment admits the student or places them on the waitlist.
func (s *EnrollmentService) RequestEnrollment(ctx context.Context, studentID, classID uuid.UUID) (*model.EnrollmentResult, error) {
	var result model.EnrollmentResult
	err := s.withClass(ctx, classID, false, func(l *ledger) (string, uuid.UUID, error) {
		e, admission, err := l.request(studentID, s.now())
		if err != nil {
			return "", uuid.Nil, err
		}
		result = model.EnrollmentResult{Enrollment: e, Admission: admission}
		if admission == model.AdmissionWaitlisted {
			return ReasonWaitlisted, studentID, nil
		}
		return ReasonAdmitted, studentID, nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Withdraw drops an ACTIVE or WAITLISTED enrollment. A freed seat goes to the
// lowest-position waitlisted student.
func (s *EnrollmentService) Withdraw(ctx context.Context, enrollmentID uuid.UUID) (*model.Enrollment, error) {
	return s.release(ctx, enrollmentID, ReasonWithdrawn, (*ledger).withdraw)
}

// Complete marks an ACTIVE enrollment COMPLETED and frees its seat.
func (s *EnrollmentService) Complete(ctx context.Context, enrollmentID uuid.UUID) (*model.Enrollment, error) {
	return s.release(ctx, enrollmentID, ReasonCompleted, (*ledger).complete)
}

// Get returns one enrollment.
func (s *EnrollmentService) Get(ctx context.Context, enrollmentID uuid.UUID) (*model.Enrollment, error) {
	e, err := s.classes.GetEnrollment(ctx, enrollmentID)
	if err != nil {
		return nil, notFoundAs(err, "enrollment", enrollmentID)
	}
	return e, nil
}

// CapacityOf returns a class's capacity, ACTIVE count and waitlist length.
func (s *EnrollmentService) CapacityOf(ctx context.Context, classID uuid.UUID) (*model.CapacityView, error) {
	view, err := s.classes.GetCapacityView(ctx, classID)
	if err != nil {
		return nil, notFoundAs(err, "class", classID)
	}
	return view, nil
}

// Waitlist returns a class's WAITLISTED enrollments ordered by position.
func (s *EnrollmentService) Waitlist(ctx context.Context, classID uuid.UUID) ([]model.Enrollment, error) {
	l, err := s.load(ctx, classID)
	if err != nil {
		return nil, err
	}
	return l.waitlist(), nil
}

// ListByStudent returns every enrollment of a student, oldest first.
func (s *EnrollmentService) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]model.Enrollment, error) {
	enrollments, err := s.classes.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return nonNil(enrollments), nil
}

func (s *EnrollmentService) release(
	ctx context.Context,
	enrollmentID uuid.UUID,
	reason string,
	apply func(*ledger, uuid.UUID) (model.Enrollment, error),
) (*model.Enrollment, error) {
	found, err := s.classes.GetEnrollment(ctx, enrollmentID)
	if err != nil {
		return nil, notFoundAs(err, "enrollment", enrollmentID)
	}

	var released model.Enrollment
	err = s.withClass(ctx, found.ClassID, false, func(l *ledger) (string, uuid.UUID, error) {
		e, err := apply(l, enrollmentID)
		if err != nil {
			return "", uuid.Nil, err
		}
		released = e
		return reason, e.StudentID, nil
	})
	if err != nil {
		return nil, err
	}
	return &released, nil
}

// withClass runs fn against the class ledger under the class lock and
// persists the result. When create is set a missing class starts empty.
func (s *EnrollmentService) withClass(
	ctx context.Context,
	classID uuid.UUID,
	create bool,
	fn func(*ledger) (reason string, studentID uuid.UUID, err error),
) error {
	unlock, err := s.locker.Lock(ctx, config.CacheKey.ClassLockKey(classID))
	if err != nil {
		return fmt.Errorf("lock class: %w", err)
	}
	defer unlock()

	l, err := s.load(ctx, classID)
	var missing *model.NotFoundError
	if errors.As(err, &missing) && create {
		l = newLedger(model.ClassCapacity{ClassID: classID}, nil)
	} else if err != nil {
		return err
	}

	reason, studentID, err := fn(l)
	if err != nil {
		return err
	}

	if err := s.classes.SaveClass(ctx, &l.capacity, l.changed()); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return &model.DuplicateEnrollmentError{StudentID: studentID, ClassID: classID}
		}
		return fmt.Errorf("save class %s: %w", classID, err)
	}

	event := model.CapacityEvent{CapacityView: l.view(), Reason: reason, StudentID: studentID, At: s.now()}
	s.log.Info().
		Str("class_id", classID.String()).
		Str("reason", reason).
		Int("capacity", event.Capacity).
		Int("current_enrollment", event.CurrentEnrollment).
		Int("waitlisted", event.Waitlisted).
		Msg("Class roster updated")
	s.publish(ctx, event)
	return nil
}

func (s *EnrollmentService) load(ctx context.Context, classID uuid.UUID) (*ledger, error) {
	capacity, err := s.classes.GetCapacity(ctx, classID)
	if err != nil {
		return nil, notFoundAs(err, "class", classID)
	}
	enrollments, err := s.classes.ListByClass(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("list class enrollments: %w", err)
	}
	return newLedger(*capacity, enrollments), nil
}

// publish is fire-and-forget: a failed publish never undoes a committed change.
func (s *EnrollmentService) publish(ctx context.Context, event model.CapacityEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		s.log.Warn().Err(err).Str("class_id", event.ClassID.String()).Msg("Failed to publish capacity event")
	}
}
