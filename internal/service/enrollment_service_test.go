package service

import (
	"context"
	"math/rand"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurulquran/academy-backend/internal/lock"
	"github.com/nurulquran/academy-backend/internal/model"
	"github.com/nurulquran/academy-backend/internal/repository/memory"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []model.CapacityEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event model.CapacityEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) reasons() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Reason
	}
	return out
}

func newEnrollmentService() (*EnrollmentService, *memory.ClassRepository, *recordingPublisher) {
	classes := memory.NewClassRepository()
	pub := &recordingPublisher{}
	return NewEnrollmentService(classes, lock.NewLocal(), pub, zerolog.Nop()), classes, pub
}

func TestEnrollmentService_WaitlistPromotion(t *testing.T) {
	ctx := context.Background()
	svc, _, pub := newEnrollmentService()
	classID := uuid.New()

	_, err := svc.ConfigureClass(ctx, classID, 2)
	require.NoError(t, err)

	a, err := svc.RequestEnrollment(ctx, uuid.New(), classID)
	require.NoError(t, err)
	assert.Equal(t, model.AdmissionAdmitted, a.Admission)
	_, err = svc.RequestEnrollment(ctx, uuid.New(), classID)
	require.NoError(t, err)

	c, err := svc.RequestEnrollment(ctx, uuid.New(), classID)
	require.NoError(t, err)
	assert.Equal(t, model.AdmissionWaitlisted, c.Admission)
	assert.Equal(t, model.EnrollmentStatusWaitlisted, c.Enrollment.Status)
	assert.Equal(t, 1, c.Enrollment.Position)

	d, err := svc.RequestEnrollment(ctx, uuid.New(), classID)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Enrollment.Position)

	dropped, err := svc.Withdraw(ctx, a.Enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentStatusDropped, dropped.Status)

	view, err := svc.CapacityOf(ctx, classID)
	require.NoError(t, err)
	assert.Equal(t, model.CapacityView{ClassID: classID, Capacity: 2, CurrentEnrollment: 2, Waitlisted: 1}, *view)

	waitlist, err := svc.Waitlist(ctx, classID)
	require.NoError(t, err)
	require.Len(t, waitlist, 1)
	assert.Equal(t, d.Enrollment.ID, waitlist[0].ID)
	assert.Equal(t, 1, waitlist[0].Position)

	promoted, err := svc.ListByStudent(ctx, c.Enrollment.StudentID)
	require.NoError(t, err)
	require.Len(t, promoted, 1)
	assert.Equal(t, model.EnrollmentStatusActive, promoted[0].Status)
	assert.Zero(t, promoted[0].Position)

	assert.Equal(t, []string{
		ReasonConfigured, ReasonAdmitted, ReasonAdmitted, ReasonWaitlisted, ReasonWaitlisted, ReasonWithdrawn,
	}, pub.reasons())
}

func TestEnrollmentService_Duplicate(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newEnrollmentService()
	classID, student := uuid.New(), uuid.New()

	_, err := svc.ConfigureClass(ctx, classID, 1)
	require.NoError(t, err)
	first, err := svc.RequestEnrollment(ctx, student, classID)
	require.NoError(t, err)

	_, err = svc.RequestEnrollment(ctx, student, classID)
	var dupErr *model.DuplicateEnrollmentError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, first.Enrollment.ID, dupErr.EnrollmentID)

	// Completed enrollments still block a second request.
	_, err = svc.Complete(ctx, first.Enrollment.ID)
	require.NoError(t, err)
	_, err = svc.RequestEnrollment(ctx, student, classID)
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, model.EnrollmentStatusCompleted, dupErr.Status)
}

func TestEnrollmentService_ReenrollAfterDrop(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newEnrollmentService()
	classID, student := uuid.New(), uuid.New()

	_, err := svc.ConfigureClass(ctx, classID, 3)
	require.NoError(t, err)
	first, err := svc.RequestEnrollment(ctx, student, classID)
	require.NoError(t, err)
	_, err = svc.Withdraw(ctx, first.Enrollment.ID)
	require.NoError(t, err)

	again, err := svc.RequestEnrollment(ctx, student, classID)
	require.NoError(t, err)
	assert.NotEqual(t, first.Enrollment.ID, again.Enrollment.ID)
	assert.Equal(t, model.AdmissionAdmitted, again.Admission)
}

func TestEnrollmentService_InvalidTransitions(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newEnrollmentService()
	classID := uuid.New()

	_, err := svc.ConfigureClass(ctx, classID, 1)
	require.NoError(t, err)
	active, err := svc.RequestEnrollment(ctx, uuid.New(), classID)
	require.NoError(t, err)
	waiting, err := svc.RequestEnrollment(ctx, uuid.New(), classID)
	require.NoError(t, err)

	_, err = svc.Complete(ctx, waiting.Enrollment.ID)
	var transitionErr *model.InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, string(model.EnrollmentStatusWaitlisted), transitionErr.From)

	_, err = svc.Withdraw(ctx, active.Enrollment.ID)
	require.NoError(t, err)
	_, err = svc.Withdraw(ctx, active.Enrollment.ID)
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, string(model.EnrollmentStatusDropped), transitionErr.From)

	_, err = svc.Withdraw(ctx, uuid.New())
	var notFound *model.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "enrollment", notFound.Resource)
}

func TestEnrollmentService_ConfigureClass(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newEnrollmentService()
	classID := uuid.New()

	var capErr *model.InvalidCapacityError
	_, err := svc.ConfigureClass(ctx, classID, 0)
	require.ErrorAs(t, err, &capErr)

	_, err = svc.CapacityOf(ctx, classID)
	var notFound *model.NotFoundError
	require.ErrorAs(t, err, &notFound)
	_, err = svc.RequestEnrollment(ctx, uuid.New(), classID)
	require.ErrorAs(t, err, &notFound)

	_, err = svc.ConfigureClass(ctx, classID, 2)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err := svc.RequestEnrollment(ctx, uuid.New(), classID)
		require.NoError(t, err)
	}

	_, err = svc.ConfigureClass(ctx, classID, 1)
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 2, capErr.CurrentEnrollment)

	view, err := svc.ConfigureClass(ctx, classID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, view.CurrentEnrollment)
	assert.Equal(t, 1, view.Waitlisted)

	waitlist, err := svc.Waitlist(ctx, classID)
	require.NoError(t, err)
	require.Len(t, waitlist, 1)
	assert.Equal(t, 1, waitlist[0].Position)
}

func TestEnrollmentService_ConcurrentRequestsSingleSeat(t *testing.T) {
	ctx := context.Background()
	svc, classes, _ := newEnrollmentService()
	classID := uuid.New()
	_, err := svc.ConfigureClass(ctx, classID, 1)
	require.NoError(t, err)

	const students = 24
	results := make([]*model.EnrollmentResult, students)
	var wg sync.WaitGroup
	for i := 0; i < students; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := svc.RequestEnrollment(ctx, uuid.New(), classID)
			if assert.NoError(t, err) {
				results[i] = res
			}
		}(i)
	}
	wg.Wait()

	admitted := 0
	positions := make(map[int]bool)
	for _, r := range results {
		require.NotNil(t, r)
		if r.Admission == model.AdmissionAdmitted {
			admitted++
			continue
		}
		positions[r.Enrollment.Position] = true
	}
	assert.Equal(t, 1, admitted)
	for p := 1; p < students; p++ {
		assert.True(t, positions[p], "missing waitlist position %d", p)
	}
	assertRosterInvariants(t, classes, classID)
}

func TestEnrollmentService_RandomSequencesKeepInvariants(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 20; round++ {
		svc, classes, _ := newEnrollmentService()
		classID := uuid.New()
		_, err := svc.ConfigureClass(ctx, classID, 1+rng.Intn(4))
		require.NoError(t, err)

		students := make([]uuid.UUID, 8)
		for i := range students {
			students[i] = uuid.New()
		}
		var held []uuid.UUID

		for step := 0; step < 60; step++ {
			switch op := rng.Intn(10); {
			case op < 5:
				res, err := svc.RequestEnrollment(ctx, students[rng.Intn(len(students))], classID)
				if err == nil {
					held = append(held, res.Enrollment.ID)
				}
			case op < 8 && len(held) > 0:
				_, _ = svc.Withdraw(ctx, held[rng.Intn(len(held))])
			case op < 9 && len(held) > 0:
				_, _ = svc.Complete(ctx, held[rng.Intn(len(held))])
			default:
				view, err := svc.CapacityOf(ctx, classID)
				require.NoError(t, err)
				_, _ = svc.ConfigureClass(ctx, classID, view.CurrentEnrollment+rng.Intn(3))
			}
			assertRosterInvariants(t, classes, classID)
		}
	}
}

func assertRosterInvariants(t *testing.T, classes *memory.ClassRepository, classID uuid.UUID) {
	t.Helper()
	ctx := context.Background()

	capacity, err := classes.GetCapacity(ctx, classID)
	require.NoError(t, err)
	enrollments, err := classes.ListByClass(ctx, classID)
	require.NoError(t, err)

	active := 0
	var positions []int
	holding := make(map[uuid.UUID]int)
	for _, e := range enrollments {
		switch e.Status {
		case model.EnrollmentStatusActive:
			active++
		case model.EnrollmentStatusWaitlisted:
			positions = append(positions, e.Position)
		}
		if e.Holds() {
			holding[e.StudentID]++
		}
	}

	require.Equal(t, active, capacity.CurrentEnrollment)
	require.LessOrEqual(t, capacity.CurrentEnrollment, capacity.Capacity)
	if len(positions) > 0 {
		require.Equal(t, capacity.Capacity, capacity.CurrentEnrollment, "seats free while students wait")
	}
	seen := make(map[int]bool, len(positions))
	for _, p := range positions {
		require.False(t, seen[p], "duplicate position %d", p)
		require.True(t, p >= 1 && p <= len(positions), "position %d outside 1..%d", p, len(positions))
		seen[p] = true
	}
	for student, n := range holding {
		require.Equal(t, 1, n, "student %s holds %d enrollments", student, n)
	}
}
