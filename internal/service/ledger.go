package service

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/nurulquran/academy-backend/internal/model"
)

// ledger is an in-memory copy of one class roster. All capacity rules are
// applied here; the caller persists Changed() afterwards while still holding
// the class lock.
type ledger struct {
	capacity    model.ClassCapacity
	enrollments []model.Enrollment
	original    map[uuid.UUID]model.Enrollment
}

func newLedger(capacity model.ClassCapacity, enrollments []model.Enrollment) *ledger {
	l := &ledger{
		capacity:    capacity,
		enrollments: enrollments,
		original:    make(map[uuid.UUID]model.Enrollment, len(enrollments)),
	}
	for _, e := range enrollments {
		l.original[e.ID] = e
	}
	return l
}

// request admits the student when a seat is free and waitlists them
// otherwise. A student already holding a non-dropped enrollment is rejected.
func (l *ledger) request(studentID uuid.UUID, now time.Time) (model.Enrollment, model.Admission, error) {
	for _, e := range l.enrollments {
		if e.StudentID == studentID && e.Holds() {
			return model.Enrollment{}, "", &model.DuplicateEnrollmentError{
				StudentID:    studentID,
				ClassID:      l.capacity.ClassID,
				EnrollmentID: e.ID,
				Status:       e.Status,
			}
		}
	}

	e := model.Enrollment{
		ID:        uuid.New(),
		StudentID: studentID,
		ClassID:   l.capacity.ClassID,
		JoinedAt:  now,
	}
	admission := model.AdmissionAdmitted
	if l.count(model.EnrollmentStatusActive) < l.capacity.Capacity {
		e.Status = model.EnrollmentStatusActive
	} else {
		e.Status = model.EnrollmentStatusWaitlisted
		e.Position = l.count(model.EnrollmentStatusWaitlisted) + 1
		admission = model.AdmissionWaitlisted
	}
	l.enrollments = append(l.enrollments, e)
	l.settle()
	return l.enrollments[len(l.enrollments)-1], admission, nil
}

// withdraw drops an ACTIVE or WAITLISTED enrollment.
func (l *ledger) withdraw(id uuid.UUID) (model.Enrollment, error) {
	return l.release(id, model.EnrollmentStatusDropped,
		model.EnrollmentStatusActive, model.EnrollmentStatusWaitlisted)
}

// complete moves an ACTIVE enrollment to COMPLETED, freeing its seat.
func (l *ledger) complete(id uuid.UUID) (model.Enrollment, error) {
	return l.release(id, model.EnrollmentStatusCompleted, model.EnrollmentStatusActive)
}

func (l *ledger) release(id uuid.UUID, to model.EnrollmentStatus, from ...model.EnrollmentStatus) (model.Enrollment, error) {
	i := l.index(id)
	if i < 0 {
		return model.Enrollment{}, &model.NotFoundError{Resource: "enrollment", ID: id}
	}

	e := &l.enrollments[i]
	allowed := false
	for _, st := range from {
		if e.Status == st {
			allowed = true
			break
		}
	}
	if !allowed {
		return model.Enrollment{}, &model.InvalidTransitionError{
			Resource: "enrollment",
			From:     string(e.Status),
			To:       string(to),
		}
	}

	e.Status = to
	e.Position = 0
	l.settle()
	return l.enrollments[i], nil
}

// resize changes the seat budget. It never evicts ACTIVE students.
func (l *ledger) resize(capacity int) error {
	active := l.count(model.EnrollmentStatusActive)
	if capacity <= 0 || capacity < active {
		return &model.InvalidCapacityError{Capacity: capacity, CurrentEnrollment: active}
	}
	l.capacity.Capacity = capacity
	l.settle()
	return nil
}

// settle promotes the lowest-position waitlisted students into free seats,
// renumbers the waitlist 1..n and recomputes CurrentEnrollment.
func (l *ledger) settle() {
	waitlist := l.waitlistIndexes()
	active := l.count(model.EnrollmentStatusActive)

	for len(waitlist) > 0 && active < l.capacity.Capacity {
		e := &l.enrollments[waitlist[0]]
		e.Status = model.EnrollmentStatusActive
		e.Position = 0
		waitlist = waitlist[1:]
		active++
	}
	for n, i := range waitlist {
		l.enrollments[i].Position = n + 1
	}
	l.capacity.CurrentEnrollment = active
}

// waitlistIndexes returns WAITLISTED entries by position, then join time.
func (l *ledger) waitlistIndexes() []int {
	var idx []int
	for i, e := range l.enrollments {
		if e.Status == model.EnrollmentStatusWaitlisted {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ea, eb := l.enrollments[idx[a]], l.enrollments[idx[b]]
		if ea.Position != eb.Position {
			return ea.Position < eb.Position
		}
		return ea.JoinedAt.Before(eb.JoinedAt)
	})
	return idx
}

// waitlist returns the WAITLISTED enrollments ordered by position.
func (l *ledger) waitlist() []model.Enrollment {
	idx := l.waitlistIndexes()
	out := make([]model.Enrollment, len(idx))
	for n, i := range idx {
		out[n] = l.enrollments[i]
	}
	return out
}

// changed returns enrollments that are new or differ from the loaded state.
func (l *ledger) changed() []model.Enrollment {
	var out []model.Enrollment
	for _, e := range l.enrollments {
		before, ok := l.original[e.ID]
		if !ok || before.Status != e.Status || before.Position != e.Position {
			out = append(out, e)
		}
	}
	return out
}

func (l *ledger) view() model.CapacityView {
	return model.CapacityView{
		ClassID:           l.capacity.ClassID,
		Capacity:          l.capacity.Capacity,
		CurrentEnrollment: l.capacity.CurrentEnrollment,
		Waitlisted:        l.count(model.EnrollmentStatusWaitlisted),
	}
}

func (l *ledger) count(status model.EnrollmentStatus) int {
	n := 0
	for _, e := range l.enrollments {
		if e.Status == status {
			n++
		}
	}
	return n
}

func (l *ledger) index(id uuid.UUID) int {
	for i, e := range l.enrollments {
		if e.ID == id {
			return i
		}
	}
	return -1
}
