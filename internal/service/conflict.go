package service

import "github.com/nurulquran/academy-backend/internal/model"

// ConflictResult is the outcome of CheckConflict. Existing is set only when
// Conflict is true.
type ConflictResult struct {
	Conflict  bool
	Dimension model.ConflictDimension
	Existing  *model.Session
}

// Err returns the result as a *model.ConflictError, or nil when clear.
func (r ConflictResult) Err() error {
	if !r.Conflict {
		return nil
	}
	return &model.ConflictError{Dimension: r.Dimension, Existing: *r.Existing}
}

// CheckConflict decides whether proposed may commit against existing.
// Only committed sessions other than proposed itself are considered. A
// session conflicts when it shares the teacher, or the room of an in-person
// session, and its slot overlaps. The earliest conflicting session by
// start time wins; ties go to the teacher dimension.
func CheckConflict(proposed model.Session, existing []model.Session) ConflictResult {
	room, inPerson := proposed.Delivery.Room()

	candidates := make([]model.Session, 0, len(existing))
	for _, s := range existing {
		if s.ID == proposed.ID || !s.Status.Committed() {
			continue
		}
		candidates = append(candidates, s)
	}
	model.SortSessionsByStart(candidates)

	for i := range candidates {
		s := &candidates[i]
		if !model.Overlaps(proposed.Slot, s.Slot) {
			continue
		}
		if s.TeacherID == proposed.TeacherID {
			return ConflictResult{Conflict: true, Dimension: model.ConflictTeacher, Existing: s}
		}
		if other, ok := s.Delivery.Room(); ok && inPerson && other == room {
			return ConflictResult{Conflict: true, Dimension: model.ConflictRoom, Existing: s}
		}
	}
	return ConflictResult{}
}
