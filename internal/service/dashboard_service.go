package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/nurulquran/academy-backend/internal/metrics"
	"github.com/nurulquran/academy-backend/internal/model"
)

// StudentDashboard consolidates every figure shown to a student or parent.
type StudentDashboard struct {
	StudentID  uuid.UUID                   `json:"student_id"`
	Attendance metrics.AttendanceBreakdown `json:"attendance"`
	Grades     metrics.GradeSummary        `json:"grades"`
	Active     []model.Enrollment          `json:"active_enrollments"`
	Waitlisted []model.Enrollment          `json:"waitlisted_enrollments"`
	Completed  int                         `json:"completed_classes"`
}

// ClassDashboard consolidates the figures shown for one class.
type ClassDashboard struct {
	Capacity       model.CapacityView          `json:"capacity"`
	Sessions       []model.Session             `json:"sessions"`
	Attendance     metrics.AttendanceBreakdown `json:"attendance"`
	AttendanceRate int                         `json:"attendance_rate"`
}

// DashboardService assembles dashboards from the record, class and session stores.
type DashboardService struct {
	records  RecordStore
	classes  ClassStore
	sessions SessionStore
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(records RecordStore, classes ClassStore, sessions SessionStore) *DashboardService {
	return &DashboardService{records: records, classes: classes, sessions: sessions}
}

// Student loads a student's attendance, grades and enrollments concurrently.
func (s *DashboardService) Student(ctx context.Context, studentID uuid.UUID) (*StudentDashboard, error) {
	var (
		attendance  []model.AttendanceRecord
		grades      []model.GradeRecord
		enrollments []model.Enrollment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		attendance, err = s.records.AttendanceByStudent(gctx, studentID)
		return wrapLoad("attendance", err)
	})
	g.Go(func() (err error) {
		grades, err = s.records.GradesByStudent(gctx, studentID)
		return wrapLoad("grades", err)
	})
	g.Go(func() (err error) {
		enrollments, err = s.classes.ListByStudent(gctx, studentID)
		return wrapLoad("enrollments", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	d := &StudentDashboard{
		StudentID:  studentID,
		Attendance: metrics.Breakdown(attendance),
		Grades:     metrics.SummarizeGrades(grades),
		Active:     []model.Enrollment{},
		Waitlisted: []model.Enrollment{},
	}
	for _, e := range enrollments {
		switch e.Status {
		case model.EnrollmentStatusActive:
			d.Active = append(d.Active, e)
		case model.EnrollmentStatusWaitlisted:
			d.Waitlisted = append(d.Waitlisted, e)
		case model.EnrollmentStatusCompleted:
			d.Completed++
		}
	}
	return d, nil
}

// Class loads a class's capacity, sessions and attendance concurrently.
func (s *DashboardService) Class(ctx context.Context, classID uuid.UUID) (*ClassDashboard, error) {
	var (
		view       *model.CapacityView
		sessions   []model.Session
		attendance []model.AttendanceRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		view, err = s.classes.GetCapacityView(gctx, classID)
		return notFoundAs(err, "class", classID)
	})
	g.Go(func() (err error) {
		sessions, err = s.sessions.ListByClass(gctx, classID)
		return wrapLoad("sessions", err)
	})
	g.Go(func() (err error) {
		attendance, err = s.records.AttendanceByClass(gctx, classID)
		return wrapLoad("attendance", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	model.SortSessionsByStart(sessions)
	breakdown := metrics.Breakdown(attendance)
	return &ClassDashboard{
		Capacity:       *view,
		Sessions:       nonNil(sessions),
		Attendance:     breakdown,
		AttendanceRate: breakdown.Rate,
	}, nil
}

func wrapLoad(what string, err error) error {
	if err != nil {
		return fmt.Errorf("load %s: %w", what, err)
	}
	return nil
}
