package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/nurulquran/academy-backend/internal/config"
	"github.com/nurulquran/academy-backend/internal/metrics"
	"github.com/nurulquran/academy-backend/internal/model"
)

// AttendanceSink accepts validated attendance records for persistence.
type AttendanceSink interface {
	Submit(ctx context.Context, records []model.AttendanceRecord) error
}

// AttendanceQueue pushes records onto the Redis list drained by
// worker.AttendanceWorker.
type AttendanceQueue struct {
	rdb *redis.Client
}

// NewAttendanceQueue creates a new AttendanceQueue.
func NewAttendanceQueue(rdb *redis.Client) *AttendanceQueue {
	return &AttendanceQueue{rdb: rdb}
}

func (q *AttendanceQueue) Submit(ctx context.Context, records []model.AttendanceRecord) error {
	payloads := make([]any, 0, len(records))
	for _, rec := range records {
		raw, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal attendance record: %w", err)
		}
		payloads = append(payloads, raw)
	}
	return q.rdb.RPush(ctx, config.WorkerKey.PersistAttendanceQueue, payloads...).Err()
}

// DirectAttendanceSink writes records straight to the store.
type DirectAttendanceSink struct {
	records RecordStore
}

// NewDirectAttendanceSink creates a new DirectAttendanceSink.
func NewDirectAttendanceSink(records RecordStore) *DirectAttendanceSink {
	return &DirectAttendanceSink{records: records}
}

func (d *DirectAttendanceSink) Submit(ctx context.Context, records []model.AttendanceRecord) error {
	return d.records.InsertAttendance(ctx, records)
}

// RecordService accepts attendance marks and grade records.
type RecordService struct {
	records RecordStore
	sink    AttendanceSink
	log     zerolog.Logger
}

// NewRecordService creates a new RecordService.
func NewRecordService(records RecordStore, sink AttendanceSink, log zerolog.Logger) *RecordService {
	return &RecordService{
		records: records,
		sink:    sink,
		log:     log.With().Str("component", "record_service").Logger(),
	}
}

// RecordAttendance marks a class roster for one date.
func (s *RecordService) RecordAttendance(ctx context.Context, req model.AttendanceRequest) ([]model.AttendanceRecord, error) {
	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		return nil, &model.ValidationError{Field: "date", Err: err}
	}

	records := make([]model.AttendanceRecord, 0, len(req.Entries))
	for _, entry := range req.Entries {
		if !entry.Status.Valid() {
			return nil, &model.ValidationError{Field: "status", Err: fmt.Errorf("unknown status %q", entry.Status)}
		}
		records = append(records, model.AttendanceRecord{
			StudentID: entry.StudentID,
			ClassID:   req.ClassID,
			Date:      date,
			Status:    entry.Status,
		})
	}

	if err := s.sink.Submit(ctx, records); err != nil {
		return nil, fmt.Errorf("submit attendance: %w", err)
	}
	s.log.Debug().
		Str("class_id", req.ClassID.String()).
		Str("date", req.Date).
		Int("count", len(records)).
		Msg("Attendance accepted")
	return records, nil
}

// RecordGrade stores a grade after checking that it yields a percentage.
func (s *RecordService) RecordGrade(ctx context.Context, req model.GradeRequest) (*metrics.GradeResult, error) {
	g := &model.GradeRecord{
		ID:         uuid.New(),
		StudentID:  req.StudentID,
		SubjectID:  req.SubjectID,
		ExamType:   req.ExamType,
		Score:      *req.Score,
		TotalScore: *req.TotalScore,
	}
	result, err := metrics.Grade(*g)
	if err != nil {
		return nil, err
	}
	if err := s.records.InsertGrade(ctx, g); err != nil {
		return nil, fmt.Errorf("insert grade: %w", err)
	}
	result.Record = *g
	return &result, nil
}
