package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/nurulquran/academy-backend/internal/config"
	"github.com/nurulquran/academy-backend/internal/model"
)

const (
	// PollTimeout must be >= 1s to satisfy Redis BLPOP.
	PollTimeout     = 1 * time.Second
	shutdownTimeout = 5 * time.Second
	requeueBackoff  = 2 * time.Second
)

// AttendanceWriter persists attendance batches.
type AttendanceWriter interface {
	InsertAttendance(ctx context.Context, records []model.AttendanceRecord) error
}

// AttendanceWorker drains the attendance queue into the store in batches.
type AttendanceWorker struct {
	writer     AttendanceWriter
	rdb        *redis.Client
	log        zerolog.Logger
	batchSize  int
	flushEvery time.Duration
}

// NewAttendanceWorker creates a new AttendanceWorker.
func NewAttendanceWorker(writer AttendanceWriter, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *AttendanceWorker {
	batchSize := cfg.AttendanceBatchSize
	if batchSize <= 0 {
		batchSize = 200
	}
	flushEvery := cfg.AttendanceFlushEvery
	if flushEvery <= 0 {
		flushEvery = 2 * time.Second
	}
	return &AttendanceWorker{
		writer:     writer,
		rdb:        rdb,
		log:        log.With().Str("component", "attendance_worker").Logger(),
		batchSize:  batchSize,
		flushEvery: flushEvery,
	}
}

// Start blocks until ctx is done, then flushes what it has buffered.
func (w *AttendanceWorker) Start(ctx context.Context) {
	w.log.Info().Int("batch_size", w.batchSize).Dur("flush_every", w.flushEvery).Msg("AttendanceWorker started")

	buffer := make([]model.AttendanceRecord, 0, w.batchSize)
	lastFlush := time.Now()

	for {
		if len(buffer) > 0 && (len(buffer) >= w.batchSize || time.Since(lastFlush) >= w.flushEvery) {
			w.flushSafe(ctx, buffer)
			buffer = buffer[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.shutdown(buffer)
			return
		default:
		}

		result, err := w.rdb.BLPop(ctx, PollTimeout, config.WorkerKey.PersistAttendanceQueue).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				continue
			}
			w.log.Error().Err(err).Msg("Redis connection error, sleeping 3s")
			time.Sleep(3 * time.Second)
			continue
		}
		if len(result) < 2 {
			continue
		}

		rec, err := decodeAttendance(result[1])
		if err != nil {
			w.log.Error().Err(err).Str("data", result[1]).Msg("Discarding malformed attendance payload")
			continue
		}
		buffer = append(buffer, rec)
	}
}

// flushSafe tries the whole batch, then row by row; rows that still fail
// go back on the queue.
func (w *AttendanceWorker) flushSafe(ctx context.Context, batch []model.AttendanceRecord) {
	if len(batch) == 0 {
		return
	}
	err := w.writer.InsertAttendance(ctx, batch)
	if err == nil {
		w.log.Debug().Int("count", len(batch)).Msg("Attendance batch persisted")
		return
	}
	w.log.Warn().Err(err).Int("count", len(batch)).Msg("Bulk insert failed, attempting row-by-row recovery")

	var failed []model.AttendanceRecord
	for _, rec := range batch {
		if err := w.writer.InsertAttendance(ctx, []model.AttendanceRecord{rec}); err != nil {
			w.log.Error().Err(err).Str("student_id", rec.StudentID.String()).Msg("Insert failed, requeueing")
			failed = append(failed, rec)
		}
	}
	if len(failed) > 0 {
		w.requeue(ctx, failed)
	}
}

func (w *AttendanceWorker) requeue(ctx context.Context, items []model.AttendanceRecord) {
	pipe := w.rdb.Pipeline()
	for _, rec := range items {
		data, _ := json.Marshal(rec)
		pipe.RPush(ctx, config.WorkerKey.PersistAttendanceQueue, data)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		w.log.Error().Err(err).Int("count", len(items)).Msg("CRITICAL: failed to requeue attendance, records lost")
		return
	}
	w.log.Info().Int("count", len(items)).Msg("Requeued failed attendance records")
	time.Sleep(requeueBackoff)
}

func (w *AttendanceWorker) shutdown(buffer []model.AttendanceRecord) {
	w.log.Info().Int("buffered", len(buffer)).Msg("Worker stopping, flushing remaining buffer")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	w.flushSafe(ctx, buffer)
}

func decodeAttendance(raw string) (model.AttendanceRecord, error) {
	var rec model.AttendanceRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return rec, err
	}
	if !rec.Status.Valid() {
		return rec, fmt.Errorf("unknown attendance status %q", rec.Status)
	}
	return rec, nil
}
