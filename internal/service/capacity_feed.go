package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/nurulquran/academy-backend/internal/config"
	"github.com/nurulquran/academy-backend/internal/model"
)

// feedBuffer is the per-subscriber backlog; slower readers lose events.
const feedBuffer = 16

// CapacityFeed delivers capacity events to live subscribers of a class.
type CapacityFeed interface {
	CapacityPublisher
	// Subscribe streams events for classID until ctx is done or cancel is
	// called. The returned channel is closed afterwards.
	Subscribe(ctx context.Context, classID uuid.UUID) (events <-chan model.CapacityEvent, cancel func(), err error)
}

// RedisCapacityFeed fans capacity events out through Redis Pub/Sub so every
// API instance sees every change.
type RedisCapacityFeed struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewRedisCapacityFeed creates a new RedisCapacityFeed.
func NewRedisCapacityFeed(rdb *redis.Client, log zerolog.Logger) *RedisCapacityFeed {
	return &RedisCapacityFeed{
		rdb: rdb,
		log: log.With().Str("component", "capacity_feed").Logger(),
	}
}

func (f *RedisCapacityFeed) Publish(ctx context.Context, event model.CapacityEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal capacity event: %w", err)
	}
	return f.rdb.Publish(ctx, config.CacheKey.ClassCapacityChannel(event.ClassID), payload).Err()
}

func (f *RedisCapacityFeed) Subscribe(ctx context.Context, classID uuid.UUID) (<-chan model.CapacityEvent, func(), error) {
	pubsub := f.rdb.Subscribe(ctx, config.CacheKey.ClassCapacityChannel(classID))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, fmt.Errorf("subscribe capacity feed: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	out := make(chan model.CapacityEvent, feedBuffer)
	go func() {
		defer close(out)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event model.CapacityEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					f.log.Warn().Err(err).Str("channel", msg.Channel).Msg("Dropping malformed capacity event")
					continue
				}
				select {
				case out <- event:
				default:
				}
			}
		}
	}()
	return out, cancel, nil
}

// LocalCapacityFeed fans capacity events out in process. It serves the
// memory store, where a single instance owns every class.
type LocalCapacityFeed struct {
	mu   sync.Mutex
	subs map[uuid.UUID]map[chan model.CapacityEvent]struct{}
}

// NewLocalCapacityFeed creates a new LocalCapacityFeed.
func NewLocalCapacityFeed() *LocalCapacityFeed {
	return &LocalCapacityFeed{subs: make(map[uuid.UUID]map[chan model.CapacityEvent]struct{})}
}

func (f *LocalCapacityFeed) Publish(_ context.Context, event model.CapacityEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for ch := range f.subs[event.ClassID] {
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}

func (f *LocalCapacityFeed) Subscribe(ctx context.Context, classID uuid.UUID) (<-chan model.CapacityEvent, func(), error) {
	ch := make(chan model.CapacityEvent, feedBuffer)

	f.mu.Lock()
	if f.subs[classID] == nil {
		f.subs[classID] = make(map[chan model.CapacityEvent]struct{})
	}
	f.subs[classID][ch] = struct{}{}
	f.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs[classID], ch)
			if len(f.subs[classID]) == 0 {
				delete(f.subs, classID)
			}
			f.mu.Unlock()
			close(ch)
		})
	}
	stop := context.AfterFunc(ctx, cancel)
	return ch, func() {
		stop()
		cancel()
	}, nil
}
