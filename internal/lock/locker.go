// Package lock provides per-key mutual exclusion for read-decide-write
// sequences on a shared aggregate (a teacher's timetable, a class roster).
package lock

import (
	"context"
	"errors"
	"sort"
)

// ErrTimeout is returned when a lock could not be acquired in time.
var ErrTimeout = errors.New("lock: timed out waiting for key")

// Unlock releases a held lock. Calling it more than once is a no-op.
type Unlock func()

// Locker grants exclusive ownership of a key.
type Locker interface {
	Lock(ctx context.Context, key string) (Unlock, error)
}

// Acquire locks every key in sorted order so that two callers asking for
// overlapping key sets cannot deadlock. Duplicate and empty keys are ignored.
// On failure, keys already held are released.
func Acquire(ctx context.Context, l Locker, keys ...string) (Unlock, error) {
	uniq := make(map[string]struct{}, len(keys))
	ordered := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == "" {
			continue
		}
		if _, seen := uniq[k]; seen {
			continue
		}
		uniq[k] = struct{}{}
		ordered = append(ordered, k)
	}
	sort.Strings(ordered)

	held := make([]Unlock, 0, len(ordered))
	releaseAll := func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i]()
		}
	}

	for _, k := range ordered {
		unlock, err := l.Lock(ctx, k)
		if err != nil {
			releaseAll()
			return nil, err
		}
		held = append(held, unlock)
	}
	return releaseAll, nil
}
