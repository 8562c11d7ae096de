package config

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("STORE_DRIVER", StoreDriverMemory)
	t.Setenv("LOCK_TTL_MS", "750")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("MAX_DB_CONNS", "not-a-number")

	cfg := Load()

	assert.True(t, cfg.UsesMemoryStore())
	assert.Equal(t, 750*time.Millisecond, cfg.LockTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, int32(16), cfg.MaxDBConns)
}

func TestCacheKeys(t *testing.T) {
	id := uuid.MustParse("6f1c1e43-7d0c-4a0e-9d55-3c1b3a4c8f10")
	assert.Equal(t, "lock:teacher:"+id.String(), CacheKey.TeacherLockKey(id))
	assert.Equal(t, "lock:room:"+id.String(), CacheKey.RoomLockKey(id))
	assert.Equal(t, "lock:class:"+id.String(), CacheKey.ClassLockKey(id))
	assert.Equal(t, "class:"+id.String()+":capacity", CacheKey.ClassCapacityChannel(id))
}
