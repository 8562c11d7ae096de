package config

import (
	"fmt"

	"github.com/google/uuid"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// TeacherLockKey guards the read-check-write of a teacher's timetable.
func (r *CacheKeyStruct) TeacherLockKey(teacherID uuid.UUID) string {
	return fmt.Sprintf("lock:teacher:%s", teacherID)
}

// RoomLockKey guards the read-check-write of a physical room's timetable.
func (r *CacheKeyStruct) RoomLockKey(roomID uuid.UUID) string {
	return fmt.Sprintf("lock:room:%s", roomID)
}

// ClassLockKey guards a class roster and its enrollment count.
func (r *CacheKeyStruct) ClassLockKey(classID uuid.UUID) string {
	return fmt.Sprintf("lock:class:%s", classID)
}

// ClassCapacityChannel is the Redis PubSub channel carrying capacity events for a class.
func (r *CacheKeyStruct) ClassCapacityChannel(classID uuid.UUID) string {
	return fmt.Sprintf("class:%s:capacity", classID)
}

var CacheKey = NewCacheKeyStruct()
