package model

import (
	"bytes"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
)

// SessionStatus tracks the lifecycle of a class session.
type SessionStatus string

const (
	SessionStatusDraft     SessionStatus = "DRAFT"
	SessionStatusScheduled SessionStatus = "SCHEDULED"
	SessionStatusEdited    SessionStatus = "EDITED"
	SessionStatusCancelled SessionStatus = "CANCELLED"
)

// Committed reports whether sessions in this status occupy their slot.
func (s SessionStatus) Committed() bool {
	return s == SessionStatusScheduled || s == SessionStatusEdited
}

// DeliveryMode says where a session takes place.
type DeliveryMode string

const (
	DeliveryOnline   DeliveryMode = "ONLINE"
	DeliveryInPerson DeliveryMode = "IN_PERSON"
)

// Delivery is a tagged variant: ONLINE carries opaque meeting info,
// IN_PERSON carries the room the session occupies.
type Delivery struct {
	Mode        DeliveryMode `json:"mode" binding:"required,oneof=ONLINE IN_PERSON"`
	MeetingInfo string       `json:"meeting_info,omitempty" binding:"max=2048"`
	RoomID      *uuid.UUID   `json:"room_id,omitempty"`
}

// Online builds an ONLINE delivery.
func Online(meetingInfo string) Delivery {
	return Delivery{Mode: DeliveryOnline, MeetingInfo: meetingInfo}
}

// InPerson builds an IN_PERSON delivery in the given room.
func InPerson(roomID uuid.UUID) Delivery {
	return Delivery{Mode: DeliveryInPerson, RoomID: &roomID}
}

// Validate enforces that exactly the payload matching Mode is present.
func (d Delivery) Validate() error {
	switch d.Mode {
	case DeliveryOnline:
		if d.MeetingInfo == "" {
			return errors.New("online delivery requires meeting_info")
		}
		if d.RoomID != nil {
			return errors.New("online delivery must not carry a room_id")
		}
	case DeliveryInPerson:
		if d.RoomID == nil || *d.RoomID == uuid.Nil {
			return errors.New("in-person delivery requires room_id")
		}
		if d.MeetingInfo != "" {
			return errors.New("in-person delivery must not carry meeting_info")
		}
	default:
		return errors.New("delivery mode must be ONLINE or IN_PERSON")
	}
	return nil
}

// Room returns the room for IN_PERSON sessions.
func (d Delivery) Room() (uuid.UUID, bool) {
	if d.Mode != DeliveryInPerson || d.RoomID == nil {
		return uuid.Nil, false
	}
	return *d.RoomID, true
}

// Session is one weekly occurrence of a class at a fixed slot.
type Session struct {
	ID          uuid.UUID     `json:"id"`
	ClassID     uuid.UUID     `json:"class_id"`
	TeacherID   uuid.UUID     `json:"teacher_id"`
	Slot        TimeSlot      `json:"time_slot"`
	Delivery    Delivery      `json:"delivery"`
	IsRecurring bool          `json:"is_recurring"`
	Status      SessionStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// IsLive reports whether the session is held online.
func (s *Session) IsLive() bool {
	return s.Delivery.Mode == DeliveryOnline
}

// SortSessionsByStart orders sessions by normalized start, then by ID so the
// order is total.
func SortSessionsByStart(sessions []Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		ki, kj := sessions[i].Slot.SortKey(), sessions[j].Slot.SortKey()
		if ki != kj {
			return ki < kj
		}
		return bytes.Compare(sessions[i].ID[:], sessions[j].ID[:]) < 0
	})
}

// CreateSessionRequest is the payload for scheduling a session or saving a draft.
type CreateSessionRequest struct {
	ClassID     uuid.UUID `json:"class_id" binding:"required"`
	TeacherID   uuid.UUID `json:"teacher_id" binding:"required"`
	Slot        TimeSlot  `json:"time_slot"`
	Delivery    Delivery  `json:"delivery"`
	IsRecurring *bool     `json:"is_recurring"`
}

// UpdateSessionRequest carries the fields to change; nil fields are kept.
type UpdateSessionRequest struct {
	ClassID     *uuid.UUID `json:"class_id"`
	TeacherID   *uuid.UUID `json:"teacher_id"`
	Slot        *TimeSlot  `json:"time_slot"`
	Delivery    *Delivery  `json:"delivery"`
	IsRecurring *bool      `json:"is_recurring"`
}
