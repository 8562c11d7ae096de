package websocket

import "github.com/nurulquran/academy-backend/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing     Action = "ping"
	ActionSnapshot Action = "snapshot"
)

// RequestEnvelope is the only client message shape; the feed is read-only.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError    Event = "error"
	EventSnapshot Event = "snapshot"
	EventCapacity Event = "capacity"
	EventPong     Event = "pong"
)

// SnapshotResponse carries the current capacity, sent on connect and on request.
type SnapshotResponse struct {
	Event    Event              `json:"event"`
	Capacity model.CapacityView `json:"capacity"`
}

// CapacityResponse relays one committed roster change.
type CapacityResponse struct {
	Event  Event               `json:"event"`
	Change model.CapacityEvent `json:"change"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
