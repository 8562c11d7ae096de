package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/nurulquran/academy-backend/internal/middleware"
	"github.com/nurulquran/academy-backend/internal/service"
	ws "github.com/nurulquran/academy-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// FeedHandler streams live class capacity to admin dashboards.
type FeedHandler struct {
	enrollmentService *service.EnrollmentService
	feed              service.CapacityFeed
	log               zerolog.Logger
	upgrader          websocket.Upgrader
}

// NewFeedHandler creates a new FeedHandler.
func NewFeedHandler(
	enrollmentService *service.EnrollmentService,
	feed service.CapacityFeed,
	log zerolog.Logger,
	allowedOrigins []string,
) *FeedHandler {
	return &FeedHandler{
		enrollmentService: enrollmentService,
		feed:              feed,
		log:               log.With().Str("component", "feed_handler").Logger(),
		upgrader:          buildUpgrader(allowedOrigins),
	}
}

// CapacityStream godoc
// WS /ws/v1/classes/:id/capacity?token=...
// Sends a capacity snapshot, then one event per committed roster change.
func (h *FeedHandler) CapacityStream(c *gin.Context) {
	classID, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	view, err := h.enrollmentService.CapacityOf(ctx, classID)
	if err != nil {
		failWithDomainError(c, h.log, err)
		return
	}

	// Subscribe before the snapshot is sent so no change slips between them.
	events, cancel, err := h.feed.Subscribe(ctx, classID)
	if err != nil {
		failWithDomainError(c, h.log, err)
		return
	}
	defer cancel()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Str("class_id", classID.String()).Logger()
	if claims := middleware.GetClaims(c); claims != nil {
		wsLog = wsLog.With().Str("user_id", claims.UserID.String()).Logger()
	}
	wsLog.Info().Msg("Capacity subscriber connected")

	if err := ws.WriteTyped(conn, ws.SnapshotResponse{Event: ws.EventSnapshot, Capacity: *view}); err != nil {
		return
	}

	done := make(chan struct{})
	defer close(done)
	actions := make(chan ws.Action)
	go readActions(conn, wsLog, actions, done)

	// Only this loop writes to conn; gorilla allows a single writer.
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := ws.WriteTyped(conn, ws.CapacityResponse{Event: ws.EventCapacity, Change: event}); err != nil {
				wsLog.Debug().Err(err).Msg("Write failed")
				return
			}
		case action, ok := <-actions:
			if !ok {
				return
			}
			if err := h.handleAction(ctx, conn, action, classID); err != nil {
				wsLog.Debug().Err(err).Msg("Write failed")
				return
			}
		}
	}
}

func (h *FeedHandler) handleAction(ctx context.Context, conn *websocket.Conn, action ws.Action, classID uuid.UUID) error {
	switch action {
	case ws.ActionPing:
		return ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
	case ws.ActionSnapshot:
		view, err := h.enrollmentService.CapacityOf(ctx, classID)
		if err != nil {
			return ws.WriteError(conn, "capacity unavailable")
		}
		return ws.WriteTyped(conn, ws.SnapshotResponse{Event: ws.EventSnapshot, Capacity: *view})
	default:
		return ws.WriteError(conn, "unknown action: "+string(action))
	}
}

// readActions forwards client actions until the connection closes.
func readActions(conn *websocket.Conn, log zerolog.Logger, actions chan<- ws.Action, done <-chan struct{}) {
	defer close(actions)
	for {
		var msg ws.RequestEnvelope
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("Unexpected close")
			} else {
				log.Debug().Msg("Connection closed")
			}
			return
		}
		select {
		case actions <- msg.Action:
		case <-done:
			return
		}
	}
}
