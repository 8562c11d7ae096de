package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurulquran/academy-backend/internal/model"
	"github.com/nurulquran/academy-backend/internal/response"
	"github.com/nurulquran/academy-backend/internal/service"
	"github.com/nurulquran/academy-backend/internal/validator"
)

// SessionHandler manages the weekly class timetable.
type SessionHandler struct {
	scheduleService *service.ScheduleService
	log             zerolog.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(scheduleService *service.ScheduleService, log zerolog.Logger) *SessionHandler {
	return &SessionHandler{
		scheduleService: scheduleService,
		log:             log.With().Str("component", "session_handler").Logger(),
	}
}

// CreateSession godoc
// POST /api/v1/sessions
// Schedules a session after checking teacher and room availability.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req model.CreateSessionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	session, err := h.scheduleService.Create(c.Request.Context(), req)
	if err != nil {
		failWithDomainError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"session": session})
}

// CreateDraft godoc
// POST /api/v1/sessions/drafts
// Saves a DRAFT session; drafts are not checked for conflicts until published.
func (h *SessionHandler) CreateDraft(c *gin.Context) {
	var req model.CreateSessionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	session, err := h.scheduleService.CreateDraft(c.Request.Context(), req)
	if err != nil {
		failWithDomainError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"session": session})
}

// PublishSession godoc
// POST /api/v1/sessions/:id/publish
// Moves a DRAFT session onto the timetable.
func (h *SessionHandler) PublishSession(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	session, err := h.scheduleService.Publish(c.Request.Context(), id)
	if err != nil {
		failWithDomainError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": session})
}

// GetSession godoc
// GET /api/v1/sessions/:id
// Returns one session.
func (h *SessionHandler) GetSession(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	session, err := h.scheduleService.Get(c.Request.Context(), id)
	if err != nil {
		failWithDomainError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": session})
}

// UpdateSession godoc
// PUT /api/v1/sessions/:id
// Changes teacher, class, slot or delivery; omitted fields are kept.
func (h *SessionHandler) UpdateSession(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateSessionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	session, err := h.scheduleService.Update(c.Request.Context(), id, req)
	if err != nil {
		failWithDomainError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": session})
}

// CancelSession godoc
// POST /api/v1/sessions/:id/cancel
// Cancels a committed session and frees its slot.
func (h *SessionHandler) CancelSession(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	session, err := h.scheduleService.Cancel(c.Request.Context(), id)
	if err != nil {
		failWithDomainError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": session})
}

// DeleteSession godoc
// DELETE /api/v1/sessions/:id
// Removes a session permanently.
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.scheduleService.Delete(c.Request.Context(), id); err != nil {
		failWithDomainError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// ListSessions godoc
// GET /api/v1/sessions?day=1 | ?class_id=...
// Lists sessions for a day of week (0 = Sunday) or a class, ordered by start.
func (h *SessionHandler) ListSessions(c *gin.Context) {
	var (
		sessions []model.Session
		err      error
	)

	switch {
	case c.Query("class_id") != "":
		classID, parseErr := uuid.Parse(c.Query("class_id"))
		if parseErr != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}
		sessions, err = h.scheduleService.ListByClass(c.Request.Context(), classID)
	case c.Query("day") != "":
		day, parseErr := strconv.Atoi(c.Query("day"))
		if parseErr != nil || day < int(time.Sunday) || day > int(time.Saturday) {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{
				"day": "must be a day of week between 0 (Sunday) and 6 (Saturday)",
			})
			return
		}
		sessions, err = h.scheduleService.ListByDay(c.Request.Context(), time.Weekday(day))
	default:
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{
			"day": "day or class_id is required",
		})
		return
	}

	if err != nil {
		failWithDomainError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"sessions": sessions})
}
