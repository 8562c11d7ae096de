package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nurulquran/academy-backend/internal/model"
	"github.com/nurulquran/academy-backend/internal/response"
	"github.com/nurulquran/academy-backend/internal/service"
	"github.com/nurulquran/academy-backend/internal/validator"
)

// ClassHandler handles class seat budgets and waitlists.
type ClassHandler struct {
	enrollmentService *service.EnrollmentService
	log               zerolog.Logger
}

// NewClassHandler creates a new ClassHandler.
func NewClassHandler(enrollmentService *service.EnrollmentService, log zerolog.Logger) *ClassHandler {
	return &ClassHandler{
		enrollmentService: enrollmentService,
		log:               log.With().Str("component", "class_handler").Logger(),
	}
}

// ConfigureCapacity godoc
// PUT /api/v1/classes/:id/capacity
// Creates the class or resizes it. Growing promotes waitlisted students.
func (h *ClassHandler) ConfigureCapacity(c *gin.Context) {
	classID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req model.CapacityRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	view, err := h.enrollmentService.ConfigureClass(c.Request.Context(), classID, *req.Capacity)
	if err != nil {
		failWithDomainError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"capacity": view})
}

// GetCapacity godoc
// GET /api/v1/classes/:id/capacity
// Returns capacity, ACTIVE count and waitlist length.
func (h *ClassHandler) GetCapacity(c *gin.Context) {
	classID, ok := parseID(c, "id")
	if !ok {
		return
	}

	view, err := h.enrollmentService.CapacityOf(c.Request.Context(), classID)
	if err != nil {
		failWithDomainError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"capacity":   view,
		"seats_left": view.SeatsLeft(),
	})
}

// GetWaitlist godoc
// GET /api/v1/classes/:id/waitlist
// Lists waitlisted enrollments ordered by position.
func (h *ClassHandler) GetWaitlist(c *gin.Context) {
	classID, ok := parseID(c, "id")
	if !ok {
		return
	}

	waitlist, err := h.enrollmentService.Waitlist(c.Request.Context(), classID)
	if err != nil {
		failWithDomainError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"waitlist": waitlist})
}
