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

// RecordHandler accepts attendance marks and grades from teachers.
type RecordHandler struct {
	recordService *service.RecordService
	log           zerolog.Logger
}

// NewRecordHandler creates a new RecordHandler.
func NewRecordHandler(recordService *service.RecordService, log zerolog.Logger) *RecordHandler {
	return &RecordHandler{
		recordService: recordService,
		log:           log.With().Str("component", "record_handler").Logger(),
	}
}

// RecordAttendance godoc
// POST /api/v1/attendance
// Accepts a roster of attendance marks for one class and date. Marks are
// persisted asynchronously when the Redis queue is enabled.
func (h *RecordHandler) RecordAttendance(c *gin.Context) {
	var req model.AttendanceRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	records, err := h.recordService.RecordAttendance(c.Request.Context(), req)
	if err != nil {
		failWithDomainError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusAccepted, gin.H{
		"accepted": len(records),
		"records":  records,
	})
}

// RecordGrade godoc
// POST /api/v1/grades
// Stores a grade and returns its percentage and letter.
func (h *RecordHandler) RecordGrade(c *gin.Context) {
	var req model.GradeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.recordService.RecordGrade(c.Request.Context(), req)
	if err != nil {
		failWithDomainError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"grade": result})
}
