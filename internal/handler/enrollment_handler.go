package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nurulquran/academy-backend/internal/middleware"
	"github.com/nurulquran/academy-backend/internal/model"
	"github.com/nurulquran/academy-backend/internal/response"
	"github.com/nurulquran/academy-backend/internal/service"
	"github.com/nurulquran/academy-backend/internal/validator"
)

// EnrollmentHandler handles seat requests and releases.
type EnrollmentHandler struct {
	enrollmentService *service.EnrollmentService
	log               zerolog.Logger
}

// NewEnrollmentHandler creates a new EnrollmentHandler.
func NewEnrollmentHandler(enrollmentService *service.EnrollmentService, log zerolog.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		enrollmentService: enrollmentService,
		log:               log.With().Str("component", "enrollment_handler").Logger(),
	}
}

// RequestEnrollment godoc
// POST /api/v1/enrollments
// Admits the student when a seat is free, otherwise waitlists them.
// Students may only enroll themselves.
func (h *EnrollmentHandler) RequestEnrollment(c *gin.Context) {
	var req model.EnrollmentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	claims := middleware.GetClaims(c)
	if claims != nil && claims.Role == model.RoleStudent && claims.UserID != req.StudentID {
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		return
	}

	result, err := h.enrollmentService.RequestEnrollment(c.Request.Context(), req.StudentID, req.ClassID)
	if err != nil {
		failWithDomainError(c, h.log, err)
		return
	}

	status := http.StatusCreated
	if result.Admission == model.AdmissionWaitlisted {
		status = http.StatusAccepted
	}
	response.Success(c, status, result)
}

// WithdrawEnrollment godoc
// POST /api/v1/enrollments/:id/withdraw
// Drops an ACTIVE or WAITLISTED enrollment. Students may only withdraw their own.
func (h *EnrollmentHandler) WithdrawEnrollment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if claims := middleware.GetClaims(c); claims != nil && claims.Role == model.RoleStudent {
		current, err := h.enrollmentService.Get(c.Request.Context(), id)
		if err != nil {
			failWithDomainError(c, h.log, err)
			return
		}
		if current.StudentID != claims.UserID {
			response.Fail(c, http.StatusForbidden, response.ErrForbidden)
			return
		}
	}

	enrollment, err := h.enrollmentService.Withdraw(c.Request.Context(), id)
	if err != nil {
		failWithDomainError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"enrollment": enrollment})
}

// CompleteEnrollment godoc
// POST /api/v1/enrollments/:id/complete
// Marks an ACTIVE enrollment COMPLETED.
func (h *EnrollmentHandler) CompleteEnrollment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	enrollment, err := h.enrollmentService.Complete(c.Request.Context(), id)
	if err != nil {
		failWithDomainError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"enrollment": enrollment})
}

// ListStudentEnrollments godoc
// GET /api/v1/students/:id/enrollments
// Lists every enrollment of a student, oldest first.
func (h *EnrollmentHandler) ListStudentEnrollments(c *gin.Context) {
	studentID, ok := parseID(c, "id")
	if !ok {
		return
	}

	enrollments, err := h.enrollmentService.ListByStudent(c.Request.Context(), studentID)
	if err != nil {
		failWithDomainError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"enrollments": enrollments})
}
