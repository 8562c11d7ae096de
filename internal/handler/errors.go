package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurulquran/academy-backend/internal/lock"
	"github.com/nurulquran/academy-backend/internal/model"
	"github.com/nurulquran/academy-backend/internal/response"
	"github.com/nurulquran/academy-backend/internal/service"
)

// failWithDomainError maps service errors onto the response envelope.
// Anything unrecognised is logged and reported as INTERNAL_ERROR.
func failWithDomainError(c *gin.Context, log zerolog.Logger, err error) {
	var (
		conflict   *model.ConflictError
		notFound   *model.NotFoundError
		duplicate  *model.DuplicateEnrollmentError
		capacity   *model.InvalidCapacityError
		grade      *model.InvalidGradeDataError
		count      *model.InvalidStudentCountError
		transition *model.InvalidTransitionError
		invalid    *model.ValidationError
	)

	switch {
	case errors.As(err, &conflict):
		response.FailWithDetails(c, http.StatusConflict, response.ErrScheduleConflict, conflict)
	case errors.As(err, &notFound):
		response.FailWithDetails(c, http.StatusNotFound, response.ErrNotFound, notFound)
	case errors.As(err, &duplicate):
		response.FailWithDetails(c, http.StatusConflict, response.ErrDuplicateEnrollment, duplicate)
	case errors.As(err, &capacity):
		response.FailWithDetails(c, http.StatusUnprocessableEntity, response.ErrInvalidCapacity, capacity)
	case errors.As(err, &grade):
		response.FailWithDetails(c, http.StatusUnprocessableEntity, response.ErrInvalidGradeData, grade)
	case errors.As(err, &count):
		response.FailWithDetails(c, http.StatusUnprocessableEntity, response.ErrInvalidStudentCount, count)
	case errors.As(err, &transition):
		response.FailWithDetails(c, http.StatusConflict, response.ErrInvalidTransition, transition)
	case errors.As(err, &invalid):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{
			invalid.Field: invalid.Err.Error(),
		})
	case errors.Is(err, lock.ErrTimeout), errors.Is(err, service.ErrTimetableContention):
		reqLog := response.RequestLogger(c, log)
		reqLog.Warn().Err(err).Str("path", c.FullPath()).Msg("Lock contention")
		c.Header("Retry-After", "1")
		response.Fail(c, http.StatusServiceUnavailable, response.ErrBusy)
	default:
		reqLog := response.RequestLogger(c, log)
		reqLog.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled error")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// parseID reads a UUID path parameter, writing INVALID_ID when malformed.
func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}
