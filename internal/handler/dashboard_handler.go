package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nurulquran/academy-backend/internal/response"
	"github.com/nurulquran/academy-backend/internal/service"
)

// DashboardHandler serves the aggregated student and class views.
type DashboardHandler struct {
	dashboardService *service.DashboardService
	log              zerolog.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *service.DashboardService, log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		log:              log.With().Str("component", "dashboard_handler").Logger(),
	}
}

// GetStudentDashboard godoc
// GET /api/v1/students/:id/dashboard
// Returns attendance breakdown, grade summary and enrollments of a student.
func (h *DashboardHandler) GetStudentDashboard(c *gin.Context) {
	studentID, ok := parseID(c, "id")
	if !ok {
		return
	}

	dashboard, err := h.dashboardService.Student(c.Request.Context(), studentID)
	if err != nil {
		failWithDomainError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"dashboard": dashboard})
}

// GetClassDashboard godoc
// GET /api/v1/classes/:id/dashboard
// Returns capacity, sessions and attendance rate of a class.
func (h *DashboardHandler) GetClassDashboard(c *gin.Context) {
	classID, ok := parseID(c, "id")
	if !ok {
		return
	}

	dashboard, err := h.dashboardService.Class(c.Request.Context(), classID)
	if err != nil {
		failWithDomainError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"dashboard": dashboard})
}
