package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wealthtracker/internal/services"
)

// DashboardHandler handles the financial overview requests.
type DashboardHandler struct {
	dashboardService services.DashboardServicer
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService services.DashboardServicer) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetDashboard handles the combined financial overview.
// @Summary     Dashboard
// @Description Net worth, this month's spending, portfolio and month progress in one response
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} analytics.Dashboard "Dashboard"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	dashboard, err := h.dashboardService.GetDashboard(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

// GetHealthScore handles the financial health score.
// @Summary     Financial health score
// @Description Heuristic 0-100 score with the issues found and what to do about them
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} analytics.HealthScore "Health score"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /dashboard/health-score [get]
func (h *DashboardHandler) GetHealthScore(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	score, err := h.dashboardService.GetHealthScore(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, score)
}
