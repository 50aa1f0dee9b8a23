package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusops/faculty-workload-api/internal/service"
	"github.com/campusops/faculty-workload-api/pkg/response"
)

// DashboardHandler serves the aggregate dashboard payload.
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler constructs a dashboard handler.
func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// Get godoc
// @Summary Dashboard overview
// @Description Entity counts, the workload report and one division's timetable in a single payload.
// @Tags Dashboard
// @Produce json
// @Param division query string false "Division" default(A)
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Get(c *gin.Context) {
	dashboard, err := h.service.Get(c.Request.Context(), c.Query("division"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dashboard, nil)
}
