package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusops/faculty-workload-api/internal/service"
	"github.com/campusops/faculty-workload-api/pkg/response"
)

// TimetableHandler serves the per-division weekly grid.
type TimetableHandler struct {
	service *service.TimetableService
}

// NewTimetableHandler constructs a timetable handler.
func NewTimetableHandler(svc *service.TimetableService) *TimetableHandler {
	return &TimetableHandler{service: svc}
}

// Get godoc
// @Summary Weekly timetable for a division
// @Description Ordered slot rows with a cell per day, including the short and lunch break rows.
// @Tags Timetable
// @Produce json
// @Param division path string true "Division"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /divisions/{division}/timetable [get]
func (h *TimetableHandler) Get(c *gin.Context) {
	timetable, err := h.service.Project(c.Request.Context(), c.Param("division"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, timetable, nil)
}
