package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusops/faculty-workload-api/internal/service"
	"github.com/campusops/faculty-workload-api/pkg/response"
)

// WorkloadHandler serves the per-faculty load report.
type WorkloadHandler struct {
	service *service.WorkloadService
}

// NewWorkloadHandler constructs a workload handler.
func NewWorkloadHandler(svc *service.WorkloadService) *WorkloadHandler {
	return &WorkloadHandler{service: svc}
}

// Report godoc
// @Summary Faculty workload report
// @Description Per-faculty lecture counts with load percentage and status, plus chart arrays.
// @Tags Workload
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /workload [get]
func (h *WorkloadHandler) Report(c *gin.Context) {
	report, err := h.service.ComputeLoads(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}
