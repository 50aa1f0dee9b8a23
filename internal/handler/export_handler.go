package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusops/faculty-workload-api/internal/service"
	"github.com/campusops/faculty-workload-api/pkg/response"
)

// ExportHandler streams rendered report files.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler constructs an export handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Timetable godoc
// @Summary Export a division's timetable
// @Tags Exports
// @Produce application/pdf
// @Produce text/csv
// @Param division path string true "Division"
// @Param format query string false "pdf or csv" default(pdf)
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /divisions/{division}/timetable/export [get]
func (h *ExportHandler) Timetable(c *gin.Context) {
	format := c.DefaultQuery("format", service.FormatPDF)
	file, err := h.service.Timetable(c.Request.Context(), c.Param("division"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	serveFile(c, file)
}

// Workload godoc
// @Summary Export the faculty workload report
// @Tags Exports
// @Produce application/pdf
// @Produce text/csv
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /workload/export [get]
func (h *ExportHandler) Workload(c *gin.Context) {
	format := c.DefaultQuery("format", service.FormatCSV)
	file, err := h.service.Workload(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	serveFile(c, file)
}

func serveFile(c *gin.Context, file *service.ExportFile) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
	c.Data(http.StatusOK, file.ContentType, file.Content)
}
