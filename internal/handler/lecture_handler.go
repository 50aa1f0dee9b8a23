package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campusops/faculty-workload-api/internal/models"
	"github.com/campusops/faculty-workload-api/internal/service"
	appErrors "github.com/campusops/faculty-workload-api/pkg/errors"
	"github.com/campusops/faculty-workload-api/pkg/response"
)

// LectureHandler handles lecture endpoints.
type LectureHandler struct {
	service *service.LectureService
}

// NewLectureHandler constructs a lecture handler.
func NewLectureHandler(svc *service.LectureService) *LectureHandler {
	return &LectureHandler{service: svc}
}

// List godoc
// @Summary List lectures
// @Tags Lectures
// @Produce json
// @Param facultyId query string false "Filter by faculty"
// @Param subjectId query string false "Filter by subject"
// @Param division query string false "Filter by division"
// @Param day query string false "Filter by day"
// @Param timeSlot query string false "Filter by time slot"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /lectures [get]
func (h *LectureHandler) List(c *gin.Context) {
	filter := lectureFilterFromQuery(c)
	lectures, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lectures, pagination)
}

// ListByFaculty godoc
// @Summary List lectures assigned to one faculty
// @Tags Lectures
// @Produce json
// @Param id path string true "Faculty ID"
// @Success 200 {object} response.Envelope
// @Router /faculties/{id}/lectures [get]
func (h *LectureHandler) ListByFaculty(c *gin.Context) {
	filter := lectureFilterFromQuery(c)
	filter.FacultyID = c.Param("id")
	lectures, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lectures, pagination)
}

// Get godoc
// @Summary Get lecture by id
// @Tags Lectures
// @Produce json
// @Param id path string true "Lecture ID"
// @Success 200 {object} response.Envelope
// @Router /lectures/{id} [get]
func (h *LectureHandler) Get(c *gin.Context) {
	lecture, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lecture, nil)
}

// Create godoc
// @Summary Create lecture
// @Description Assign a faculty to teach a subject at a fixed day and slot. Rejected with 409 when the faculty is already booked at that time.
// @Tags Lectures
// @Accept json
// @Produce json
// @Param payload body service.CreateLectureRequest true "Lecture payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /lectures [post]
func (h *LectureHandler) Create(c *gin.Context) {
	var req service.CreateLectureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	lecture, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, lecture)
}

// Update godoc
// @Summary Update lecture
// @Description Re-validates the booking, ignoring the lecture's own current slot.
// @Tags Lectures
// @Accept json
// @Produce json
// @Param id path string true "Lecture ID"
// @Param payload body service.UpdateLectureRequest true "Lecture payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /lectures/{id} [put]
func (h *LectureHandler) Update(c *gin.Context) {
	var req service.UpdateLectureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	lecture, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lecture, nil)
}

// Delete godoc
// @Summary Delete lecture
// @Tags Lectures
// @Produce json
// @Param id path string true "Lecture ID"
// @Success 204
// @Router /lectures/{id} [delete]
func (h *LectureHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func lectureFilterFromQuery(c *gin.Context) models.LectureFilter {
	var filter models.LectureFilter
	filter.FacultyID = c.Query("facultyId")
	filter.SubjectID = c.Query("subjectId")
	filter.Division = c.Query("division")
	filter.Day = c.Query("day")
	filter.TimeSlot = c.Query("timeSlot")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		filter.PageSize = limit
	}
	return filter
}
