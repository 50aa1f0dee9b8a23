package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campusops/faculty-workload-api/internal/catalog"
	"github.com/campusops/faculty-workload-api/internal/models"
	appErrors "github.com/campusops/faculty-workload-api/pkg/errors"
)

type lectureRepository interface {
	List(ctx context.Context, filter models.LectureFilter) ([]models.LectureDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.Lecture, error)
	FindClash(ctx context.Context, facultyID, day, timeSlot, excludeID string) (*models.Lecture, error)
	Create(ctx context.Context, lecture *models.Lecture) error
	Update(ctx context.Context, lecture *models.Lecture) error
	Delete(ctx context.Context, id string) error
}

type facultyFinder interface {
	FindByID(ctx context.Context, id string) (*models.Faculty, error)
}

type subjectFinder interface {
	FindByID(ctx context.Context, id string) (*models.Subject, error)
}

// CreateLectureRequest describes payload for creating a lecture assignment.
type CreateLectureRequest struct {
	FacultyID string `json:"faculty_id" validate:"required"`
	SubjectID string `json:"subject_id" validate:"required"`
	Division  string `json:"division" validate:"required"`
	Day       string `json:"day" validate:"required"`
	TimeSlot  string `json:"time_slot" validate:"required"`
}

// UpdateLectureRequest updates an existing lecture assignment.
type UpdateLectureRequest struct {
	FacultyID string `json:"faculty_id" validate:"required"`
	SubjectID string `json:"subject_id" validate:"required"`
	Division  string `json:"division" validate:"required"`
	Day       string `json:"day" validate:"required"`
	TimeSlot  string `json:"time_slot" validate:"required"`
}

// LectureService coordinates lecture writes through the clash validator and
// serves ordered lecture listings.
type LectureService struct {
	repo      lectureRepository
	faculties facultyFinder
	subjects  subjectFinder
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLectureService instantiates LectureService.
func NewLectureService(repo lectureRepository, faculties facultyFinder, subjects subjectFinder, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *LectureService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LectureService{
		repo:      repo,
		faculties: faculties,
		subjects:  subjects,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
	}
}

// List returns lectures with pagination metadata, ordered by day, time slot
// and division in catalog order.
func (s *LectureService) List(ctx context.Context, filter models.LectureFilter) ([]models.LectureDetail, *models.Pagination, error) {
	if filter.Division != "" && !catalog.ValidDivision(filter.Division) {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown division %q", filter.Division))
	}
	if filter.Day != "" && !catalog.ValidDay(filter.Day) {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown day %q", filter.Day))
	}
	if filter.TimeSlot != "" && !catalog.ValidTimeSlot(filter.TimeSlot) {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown time slot %q", filter.TimeSlot))
	}

	lectures, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lectures")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 50
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return lectures, pagination, nil
}

// Get returns a lecture by id.
func (s *LectureService) Get(ctx context.Context, id string) (*models.Lecture, error) {
	lecture, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lecture not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lecture")
	}
	return lecture, nil
}

// Validate checks a candidate assignment against existing lectures without
// writing anything. Incomplete drafts (missing faculty, day or slot) are not
// validated; only fully specified candidates about to be committed are.
func (s *LectureService) Validate(ctx context.Context, candidate models.Lecture, excludeID string) error {
	if candidate.FacultyID == "" || candidate.Day == "" || candidate.TimeSlot == "" {
		return nil
	}
	existing, err := s.repo.FindClash(ctx, candidate.FacultyID, candidate.Day, candidate.TimeSlot, excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check lecture clash")
	}
	if existing != nil {
		return s.clashRejected(&models.LectureClashError{
			Message: "faculty already has a lecture at this day and time slot",
			Existing: models.LectureClash{
				LectureID: existing.ID,
				FacultyID: existing.FacultyID,
				SubjectID: existing.SubjectID,
				Division:  existing.Division,
				Day:       existing.Day,
				TimeSlot:  existing.TimeSlot,
			},
		})
	}
	return nil
}

// Create validates and inserts a new lecture. Validation and insert commit
// atomically; a clash leaves the store unchanged.
func (s *LectureService) Create(ctx context.Context, req CreateLectureRequest) (*models.Lecture, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lecture payload")
	}
	if err := s.checkCatalog(req.Division, req.Day, req.TimeSlot); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, req.FacultyID, req.SubjectID); err != nil {
		return nil, err
	}

	lecture := models.Lecture{
		FacultyID: req.FacultyID,
		SubjectID: req.SubjectID,
		Division:  req.Division,
		Day:       req.Day,
		TimeSlot:  req.TimeSlot,
	}

	if err := s.repo.Create(ctx, &lecture); err != nil {
		return nil, s.mapWriteError(err, "failed to create lecture")
	}
	s.invalidateDashboards(ctx)
	return &lecture, nil
}

// Update validates and modifies an existing lecture. The record's own prior
// state is excluded from the clash check, so editing only the division of a
// lecture never trips a false clash.
func (s *LectureService) Update(ctx context.Context, id string, req UpdateLectureRequest) (*models.Lecture, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lecture payload")
	}
	if err := s.checkCatalog(req.Division, req.Day, req.TimeSlot); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lecture not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lecture")
	}

	if err := s.checkReferences(ctx, req.FacultyID, req.SubjectID); err != nil {
		return nil, err
	}

	updated := models.Lecture{
		ID:        existing.ID,
		FacultyID: req.FacultyID,
		SubjectID: req.SubjectID,
		Division:  req.Division,
		Day:       req.Day,
		TimeSlot:  req.TimeSlot,
		CreatedAt: existing.CreatedAt,
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, s.mapWriteError(err, "failed to update lecture")
	}
	s.invalidateDashboards(ctx)
	return &updated, nil
}

// Delete removes a lecture unconditionally.
func (s *LectureService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "lecture not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lecture")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete lecture")
	}
	s.invalidateDashboards(ctx)
	return nil
}

func (s *LectureService) checkCatalog(division, day, timeSlot string) error {
	if !catalog.ValidDivision(division) {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown division %q", division))
	}
	if !catalog.ValidDay(day) {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown day %q", day))
	}
	if !catalog.ValidTimeSlot(timeSlot) {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown time slot %q", timeSlot))
	}
	return nil
}

func (s *LectureService) checkReferences(ctx context.Context, facultyID, subjectID string) error {
	if _, err := s.faculties.FindByID(ctx, facultyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "faculty not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty")
	}
	if _, err := s.subjects.FindByID(ctx, subjectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	return nil
}

func (s *LectureService) mapWriteError(err error, message string) error {
	var clash *models.LectureClashError
	if errors.As(err, &clash) {
		return s.clashRejected(clash)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

func (s *LectureService) clashRejected(clash *models.LectureClashError) error {
	s.metrics.RecordClashRejection()
	s.logger.Info("lecture clash rejected",
		zap.String("faculty_id", clash.Existing.FacultyID),
		zap.String("day", clash.Existing.Day),
		zap.String("time_slot", clash.Existing.TimeSlot),
	)
	return appErrors.Wrap(clash, appErrors.ErrClash.Code, appErrors.ErrClash.Status, clash.Message)
}

func (s *LectureService) invalidateDashboards(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, dashboardCachePrefix+"*"); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}
