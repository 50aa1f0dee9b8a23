package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campusops/faculty-workload-api/internal/models"
	appErrors "github.com/campusops/faculty-workload-api/pkg/errors"
)

type facultyRepository interface {
	List(ctx context.Context, filter models.FacultyFilter) ([]models.Faculty, int, error)
	FindByID(ctx context.Context, id string) (*models.Faculty, error)
	Create(ctx context.Context, faculty *models.Faculty) error
	Update(ctx context.Context, faculty *models.Faculty) error
	Delete(ctx context.Context, id string) error
}

// CreateFacultyRequest represents payload for creating faculty members.
type CreateFacultyRequest struct {
	Name       string `json:"name" validate:"required,max=100"`
	Department string `json:"department" validate:"required,max=100"`
	MaxHours   int    `json:"max_hours" validate:"gte=0"`
}

// UpdateFacultyRequest represents payload for updating faculty members.
type UpdateFacultyRequest struct {
	Name       string `json:"name" validate:"required,max=100"`
	Department string `json:"department" validate:"required,max=100"`
	MaxHours   int    `json:"max_hours" validate:"gte=0"`
}

// FacultyService orchestrates faculty operations.
type FacultyService struct {
	repo      facultyRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFacultyService constructs a FacultyService.
func NewFacultyService(repo facultyRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *FacultyService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FacultyService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns faculties plus pagination data.
func (s *FacultyService) List(ctx context.Context, filter models.FacultyFilter) ([]models.Faculty, *models.Pagination, error) {
	faculties, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list faculties")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return faculties, pagination, nil
}

// Get returns a faculty member by id.
func (s *FacultyService) Get(ctx context.Context, id string) (*models.Faculty, error) {
	faculty, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty")
	}
	return faculty, nil
}

// Create registers a new faculty member.
func (s *FacultyService) Create(ctx context.Context, req CreateFacultyRequest) (*models.Faculty, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid faculty payload")
	}

	faculty := &models.Faculty{
		Name:       strings.TrimSpace(req.Name),
		Department: strings.TrimSpace(req.Department),
		MaxHours:   req.MaxHours,
	}
	if faculty.Name == "" || faculty.Department == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "name and department must not be blank")
	}

	if err := s.repo.Create(ctx, faculty); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create faculty")
	}
	s.invalidateDashboards(ctx)
	return faculty, nil
}

// Update modifies an existing faculty member.
func (s *FacultyService) Update(ctx context.Context, id string, req UpdateFacultyRequest) (*models.Faculty, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid faculty payload")
	}

	faculty, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty")
	}

	faculty.Name = strings.TrimSpace(req.Name)
	faculty.Department = strings.TrimSpace(req.Department)
	faculty.MaxHours = req.MaxHours

	if err := s.repo.Update(ctx, faculty); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update faculty")
	}
	s.invalidateDashboards(ctx)
	return faculty, nil
}

// Delete removes a faculty member; all their lectures are removed with them
// in the same transaction.
func (s *FacultyService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "faculty not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete faculty")
	}
	s.invalidateDashboards(ctx)
	return nil
}

func (s *FacultyService) invalidateDashboards(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, dashboardCachePrefix+"*"); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}
