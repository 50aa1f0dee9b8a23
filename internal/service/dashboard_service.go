package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/campusops/faculty-workload-api/internal/catalog"
	"github.com/campusops/faculty-workload-api/internal/models"
)

// dashboardCachePrefix namespaces cached dashboard payloads in redis.
// Entity mutations invalidate dashboardCachePrefix+"*".
const dashboardCachePrefix = "dashboard:"

type entityCounter interface {
	CountAll(ctx context.Context) (int, error)
}

// Dashboard is the aggregate landing-page payload: entity counts, the
// per-faculty workload report and the weekly grid for one division.
type Dashboard struct {
	Division     string                 `json:"division"`
	Divisions    []string               `json:"divisions"`
	FacultyCount int                    `json:"faculty_count"`
	SubjectCount int                    `json:"subject_count"`
	LectureCount int                    `json:"lecture_count"`
	Workload     *models.WorkloadReport `json:"workload"`
	Timetable    *models.Timetable      `json:"timetable"`
}

// DashboardService composes the dashboard from the counting repositories,
// the workload aggregator and the timetable projector, with a short-lived
// redis cache per division in front.
type DashboardService struct {
	faculties  entityCounter
	subjects   entityCounter
	lectures   entityCounter
	workloads  workloadComputer
	timetables timetableProjector
	cache      *CacheService
	logger     *zap.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(faculties, subjects, lectures entityCounter, workloads workloadComputer, timetables timetableProjector, cache *CacheService, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		faculties:  faculties,
		subjects:   subjects,
		lectures:   lectures,
		workloads:  workloads,
		timetables: timetables,
		cache:      cache,
		logger:     logger,
	}
}

// Get returns the dashboard for the given division. An empty division falls
// back to the catalog default. Cached copies are served when fresh; cache
// failures degrade to a direct build.
func (s *DashboardService) Get(ctx context.Context, division string) (*Dashboard, error) {
	if division == "" {
		division = catalog.DefaultDivision
	}

	cacheKey := dashboardCachePrefix + division
	if s.cache.Enabled() {
		var cached Dashboard
		hit, err := s.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			s.logger.Warn("dashboard cache read failed", zap.String("division", division), zap.Error(err))
		} else if hit {
			return &cached, nil
		}
	}

	dashboard, err := s.build(ctx, division)
	if err != nil {
		return nil, err
	}

	if s.cache.Enabled() {
		if err := s.cache.Set(ctx, cacheKey, dashboard, 0); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.String("division", division), zap.Error(err))
		}
	}
	return dashboard, nil
}

func (s *DashboardService) build(ctx context.Context, division string) (*Dashboard, error) {
	timetable, err := s.timetables.Project(ctx, division)
	if err != nil {
		return nil, err
	}

	facultyCount, err := s.faculties.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	subjectCount, err := s.subjects.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	lectureCount, err := s.lectures.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	workload, err := s.workloads.ComputeLoads(ctx)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Division:     division,
		Divisions:    catalog.Divisions,
		FacultyCount: facultyCount,
		SubjectCount: subjectCount,
		LectureCount: lectureCount,
		Workload:     workload,
		Timetable:    timetable,
	}, nil
}
