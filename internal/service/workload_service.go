package service

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/campusops/faculty-workload-api/internal/models"
	appErrors "github.com/campusops/faculty-workload-api/pkg/errors"
)

// NormalWeeklyLectures is the lecture count treated as a 100% teaching load.
const NormalWeeklyLectures = 14

type workloadCounter interface {
	WorkloadCounts(ctx context.Context) ([]models.FacultyWorkload, error)
}

// WorkloadService derives per-faculty teaching load from lecture counts.
// Results are always recomputed from the store; there is no caching layer
// between the report and the lecture table.
type WorkloadService struct {
	repo   workloadCounter
	logger *zap.Logger
}

// NewWorkloadService constructs a WorkloadService.
func NewWorkloadService(repo workloadCounter, logger *zap.Logger) *WorkloadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkloadService{repo: repo, logger: logger}
}

// ComputeLoads returns one row per faculty ordered by name, with the lecture
// count, load percentage and Normal/Overloaded status, plus the parallel
// chart series consumed by graph rendering.
func (s *WorkloadService) ComputeLoads(ctx context.Context) (*models.WorkloadReport, error) {
	rows, err := s.repo.WorkloadCounts(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute workloads")
	}

	report := &models.WorkloadReport{
		Rows: make([]models.FacultyWorkload, 0, len(rows)),
		Chart: models.WorkloadChart{
			FacultyNames:  make([]string, 0, len(rows)),
			LectureCounts: make([]int, 0, len(rows)),
		},
	}

	for _, row := range rows {
		row.LoadPercent = LoadPercent(row.LectureCount)
		if row.LectureCount > NormalWeeklyLectures {
			row.Status = models.WorkloadStatusOverloaded
		} else {
			row.Status = models.WorkloadStatusNormal
		}
		report.Rows = append(report.Rows, row)
		report.Chart.FacultyNames = append(report.Chart.FacultyNames, row.FacultyName)
		report.Chart.LectureCounts = append(report.Chart.LectureCounts, row.LectureCount)
	}

	return report, nil
}

// LoadPercent converts a lecture count to a percentage of the normal weekly
// load. Halves round to the nearest even integer.
func LoadPercent(lectureCount int) int {
	return int(math.RoundToEven(float64(lectureCount) / NormalWeeklyLectures * 100))
}
