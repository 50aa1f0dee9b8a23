package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campusops/faculty-workload-api/internal/catalog"
	"github.com/campusops/faculty-workload-api/internal/models"
)

type stubCounter struct {
	count int
	calls int
}

func (s *stubCounter) CountAll(ctx context.Context) (int, error) {
	s.calls++
	return s.count, nil
}

func newDashboardService(faculties, subjects, lectures *stubCounter) *DashboardService {
	projector := &stubProjector{timetable: sampleTimetable()}
	workloads := &stubWorkloads{report: &models.WorkloadReport{
		Rows: []models.FacultyWorkload{{FacultyName: "Dr. Rao", LectureCount: 3, LoadPercent: 21, Status: models.WorkloadStatusNormal}},
	}}
	return NewDashboardService(faculties, subjects, lectures, workloads, projector, nil, zap.NewNop())
}

func TestDashboardGet(t *testing.T) {
	faculties := &stubCounter{count: 4}
	subjects := &stubCounter{count: 9}
	lectures := &stubCounter{count: 31}
	svc := newDashboardService(faculties, subjects, lectures)

	dashboard, err := svc.Get(context.Background(), "B")
	require.NoError(t, err)

	assert.Equal(t, "B", dashboard.Division)
	assert.Equal(t, catalog.Divisions, dashboard.Divisions)
	assert.Equal(t, 4, dashboard.FacultyCount)
	assert.Equal(t, 9, dashboard.SubjectCount)
	assert.Equal(t, 31, dashboard.LectureCount)
	require.NotNil(t, dashboard.Workload)
	assert.Len(t, dashboard.Workload.Rows, 1)
	require.NotNil(t, dashboard.Timetable)
	assert.Equal(t, 1, faculties.calls)
	assert.Equal(t, 1, subjects.calls)
	assert.Equal(t, 1, lectures.calls)
}

func TestDashboardDefaultsDivision(t *testing.T) {
	svc := newDashboardService(&stubCounter{}, &stubCounter{}, &stubCounter{})

	dashboard, err := svc.Get(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, catalog.DefaultDivision, dashboard.Division)
}
