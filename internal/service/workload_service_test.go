package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campusops/faculty-workload-api/internal/models"
)

type mockWorkloadCounter struct {
	rows []models.FacultyWorkload
	err  error
}

func (m *mockWorkloadCounter) WorkloadCounts(ctx context.Context) ([]models.FacultyWorkload, error) {
	return m.rows, m.err
}

func TestLoadPercent(t *testing.T) {
	cases := []struct {
		count int
		want  int
	}{
		{0, 0},
		{1, 7},
		{7, 50},
		{14, 100},
		{15, 107},
		{21, 150},
		{28, 200},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, LoadPercent(tc.count), "count=%d", tc.count)
	}
}

func TestComputeLoadsStatus(t *testing.T) {
	counter := &mockWorkloadCounter{rows: []models.FacultyWorkload{
		{FacultyID: "f1", FacultyName: "Dr. Ahuja", LectureCount: 14},
		{FacultyID: "f2", FacultyName: "Dr. Rao", LectureCount: 15},
		{FacultyID: "f3", FacultyName: "Dr. Sen", LectureCount: 0},
	}}
	svc := NewWorkloadService(counter, zap.NewNop())

	report, err := svc.ComputeLoads(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Rows, 3)

	// Exactly the normal count stays Normal; strictly above is Overloaded.
	assert.Equal(t, models.WorkloadStatusNormal, report.Rows[0].Status)
	assert.Equal(t, 100, report.Rows[0].LoadPercent)
	assert.Equal(t, models.WorkloadStatusOverloaded, report.Rows[1].Status)
	assert.Equal(t, 107, report.Rows[1].LoadPercent)
	assert.Equal(t, models.WorkloadStatusNormal, report.Rows[2].Status)
	assert.Equal(t, 0, report.Rows[2].LoadPercent)
}

func TestComputeLoadsChartParallelsRows(t *testing.T) {
	counter := &mockWorkloadCounter{rows: []models.FacultyWorkload{
		{FacultyID: "f1", FacultyName: "Dr. Ahuja", LectureCount: 3},
		{FacultyID: "f2", FacultyName: "Dr. Rao", LectureCount: 16},
	}}
	svc := NewWorkloadService(counter, zap.NewNop())

	report, err := svc.ComputeLoads(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Dr. Ahuja", "Dr. Rao"}, report.Chart.FacultyNames)
	assert.Equal(t, []int{3, 16}, report.Chart.LectureCounts)
}

func TestComputeLoadsEmpty(t *testing.T) {
	svc := NewWorkloadService(&mockWorkloadCounter{}, zap.NewNop())

	report, err := svc.ComputeLoads(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Rows)
	assert.Empty(t, report.Chart.FacultyNames)
}
