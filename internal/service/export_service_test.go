package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campusops/faculty-workload-api/internal/models"
	appErrors "github.com/campusops/faculty-workload-api/pkg/errors"
)

type stubProjector struct{ timetable *models.Timetable }

func (s *stubProjector) Project(ctx context.Context, division string) (*models.Timetable, error) {
	return s.timetable, nil
}

type stubWorkloads struct{ report *models.WorkloadReport }

func (s *stubWorkloads) ComputeLoads(ctx context.Context) (*models.WorkloadReport, error) {
	return s.report, nil
}

func sampleTimetable() *models.Timetable {
	lecture := &models.LectureDetail{
		Lecture:     models.Lecture{ID: "l1", Day: "Monday", TimeSlot: "9-10"},
		FacultyName: "Dr. Rao",
		SubjectName: "Algorithms",
	}
	return &models.Timetable{
		Division: "A",
		Days:     []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
		Rows: []models.TimetableRow{
			{
				Kind: models.TimetableRowLecture, Label: "9-10", TimeSlot: "9-10",
				Cells: []models.TimetableCell{
					{Day: "Monday", Lecture: lecture},
					{Day: "Tuesday"}, {Day: "Wednesday"}, {Day: "Thursday"}, {Day: "Friday"}, {Day: "Saturday"},
				},
			},
			{Kind: models.TimetableRowBreak, Label: "Short Break"},
		},
	}
}

func TestExportTimetableCSV(t *testing.T) {
	svc := NewExportService(&stubProjector{timetable: sampleTimetable()}, &stubWorkloads{}, zap.NewNop())

	file, err := svc.Timetable(context.Background(), "A", "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.Contains(t, file.FileName, "timetable_A_")

	records, err := csv.NewReader(bytes.NewReader(file.Content)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Time Slot", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}, records[0])
	assert.Equal(t, "9-10", records[1][0])
	assert.Equal(t, "Dr. Rao / Algorithms", records[1][1])
	assert.Equal(t, "", records[1][2])
	assert.Equal(t, "Short Break", records[2][0])
}

func TestExportTimetablePDF(t *testing.T) {
	svc := NewExportService(&stubProjector{timetable: sampleTimetable()}, &stubWorkloads{}, zap.NewNop())

	file, err := svc.Timetable(context.Background(), "A", "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Content, []byte("%PDF")))
}

func TestExportWorkloadCSV(t *testing.T) {
	report := &models.WorkloadReport{Rows: []models.FacultyWorkload{
		{FacultyName: "Dr. Rao", Department: "CS", LectureCount: 15, LoadPercent: 107, Status: models.WorkloadStatusOverloaded},
	}}
	svc := NewExportService(&stubProjector{}, &stubWorkloads{report: report}, zap.NewNop())

	file, err := svc.Workload(context.Background(), "csv")
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(file.Content)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"Faculty", "Department", "Lectures", "Load %", "Status"}, records[0])
	assert.Equal(t, []string{"Dr. Rao", "CS", "15", "107", "Overloaded"}, records[1])
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	svc := NewExportService(&stubProjector{timetable: sampleTimetable()}, &stubWorkloads{report: &models.WorkloadReport{}}, zap.NewNop())

	_, err := svc.Timetable(context.Background(), "A", "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Workload(context.Background(), "docx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
