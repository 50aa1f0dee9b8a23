package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campusops/faculty-workload-api/internal/catalog"
	"github.com/campusops/faculty-workload-api/internal/models"
	appErrors "github.com/campusops/faculty-workload-api/pkg/errors"
)

type mockDivisionLister struct {
	lectures []models.LectureDetail
	err      error
}

func (m *mockDivisionLister) ListByDivision(ctx context.Context, division string) ([]models.LectureDetail, error) {
	return m.lectures, m.err
}

func detail(id, day, slot, facultyName, subjectName string) models.LectureDetail {
	return models.LectureDetail{
		Lecture:     models.Lecture{ID: id, FacultyID: "f-" + id, SubjectID: "s-" + id, Division: "A", Day: day, TimeSlot: slot},
		FacultyName: facultyName,
		SubjectName: subjectName,
	}
}

func TestProjectEmptyDivision(t *testing.T) {
	svc := NewTimetableService(&mockDivisionLister{}, zap.NewNop())

	timetable, err := svc.Project(context.Background(), "A")
	require.NoError(t, err)

	// Five slot rows plus the short and lunch break rows.
	require.Len(t, timetable.Rows, 7)
	assert.Equal(t, catalog.Days, timetable.Days)

	labels := make([]string, 0, len(timetable.Rows))
	for _, row := range timetable.Rows {
		labels = append(labels, row.Label)
	}
	assert.Equal(t, []string{"9-10", "10-11", "Short Break", "11:15-12:15", "12:15-1:15", "Lunch Break", "3-4"}, labels)

	for _, row := range timetable.Rows {
		if row.Kind == models.TimetableRowBreak {
			assert.Empty(t, row.Cells)
			continue
		}
		require.Len(t, row.Cells, len(catalog.Days))
		for _, cell := range row.Cells {
			assert.Nil(t, cell.Lecture)
		}
	}
}

func TestProjectPlacesLectureInCell(t *testing.T) {
	lister := &mockDivisionLister{lectures: []models.LectureDetail{
		detail("l1", "Wednesday", "11:15-12:15", "Dr. Rao", "Algorithms"),
	}}
	svc := NewTimetableService(lister, zap.NewNop())

	timetable, err := svc.Project(context.Background(), "A")
	require.NoError(t, err)

	// Row index 3: 9-10, 10-11, Short Break, 11:15-12:15.
	row := timetable.Rows[3]
	assert.Equal(t, "11:15-12:15", row.TimeSlot)

	// Wednesday is the third day cell.
	cell := row.Cells[2]
	assert.Equal(t, "Wednesday", cell.Day)
	require.NotNil(t, cell.Lecture)
	assert.Equal(t, "Dr. Rao", cell.Lecture.FacultyName)
	assert.Equal(t, "Algorithms", cell.Lecture.SubjectName)

	for i, other := range row.Cells {
		if i != 2 {
			assert.Nil(t, other.Lecture)
		}
	}
}

func TestProjectFirstRecordWinsDoubleBookedCell(t *testing.T) {
	// The repository orders by id; the projector must keep the first one.
	lister := &mockDivisionLister{lectures: []models.LectureDetail{
		detail("l1", "Monday", "9-10", "Dr. Ahuja", "Calculus"),
		detail("l2", "Monday", "9-10", "Dr. Rao", "Physics"),
	}}
	svc := NewTimetableService(lister, zap.NewNop())

	timetable, err := svc.Project(context.Background(), "A")
	require.NoError(t, err)

	cell := timetable.Rows[0].Cells[0]
	require.NotNil(t, cell.Lecture)
	assert.Equal(t, "l1", cell.Lecture.ID)
}

func TestProjectUnknownDivision(t *testing.T) {
	svc := NewTimetableService(&mockDivisionLister{}, zap.NewNop())

	_, err := svc.Project(context.Background(), "Z")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
