package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/campusops/faculty-workload-api/internal/catalog"
	"github.com/campusops/faculty-workload-api/internal/models"
	appErrors "github.com/campusops/faculty-workload-api/pkg/errors"
)

type divisionLectureLister interface {
	ListByDivision(ctx context.Context, division string) ([]models.LectureDetail, error)
}

// TimetableService projects the day×slot grid for a division. The dashboard
// view and the export path both consume this projection, so they always
// render the same rows in the same order.
type TimetableService struct {
	repo   divisionLectureLister
	logger *zap.Logger
}

// NewTimetableService constructs a TimetableService.
func NewTimetableService(repo divisionLectureLister, logger *zap.Logger) *TimetableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{repo: repo, logger: logger}
}

// Project builds the ordered row sequence for a division: one lecture row
// per time slot with a cell per day, and the fixed break rows interposed
// after their catalog slots.
func (s *TimetableService) Project(ctx context.Context, division string) (*models.Timetable, error) {
	if !catalog.ValidDivision(division) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown division %q", division))
	}

	lectures, err := s.repo.ListByDivision(ctx, division)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load division lectures")
	}

	// First lecture per (day, slot) wins. The repository orders by id, so a
	// double-booked division cell resolves to the lowest id deterministically.
	type cellKey struct{ day, slot string }
	grid := make(map[cellKey]*models.LectureDetail, len(lectures))
	for i := range lectures {
		key := cellKey{day: lectures[i].Day, slot: lectures[i].TimeSlot}
		if _, taken := grid[key]; !taken {
			grid[key] = &lectures[i]
		}
	}

	timetable := &models.Timetable{
		Division: division,
		Days:     catalog.Days,
		Rows:     make([]models.TimetableRow, 0, len(catalog.TimeSlots)+len(catalog.Breaks)),
	}

	for _, slot := range catalog.TimeSlots {
		row := models.TimetableRow{
			Kind:     models.TimetableRowLecture,
			Label:    slot,
			TimeSlot: slot,
			Cells:    make([]models.TimetableCell, 0, len(catalog.Days)),
		}
		for _, day := range catalog.Days {
			row.Cells = append(row.Cells, models.TimetableCell{
				Day:     day,
				Lecture: grid[cellKey{day: day, slot: slot}],
			})
		}
		timetable.Rows = append(timetable.Rows, row)

		if br, ok := catalog.BreakAfter(slot); ok {
			timetable.Rows = append(timetable.Rows, models.TimetableRow{
				Kind:  models.TimetableRowBreak,
				Label: br.Label,
			})
		}
	}

	return timetable, nil
}
