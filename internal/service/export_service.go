package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/campusops/faculty-workload-api/internal/catalog"
	"github.com/campusops/faculty-workload-api/internal/models"
	appErrors "github.com/campusops/faculty-workload-api/pkg/errors"
	"github.com/campusops/faculty-workload-api/pkg/export"
)

// Export formats supported by the report endpoints.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

// ExportFile is a rendered report ready for download.
type ExportFile struct {
	FileName    string
	ContentType string
	Content     []byte
}

type timetableProjector interface {
	Project(ctx context.Context, division string) (*models.Timetable, error)
}

type workloadComputer interface {
	ComputeLoads(ctx context.Context) (*models.WorkloadReport, error)
}

// ExportService renders timetable and workload reports. It consumes the same
// projector and aggregator output as the interactive views; only the
// rendering differs.
type ExportService struct {
	timetables timetableProjector
	workloads  workloadComputer
	csv        *export.CSVExporter
	pdf        *export.PDFExporter
	logger     *zap.Logger
	now        func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(timetables timetableProjector, workloads workloadComputer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		timetables: timetables,
		workloads:  workloads,
		csv:        export.NewCSVExporter(),
		pdf:        export.NewPDFExporter(),
		logger:     logger,
		now:        time.Now,
	}
}

// Timetable renders the division's weekly grid in the requested format.
func (s *ExportService) Timetable(ctx context.Context, division, format string) (*ExportFile, error) {
	timetable, err := s.timetables.Project(ctx, division)
	if err != nil {
		return nil, err
	}

	data := timetableDataset(timetable)
	title := fmt.Sprintf("Weekly Timetable - Division %s", division)
	stamp := s.now().UTC().Format("20060102")

	switch strings.ToLower(format) {
	case FormatCSV:
		content, err := s.csv.Render(data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable csv")
		}
		return &ExportFile{
			FileName:    fmt.Sprintf("timetable_%s_%s.csv", division, stamp),
			ContentType: "text/csv",
			Content:     content,
		}, nil
	case FormatPDF:
		content, err := s.pdf.RenderGrid(data, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable pdf")
		}
		return &ExportFile{
			FileName:    fmt.Sprintf("timetable_%s_%s.pdf", division, stamp),
			ContentType: "application/pdf",
			Content:     content,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

// Workload renders the per-faculty load report in the requested format.
func (s *ExportService) Workload(ctx context.Context, format string) (*ExportFile, error) {
	report, err := s.workloads.ComputeLoads(ctx)
	if err != nil {
		return nil, err
	}

	data := workloadDataset(report)
	stamp := s.now().UTC().Format("20060102")

	switch strings.ToLower(format) {
	case FormatCSV:
		content, err := s.csv.Render(data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render workload csv")
		}
		return &ExportFile{
			FileName:    fmt.Sprintf("workload_%s.csv", stamp),
			ContentType: "text/csv",
			Content:     content,
		}, nil
	case FormatPDF:
		content, err := s.pdf.Render(data, "Faculty Workload Report")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render workload pdf")
		}
		return &ExportFile{
			FileName:    fmt.Sprintf("workload_%s.pdf", stamp),
			ContentType: "application/pdf",
			Content:     content,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

func timetableDataset(timetable *models.Timetable) export.Dataset {
	headers := append([]string{"Time Slot"}, catalog.Days...)
	rows := make([]map[string]string, 0, len(timetable.Rows))

	for _, row := range timetable.Rows {
		if row.Kind == models.TimetableRowBreak {
			rows = append(rows, map[string]string{"Time Slot": row.Label})
			continue
		}
		record := map[string]string{"Time Slot": row.Label}
		for _, cell := range row.Cells {
			if cell.Lecture != nil {
				record[cell.Day] = fmt.Sprintf("%s / %s", cell.Lecture.FacultyName, cell.Lecture.SubjectName)
			} else {
				record[cell.Day] = ""
			}
		}
		rows = append(rows, record)
	}

	return export.Dataset{Headers: headers, Rows: rows}
}

func workloadDataset(report *models.WorkloadReport) export.Dataset {
	headers := []string{"Faculty", "Department", "Lectures", "Load %", "Status"}
	rows := make([]map[string]string, 0, len(report.Rows))
	for _, row := range report.Rows {
		rows = append(rows, map[string]string{
			"Faculty":    row.FacultyName,
			"Department": row.Department,
			"Lectures":   strconv.Itoa(row.LectureCount),
			"Load %":     strconv.Itoa(row.LoadPercent),
			"Status":     row.Status,
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}
