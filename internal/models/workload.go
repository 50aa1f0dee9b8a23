package models

// FacultyWorkload is one row of the per-faculty teaching load report.
type FacultyWorkload struct {
	FacultyID    string `db:"faculty_id" json:"faculty_id"`
	FacultyName  string `db:"faculty_name" json:"faculty_name"`
	Department   string `db:"department" json:"department"`
	LectureCount int    `db:"lecture_count" json:"lecture_count"`
	LoadPercent  int    `json:"load_percent"`
	Status       string `json:"status"`
}

// Workload status values.
const (
	WorkloadStatusNormal     = "Normal"
	WorkloadStatusOverloaded = "Overloaded"
)

// WorkloadChart carries parallel arrays for bar-chart rendering.
type WorkloadChart struct {
	FacultyNames  []string `json:"faculty_names"`
	LectureCounts []int    `json:"lecture_counts"`
}

// WorkloadReport bundles the rows and the chart series.
type WorkloadReport struct {
	Rows  []FacultyWorkload `json:"rows"`
	Chart WorkloadChart     `json:"chart"`
}
