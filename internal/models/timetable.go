package models

// TimetableRowKind discriminates lecture rows from break rows.
type TimetableRowKind string

const (
	TimetableRowLecture TimetableRowKind = "lecture"
	TimetableRowBreak   TimetableRowKind = "break"
)

// TimetableCell is one day column of a lecture row. Empty cells keep
// Lecture nil.
type TimetableCell struct {
	Day     string         `json:"day"`
	Lecture *LectureDetail `json:"lecture,omitempty"`
}

// TimetableRow is either a lecture row (time label plus one cell per day in
// catalog order) or a break row (label spanning all day columns).
type TimetableRow struct {
	Kind     TimetableRowKind `json:"kind"`
	Label    string           `json:"label"`
	TimeSlot string           `json:"time_slot,omitempty"`
	Cells    []TimetableCell  `json:"cells,omitempty"`
}

// Timetable is the projected day×slot grid for one division.
type Timetable struct {
	Division string         `json:"division"`
	Days     []string       `json:"days"`
	Rows     []TimetableRow `json:"rows"`
}
