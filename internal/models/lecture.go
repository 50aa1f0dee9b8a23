package models

import "time"

// Lecture assigns a faculty member to teach a subject to a division at a
// fixed day/time slot.
type Lecture struct {
	ID        string    `db:"id" json:"id"`
	FacultyID string    `db:"faculty_id" json:"faculty_id"`
	SubjectID string    `db:"subject_id" json:"subject_id"`
	Division  string    `db:"division" json:"division"`
	Day       string    `db:"day" json:"day"`
	TimeSlot  string    `db:"time_slot" json:"time_slot"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// LectureDetail is a lecture joined with its faculty and subject names for
// tabular output.
type LectureDetail struct {
	Lecture
	FacultyName string `db:"faculty_name" json:"faculty_name"`
	SubjectName string `db:"subject_name" json:"subject_name"`
}

// LectureFilter describes query params for listing lectures.
type LectureFilter struct {
	FacultyID string
	SubjectID string
	Division  string
	Day       string
	TimeSlot  string
	Page      int
	PageSize  int
}

// LectureClash describes the existing lecture that blocks a candidate write.
type LectureClash struct {
	LectureID string `json:"lecture_id"`
	FacultyID string `json:"faculty_id"`
	SubjectID string `json:"subject_id"`
	Division  string `json:"division"`
	Day       string `json:"day"`
	TimeSlot  string `json:"time_slot"`
}

// LectureClashError is returned when a candidate lecture collides with an
// existing one on (faculty, day, time slot).
type LectureClashError struct {
	Message  string       `json:"message"`
	Existing LectureClash `json:"existing"`
}

// Error implements the error interface for clash errors.
func (e *LectureClashError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}
