package models

import "time"

// Faculty represents a faculty member available for lecture assignment.
type Faculty struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Department string    `db:"department" json:"department"`
	// MaxHours is an advisory weekly capacity; it is stored but not enforced
	// by the clash validator.
	MaxHours  int       `db:"max_hours" json:"max_hours"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// FacultyFilter captures filtering options for listing faculties.
type FacultyFilter struct {
	Department string
	Search     string
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
