package models

import "time"

// Subject represents an academic subject lectures are taught for.
type Subject struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Semester    int       `db:"semester" json:"semester"`
	CreditHours int       `db:"credit_hours" json:"credit_hours"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// SubjectFilter captures supported filters for listing subjects.
type SubjectFilter struct {
	Semester  *int
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
