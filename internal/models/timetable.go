package models

import "time"

// TimetableEntry links a class to its published timetable document.
type TimetableEntry struct {
	ID           string    `db:"id" json:"id"`
	ClassName    string    `db:"class_name" json:"class_name"`
	Title        string    `db:"title" json:"title"`
	FileURL      string    `db:"file_url" json:"file_url"`
	AcademicYear string    `db:"academic_year" json:"academic_year"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
