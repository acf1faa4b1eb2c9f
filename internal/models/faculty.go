package models

import "time"

// FacultyMember represents a staff profile shown on the public site.
type FacultyMember struct {
	ID            string    `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Designation   string    `db:"designation" json:"designation"`
	Department    string    `db:"department" json:"department"`
	Qualification string    `db:"qualification" json:"qualification"`
	PhotoURL      *string   `db:"photo_url" json:"photo_url,omitempty"`
	DisplayOrder  int       `db:"display_order" json:"display_order"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
