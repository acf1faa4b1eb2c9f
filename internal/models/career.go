package models

import "time"

// Career represents a job opening listed on the careers page.
type Career struct {
	ID             string    `db:"id" json:"id"`
	Title          string    `db:"title" json:"title"`
	Description    string    `db:"description" json:"description"`
	Qualifications string    `db:"qualifications" json:"qualifications"`
	Open           bool      `db:"open" json:"open"`
	PostedAt       time.Time `db:"posted_at" json:"posted_at"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}
