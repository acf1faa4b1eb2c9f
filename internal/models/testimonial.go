package models

import "time"

// Testimonial is a quote from a parent, alumnus or student. Only approved
// testimonials are served on the public endpoint.
type Testimonial struct {
	ID        string    `db:"id" json:"id"`
	Author    string    `db:"author" json:"author"`
	Relation  string    `db:"relation" json:"relation"`
	Quote     string    `db:"quote" json:"quote"`
	Approved  bool      `db:"approved" json:"approved"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
