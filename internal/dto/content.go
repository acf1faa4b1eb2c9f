package dto

import "time"

// AnnouncementRequest creates or replaces an announcement.
type AnnouncementRequest struct {
	Title       string     `json:"title" validate:"required"`
	Content     string     `json:"content" validate:"required"`
	IsPinned    bool       `json:"is_pinned"`
	PublishedAt *time.Time `json:"published_at"`
}

// FacultyRequest creates or replaces a faculty profile.
type FacultyRequest struct {
	Name          string  `json:"name" validate:"required"`
	Designation   string  `json:"designation" validate:"required"`
	Department    string  `json:"department" validate:"required"`
	Qualification string  `json:"qualification"`
	PhotoURL      *string `json:"photo_url"`
	DisplayOrder  int     `json:"display_order"`
}

// TimetableRequest creates or replaces a timetable entry.
type TimetableRequest struct {
	ClassName    string `json:"class_name" validate:"required"`
	Title        string `json:"title" validate:"required"`
	FileURL      string `json:"file_url" validate:"required,url"`
	AcademicYear string `json:"academic_year" validate:"required"`
}

// GalleryRequest creates or replaces a gallery image.
type GalleryRequest struct {
	Title    string `json:"title" validate:"required"`
	Category string `json:"category" validate:"required"`
	ImageURL string `json:"image_url" validate:"required,url"`
}

// FacilityRequest creates or replaces a facility.
type FacilityRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description" validate:"required"`
	ImageURL    *string `json:"image_url"`
}

// TestimonialRequest creates or replaces a testimonial.
type TestimonialRequest struct {
	Author   string `json:"author" validate:"required"`
	Relation string `json:"relation" validate:"required"`
	Quote    string `json:"quote" validate:"required"`
	Approved bool   `json:"approved"`
}

// CareerRequest creates or replaces a job opening.
type CareerRequest struct {
	Title          string     `json:"title" validate:"required"`
	Description    string     `json:"description" validate:"required"`
	Qualifications string     `json:"qualifications"`
	Open           bool       `json:"open"`
	PostedAt       *time.Time `json:"posted_at"`
}
