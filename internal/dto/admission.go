package dto

import "time"

// CreateAdmissionRequest binds the text fields of the multipart submission.
// Document files are bound separately by the handler.
type CreateAdmissionRequest struct {
	Name       string `form:"name" validate:"required"`
	Email      string `form:"email" validate:"required,email"`
	Phone      string `form:"phone" validate:"required"`
	ClassName  string `form:"className" validate:"required"`
	LastSchool string `form:"lastSchool"`
}

// AdmissionResponse is the JSON shape returned for an admission record.
// Document payloads are never serialised; presence flags are exposed instead.
type AdmissionResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Phone      string          `json:"phone"`
	ClassName  string          `json:"class_name"`
	LastSchool *string         `json:"last_school,omitempty"`
	Documents  map[string]bool `json:"documents"`
	CreatedAt  time.Time       `json:"created_at"`
}
