package models

import "time"

// Admission represents one applicant's submission. Records are write-once:
// identity and submission instant never change, and there is no update path.
// Document columns hold base64-encoded file bytes or NULL.
type Admission struct {
	ID         string  `db:"id" json:"id"`
	Name       string  `db:"name" json:"name"`
	Email      string  `db:"email" json:"email"`
	Phone      string  `db:"phone" json:"phone"`
	ClassName  string  `db:"class_name" json:"class_name"`
	LastSchool *string `db:"last_school" json:"last_school,omitempty"`

	BirthCertificate    *string `db:"birth_certificate" json:"-"`
	ReportCard          *string `db:"report_card" json:"-"`
	TransferCertificate *string `db:"transfer_certificate" json:"-"`
	Photograph          *string `db:"photograph" json:"-"`
	AddressProof        *string `db:"address_proof" json:"-"`
	ParentIDProof       *string `db:"parent_id_proof" json:"-"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// AdmissionDocumentField associates a multipart form field with its storage
// accessor and the name its archive entry is written under.
type AdmissionDocumentField struct {
	FormField    string
	ArchiveLabel string
	Get          func(*Admission) *string
	Set          func(*Admission, *string)
}

// AdmissionDocumentFields is the fixed set of accepted document uploads,
// processed uniformly by ingestion and export.
var AdmissionDocumentFields = []AdmissionDocumentField{
	{
		FormField:    "birthCertificate",
		ArchiveLabel: "birth-certificate",
		Get:          func(a *Admission) *string { return a.BirthCertificate },
		Set:          func(a *Admission, v *string) { a.BirthCertificate = v },
	},
	{
		FormField:    "reportCard",
		ArchiveLabel: "report-card",
		Get:          func(a *Admission) *string { return a.ReportCard },
		Set:          func(a *Admission, v *string) { a.ReportCard = v },
	},
	{
		FormField:    "transferCertificate",
		ArchiveLabel: "transfer-certificate",
		Get:          func(a *Admission) *string { return a.TransferCertificate },
		Set:          func(a *Admission, v *string) { a.TransferCertificate = v },
	},
	{
		FormField:    "photograph",
		ArchiveLabel: "photograph",
		Get:          func(a *Admission) *string { return a.Photograph },
		Set:          func(a *Admission, v *string) { a.Photograph = v },
	},
	{
		FormField:    "addressProof",
		ArchiveLabel: "address-proof",
		Get:          func(a *Admission) *string { return a.AddressProof },
		Set:          func(a *Admission, v *string) { a.AddressProof = v },
	},
	{
		FormField:    "parentIdProof",
		ArchiveLabel: "parent-id-proof",
		Get:          func(a *Admission) *string { return a.ParentIDProof },
		Set:          func(a *Admission, v *string) { a.ParentIDProof = v },
	},
}

// DocumentCount reports how many document fields are present on the record.
func (a *Admission) DocumentCount() int {
	count := 0
	for _, field := range AdmissionDocumentFields {
		if field.Get(a) != nil {
			count++
		}
	}
	return count
}
