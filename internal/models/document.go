package models

import (
	"time"

	"github.com/google/uuid"
)

// Document owner types
const (
	DocumentOwnerSubmission = "submission"
	DocumentOwnerEmployee   = "employee"
	DocumentOwnerCandidate  = "candidate"
)

// Document field names for onboarding submissions
const (
	DocTenthCertificate        = "tenthCertificate"
	DocIntermediateCertificate = "intermediateCertificate"
	DocDegreeCertificate       = "degreeCertificate"
	DocAdditionalCertificates  = "additionalCertificates"
	DocProvisionalCertificate  = "provisionalCertificate"
	DocExperienceLetters       = "experienceLetters"
	DocAadhaarDocument         = "aadhaarDocument"
	DocPanDocument             = "panDocument"
	DocAddressProof            = "addressProof"
	DocProfilePhoto            = "profilePhoto"
	DocOfferLetter             = "offerLetter"
)

// RequiredDocumentFields must all be present on first submission
var RequiredDocumentFields = []string{
	DocTenthCertificate,
	DocIntermediateCertificate,
	DocDegreeCertificate,
	DocAadhaarDocument,
	DocPanDocument,
	DocAddressProof,
	DocProfilePhoto,
}

// SubmissionDocumentFields is the full set of document fields a submission may carry
var SubmissionDocumentFields = []string{
	DocTenthCertificate,
	DocIntermediateCertificate,
	DocDegreeCertificate,
	DocAdditionalCertificates,
	DocProvisionalCertificate,
	DocExperienceLetters,
	DocAadhaarDocument,
	DocPanDocument,
	DocAddressProof,
	DocProfilePhoto,
}

// MultiDocumentFields may hold more than one file per submission
var MultiDocumentFields = map[string]bool{
	DocAdditionalCertificates: true,
	DocExperienceLetters:      true,
}

// IsValidDocumentField reports whether field is a recognized submission document field
func IsValidDocumentField(field string) bool {
	for _, f := range SubmissionDocumentFields {
		if f == field {
			return true
		}
	}
	return false
}

// Document is a stored binary file owned by a submission, employee or candidate.
// An employee's documents are copies of the submission's rows; the submission
// keeps its own as the historical record.
type Document struct {
	ID          uuid.UUID `json:"id" db:"id"`
	OwnerType   string    `json:"owner_type" db:"owner_type"`
	OwnerID     uuid.UUID `json:"owner_id" db:"owner_id"`
	Field       string    `json:"field" db:"field"`
	Filename    string    `json:"filename" db:"filename"`
	ContentType string    `json:"content_type" db:"content_type"`
	Data        []byte    `json:"-" db:"data"` // Excluded from JSON, served via download endpoints
	UploadedAt  time.Time `json:"uploaded_at" db:"uploaded_at"`
}

// DocumentUpload is an incoming file before it is persisted
type DocumentUpload struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// DocumentMeta is the JSON-safe projection of a stored document
type DocumentMeta struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Field       string    `json:"field" db:"field"`
	Filename    string    `json:"filename" db:"filename"`
	ContentType string    `json:"content_type" db:"content_type"`
	UploadedAt  time.Time `json:"uploaded_at" db:"uploaded_at"`
}
