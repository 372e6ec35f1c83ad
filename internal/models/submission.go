package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Submission status values. REJECTED and PASS_ACCEPTED are terminal;
// REVISION_REQUESTED is a recoverable detour back to SUBMITTED.
const (
	StatusSubmitted         = "SUBMITTED"
	StatusApproved          = "APPROVED"
	StatusRejected          = "REJECTED"
	StatusPassSent          = "PASS_SENT"
	StatusPassAccepted      = "PASS_ACCEPTED"
	StatusRevisionRequested = "REVISION_REQUESTED"
)

// Derived UI states, re-derivable purely from status + revision history
const (
	UIStateForm        = "FORM"
	UIStateUnderReview = "UNDER_REVIEW"
	UIStateRevision    = "REVISION"
	UIStateApproved    = "APPROVED"
)

// OnboardingSubmission is the central workflow entity: one active
// (non-rejected) submission per candidate at a time.
type OnboardingSubmission struct {
	ID          uuid.UUID `json:"id" db:"id"`
	CandidateID uuid.UUID `json:"candidate_id" db:"candidate_id"`
	Email       string    `json:"email" db:"email"`
	FullName    string    `json:"full_name" db:"full_name"`
	Department  string    `json:"department" db:"department"`

	// Personal details
	FirstName                NullString `json:"first_name,omitempty" db:"first_name"`
	LastName                 NullString `json:"last_name,omitempty" db:"last_name"`
	MiddleName               NullString `json:"middle_name,omitempty" db:"middle_name"`
	DateOfBirth              NullTime   `json:"date_of_birth,omitempty" db:"date_of_birth"`
	Phone                    NullString `json:"phone,omitempty" db:"phone"`
	LinkedinURL              NullString `json:"linkedin_url,omitempty" db:"linkedin_url"`
	Address                  NullString `json:"address,omitempty" db:"address"`
	City                     NullString `json:"city,omitempty" db:"city"`
	State                    NullString `json:"state,omitempty" db:"state"`
	Pincode                  NullString `json:"pincode,omitempty" db:"pincode"`
	EmergencyContactName     NullString `json:"emergency_contact_name,omitempty" db:"emergency_contact_name"`
	EmergencyContactPhone    NullString `json:"emergency_contact_phone,omitempty" db:"emergency_contact_phone"`
	EmergencyContactRelation NullString `json:"emergency_contact_relation,omitempty" db:"emergency_contact_relation"`
	SelfDescription          NullString `json:"self_description,omitempty" db:"self_description"`

	// Bank details
	BankAccountNumber NullString `json:"bank_account_number,omitempty" db:"bank_account_number"`
	BankName          NullString `json:"bank_name,omitempty" db:"bank_name"`
	BankIFSC          NullString `json:"bank_ifsc,omitempty" db:"bank_ifsc"`

	// Education
	TenthPercentage   NullFloat `json:"tenth_percentage,omitempty" db:"tenth_percentage"`
	TwelfthPercentage NullFloat `json:"twelfth_percentage,omitempty" db:"twelfth_percentage"`
	DegreePercentage  NullFloat `json:"degree_percentage,omitempty" db:"degree_percentage"`

	// Experience
	TotalExperience   float64        `json:"total_experience" db:"total_experience"`
	PreviousCompanies pq.StringArray `json:"previous_companies" db:"previous_companies"`

	// Identity
	AadhaarNumber NullString `json:"aadhaar_number,omitempty" db:"aadhaar_number"`
	PanNumber     NullString `json:"pan_number,omitempty" db:"pan_number"`

	// Review workflow
	Status     string     `json:"status" db:"status"`
	HRRemarks  NullString `json:"hr_remarks,omitempty" db:"hr_remarks"`
	ReviewedBy NullUUID   `json:"reviewed_by,omitempty" db:"reviewed_by"`
	ReviewedAt NullTime   `json:"reviewed_at,omitempty" db:"reviewed_at"`

	// Onboarding pass
	DateOfJoining  NullTime `json:"date_of_joining,omitempty" db:"date_of_joining"`
	PassToken      NullUUID `json:"-" db:"pass_token"` // Single-use, never expose
	PassSentAt     NullTime `json:"pass_sent_at,omitempty" db:"pass_sent_at"`
	PassAcceptedAt NullTime `json:"pass_accepted_at,omitempty" db:"pass_accepted_at"`

	EmployeeCreated bool       `json:"employee_created" db:"employee_created"`
	EmployeeID      NullString `json:"employee_id,omitempty" db:"employee_id"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// SubmissionRevision is one entry of the append-only revision history
type SubmissionRevision struct {
	ID           int64     `json:"id" db:"id"`
	SubmissionID uuid.UUID `json:"submission_id" db:"submission_id"`
	Remarks      string    `json:"remarks" db:"remarks"`
	RequestedBy  NullUUID  `json:"requested_by,omitempty" db:"requested_by"`
	RequestedAt  time.Time `json:"requested_at" db:"requested_at"`
	Resolved     bool      `json:"resolved" db:"resolved"`
	ResolvedAt   NullTime  `json:"resolved_at,omitempty" db:"resolved_at"`
}

// SubmissionForm carries the field values of a submit or resubmit request.
// On resubmit empty values mean "keep what is already stored"; TotalExperience
// is a pointer for the same reason.
type SubmissionForm struct {
	FirstName                string   `form:"first_name"`
	LastName                 string   `form:"last_name"`
	MiddleName               string   `form:"middle_name"`
	DateOfBirth              string   `form:"date_of_birth"`
	Phone                    string   `form:"phone"`
	LinkedinURL              string   `form:"linkedin_url"`
	Address                  string   `form:"address"`
	City                     string   `form:"city"`
	State                    string   `form:"state"`
	Pincode                  string   `form:"pincode"`
	EmergencyContactName     string   `form:"emergency_contact_name"`
	EmergencyContactPhone    string   `form:"emergency_contact_phone"`
	EmergencyContactRelation string   `form:"emergency_contact_relation"`
	BankAccountNumber        string   `form:"bank_account_number"`
	BankName                 string   `form:"bank_name"`
	BankIFSC                 string   `form:"bank_ifsc"`
	SelfDescription          string   `form:"self_description"`
	TenthPercentage          *float64 `form:"tenth_percentage"`
	TwelfthPercentage        *float64 `form:"twelfth_percentage"`
	DegreePercentage         *float64 `form:"degree_percentage"`
	TotalExperience          *float64 `form:"total_experience"`
	PreviousCompanies        []string `form:"previous_companies"`
	AadhaarNumber            string   `form:"aadhaar_number"`
	PanNumber                string   `form:"pan_number"`
	AboutMe                  string   `form:"about_me"`
}

// ReviewRequest is the payload for HR reject / request-revision actions
type ReviewRequest struct {
	Remarks string `json:"remarks"`
}

// ApproveRequest is the payload for HR approval
type ApproveRequest struct {
	Remarks       string `json:"remarks"`
	DateOfJoining string `json:"date_of_joining"`
}

// DashboardStats aggregates the HR dashboard counters
type DashboardStats struct {
	TotalCandidates    int `json:"total_candidates"`
	AcceptedOffers     int `json:"accepted_offers"`
	PendingSubmissions int `json:"pending_submissions"`
	TotalEmployees     int `json:"total_employees"`
	ActiveEmployees    int `json:"active_employees"`
}

// DeriveUIState projects a submission plus its revision history onto the
// client-side form state. A nil submission (or a rejected one) means the
// candidate is still on the form.
func DeriveUIState(sub *OnboardingSubmission, revisions []SubmissionRevision) string {
	if sub == nil || sub.Status == StatusRejected {
		return UIStateForm
	}
	if sub.Status == StatusRevisionRequested {
		return UIStateRevision
	}
	for _, rev := range revisions {
		if !rev.Resolved {
			return UIStateRevision
		}
	}
	if sub.Status == StatusApproved {
		return UIStateApproved
	}
	return UIStateUnderReview
}
