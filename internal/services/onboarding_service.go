package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/winwire/hr-onboarding-backend/internal/config"
	"github.com/winwire/hr-onboarding-backend/internal/database"
	"github.com/winwire/hr-onboarding-backend/internal/models"
)

var (
	// ErrCandidateNotFound indicates no candidate matches the given identity
	ErrCandidateNotFound = errors.New("candidate not found")

	// ErrSubmissionNotFound indicates no submission matches the given ID
	ErrSubmissionNotFound = errors.New("submission not found")

	// ErrActiveSubmissionExists indicates the candidate already has a
	// non-rejected submission
	ErrActiveSubmissionExists = errors.New("an active submission already exists for this candidate")

	// ErrMissingRequiredDocument indicates a mandatory document field was not uploaded
	ErrMissingRequiredDocument = errors.New("required document missing")

	// ErrInvalidDocumentField indicates an upload used an unrecognized field name
	ErrInvalidDocumentField = errors.New("invalid document field")

	// ErrRemarksRequired indicates a review action arrived without remarks
	ErrRemarksRequired = errors.New("remarks are required")

	// ErrJoiningDateRequired indicates an approval arrived without a joining date
	ErrJoiningDateRequired = errors.New("date of joining is required")

	// ErrInvalidDate indicates a date field could not be parsed
	ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")

	// ErrInvalidStatusTransition indicates the submission status does not
	// allow the requested action
	ErrInvalidStatusTransition = errors.New("submission status does not allow this action")

	// ErrInvalidPassToken indicates the onboarding pass token is unknown or
	// already used
	ErrInvalidPassToken = errors.New("invalid or already used onboarding pass")
)

const dateLayout = "2006-01-02"

// SubmissionDetail bundles a submission with its revision history, document
// metadata and the derived client-side state.
type SubmissionDetail struct {
	Submission *models.OnboardingSubmission `json:"submission"`
	Revisions  []models.SubmissionRevision  `json:"revisions"`
	Documents  []models.DocumentMeta        `json:"documents"`
	UIState    string                       `json:"ui_state"`
}

// PassAcceptance is the result of accepting an onboarding pass. The initial
// password is returned exactly once, for display on the acceptance page.
type PassAcceptance struct {
	Employee        *models.Employee `json:"employee"`
	InitialPassword string           `json:"initial_password"`
}

// OnboardingService drives the submission lifecycle from first submission
// through HR review to onboarding-pass acceptance.
type OnboardingService struct {
	submissionRepo *database.SubmissionRepository
	candidateRepo  *database.CandidateRepository
	employeeRepo   *database.EmployeeRepository
	documentRepo   *database.DocumentRepository
	notifier       *NotificationService
	cfg            config.OnboardingConfig
	bcryptCost     int
	logger         *logrus.Logger
}

// NewOnboardingService creates a new onboarding service
func NewOnboardingService(
	submissionRepo *database.SubmissionRepository,
	candidateRepo *database.CandidateRepository,
	employeeRepo *database.EmployeeRepository,
	documentRepo *database.DocumentRepository,
	notifier *NotificationService,
	cfg config.OnboardingConfig,
	bcryptCost int,
	logger *logrus.Logger,
) *OnboardingService {
	return &OnboardingService{
		submissionRepo: submissionRepo,
		candidateRepo:  candidateRepo,
		employeeRepo:   employeeRepo,
		documentRepo:   documentRepo,
		notifier:       notifier,
		cfg:            cfg,
		bcryptCost:     bcryptCost,
		logger:         logger,
	}
}

// Submit creates the candidate's first submission with all uploaded documents.
// The candidate must exist and must not already have a non-rejected submission.
func (s *OnboardingService) Submit(candidateEmail string, form *models.SubmissionForm, docs []models.DocumentUpload) (*models.OnboardingSubmission, error) {
	candidate, err := s.candidateRepo.GetByEmail(candidateEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to look up candidate: %w", err)
	}
	if candidate == nil {
		return nil, ErrCandidateNotFound
	}

	active, err := s.submissionRepo.GetActiveByCandidateID(candidate.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing submissions: %w", err)
	}
	if active != nil {
		return nil, ErrActiveSubmissionExists
	}

	if err := validateDocuments(form, docs, true); err != nil {
		return nil, err
	}

	now := time.Now()
	sub := &models.OnboardingSubmission{
		ID:          uuid.New(),
		CandidateID: candidate.ID,
		Email:       candidate.Email,
		FullName:    candidate.FullName,
		Department:  candidate.Department,
		Status:      models.StatusSubmitted,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := applyForm(sub, form); err != nil {
		return nil, err
	}

	if err := s.submissionRepo.CreateWithDocuments(sub, docs); err != nil {
		if errors.Is(err, database.ErrDuplicateActiveSubmission) {
			return nil, ErrActiveSubmissionExists
		}
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"submission_id": sub.ID,
		"candidate_id":  candidate.ID,
	}).Info("Onboarding form submitted")

	return sub, nil
}

// RequestRevision flags a submission for correction and notifies the candidate
func (s *OnboardingService) RequestRevision(id, reviewerID uuid.UUID, remarks string) (*models.OnboardingSubmission, error) {
	remarks = strings.TrimSpace(remarks)
	if remarks == "" {
		return nil, ErrRemarksRequired
	}

	sub, err := s.getSubmission(id)
	if err != nil {
		return nil, err
	}
	if sub.Status != models.StatusSubmitted && sub.Status != models.StatusRevisionRequested {
		return nil, fmt.Errorf("%w: cannot request revision while %s", ErrInvalidStatusTransition, sub.Status)
	}

	if err := s.submissionRepo.RequestRevision(id, remarks, reviewerID); err != nil {
		return nil, fmt.Errorf("failed to request revision: %w", err)
	}

	sub.Status = models.StatusRevisionRequested
	sub.HRRemarks = models.NewNullString(remarks)
	sub.ReviewedBy = models.NewNullUUID(reviewerID)
	sub.ReviewedAt = models.NewNullTime(time.Now())

	s.notifier.SendRevisionEmail(sub, remarks)

	s.logger.WithFields(logrus.Fields{
		"submission_id": id,
		"reviewer_id":   reviewerID,
	}).Info("Revision requested")

	return sub, nil
}

// Resubmit overlays the corrected fields and documents onto a submission in
// REVISION_REQUESTED. Empty form values keep what is already stored.
func (s *OnboardingService) Resubmit(id uuid.UUID, form *models.SubmissionForm, docs []models.DocumentUpload) (*models.OnboardingSubmission, error) {
	sub, err := s.getSubmission(id)
	if err != nil {
		return nil, err
	}
	if sub.Status != models.StatusRevisionRequested {
		return nil, fmt.Errorf("%w: cannot resubmit while %s", ErrInvalidStatusTransition, sub.Status)
	}

	if err := validateDocuments(form, docs, false); err != nil {
		return nil, err
	}
	if err := applyForm(sub, form); err != nil {
		return nil, err
	}

	if err := s.submissionRepo.Resubmit(sub, docs); err != nil {
		return nil, fmt.Errorf("failed to resubmit: %w", err)
	}

	sub.Status = models.StatusSubmitted
	sub.ReviewedBy = models.NullUUID{}
	sub.ReviewedAt = models.NullTime{}

	s.logger.WithField("submission_id", id).Info("Onboarding form resubmitted")

	return sub, nil
}

// Reject moves a submission into the terminal REJECTED state
func (s *OnboardingService) Reject(id, reviewerID uuid.UUID, remarks string) error {
	remarks = strings.TrimSpace(remarks)
	if remarks == "" {
		return ErrRemarksRequired
	}

	sub, err := s.getSubmission(id)
	if err != nil {
		return err
	}
	if sub.Status == models.StatusRejected || sub.Status == models.StatusPassAccepted {
		return fmt.Errorf("%w: cannot reject while %s", ErrInvalidStatusTransition, sub.Status)
	}

	if err := s.submissionRepo.Reject(id, remarks, reviewerID); err != nil {
		return fmt.Errorf("failed to reject submission: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"submission_id": id,
		"reviewer_id":   reviewerID,
	}).Info("Submission rejected")

	return nil
}

// Approve accepts a submission, fixes the joining date and sends the
// single-use onboarding pass.
func (s *OnboardingService) Approve(id, reviewerID uuid.UUID, remarks, dateOfJoining string) (*models.OnboardingSubmission, error) {
	if strings.TrimSpace(dateOfJoining) == "" {
		return nil, ErrJoiningDateRequired
	}
	joining, err := time.Parse(dateLayout, dateOfJoining)
	if err != nil {
		return nil, fmt.Errorf("%w: date_of_joining", ErrInvalidDate)
	}

	sub, err := s.getSubmission(id)
	if err != nil {
		return nil, err
	}
	switch sub.Status {
	case models.StatusSubmitted, models.StatusRevisionRequested:
		// approvable
	default:
		return nil, fmt.Errorf("%w: cannot approve while %s", ErrInvalidStatusTransition, sub.Status)
	}

	passToken := uuid.New()
	if err := s.submissionRepo.Approve(id, remarks, reviewerID, passToken, joining); err != nil {
		return nil, fmt.Errorf("failed to approve submission: %w", err)
	}

	sub.Status = models.StatusPassSent
	sub.DateOfJoining = models.NewNullTime(joining)
	sub.ReviewedBy = models.NewNullUUID(reviewerID)
	sub.ReviewedAt = models.NewNullTime(time.Now())

	s.notifier.SendPassEmail(sub, passToken, joining)

	s.logger.WithFields(logrus.Fields{
		"submission_id": id,
		"reviewer_id":   reviewerID,
		"joining_date":  joining.Format(dateLayout),
	}).Info("Submission approved, onboarding pass sent")

	return sub, nil
}

// AcceptPass redeems a single-use onboarding pass: in one transaction it
// creates the employee record, copies the submission documents across and
// provisions (or refreshes) the portal login. The welcome email sequence and
// the new-joiner broadcast are queued after the transaction commits.
func (s *OnboardingService) AcceptPass(token uuid.UUID) (*PassAcceptance, error) {
	sub, err := s.submissionRepo.GetByPassToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to look up pass token: %w", err)
	}
	if sub == nil {
		return nil, ErrInvalidPassToken
	}

	candidate, err := s.candidateRepo.GetByID(sub.CandidateID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up candidate: %w", err)
	}
	if candidate == nil {
		return nil, ErrCandidateNotFound
	}

	password := deriveInitialPassword(sub.FullName, s.cfg.EmployeeIDPrefix)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// The employee ID is assigned inside the transaction from a database
	// sequence, so concurrent accepts never collide on it.
	emp := buildEmployee(sub, candidate)
	if err := s.submissionRepo.AcceptPass(sub, emp, string(hash), s.cfg.EmployeeIDPrefix); err != nil {
		return nil, fmt.Errorf("failed to accept onboarding pass: %w", err)
	}

	s.notifier.SendOnboardingSequence(emp)

	recipients, err := s.employeeRepo.ListActiveExcept(emp.ID)
	if err != nil {
		s.logger.WithField("error", err).Error("Failed to load broadcast recipients")
	} else {
		s.notifier.SendNewJoinerBroadcast(emp, recipients)
	}

	s.logger.WithFields(logrus.Fields{
		"submission_id": sub.ID,
		"employee_id":   emp.EmployeeID,
	}).Info("Onboarding pass accepted, employee created")

	return &PassAcceptance{Employee: emp, InitialPassword: password}, nil
}

// GetSubmission returns one submission with its revision history and documents
func (s *OnboardingService) GetSubmission(id uuid.UUID) (*SubmissionDetail, error) {
	sub, err := s.getSubmission(id)
	if err != nil {
		return nil, err
	}
	return s.detail(sub)
}

// GetSubmissionByCandidateEmail returns the candidate's latest submission, or
// an empty FORM-state detail when they have not submitted yet.
func (s *OnboardingService) GetSubmissionByCandidateEmail(email string) (*SubmissionDetail, error) {
	candidate, err := s.candidateRepo.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up candidate: %w", err)
	}
	if candidate == nil {
		return nil, ErrCandidateNotFound
	}

	sub, err := s.submissionRepo.GetLatestByCandidateID(candidate.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load submission: %w", err)
	}
	if sub == nil {
		return &SubmissionDetail{UIState: models.UIStateForm}, nil
	}
	return s.detail(sub)
}

// ListSubmissions returns all submissions, newest first
func (s *OnboardingService) ListSubmissions() ([]*models.OnboardingSubmission, error) {
	return s.submissionRepo.List()
}

// GetDocument returns one stored submission document for download
func (s *OnboardingService) GetDocument(submissionID, documentID uuid.UUID) (*models.Document, error) {
	doc, err := s.documentRepo.GetByID(models.DocumentOwnerSubmission, submissionID, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	if doc == nil {
		return nil, ErrSubmissionNotFound
	}
	return doc, nil
}

// GetDocumentByField returns the stored document for one form field
func (s *OnboardingService) GetDocumentByField(submissionID uuid.UUID, field string) (*models.Document, error) {
	if !models.IsValidDocumentField(field) {
		return nil, ErrInvalidDocumentField
	}
	doc, err := s.documentRepo.Get(models.DocumentOwnerSubmission, submissionID, field)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	if doc == nil {
		return nil, ErrSubmissionNotFound
	}
	return doc, nil
}

// PassPreview resolves an onboarding pass token to its submission so the
// acceptance page can show the joining details. The token stays valid until
// AcceptPass consumes it.
func (s *OnboardingService) PassPreview(token uuid.UUID) (*models.OnboardingSubmission, error) {
	sub, err := s.submissionRepo.GetByPassToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to look up pass token: %w", err)
	}
	if sub == nil {
		return nil, ErrInvalidPassToken
	}
	return sub, nil
}

// GetDashboardStats aggregates the HR dashboard counters
func (s *OnboardingService) GetDashboardStats() (*models.DashboardStats, error) {
	stats := &models.DashboardStats{}
	var err error

	if stats.TotalCandidates, err = s.candidateRepo.Count(); err != nil {
		return nil, fmt.Errorf("failed to count candidates: %w", err)
	}
	if stats.AcceptedOffers, err = s.candidateRepo.CountByOfferStatus(models.OfferAccepted); err != nil {
		return nil, fmt.Errorf("failed to count accepted offers: %w", err)
	}
	if stats.PendingSubmissions, err = s.submissionRepo.CountByStatus(models.StatusSubmitted); err != nil {
		return nil, fmt.Errorf("failed to count pending submissions: %w", err)
	}
	if stats.TotalEmployees, err = s.employeeRepo.Count(); err != nil {
		return nil, fmt.Errorf("failed to count employees: %w", err)
	}
	if stats.ActiveEmployees, err = s.employeeRepo.CountActive(); err != nil {
		return nil, fmt.Errorf("failed to count active employees: %w", err)
	}

	return stats, nil
}

func (s *OnboardingService) getSubmission(id uuid.UUID) (*models.OnboardingSubmission, error) {
	sub, err := s.submissionRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load submission: %w", err)
	}
	if sub == nil {
		return nil, ErrSubmissionNotFound
	}
	return sub, nil
}

func (s *OnboardingService) detail(sub *models.OnboardingSubmission) (*SubmissionDetail, error) {
	revisions, err := s.submissionRepo.GetRevisions(sub.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load revisions: %w", err)
	}
	docs, err := s.documentRepo.ListMeta(models.DocumentOwnerSubmission, sub.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load documents: %w", err)
	}
	return &SubmissionDetail{
		Submission: sub,
		Revisions:  revisions,
		Documents:  docs,
		UIState:    models.DeriveUIState(sub, revisions),
	}, nil
}

// deriveInitialPassword builds a first-login password from the first three
// non-space characters of the name, the company prefix and the current year
// (e.g. "PRI@WW2026").
func deriveInitialPassword(fullName, prefix string) string {
	var letters []rune
	for _, r := range fullName {
		if unicode.IsSpace(r) {
			continue
		}
		letters = append(letters, unicode.ToUpper(r))
		if len(letters) == 3 {
			break
		}
	}
	return fmt.Sprintf("%s@%s%d", string(letters), prefix, time.Now().Year())
}

// validateDocuments enforces the upload rules. On first submission every
// required field must be present; on resubmit uploads are optional but still
// restricted to known fields. Experience letters are mandatory whenever the
// form claims prior experience.
func validateDocuments(form *models.SubmissionForm, docs []models.DocumentUpload, initial bool) error {
	present := map[string]bool{}
	for _, doc := range docs {
		if !models.IsValidDocumentField(doc.Field) {
			return fmt.Errorf("%w: %s", ErrInvalidDocumentField, doc.Field)
		}
		present[doc.Field] = true
	}

	if !initial {
		return nil
	}

	for _, field := range models.RequiredDocumentFields {
		if !present[field] {
			return fmt.Errorf("%w: %s", ErrMissingRequiredDocument, field)
		}
	}
	if form.TotalExperience != nil && *form.TotalExperience > 0 && !present[models.DocExperienceLetters] {
		return fmt.Errorf("%w: %s", ErrMissingRequiredDocument, models.DocExperienceLetters)
	}
	return nil
}

// applyForm overlays the form values onto the submission. Empty strings and
// nil pointers leave the stored values untouched, which makes the same
// function serve both first submissions and partial resubmissions.
func applyForm(sub *models.OnboardingSubmission, form *models.SubmissionForm) error {
	setString := func(dst *models.NullString, value string) {
		if value != "" {
			*dst = models.NewNullString(value)
		}
	}

	setString(&sub.FirstName, form.FirstName)
	setString(&sub.LastName, form.LastName)
	setString(&sub.MiddleName, form.MiddleName)
	setString(&sub.Phone, form.Phone)
	setString(&sub.LinkedinURL, form.LinkedinURL)
	setString(&sub.Address, form.Address)
	setString(&sub.City, form.City)
	setString(&sub.State, form.State)
	setString(&sub.Pincode, form.Pincode)
	setString(&sub.EmergencyContactName, form.EmergencyContactName)
	setString(&sub.EmergencyContactPhone, form.EmergencyContactPhone)
	setString(&sub.EmergencyContactRelation, form.EmergencyContactRelation)
	setString(&sub.BankAccountNumber, form.BankAccountNumber)
	setString(&sub.BankName, form.BankName)
	setString(&sub.BankIFSC, form.BankIFSC)
	setString(&sub.AadhaarNumber, form.AadhaarNumber)
	setString(&sub.PanNumber, form.PanNumber)

	if form.SelfDescription != "" {
		sub.SelfDescription = models.NewNullString(form.SelfDescription)
	} else if form.AboutMe != "" {
		sub.SelfDescription = models.NewNullString(form.AboutMe)
	}

	if form.DateOfBirth != "" {
		dob, err := time.Parse(dateLayout, form.DateOfBirth)
		if err != nil {
			return fmt.Errorf("%w: date_of_birth", ErrInvalidDate)
		}
		sub.DateOfBirth = models.NewNullTime(dob)
	}

	if form.TenthPercentage != nil {
		sub.TenthPercentage = models.NewNullFloat(*form.TenthPercentage)
	}
	if form.TwelfthPercentage != nil {
		sub.TwelfthPercentage = models.NewNullFloat(*form.TwelfthPercentage)
	}
	if form.DegreePercentage != nil {
		sub.DegreePercentage = models.NewNullFloat(*form.DegreePercentage)
	}
	if form.TotalExperience != nil {
		sub.TotalExperience = *form.TotalExperience
	}
	if len(form.PreviousCompanies) > 0 {
		sub.PreviousCompanies = pq.StringArray(form.PreviousCompanies)
	}

	return nil
}

// buildEmployee projects an approved submission onto a new employee record
func buildEmployee(sub *models.OnboardingSubmission, candidate *models.Candidate) *models.Employee {
	firstName := sub.FirstName.String
	lastName := sub.LastName.String
	if firstName == "" {
		parts := strings.Fields(sub.FullName)
		if len(parts) > 0 {
			firstName = parts[0]
		}
		if lastName == "" && len(parts) > 1 {
			lastName = parts[len(parts)-1]
		}
	}

	return &models.Employee{
		ID:           uuid.New(),
		SubmissionID: models.NewNullUUID(sub.ID),
		FirstName:    firstName,
		LastName:     lastName,
		MiddleName:   sub.MiddleName,
		FullName:     sub.FullName,
		Email:        sub.Email,
		Phone:        sub.Phone,
		DateOfBirth:  sub.DateOfBirth,
		LinkedinURL:  sub.LinkedinURL,
		Department:   sub.Department,
		Position:     candidate.Position,
		JoiningDate:  sub.DateOfJoining.Time,
		AboutMe:      sub.SelfDescription,
		IsActive:     true,
	}
}
