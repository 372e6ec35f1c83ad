package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/winwire/hr-onboarding-backend/internal/config"
	"github.com/winwire/hr-onboarding-backend/internal/database"
	"github.com/winwire/hr-onboarding-backend/internal/models"
)

var (
	// ErrDuplicateCandidateEmail indicates an offer already exists for this email
	ErrDuplicateCandidateEmail = errors.New("a candidate with this email already exists")

	// ErrInvalidOfferToken indicates the accept link is unknown or expired.
	// Deliberately vague, the caller cannot distinguish the two cases.
	ErrInvalidOfferToken = errors.New("invalid or expired offer link")

	// ErrOfferAlreadyAccepted indicates the accept link was already used
	ErrOfferAlreadyAccepted = errors.New("offer already accepted")

	// ErrOfferNotAccepted indicates joining was triggered before the
	// candidate accepted the offer
	ErrOfferNotAccepted = errors.New("offer has not been accepted")

	// ErrJoiningAlreadyTriggered indicates joining was already triggered
	// for this candidate
	ErrJoiningAlreadyTriggered = errors.New("joining already triggered for this candidate")

	// ErrOfferLetterMissing indicates no offer letter is stored for the candidate
	ErrOfferLetterMissing = errors.New("offer letter not found")
)

// CandidateService manages the offer pipeline: issuing offers, recording
// acceptance and provisioning portal access when joining is triggered.
type CandidateService struct {
	candidateRepo *database.CandidateRepository
	userRepo      *database.UserRepository
	documentRepo  *database.DocumentRepository
	notifier      *NotificationService
	cfg           config.OnboardingConfig
	bcryptCost    int
	logger        *logrus.Logger
}

// NewCandidateService creates a new candidate service
func NewCandidateService(
	candidateRepo *database.CandidateRepository,
	userRepo *database.UserRepository,
	documentRepo *database.DocumentRepository,
	notifier *NotificationService,
	cfg config.OnboardingConfig,
	bcryptCost int,
	logger *logrus.Logger,
) *CandidateService {
	return &CandidateService{
		candidateRepo: candidateRepo,
		userRepo:      userRepo,
		documentRepo:  documentRepo,
		notifier:      notifier,
		cfg:           cfg,
		bcryptCost:    bcryptCost,
		logger:        logger,
	}
}

// Create issues a new job offer: stores the candidate with a single-use
// accept token, attaches the offer letter and queues the offer email.
func (s *CandidateService) Create(hrUserID uuid.UUID, req *models.CreateCandidateRequest, offerLetter *models.DocumentUpload) (*models.Candidate, error) {
	now := time.Now()
	candidate := &models.Candidate{
		ID:                uuid.New(),
		FullName:          req.FullName,
		Email:             req.Email,
		Phone:             req.Phone,
		Position:          req.Position,
		Department:        req.Department,
		OfferStatus:       models.OfferPending,
		AcceptToken:       uuid.New(),
		AcceptTokenExpiry: now.Add(s.cfg.OfferTokenValidity),
		CreatedBy:         models.NewNullUUID(hrUserID),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.candidateRepo.Create(candidate); err != nil {
		if errors.Is(err, database.ErrDuplicateEmail) {
			return nil, ErrDuplicateCandidateEmail
		}
		return nil, fmt.Errorf("failed to create candidate: %w", err)
	}

	if offerLetter != nil {
		if err := s.documentRepo.Insert(models.DocumentOwnerCandidate, candidate.ID, *offerLetter); err != nil {
			// The candidate row exists, so report but do not roll back
			s.logger.WithFields(logrus.Fields{
				"candidate_id": candidate.ID,
				"error":        err,
			}).Error("Failed to store offer letter")
		}
	}

	s.notifier.SendOfferEmail(candidate)

	s.logger.WithFields(logrus.Fields{
		"candidate_id": candidate.ID,
		"position":     candidate.Position,
		"created_by":   hrUserID,
	}).Info("Candidate created, offer sent")

	return candidate, nil
}

// AcceptOffer redeems a single-use offer accept token. Unknown and expired
// tokens are indistinguishable to the caller.
func (s *CandidateService) AcceptOffer(token uuid.UUID) (*models.Candidate, error) {
	candidate, err := s.candidateRepo.GetByValidAcceptToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to look up accept token: %w", err)
	}
	if candidate == nil {
		return nil, ErrInvalidOfferToken
	}

	affected, err := s.candidateRepo.MarkOfferAccepted(candidate.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to accept offer: %w", err)
	}
	if affected == 0 {
		return nil, ErrOfferAlreadyAccepted
	}

	candidate.OfferStatus = models.OfferAccepted

	s.logger.WithField("candidate_id", candidate.ID).Info("Offer accepted")

	return candidate, nil
}

// TriggerJoining provisions the candidate's portal login and emails the
// credentials. Requires an accepted offer and runs at most once per candidate.
func (s *CandidateService) TriggerJoining(id uuid.UUID) (*models.Candidate, error) {
	candidate, err := s.candidateRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to look up candidate: %w", err)
	}
	if candidate == nil {
		return nil, ErrCandidateNotFound
	}
	if candidate.OfferStatus != models.OfferAccepted {
		return nil, ErrOfferNotAccepted
	}
	if candidate.JoiningTriggered {
		return nil, ErrJoiningAlreadyTriggered
	}

	password := deriveInitialPassword(candidate.FullName, s.cfg.EmployeeIDPrefix)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if _, err := s.userRepo.CreateUser(candidate.Email, string(hash), candidate.FullName, models.RoleEmployee); err != nil {
		if !errors.Is(err, database.ErrDuplicateEmail) {
			return nil, fmt.Errorf("failed to create portal user: %w", err)
		}
		// A login already exists for this email, keep it as is
		s.logger.WithField("candidate_id", id).Warn("Portal user already exists, skipping creation")
	}

	if err := s.candidateRepo.MarkJoiningTriggered(id); err != nil {
		return nil, fmt.Errorf("failed to mark joining triggered: %w", err)
	}

	candidate.JoiningTriggered = true
	candidate.CredentialsSent = true

	s.notifier.SendCredentialsEmail(candidate, password)

	s.logger.WithField("candidate_id", id).Info("Joining triggered, credentials sent")

	return candidate, nil
}

// List returns all candidates, newest first
func (s *CandidateService) List() ([]*models.Candidate, error) {
	return s.candidateRepo.List()
}

// Get returns one candidate by ID
func (s *CandidateService) Get(id uuid.UUID) (*models.Candidate, error) {
	candidate, err := s.candidateRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to look up candidate: %w", err)
	}
	if candidate == nil {
		return nil, ErrCandidateNotFound
	}
	return candidate, nil
}

// GetOfferLetter returns the stored offer letter for download
func (s *CandidateService) GetOfferLetter(candidateID uuid.UUID) (*models.Document, error) {
	doc, err := s.documentRepo.Get(models.DocumentOwnerCandidate, candidateID, models.DocOfferLetter)
	if err != nil {
		return nil, fmt.Errorf("failed to load offer letter: %w", err)
	}
	if doc == nil {
		return nil, ErrOfferLetterMissing
	}
	return doc, nil
}
