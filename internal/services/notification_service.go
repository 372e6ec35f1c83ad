package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/winwire/hr-onboarding-backend/internal/config"
	"github.com/winwire/hr-onboarding-backend/internal/models"
	"github.com/winwire/hr-onboarding-backend/pkg/mail"
)

// NotificationService builds and dispatches workflow emails. Everything here
// is fire-and-forget through the task queue: delivery failures are logged
// and never affect the state transition that triggered them.
type NotificationService struct {
	mailer mail.Mailer
	queue  *TaskQueue
	cfg    config.OnboardingConfig
	logger *logrus.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(mailer mail.Mailer, queue *TaskQueue, cfg config.OnboardingConfig, logger *logrus.Logger) *NotificationService {
	return &NotificationService{
		mailer: mailer,
		queue:  queue,
		cfg:    cfg,
		logger: logger,
	}
}

// SendOfferEmail delivers the job offer with its acceptance link
func (s *NotificationService) SendOfferEmail(candidate *models.Candidate) {
	link := fmt.Sprintf("%s/accept-offer/%s", s.cfg.AppBaseURL, candidate.AcceptToken)
	subject := fmt.Sprintf("Job Offer - %s | %s", candidate.Position, s.cfg.CompanyName)
	body := fmt.Sprintf(`
		<h2>Congratulations %s!</h2>
		<p>We are pleased to offer you the position of <b>%s</b> in our %s department.</p>
		<p><a href="%s">Accept your offer</a></p>
		<p>This link is valid for 7 days and can be used once.</p>`,
		candidate.FullName, candidate.Position, candidate.Department, link)

	s.enqueueMail("offer-email", candidate.Email, subject, body)
}

// SendCredentialsEmail delivers the onboarding portal login credentials
func (s *NotificationService) SendCredentialsEmail(candidate *models.Candidate, tempPassword string) {
	subject := fmt.Sprintf("Onboarding Portal Credentials | %s", s.cfg.CompanyName)
	body := fmt.Sprintf(`
		<h2>Welcome %s!</h2>
		<p>Your onboarding portal account is ready.</p>
		<p>Login: <b>%s</b><br>Temporary password: <b>%s</b></p>
		<p><a href="%s/login">Open the onboarding portal</a> and complete your onboarding form.</p>`,
		candidate.FullName, candidate.Email, tempPassword, s.cfg.AppBaseURL)

	s.enqueueMail("credentials-email", candidate.Email, subject, body)
}

// SendRevisionEmail notifies a candidate that their form needs changes
func (s *NotificationService) SendRevisionEmail(sub *models.OnboardingSubmission, remarks string) {
	subject := fmt.Sprintf("Onboarding Form Updation Required | %s", s.cfg.CompanyName)
	body := fmt.Sprintf(`
		<h2>Hello %s,</h2>
		<p>Our HR team reviewed your onboarding form and needs a correction:</p>
		<blockquote>%s</blockquote>
		<p><a href="%s/onboarding">Update your form</a></p>`,
		sub.FullName, remarks, s.cfg.AppBaseURL)

	s.enqueueMail("revision-email", sub.Email, subject, body)
}

// SendPassEmail delivers the onboarding pass with its acceptance link
func (s *NotificationService) SendPassEmail(sub *models.OnboardingSubmission, passToken uuid.UUID, dateOfJoining time.Time) {
	link := fmt.Sprintf("%s/onboarding-pass/%s", s.cfg.AppBaseURL, passToken)
	subject := fmt.Sprintf("Onboarding Pass - Complete Your Joining | %s", s.cfg.CompanyName)
	body := fmt.Sprintf(`
		<h2>Congratulations %s!</h2>
		<p>Your onboarding form has been approved. Your joining date is <b>%s</b>.</p>
		<p><a href="%s">Accept your onboarding pass</a> to finish joining.</p>`,
		sub.FullName, dateOfJoining.Format("02 Jan 2006"), link)

	s.enqueueMail("pass-email", sub.Email, subject, body)
}

// onboardingSequence is the fixed series of welcome emails a new employee
// receives after accepting the pass.
func (s *NotificationService) onboardingSequence(emp *models.Employee) []struct{ subject, body string } {
	company := s.cfg.CompanyName
	return []struct{ subject, body string }{
		{
			subject: fmt.Sprintf("Welcome to %s - Important Support Contacts", company),
			body: fmt.Sprintf(`<h2>Welcome aboard, %s!</h2>
				<p>Keep these contacts handy: IT support, HR helpdesk and your onboarding buddy are reachable through the portal.</p>`, emp.FirstName),
		},
		{
			subject: fmt.Sprintf("Time Tracking System - Important Guidelines | %s", company),
			body: fmt.Sprintf(`<h2>Hello %s,</h2>
				<p>Please record your working hours in the time tracking system every week.</p>`, emp.FirstName),
		},
		{
			subject: fmt.Sprintf("Group Mediclaim Insurance Policy - Action Required | %s", company),
			body: fmt.Sprintf(`<h2>Hello %s,</h2>
				<p>Enroll your dependents in the group mediclaim policy within 30 days of joining.</p>`, emp.FirstName),
		},
		{
			subject: fmt.Sprintf("Join the %s Community", company),
			body: fmt.Sprintf(`<h2>Hello %s,</h2>
				<p>Join our internal community groups to stay connected with your colleagues.</p>`, emp.FirstName),
		},
		{
			subject: fmt.Sprintf("Your Employee ID and Important Resources | %s", company),
			body: fmt.Sprintf(`<h2>Hello %s,</h2>
				<p>Your employee ID is <b>%s</b>. Use it for all internal systems and requests.</p>`, emp.FirstName, emp.EmployeeID),
		},
	}
}

// SendOnboardingSequence enqueues the five welcome emails as one task. The
// task sleeps between sends to pace the mail transport and keeps going when
// an individual send fails.
func (s *NotificationService) SendOnboardingSequence(emp *models.Employee) {
	emails := s.onboardingSequence(emp)
	delay := s.cfg.EmailSequenceDelay

	s.queue.Enqueue("onboarding-sequence", func() error {
		var failed int
		for i, email := range emails {
			if i > 0 {
				time.Sleep(delay)
			}
			if err := s.mailer.Send(emp.Email, email.subject, email.body); err != nil {
				failed++
				s.logger.WithFields(logrus.Fields{
					"employee_id": emp.EmployeeID,
					"subject":     email.subject,
					"error":       err,
				}).Error("Onboarding email failed")
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d onboarding emails failed", failed, len(emails))
		}
		return nil
	})
}

// SendNewJoinerBroadcast announces a new employee to the other active
// employees.
func (s *NotificationService) SendNewJoinerBroadcast(emp *models.Employee, recipients []*models.Employee) {
	if len(recipients) == 0 {
		return
	}

	subject := fmt.Sprintf("New Team Member - %s | %s", emp.FullName, emp.Department)
	body := fmt.Sprintf(`
		<h2>Please welcome %s!</h2>
		<p>%s joins us as <b>%s</b> in the %s department on %s.</p>`,
		emp.FullName, emp.FirstName, emp.Position, emp.Department, emp.JoiningDate.Format("02 Jan 2006"))

	s.queue.Enqueue("new-joiner-broadcast", func() error {
		var failed int
		for _, recipient := range recipients {
			if err := s.mailer.Send(recipient.Email, subject, body); err != nil {
				failed++
				s.logger.WithFields(logrus.Fields{
					"recipient": recipient.Email,
					"error":     err,
				}).Error("New joiner broadcast email failed")
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d broadcast emails failed", failed, len(recipients))
		}
		return nil
	})
}

func (s *NotificationService) enqueueMail(name, to, subject, body string) {
	s.queue.Enqueue(name, func() error {
		if err := s.mailer.Send(to, subject, body); err != nil {
			return fmt.Errorf("failed to send %s to %s: %w", name, to, err)
		}
		return nil
	})
}
