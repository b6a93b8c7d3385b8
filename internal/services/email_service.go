package services

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"taskhub/internal/models"
)

type EmailService interface {
	SendReviewRequestedEmail(task *models.Task, changedBy string) error
}

type emailService struct {
	dialer    *gomail.Dialer
	from      string
	reviewers string
}

// NewEmailService builds the notifier that mails the reviewers inbox
// when a task enters review.
func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail, reviewersEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer:    dialer,
		from:      fromEmail,
		reviewers: reviewersEmail,
	}
}

func (s *emailService) SendReviewRequestedEmail(task *models.Task, changedBy string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", s.reviewers)
	m.SetHeader("Subject", fmt.Sprintf("Task #%d is pending review", task.ID))

	body := fmt.Sprintf(`
		<h3>Task pending review</h3>
		<p><b>%s</b> (task #%d) was submitted for review by %s.</p>
		<p>A manager needs to approve or cancel it.</p>
	`, task.Name, task.ID, changedBy)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send review email: %w", err)
	}
	return nil
}
