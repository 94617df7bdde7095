package mailer

import (
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

type Receipt struct {
	ToEmail   string
	FullName  string
	Plan      string
	PeriodEnd *time.Time
}

type IEmailService interface {
	SendReceipt(receipt Receipt) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
	frontendURL string
}

func NewEmailService(host string, port int, username, password, senderName, frontendURL string) IEmailService {
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: username,
		senderName:  senderName,
		frontendURL: frontendURL,
	}
}

func (s *emailService) SendReceipt(receipt Receipt) error {
	m := BuildReceipt(s.senderEmail, s.senderName, s.frontendURL, receipt)
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send receipt to %s: %w", receipt.ToEmail, err)
	}
	return nil
}

// BuildReceipt renders the subscription confirmation message.
func BuildReceipt(senderEmail, senderName, frontendURL string, receipt Receipt) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", senderEmail, senderName)
	m.SetHeader("To", receipt.ToEmail)
	m.SetHeader("Subject", "Your Notekeeper Pro subscription is active")

	renewal := "Your plan renews automatically."
	if receipt.PeriodEnd != nil {
		renewal = fmt.Sprintf("Your current period ends on %s.", receipt.PeriodEnd.Format("2 January 2006"))
	}

	name := receipt.FullName
	if name == "" {
		name = "there"
	}

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Hi %s, welcome to %s!</h2>
			<p>Your payment went through and unlimited notes and folders are unlocked.</p>
			<p>%s</p>
			<a href="%s/settings/billing" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Manage subscription</a>
		</div>
	`, name, receipt.Plan, renewal, frontendURL)

	m.SetBody("text/html", body)
	return m
}

// NopEmailService is used when SMTP is not configured.
type NopEmailService struct{}

func (NopEmailService) SendReceipt(Receipt) error {
	return nil
}
