package notification

import (
	"fmt"

	"codboost/internal/models"

	pkgerrors "github.com/pkg/errors"
	gomail "gopkg.in/gomail.v2"
)

// ErrNotConfigured means the shop never filled in its email settings.
var ErrNotConfigured = pkgerrors.New("email not configured")

const gmailHost = "smtp.gmail.com"

type Sender interface {
	Send(cfg models.EmailSettings, from string, to []string, subject, body string) error
}

// SMTPSender delivers mail through the shop's configured provider.
type SMTPSender struct{}

func (SMTPSender) Send(cfg models.EmailSettings, from string, to []string, subject, body string) error {
	var d *gomail.Dialer
	switch cfg.EmailService {
	case "gmail":
		d = gomail.NewDialer(gmailHost, 587, cfg.GmailAddress, cfg.GmailPassword)
	case "smtp":
		d = gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	default:
		return ErrNotConfigured
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	return d.DialAndSend(m)
}

// senderAddress builds the From header from the shop's settings.
func senderAddress(s models.Settings) (string, error) {
	email := s.Email.SenderEmail
	if email == "" && s.Email.EmailService == "gmail" {
		email = s.Email.GmailAddress
	}
	if email == "" {
		return "", ErrNotConfigured
	}
	name := s.Email.SenderName
	if name == "" {
		name = s.General.CompanyName
	}
	if name == "" {
		return email, nil
	}
	return fmt.Sprintf("%q <%s>", name, email), nil
}

func emailConfigured(s models.Settings) bool {
	switch s.Email.EmailService {
	case "gmail":
		return s.Email.GmailAddress != "" && s.Email.GmailPassword != ""
	case "smtp":
		return s.Email.SMTPHost != "" && s.Email.SMTPUser != "" && s.Email.SMTPPass != ""
	}
	return false
}
