package mail

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// EmailSender delivers over SMTP with the configured sender identity.
type EmailSender struct {
	Host      string
	Port      int
	User      string
	Password  string
	FromName  string
	FromEmail string
}

func NewEmailSender(host string, port int, user, password, fromName, fromEmail string) *EmailSender {
	return &EmailSender{
		Host:      host,
		Port:      port,
		User:      user,
		Password:  password,
		FromName:  fromName,
		FromEmail: fromEmail,
	}
}

func (s *EmailSender) Send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.FromEmail, s.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}

	return nil
}
