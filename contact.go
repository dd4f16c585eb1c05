package main

import (
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/Zachkp/portfolio-builder/internal/config"
)

var headerSafe = strings.NewReplacer("\r", " ", "\n", " ")

var (
	errSMTPNotConfigured = errors.New("SMTP credentials not configured")
	errNoRecipient       = errors.New("TO_EMAIL not configured")
)

// contactMessage is a visitor's submission from the previewed contact section.
type contactMessage struct {
	Name    string `form:"fullName" binding:"required,max=120"`
	Email   string `form:"email" binding:"required,email"`
	Message string `form:"message" binding:"required,max=5000"`
}

type mailer interface {
	send(msg contactMessage) error
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type smtpMailer struct {
	cfg      config.SMTP
	sendMail sendMailFunc // nil means smtp.SendMail
}

// send mails msg to the configured owner address. The address shown in the contact
// section is visitor-editable and never used as a recipient.
func (m smtpMailer) send(msg contactMessage) error {
	if !m.cfg.Configured() {
		return errSMTPNotConfigured
	}
	if m.cfg.To == "" {
		return errNoRecipient
	}
	sendMail := m.sendMail
	if sendMail == nil {
		sendMail = smtp.SendMail
	}

	to := m.cfg.To
	body := composeContactEmail(m.cfg.User, to, msg)
	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	if err := sendMail(m.cfg.Host+":"+m.cfg.Port, auth, m.cfg.User, []string{to}, body); err != nil {
		return fmt.Errorf("send mail via %s: %w", m.cfg.Host, err)
	}
	return nil
}

func composeContactEmail(from, to string, msg contactMessage) []byte {
	subject := fmt.Sprintf("Portfolio Contact: %s", headerSafe.Replace(msg.Name))
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form
`, msg.Name, msg.Email, msg.Message)

	return []byte("To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + from + "\r\n" +
		"Reply-To: " + msg.Email + "\r\n" +
		"\r\n" +
		body + "\r\n")
}
