package main

import (
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Zachkp/portfolio-builder/internal/config"
	"github.com/Zachkp/portfolio-builder/internal/content"
	"github.com/Zachkp/portfolio-builder/internal/section"
)

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"Go", "SQL"}, splitList(" Go, ,SQL ,"))
	assert.Nil(t, splitList(""))
}

func TestProjectsFormApply(t *testing.T) {
	p := content.Defaults()
	f := &projectsForm{
		Heading:      " Work ",
		Titles:       []string{"Mail", "", "Music"},
		Descriptions: []string{"client", "ignored"},
		URLs:         []string{"https://example.com"},
		Tags:         []string{"Go, TUI", "", "Go"},
	}
	f.apply(&p)

	assert.Equal(t, content.Projects{
		Heading: "Work",
		Items: []content.Project{
			{Title: "Mail", Description: "client", URL: "https://example.com", Tags: []string{"Go", "TUI"}},
			{Title: "Music", Tags: []string{"Go"}},
		},
	}, p.Projects)
}

func TestNewSectionForm(t *testing.T) {
	for _, info := range section.All() {
		assert.NotNil(t, newSectionForm(info.ID), info.ID)
	}
	assert.Nil(t, newSectionForm(section.ID("footer")))
}

func TestComposeContactEmail(t *testing.T) {
	msg := composeContactEmail("me@example.com", "you@example.com", contactMessage{
		Name:    "Eve\r\nBcc: victim@example.com",
		Email:   "eve@example.com",
		Message: "hello",
	})
	headers, body, found := strings.Cut(string(msg), "\r\n\r\n")
	assert.True(t, found)
	assert.Contains(t, headers, "To: you@example.com\r\n")
	assert.Contains(t, headers, "Subject: Portfolio Contact: Eve  Bcc: victim@example.com\r\n")
	assert.NotContains(t, headers, "\r\nBcc:")
	assert.Contains(t, body, "hello")
}

func TestSMTPMailerRequiresCredentials(t *testing.T) {
	err := smtpMailer{}.send(contactMessage{})
	assert.ErrorIs(t, err, errSMTPNotConfigured)
}

func TestSMTPMailerRequiresRecipient(t *testing.T) {
	called := false
	m := smtpMailer{
		cfg: config.SMTP{Host: "smtp.example.com", Port: "587", User: "site@example.com", Pass: "secret"},
		sendMail: func(string, smtp.Auth, string, []string, []byte) error {
			called = true
			return nil
		},
	}
	assert.ErrorIs(t, m.send(contactMessage{Name: "Grace"}), errNoRecipient)
	assert.False(t, called)
}
