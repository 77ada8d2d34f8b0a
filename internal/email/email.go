// Package email delivers account emails: verification links and password resets.
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// Message is a rendered outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers a rendered message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Mailer renders account emails and hands them to a Sender.
type Mailer struct {
	sender      Sender
	frontendURL string
	logger      zerolog.Logger
}

// NewMailer creates a Mailer building links against frontendURL.
func NewMailer(sender Sender, frontendURL string, logger zerolog.Logger) *Mailer {
	return &Mailer{
		sender:      sender,
		frontendURL: frontendURL,
		logger:      logger.With().Str("component", "email").Logger(),
	}
}

type linkData struct {
	Name        string
	Link        string
	ValidFor    string
	CurrentYear int
}

var (
	verificationTemplate = template.Must(template.New("verification").Parse(`<p>Hello {{.Name}},</p>
<p>Please confirm your email address to activate your account:</p>
<p><a href="{{.Link}}">Verify email</a></p>
<p>This link is valid for {{.ValidFor}}.</p>
<p>&copy; {{.CurrentYear}} Event Management</p>`))

	passwordResetTemplate = template.Must(template.New("password_reset").Parse(`<p>Hello {{.Name}},</p>
<p>We received a request to reset your password. Use the link below to choose a new one:</p>
<p><a href="{{.Link}}">Reset password</a></p>
<p>This link is valid for {{.ValidFor}}. If you did not request a reset you can ignore this email.</p>
<p>&copy; {{.CurrentYear}} Event Management</p>`))
)

// SendVerification sends the email-verification link.
func (m *Mailer) SendVerification(ctx context.Context, to, name, token string, validFor time.Duration) error {
	return m.send(ctx, to, "Verify your email address", verificationTemplate, linkData{
		Name:     name,
		Link:     m.link("/verify-email", token),
		ValidFor: validFor.String(),
	})
}

// SendPasswordReset sends the password-reset link.
func (m *Mailer) SendPasswordReset(ctx context.Context, to, name, token string, validFor time.Duration) error {
	return m.send(ctx, to, "Reset your password", passwordResetTemplate, linkData{
		Name:     name,
		Link:     m.link("/reset-password", token),
		ValidFor: validFor.String(),
	})
}

func (m *Mailer) link(path, token string) string {
	return m.frontendURL + path + "?token=" + url.QueryEscape(token)
}

func (m *Mailer) send(ctx context.Context, to, subject string, tmpl *template.Template, data linkData) error {
	data.CurrentYear = time.Now().Year()

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render %s email: %w", tmpl.Name(), err)
	}

	if err := m.sender.Send(ctx, Message{To: to, Subject: subject, HTML: body.String()}); err != nil {
		return fmt.Errorf("failed to send %s email: %w", tmpl.Name(), err)
	}
	m.logger.Debug().Str("to", to).Str("template", tmpl.Name()).Msg("email sent")
	return nil
}

// LogSender logs messages instead of delivering them.
type LogSender struct {
	logger zerolog.Logger
}

// NewLogSender creates a Sender for environments without email delivery.
func NewLogSender(logger zerolog.Logger) *LogSender {
	return &LogSender{logger: logger.With().Str("component", "email").Logger()}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Msg("email service disabled, skipping email")
	return nil
}
