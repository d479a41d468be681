// Package mailer renders account emails and hands them to a delivery backend.
package mailer

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Message is a rendered email.
type Message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Sender delivers rendered messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Mailer builds confirmation and password reset emails.
type Mailer struct {
	sender    Sender
	templates *template.Template
	appURL    string
	from      string
}

func New(sender Sender, appURL, from string) (*Mailer, error) {
	tpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse mail templates: %w", err)
	}

	return &Mailer{
		sender:    sender,
		templates: tpl,
		appURL:    strings.TrimRight(appURL, "/"),
		from:      from,
	}, nil
}

type templateData struct {
	Name string
	URL  string
}

func (m *Mailer) SendConfirmation(ctx context.Context, to, name, token string) error {
	return m.send(ctx, to, "Please confirm your VH7 account", "confirm.html", templateData{
		Name: name,
		URL:  m.appURL + "/users/confirm?token=" + url.QueryEscape(token),
	})
}

func (m *Mailer) SendPasswordReset(ctx context.Context, to, name, token string) error {
	return m.send(ctx, to, "Reset your VH7 password", "reset.html", templateData{
		Name: name,
		URL:  m.appURL + "/users/password/reset?token=" + url.QueryEscape(token),
	})
}

func (m *Mailer) send(ctx context.Context, to, subject, tpl string, data templateData) error {
	var body bytes.Buffer
	if err := m.templates.ExecuteTemplate(&body, tpl, data); err != nil {
		return fmt.Errorf("render %s: %w", tpl, err)
	}

	return m.sender.Send(ctx, Message{
		From:    m.from,
		To:      to,
		Subject: subject,
		HTML:    body.String(),
	})
}

// LogSender writes messages to the log instead of delivering them.
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("email not delivered, no mail queue configured",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("html", msg.HTML),
	)
	return nil
}
