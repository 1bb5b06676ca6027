// Package mail implements the outbound SMTP dispatcher. Transport
// configuration is fixed at construction and the resulting Mailer is safe
// for concurrent reuse.
package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"
)

// Config holds the SMTP transport settings and message defaults.
// An empty User disables SMTP authentication.
type Config struct {
	Host         string
	Port         int
	User         string
	Password     string
	TLS          bool
	From         string // Default sender applied when a message has none
	TemplatesDir string // Directory holding <template>.html and <template>.txt
}

// Message describes one outbound email. Context feeds the named template.
type Message struct {
	To       string
	From     string // Optional; falls back to the configured default
	Subject  string
	Template string
	Context  map[string]any
}

// Mailer sends templated email over SMTP. Fire-and-forget from the
// caller's perspective: one dial and send per call, no retries.
type Mailer struct {
	dialer *gomail.Dialer
	cfg    Config
	log    *zap.Logger
}

// NewMailer creates a Mailer with the given transport configuration.
func NewMailer(cfg Config, log *zap.Logger) *Mailer {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	dialer.SSL = cfg.TLS

	return &Mailer{dialer: dialer, cfg: cfg, log: log}
}

// Send renders the message template, merges message fields over the
// configured defaults, and dispatches one email.
func (m *Mailer) Send(msg Message) error {
	htmlBody, err := m.render(msg.Template+".html", msg.Context)
	if err != nil {
		return fmt.Errorf("failed to render html template: %w", err)
	}
	plainBody, err := m.render(msg.Template+".txt", msg.Context)
	if err != nil {
		return fmt.Errorf("failed to render plain template: %w", err)
	}

	from := msg.From
	if from == "" {
		from = m.cfg.From
	}

	out := gomail.NewMessage()
	out.SetHeader("From", from)
	out.SetHeader("To", msg.To)
	out.SetHeader("Subject", msg.Subject)
	out.SetBody("text/plain", plainBody)
	out.AddAlternative("text/html", htmlBody)

	if err := m.dialer.DialAndSend(out); err != nil {
		m.log.Error("failed to send mail",
			zap.String("to", msg.To),
			zap.String("template", msg.Template),
			zap.Error(err),
		)
		return fmt.Errorf("failed to send mail: %w", err)
	}

	m.log.Info("mail sent", zap.String("to", msg.To), zap.String("template", msg.Template))
	return nil
}

// render executes the named template file against the message context.
func (m *Mailer) render(name string, data map[string]any) (string, error) {
	path := filepath.Join(m.cfg.TemplatesDir, name)
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	tmpl, err := template.New(name).Parse(string(content))
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
