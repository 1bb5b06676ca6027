package mail

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func writeTemplate(t *testing.T, dir, name, content string) {
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestMailer_Render(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "cancellation.txt",
		"Hello, {{.provider}}\n\nClient: {{.user}}\nDate: {{.date}}\n")
	writeTemplate(t, dir, "cancellation.html",
		"<strong>Hello, {{.provider}}</strong><p>{{.user}} on {{.date}}</p>")

	m := NewMailer(Config{TemplatesDir: dir}, zaptest.NewLogger(t))
	data := map[string]any{
		"provider": "Barber Joe",
		"user":     "John Doe",
		"date":     "April 05th at 14:00",
	}

	plain, err := m.render("cancellation.txt", data)
	require.NoError(t, err)
	assert.Contains(t, plain, "Hello, Barber Joe")
	assert.Contains(t, plain, "Client: John Doe")
	assert.Contains(t, plain, "Date: April 05th at 14:00")

	html, err := m.render("cancellation.html", data)
	require.NoError(t, err)
	assert.Contains(t, html, "<strong>Hello, Barber Joe</strong>")
}

func TestMailer_Render_EscapesHTML(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "cancellation.html", "<p>{{.user}}</p>")

	m := NewMailer(Config{TemplatesDir: dir}, zaptest.NewLogger(t))

	html, err := m.render("cancellation.html", map[string]any{
		"user": "<script>alert(1)</script>",
	})

	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}

func TestMailer_Render_MissingTemplate(t *testing.T) {
	m := NewMailer(Config{TemplatesDir: t.TempDir()}, zaptest.NewLogger(t))

	_, err := m.render("missing.txt", nil)

	assert.Error(t, err)
}

func TestMailer_Send_MissingTemplateFailsBeforeDial(t *testing.T) {
	// No SMTP server is involved; rendering fails first
	m := NewMailer(Config{Host: "localhost", Port: 2525, TemplatesDir: t.TempDir()},
		zaptest.NewLogger(t))

	err := m.Send(Message{
		To:       "Barber Joe <joe@example.com>",
		Subject:  "Appointment canceled",
		Template: "cancellation",
	})

	assert.Error(t, err)
}
