package email

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mailflow/internal/config"
	"mailflow/internal/features/credential"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostForProvider(t *testing.T) {
	g := &SMTPGateway{cfg: &config.Config{SMTPHost: "mail.example.com", SMTPPort: 2525}}

	host, port := g.hostFor(credential.ProviderGmail)
	assert.Equal(t, "smtp.gmail.com", host)
	assert.Equal(t, 587, port)

	host, _ = g.hostFor(credential.ProviderOutlook)
	assert.Equal(t, "smtp.office365.com", host)

	host, _ = g.hostFor(credential.ProviderYahoo)
	assert.Equal(t, "smtp.mail.yahoo.com", host)

	// Unknown providers fall back to the configured relay.
	host, port = g.hostFor(credential.ProviderOther)
	assert.Equal(t, "mail.example.com", host)
	assert.Equal(t, 2525, port)
}

func TestNewMessageID(t *testing.T) {
	id := newMessageID("alice@gmail.com")
	assert.True(t, strings.HasPrefix(id, "<"))
	assert.True(t, strings.HasSuffix(id, "@gmail.com>"))

	// Two ids for the same sender never collide.
	assert.NotEqual(t, id, newMessageID("alice@gmail.com"))

	assert.True(t, strings.HasSuffix(newMessageID("no-at-sign"), "@mailflow.local>"))
}

func TestBuildMessagePlain(t *testing.T) {
	msg := OutboundEmail{
		From:    credential.Sender{Email: "alice@gmail.com"},
		To:      "bob@x.com",
		Subject: "Hello",
		Body:    "Plain body",
	}

	raw, err := buildMessage(msg, "<id@gmail.com>")
	require.NoError(t, err)

	text := string(raw)
	assert.Contains(t, text, "From: alice@gmail.com\r\n")
	assert.Contains(t, text, "To: bob@x.com\r\n")
	assert.Contains(t, text, "Subject: Hello\r\n")
	assert.Contains(t, text, "Message-ID: <id@gmail.com>\r\n")
	assert.Contains(t, text, "Content-Type: text/plain")
	assert.True(t, strings.HasSuffix(text, "Plain body"))
	assert.NotContains(t, text, "multipart/mixed")
}

func TestBuildMessageWithFromName(t *testing.T) {
	msg := OutboundEmail{
		From:     credential.Sender{Email: "alice@gmail.com"},
		FromName: "Alice Smith",
		To:       "bob@x.com",
	}

	raw, err := buildMessage(msg, "<id@gmail.com>")
	require.NoError(t, err)
	assert.Contains(t, string(raw), `From: "Alice Smith" <alice@gmail.com>`)
}

func TestBuildMessageWithAttachment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.pdf")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", 200)), 0o644))

	msg := OutboundEmail{
		From:        credential.Sender{Email: "alice@gmail.com"},
		To:          "bob@x.com",
		Subject:     "Application",
		Body:        "See attached.",
		Attachments: []Attachment{{Filename: "resume.pdf", Path: path}},
	}

	raw, err := buildMessage(msg, "<id@gmail.com>")
	require.NoError(t, err)

	text := string(raw)
	assert.Contains(t, text, "Content-Type: multipart/mixed; boundary=")
	assert.Contains(t, text, `Content-Disposition: attachment; filename="resume.pdf"`)
	assert.Contains(t, text, "Content-Transfer-Encoding: base64")

	// Base64 payload is wrapped to 76-character lines.
	for _, line := range strings.Split(text, "\r\n") {
		assert.LessOrEqual(t, len(line), 998)
	}
}

func TestBuildMessageMissingAttachment(t *testing.T) {
	msg := OutboundEmail{
		From:        credential.Sender{Email: "alice@gmail.com"},
		To:          "bob@x.com",
		Attachments: []Attachment{{Filename: "gone.pdf", Path: "/does/not/exist"}},
	}

	_, err := buildMessage(msg, "<id@gmail.com>")
	assert.Error(t, err)
}
