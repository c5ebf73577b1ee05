package email

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"net"
	"net/smtp"
	"os"
	"strings"

	"mailflow/internal/config"
	"mailflow/internal/features/credential"

	"github.com/google/uuid"
)

// SMTPGateway delivers mail over authenticated SMTP with STARTTLS, using the
// submission host that matches the credential's provider.
type SMTPGateway struct {
	cfg *config.Config
}

func NewSMTPGateway(cfg *config.Config) Gateway {
	return &SMTPGateway{cfg: cfg}
}

func (g *SMTPGateway) hostFor(provider credential.Provider) (string, int) {
	switch provider {
	case credential.ProviderGmail:
		return "smtp.gmail.com", 587
	case credential.ProviderOutlook:
		return "smtp.office365.com", 587
	case credential.ProviderYahoo:
		return "smtp.mail.yahoo.com", 587
	default:
		return g.cfg.SMTPHost, g.cfg.SMTPPort
	}
}

func (g *SMTPGateway) Send(ctx context.Context, msg OutboundEmail) (string, error) {
	host, port := g.hostFor(msg.From.Provider)
	addr := fmt.Sprintf("%s:%d", host, port)

	conn, err := (&net.Dialer{}).DialContext(ctx, "tcp", addr)
	if err != nil {
		return "", fmt.Errorf("connect to %s: %w", addr, err)
	}
	// The context deadline bounds the whole SMTP conversation, not just the
	// dial.
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		conn.Close()
		return "", err
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: host}); err != nil {
			return "", err
		}
	}

	auth := smtp.PlainAuth("", msg.From.Email, msg.From.Password, host)
	if err := client.Auth(auth); err != nil {
		return "", fmt.Errorf("smtp auth failed: %w", err)
	}

	if err := client.Mail(msg.From.Email); err != nil {
		return "", err
	}
	if err := client.Rcpt(msg.To); err != nil {
		return "", err
	}

	messageID := newMessageID(msg.From.Email)
	body, err := buildMessage(msg, messageID)
	if err != nil {
		return "", err
	}

	w, err := client.Data()
	if err != nil {
		return "", err
	}
	if _, err := w.Write(body); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	if err := client.Quit(); err != nil {
		return "", err
	}

	return messageID, nil
}

func newMessageID(fromEmail string) string {
	domain := "mailflow.local"
	if at := strings.LastIndex(fromEmail, "@"); at >= 0 {
		domain = fromEmail[at+1:]
	}
	return fmt.Sprintf("<%s@%s>", uuid.NewString(), domain)
}

// buildMessage assembles the RFC 5322 message, as multipart/mixed when an
// attachment is present.
func buildMessage(msg OutboundEmail, messageID string) ([]byte, error) {
	from := msg.From.Email
	if msg.FromName != "" {
		from = fmt.Sprintf("%q <%s>", msg.FromName, msg.From.Email)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(&b, "Message-ID: %s\r\n", messageID)
	b.WriteString("MIME-Version: 1.0\r\n")

	if len(msg.Attachments) == 0 {
		b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
		b.WriteString("\r\n")
		b.WriteString(msg.Body)
		return []byte(b.String()), nil
	}

	boundary := strings.ReplaceAll(uuid.NewString(), "-", "")
	fmt.Fprintf(&b, "Content-Type: multipart/mixed; boundary=%s\r\n", boundary)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	b.WriteString("\r\n")

	for _, att := range msg.Attachments {
		data, err := os.ReadFile(att.Path)
		if err != nil {
			return nil, fmt.Errorf("read attachment %s: %w", att.Filename, err)
		}

		fmt.Fprintf(&b, "--%s\r\n", boundary)
		b.WriteString("Content-Type: application/octet-stream\r\n")
		b.WriteString("Content-Transfer-Encoding: base64\r\n")
		fmt.Fprintf(&b, "Content-Disposition: attachment; filename=%q\r\n", att.Filename)
		b.WriteString("\r\n")

		encoded := base64.StdEncoding.EncodeToString(data)
		// 76-character lines per RFC 2045
		for len(encoded) > 76 {
			b.WriteString(encoded[:76])
			b.WriteString("\r\n")
			encoded = encoded[76:]
		}
		b.WriteString(encoded)
		b.WriteString("\r\n")
	}

	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return []byte(b.String()), nil
}
