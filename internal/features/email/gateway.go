package email

import (
	"context"

	"mailflow/internal/features/credential"
)

// Attachment references an uploaded file reused identically for every
// recipient in a batch.
type Attachment struct {
	Filename string
	Path     string
}

// OutboundEmail is a fully resolved message: sender identity, one recipient,
// rendered subject and body.
type OutboundEmail struct {
	From        credential.Sender
	FromName    string
	To          string
	Subject     string
	Body        string
	Attachments []Attachment
}

// Gateway performs delivery of a single message. Implementations return the
// provider message identifier on success; any error is captured verbatim
// into the recipient entry by the send pipeline.
type Gateway interface {
	Send(ctx context.Context, msg OutboundEmail) (messageID string, err error)
}
