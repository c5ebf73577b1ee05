package campaign

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Status string

const (
	StatusDraft      Status = "draft"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusPartial    Status = "partial"
	StatusFailed     Status = "failed"
)

type RecipientStatus string

const (
	RecipientPending RecipientStatus = "pending"
	RecipientSent    RecipientStatus = "sent"
	RecipientFailed  RecipientStatus = "failed"
)

// Recipient is one target address within a campaign plus its delivery
// outcome. Status moves from pending to exactly one of sent/failed and
// never reverts.
type Recipient struct {
	Email     string          `json:"email" bson:"email"`
	Name      string          `json:"name,omitempty" bson:"name,omitempty"`
	Company   string          `json:"company,omitempty" bson:"company,omitempty"`
	Position  string          `json:"position,omitempty" bson:"position,omitempty"`
	Status    RecipientStatus `json:"status" bson:"status"`
	Error     string          `json:"error,omitempty" bson:"error,omitempty"`
	SentAt    *time.Time      `json:"sent_at,omitempty" bson:"sent_at,omitempty"`
	MessageID string          `json:"message_id,omitempty" bson:"message_id,omitempty"`
}

type Campaign struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	User            primitive.ObjectID `json:"user" bson:"user"`
	Name            string             `json:"name" bson:"name"`
	Subject         string             `json:"subject" bson:"subject"`
	Template        string             `json:"template" bson:"template"`
	Recipients      []Recipient        `json:"recipients" bson:"recipients"`
	Status          Status             `json:"status" bson:"status"`
	TotalRecipients int                `json:"total_recipients" bson:"total_recipients"`
	SentCount       int                `json:"sent_count" bson:"sent_count"`
	FailedCount     int                `json:"failed_count" bson:"failed_count"`
	CreatedAt       time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at" bson:"updated_at"`
}

// New builds a campaign record. TotalRecipients is fixed here and never
// recomputed: recipients are not added after creation.
func New(user primitive.ObjectID, name, subject, template string, status Status, recipients []Recipient) *Campaign {
	return &Campaign{
		ID:              primitive.NewObjectID(),
		User:            user,
		Name:            name,
		Subject:         subject,
		Template:        template,
		Recipients:      recipients,
		Status:          status,
		TotalRecipients: len(recipients),
	}
}

// Terminal reports whether the aggregate status is final.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusPartial || s == StatusFailed
}

// TerminalStatus derives the aggregate outcome from the final counts:
// completed when nothing failed, failed when nothing was sent, partial
// otherwise.
func TerminalStatus(sent, failed int) Status {
	switch {
	case failed == 0:
		return StatusCompleted
	case sent == 0:
		return StatusFailed
	default:
		return StatusPartial
	}
}
