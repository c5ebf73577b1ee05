package credential

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Provider string

const (
	ProviderGmail   Provider = "gmail"
	ProviderOutlook Provider = "outlook"
	ProviderYahoo   Provider = "yahoo"
	ProviderOther   Provider = "other"
)

func (p Provider) Valid() bool {
	switch p {
	case ProviderGmail, ProviderOutlook, ProviderYahoo, ProviderOther:
		return true
	}
	return false
}

// Credential is a stored sender identity. AppPassword holds the encrypted
// form ("hex(iv):hex(ciphertext)") and is never serialized to clients.
type Credential struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	User        primitive.ObjectID `json:"user" bson:"user"`
	Email       string             `json:"email" bson:"email"`
	AppPassword string             `json:"-" bson:"app_password"`
	Provider    Provider           `json:"provider" bson:"provider"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// Sender is a resolved identity with the secret decrypted. It lives only for
// the duration of one send batch and is never persisted or logged.
type Sender struct {
	Email    string
	Password string
	Provider Provider
}
