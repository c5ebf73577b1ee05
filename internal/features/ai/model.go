package ai

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is a single turn in a completion request.
type Message struct {
	Role    string `json:"role" bson:"role"`
	Content string `json:"content" bson:"content"`
}

// ChatMessage is a persisted turn, with the time it was recorded.
type ChatMessage struct {
	Role    string    `json:"role" bson:"role"`
	Content string    `json:"content" bson:"content"`
	At      time.Time `json:"at" bson:"at"`
}

// Chat is a stored conversation. Description is a short AI-generated
// summary used as the chat title in the sidebar.
type Chat struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	User        primitive.ObjectID `json:"user" bson:"user"`
	Description string             `json:"description" bson:"description"`
	Messages    []ChatMessage      `json:"messages" bson:"messages"`
	CreatedAt   time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updated_at"`
}
