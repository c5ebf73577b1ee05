package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mailflow/internal/features/notification"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	ErrChatNotFound = errors.New("chat not found")
	ErrEmptyMessage = errors.New("message is required")
	ErrChatNotEmpty = errors.New("chat is not empty")
)

const (
	chatSystemPrompt = "You are a helpful AI assistant. Always provide the full, detailed answer in one response, unless the user specifically asks for a summary."
	mailSystemPrompt = "You are an expert email assistant."

	personalizeMaxTokens = 500
	descriptionMaxTokens = 20
	chatMaxTokens        = 2048
)

type PersonalizeRequest struct {
	Content    string `json:"content"`
	Recipient  string `json:"recipient"`
	Company    string `json:"company"`
	Resume     string `json:"resume"`
	Linkedin   string `json:"linkedin"`
	Prompt     string `json:"prompt"`
	HRName     string `json:"hrName"`
	SenderName string `json:"senderName"`
}

// ChatSummary is the sidebar view of a chat, without its messages.
type ChatSummary struct {
	ID          primitive.ObjectID `json:"id"`
	Description string             `json:"description"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

type AIService interface {
	Personalize(ctx context.Context, req PersonalizeRequest) (string, error)
	ChatTurn(ctx context.Context, owner primitive.ObjectID, chatID, message string) (*Chat, string, error)
	CreateChat(ctx context.Context, owner primitive.ObjectID) (*Chat, error)
	ListRecent(ctx context.Context, owner primitive.ObjectID, skip, limit int64) ([]ChatSummary, error)
	GetMessages(ctx context.Context, chatID string, owner primitive.ObjectID) ([]ChatMessage, error)
	RenameChat(ctx context.Context, chatID string, owner primitive.ObjectID, description string) (*Chat, error)
	DeleteChat(ctx context.Context, chatID string, owner primitive.ObjectID) error
	DeleteEmptyChat(ctx context.Context, chatID string, owner primitive.ObjectID) error
}

type AIServiceImpl struct {
	Repo      ChatRepository
	Provider  CompletionProvider
	Publisher notification.Publisher
	Logger    *zap.Logger
}

func NewAIService(repo ChatRepository, provider CompletionProvider, publisher notification.Publisher, logger *zap.Logger) AIService {
	return &AIServiceImpl{
		Repo:      repo,
		Provider:  provider,
		Publisher: publisher,
		Logger:    logger,
	}
}

func (s *AIServiceImpl) Personalize(ctx context.Context, req PersonalizeRequest) (string, error) {
	if strings.TrimSpace(req.Content) == "" {
		return "", errors.New("email content is required")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Personalize the following email for the recipient using any available details (company: %s, LinkedIn: %s, resume: %s",
		fallback(req.Company), fallback(req.Linkedin), fallback(req.Resume))
	if req.HRName != "" {
		fmt.Fprintf(&b, ", hiring manager name: %s", req.HRName)
	}
	if req.SenderName != "" {
		fmt.Fprintf(&b, ", sender name: %s", req.SenderName)
	}
	b.WriteString(").")
	if req.Prompt != "" {
		fmt.Fprintf(&b, "\n\nCustom instructions: %s", req.Prompt)
	}
	fmt.Fprintf(&b, "\n\nEmail draft:\n%s", req.Content)

	return s.Provider.Complete(ctx, []Message{
		{Role: "system", Content: mailSystemPrompt},
		{Role: "user", Content: b.String()},
	}, personalizeMaxTokens)
}

// ChatTurn appends the user's message, generates the assistant reply, and
// persists both. An empty chatID starts a new conversation.
func (s *AIServiceImpl) ChatTurn(ctx context.Context, owner primitive.ObjectID, chatID, message string) (*Chat, string, error) {
	if strings.TrimSpace(message) == "" {
		return nil, "", ErrEmptyMessage
	}

	var chat *Chat
	isNew := chatID == ""
	if isNew {
		chat = &Chat{User: owner, Messages: []ChatMessage{}}
	} else {
		found, err := s.Repo.FindByIDAndOwner(ctx, chatID, owner)
		if err != nil {
			return nil, "", err
		}
		chat = found
	}

	chat.Messages = append(chat.Messages, ChatMessage{Role: "user", Content: message, At: time.Now()})

	// First user message names the chat.
	if len(chat.Messages) == 1 {
		desc, err := s.Provider.Complete(ctx, []Message{
			{Role: "system", Content: "You are a helpful AI assistant."},
			{Role: "user", Content: fmt.Sprintf("Summarize this chat in 5-6 words: %s", message)},
		}, descriptionMaxTokens)
		if err != nil {
			s.Logger.Warn("failed to generate chat description", zap.Error(err))
			desc = ""
		}
		chat.Description = strings.Trim(strings.TrimSpace(desc), `"`)
	}

	history := make([]Message, 0, len(chat.Messages)+1)
	history = append(history, Message{Role: "system", Content: chatSystemPrompt})
	for _, m := range chat.Messages {
		history = append(history, Message{Role: m.Role, Content: m.Content})
	}

	reply, err := s.Provider.Complete(ctx, history, chatMaxTokens)
	if err != nil {
		return nil, "", err
	}

	chat.Messages = append(chat.Messages, ChatMessage{Role: "assistant", Content: reply, At: time.Now()})

	if isNew {
		err = s.Repo.Create(ctx, chat)
	} else {
		err = s.Repo.Update(ctx, chat)
	}
	if err != nil {
		return nil, "", err
	}

	s.Publisher.Publish("chat:updated", map[string]any{
		"id":          chat.ID,
		"description": chat.Description,
	})

	return chat, reply, nil
}

func (s *AIServiceImpl) CreateChat(ctx context.Context, owner primitive.ObjectID) (*Chat, error) {
	chat := &Chat{User: owner, Messages: []ChatMessage{}}
	if err := s.Repo.Create(ctx, chat); err != nil {
		return nil, err
	}

	s.Publisher.Publish("chat:new", map[string]any{
		"id":          chat.ID,
		"createdAt":   chat.CreatedAt,
		"updatedAt":   chat.UpdatedAt,
		"description": chat.Description,
	})

	return chat, nil
}

func (s *AIServiceImpl) ListRecent(ctx context.Context, owner primitive.ObjectID, skip, limit int64) ([]ChatSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	if skip < 0 {
		skip = 0
	}

	chats, err := s.Repo.ListRecent(ctx, owner, skip, limit)
	if err != nil {
		return nil, err
	}

	summaries := make([]ChatSummary, 0, len(chats))
	for _, c := range chats {
		summaries = append(summaries, ChatSummary{
			ID:          c.ID,
			Description: c.Description,
			CreatedAt:   c.CreatedAt,
			UpdatedAt:   c.UpdatedAt,
		})
	}
	return summaries, nil
}

func (s *AIServiceImpl) GetMessages(ctx context.Context, chatID string, owner primitive.ObjectID) ([]ChatMessage, error) {
	chat, err := s.Repo.FindByIDAndOwner(ctx, chatID, owner)
	if err != nil {
		return nil, err
	}
	return chat.Messages, nil
}

func (s *AIServiceImpl) RenameChat(ctx context.Context, chatID string, owner primitive.ObjectID, description string) (*Chat, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, errors.New("description is required")
	}

	chat, err := s.Repo.FindByIDAndOwner(ctx, chatID, owner)
	if err != nil {
		return nil, err
	}

	chat.Description = description
	if err := s.Repo.Update(ctx, chat); err != nil {
		return nil, err
	}

	s.Publisher.Publish("chat:updated", map[string]any{
		"id":          chat.ID,
		"description": chat.Description,
	})

	return chat, nil
}

func (s *AIServiceImpl) DeleteChat(ctx context.Context, chatID string, owner primitive.ObjectID) error {
	if err := s.Repo.Delete(ctx, chatID, owner); err != nil {
		return err
	}

	s.Publisher.Publish("chat:deleted", map[string]any{"id": chatID})
	return nil
}

func (s *AIServiceImpl) DeleteEmptyChat(ctx context.Context, chatID string, owner primitive.ObjectID) error {
	chat, err := s.Repo.FindByIDAndOwner(ctx, chatID, owner)
	if err != nil {
		return err
	}
	if len(chat.Messages) > 0 {
		return ErrChatNotEmpty
	}

	if err := s.Repo.Delete(ctx, chatID, owner); err != nil {
		return err
	}

	s.Publisher.Publish("chat:deleted", map[string]any{"id": chatID})
	return nil
}

func fallback(v string) string {
	if v == "" {
		return "N/A"
	}
	return v
}
