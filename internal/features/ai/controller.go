package ai

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"mailflow/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// streamLineDelay paces the line-by-line SSE replay so the client renders
// the reply progressively.
const streamLineDelay = 40 * time.Millisecond

type AIController struct {
	Service AIService
	Logger  *zap.Logger
}

func NewAIController(service AIService, logger *zap.Logger) *AIController {
	return &AIController{Service: service, Logger: logger}
}

func ownerID(ctx *fiber.Ctx) (primitive.ObjectID, error) {
	claims := middleware.Claims(ctx)
	if claims == nil {
		return primitive.NilObjectID, errors.New("missing user claims")
	}
	return primitive.ObjectIDFromHex(claims.UserID)
}

func (c *AIController) Personalize(ctx *fiber.Ctx) error {
	var req PersonalizeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	content, err := c.Service.Personalize(ctx.UserContext(), req)
	if err != nil {
		c.Logger.Error("email personalization failed", zap.Error(err))
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "AI personalization failed."})
	}

	return ctx.JSON(fiber.Map{"content": content})
}

type chatRequest struct {
	ChatID  string `json:"chatId"`
	Message string `json:"message"`
}

// Chat runs one conversation turn and replays the assistant reply to the
// client line by line over SSE.
func (c *AIController) Chat(ctx *fiber.Ctx) error {
	owner, err := ownerID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	var req chatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	chat, reply, err := c.Service.ChatTurn(ctx.UserContext(), owner, req.ChatID, req.Message)
	if errors.Is(err, ErrEmptyMessage) {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if errors.Is(err, ErrChatNotFound) {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Chat not found."})
	}
	if err != nil {
		c.Logger.Error("chat turn failed", zap.Error(err))
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "AI chat failed."})
	}

	ctx.Set(fiber.HeaderContentType, "text/event-stream")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set(fiber.HeaderConnection, "keep-alive")

	chatID := chat.ID.Hex()
	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		for _, line := range strings.Split(reply, "\n") {
			line = strings.TrimRight(line, "\r")
			if line == "" {
				continue
			}
			if err := writeEvent(w, fiber.Map{"line": line}); err != nil {
				return
			}
			time.Sleep(streamLineDelay)
		}
		writeEvent(w, fiber.Map{"done": true, "chatId": chatID})
	}))

	return nil
}

func writeEvent(w *bufio.Writer, payload fiber.Map) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return err
	}
	return w.Flush()
}

func (c *AIController) RecentChats(ctx *fiber.Ctx) error {
	owner, err := ownerID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	skip, _ := strconv.ParseInt(ctx.Query("skip", "0"), 10, 64)
	limit, _ := strconv.ParseInt(ctx.Query("limit", "20"), 10, 64)

	chats, err := c.Service.ListRecent(ctx.UserContext(), owner, skip, limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch recent chats."})
	}

	return ctx.JSON(fiber.Map{"data": chats})
}

func (c *AIController) CreateChat(ctx *fiber.Ctx) error {
	owner, err := ownerID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	chat, err := c.Service.CreateChat(ctx.UserContext(), owner)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create chat."})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"data": fiber.Map{"id": chat.ID, "createdAt": chat.CreatedAt}})
}

func (c *AIController) ChatMessages(ctx *fiber.Ctx) error {
	owner, err := ownerID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	messages, err := c.Service.GetMessages(ctx.UserContext(), ctx.Params("chatId"), owner)
	if errors.Is(err, ErrChatNotFound) {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Chat not found."})
	}
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch chat messages."})
	}

	return ctx.JSON(fiber.Map{"data": messages})
}

type renameChatRequest struct {
	Description string `json:"description"`
}

func (c *AIController) RenameChat(ctx *fiber.Ctx) error {
	owner, err := ownerID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	var req renameChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	chat, err := c.Service.RenameChat(ctx.UserContext(), ctx.Params("chatId"), owner, req.Description)
	if errors.Is(err, ErrChatNotFound) {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Chat not found."})
	}
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{"data": fiber.Map{"id": chat.ID, "description": chat.Description}})
}

func (c *AIController) DeleteChat(ctx *fiber.Ctx) error {
	owner, err := ownerID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	err = c.Service.DeleteChat(ctx.UserContext(), ctx.Params("chatId"), owner)
	if errors.Is(err, ErrChatNotFound) {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Chat not found."})
	}
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete chat."})
	}

	return ctx.JSON(fiber.Map{"message": "Chat deleted successfully."})
}

func (c *AIController) DeleteEmptyChat(ctx *fiber.Ctx) error {
	owner, err := ownerID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	err = c.Service.DeleteEmptyChat(ctx.UserContext(), ctx.Params("chatId"), owner)
	if errors.Is(err, ErrChatNotFound) {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Chat not found."})
	}
	if errors.Is(err, ErrChatNotEmpty) {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete chat."})
	}

	return ctx.JSON(fiber.Map{"message": "Empty chat deleted."})
}
