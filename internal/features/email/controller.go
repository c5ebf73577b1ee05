package email

import (
	"errors"
	"os"
	"path/filepath"

	"mailflow/internal/config"
	"mailflow/internal/features/campaign"
	"mailflow/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EmailController struct {
	Service EmailService
	Config  *config.Config
}

func NewEmailController(service EmailService, cfg *config.Config) *EmailController {
	return &EmailController{Service: service, Config: cfg}
}

func ownerID(ctx *fiber.Ctx) (primitive.ObjectID, error) {
	claims := middleware.Claims(ctx)
	if claims == nil {
		return primitive.NilObjectID, errors.New("missing user claims")
	}
	return primitive.ObjectIDFromHex(claims.UserID)
}

// saveAttachment stores the optional uploaded resume under the configured
// upload directory. The stored name is randomized; the original filename is
// kept for the MIME part.
func (c *EmailController) saveAttachment(ctx *fiber.Ctx) (*Attachment, error) {
	file, err := ctx.FormFile("resume")
	if err != nil {
		// No file attached
		return nil, nil
	}

	if err := os.MkdirAll(c.Config.FSPath, 0o755); err != nil {
		return nil, err
	}

	stored := filepath.Join(c.Config.FSPath, uuid.NewString()+filepath.Ext(file.Filename))
	if err := ctx.SaveFile(file, stored); err != nil {
		return nil, err
	}

	return &Attachment{Filename: file.Filename, Path: stored}, nil
}

// SendBulk accepts a multipart form with the campaign fields and a
// recipients text blob, and runs the full send pipeline before responding.
func (c *EmailController) SendBulk(ctx *fiber.Ctx) error {
	owner, err := ownerID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	att, err := c.saveAttachment(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "fail", "message": err.Error()})
	}

	req := BulkRequest{
		CampaignName:   ctx.FormValue("campaignName"),
		Subject:        ctx.FormValue("subject"),
		Content:        ctx.FormValue("content"),
		CredentialID:   ctx.FormValue("credentialId"),
		RecipientsText: ctx.FormValue("recipients"),
		Attachment:     att,
	}

	result, err := c.Service.SendBulk(ctx.UserContext(), owner, req)
	if errors.Is(err, ErrNoRecipients) {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": err.Error(),
		})
	}
	if err != nil && result == nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to send bulk emails. Check server logs for details.",
		})
	}
	if err != nil {
		// Credential resolution failed: the campaign exists and is fully
		// marked failed.
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":     "error",
			"message":    result.Message,
			"campaignId": result.CampaignID,
		})
	}

	return ctx.JSON(fiber.Map{
		"status":     "success",
		"message":    result.Message,
		"campaignId": result.CampaignID,
		"stats": fiber.Map{
			"sent":   result.SentCount,
			"failed": result.FailedCount,
			"total":  result.TotalRecipients,
		},
	})
}

// SendSingle sends to one recipient, tracked as a campaign of size one.
func (c *EmailController) SendSingle(ctx *fiber.Ctx) error {
	owner, err := ownerID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	att, err := c.saveAttachment(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "fail", "message": err.Error()})
	}

	senderName := ctx.FormValue("senderName")
	if senderName == "" {
		if claims := middleware.Claims(ctx); claims != nil {
			senderName = claims.Name
		}
	}

	req := SingleRequest{
		To:           ctx.FormValue("to"),
		Subject:      ctx.FormValue("subject"),
		Content:      ctx.FormValue("content"),
		CredentialID: ctx.FormValue("credentialId"),
		HRName:       ctx.FormValue("hrName"),
		Company:      ctx.FormValue("company"),
		Position:     ctx.FormValue("position"),
		SenderName:   senderName,
		Attachment:   att,
	}

	result, err := c.Service.SendSingle(ctx.UserContext(), owner, req)
	if errors.Is(err, ErrNoRecipients) {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "A valid recipient address is required.",
		})
	}
	if err != nil && result == nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to send email. Check server logs for details.",
		})
	}
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":     "error",
			"message":    result.Message,
			"campaignId": result.CampaignID,
		})
	}

	// A size-one campaign ends up completed or failed; the record already
	// reflects the failure, the response must too.
	if result.Status == campaign.StatusFailed {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":     "error",
			"message":    "Failed to send email. Check server logs for details.",
			"campaignId": result.CampaignID,
		})
	}

	return ctx.JSON(fiber.Map{
		"status":     "success",
		"message":    "Email sent and recorded successfully!",
		"campaignId": result.CampaignID,
	})
}
