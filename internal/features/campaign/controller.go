package campaign

import (
	"errors"

	"mailflow/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CampaignController struct {
	Service CampaignService
}

func NewCampaignController(service CampaignService) *CampaignController {
	return &CampaignController{Service: service}
}

func ownerID(ctx *fiber.Ctx) (primitive.ObjectID, error) {
	claims := middleware.Claims(ctx)
	if claims == nil {
		return primitive.NilObjectID, errors.New("missing user claims")
	}
	return primitive.ObjectIDFromHex(claims.UserID)
}

type createCampaignRequest struct {
	Name       string      `json:"name"`
	Subject    string      `json:"subject"`
	Template   string      `json:"template"`
	Recipients []Recipient `json:"recipients"`
}

// Create stores a draft campaign
func (c *CampaignController) Create(ctx *fiber.Ctx) error {
	owner, err := ownerID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	var req createCampaignRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	created, err := c.Service.CreateDraft(ctx.UserContext(), owner, req.Name, req.Subject, req.Template, req.Recipients)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "data": created})
}

// List returns the user's campaigns, newest first
func (c *CampaignController) List(ctx *fiber.Ctx) error {
	owner, err := ownerID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	campaigns, err := c.Service.ListCampaigns(ctx.UserContext(), owner)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{"status": "success", "data": campaigns})
}

// Get returns one campaign with its full recipient list
func (c *CampaignController) Get(ctx *fiber.Ctx) error {
	owner, err := ownerID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	found, err := c.Service.GetCampaign(ctx.UserContext(), ctx.Params("id"), owner)
	if errors.Is(err, ErrCampaignNotFound) {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Campaign not found"})
	}
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{"status": "success", "data": found})
}

type updateCampaignRequest struct {
	Name     string `json:"name"`
	Subject  string `json:"subject"`
	Template string `json:"template"`
}

// Update edits a campaign's display fields
func (c *CampaignController) Update(ctx *fiber.Ctx) error {
	owner, err := ownerID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	var req updateCampaignRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	updated, err := c.Service.UpdateCampaign(ctx.UserContext(), ctx.Params("id"), owner, req.Name, req.Subject, req.Template)
	if errors.Is(err, ErrCampaignNotFound) {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Campaign not found"})
	}
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{"status": "success", "data": updated})
}

// Delete removes a campaign and all of its recipient entries
func (c *CampaignController) Delete(ctx *fiber.Ctx) error {
	owner, err := ownerID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	err = c.Service.DeleteCampaign(ctx.UserContext(), ctx.Params("id"), owner)
	if errors.Is(err, ErrCampaignNotFound) {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Campaign not found"})
	}
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.SendStatus(fiber.StatusNoContent)
}

// Stats returns the dashboard summary
func (c *CampaignController) Stats(ctx *fiber.Ctx) error {
	owner, err := ownerID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	stats, err := c.Service.GetStats(ctx.UserContext(), owner)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(stats)
}
