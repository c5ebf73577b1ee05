package credential

import (
	"errors"

	"mailflow/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CredentialController struct {
	Service CredentialService
}

func NewCredentialController(service CredentialService) *CredentialController {
	return &CredentialController{Service: service}
}

func ownerID(ctx *fiber.Ctx) (primitive.ObjectID, error) {
	claims := middleware.Claims(ctx)
	if claims == nil {
		return primitive.NilObjectID, errors.New("missing user claims")
	}
	return primitive.ObjectIDFromHex(claims.UserID)
}

type createCredentialRequest struct {
	Email       string   `json:"email"`
	AppPassword string   `json:"appPassword"`
	Provider    Provider `json:"provider"`
}

// Create stores a new sender identity. The app password is encrypted before
// it reaches the database and never echoed back.
func (c *CredentialController) Create(ctx *fiber.Ctx) error {
	owner, err := ownerID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	var req createCredentialRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	created, err := c.Service.CreateCredential(ctx.UserContext(), owner, req.Email, req.AppPassword, req.Provider)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "data": created})
}

// List returns the user's stored sender identities
func (c *CredentialController) List(ctx *fiber.Ctx) error {
	owner, err := ownerID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	credentials, err := c.Service.ListCredentials(ctx.UserContext(), owner)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{"status": "success", "data": credentials})
}

// Get returns one credential (without its secret)
func (c *CredentialController) Get(ctx *fiber.Ctx) error {
	owner, err := ownerID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	found, err := c.Service.GetCredential(ctx.UserContext(), ctx.Params("id"), owner)
	if errors.Is(err, ErrCredentialNotFound) {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Credential not found"})
	}
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{"status": "success", "data": found})
}

// Delete removes a stored sender identity
func (c *CredentialController) Delete(ctx *fiber.Ctx) error {
	owner, err := ownerID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	err = c.Service.DeleteCredential(ctx.UserContext(), ctx.Params("id"), owner)
	if errors.Is(err, ErrCredentialNotFound) {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Credential not found"})
	}
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.SendStatus(fiber.StatusNoContent)
}
