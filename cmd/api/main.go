package main

import (
	"context"
	"fmt"
	"log"
	"time"

	common_api "mailflow/internal/common/api"
	"mailflow/internal/config"
	"mailflow/internal/database"
	"mailflow/internal/features/ai"
	"mailflow/internal/features/auth"
	"mailflow/internal/features/campaign"
	"mailflow/internal/features/credential"
	"mailflow/internal/features/email"
	"mailflow/internal/features/notification"
	"mailflow/internal/features/template"
	"mailflow/internal/features/user"
	"mailflow/internal/logger"
	"mailflow/internal/middleware"
	"mailflow/pkg/crypto"
	"mailflow/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware(cfg.FrontendURL))

	// Uploaded attachments are served back at the configured URL prefix.
	app.Static(cfg.FSURL, cfg.FSPath)

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	for _, route := range routes {
		route.Setup(app)
	}
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// InitializeIndexes ensures that necessary database indexes are created
func InitializeIndexes(lc fx.Lifecycle, userRepo user.UserRepository, templateRepo template.TemplateRepository) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := userRepo.EnsureIndexes(ctx); err != nil {
					log.Printf("Failed to ensure user indexes: %v", err)
				}
				if err := templateRepo.EnsureIndexes(ctx); err != nil {
					log.Printf("Failed to ensure template indexes: %v", err)
				}
			}()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Initialize Database
			database.NewDatabase,

			// Credential encryption
			func(cfg *config.Config) (*crypto.Cipher, error) {
				return crypto.NewCipher(cfg.CryptoKey)
			},

			// Initialize Repository
			user.NewUserRepository,
			credential.NewCredentialRepository,
			template.NewTemplateRepository,
			campaign.NewCampaignRepository,
			ai.NewChatRepository,

			// Outbound mail and realtime events
			email.NewSMTPGateway,
			notification.NewHub,
			func(h *notification.Hub) notification.Publisher { return h },
			ai.NewOpenRouterProvider,

			auth.NewAuthService,
			user.NewUserService,
			credential.NewCredentialService,
			template.NewTemplateService,
			campaign.NewCampaignService,
			email.NewEmailService,
			ai.NewAIService,

			// Initialize Controller
			auth.NewAuthController,
			user.NewUserController,
			credential.NewCredentialController,
			template.NewTemplateController,
			campaign.NewCampaignController,
			email.NewEmailController,
			ai.NewAIController,
			notification.NewWebSocketController,

			// Initialize API Routes
			AsRoute(auth.NewAuthApi),
			AsRoute(user.NewUserApi),
			AsRoute(credential.NewCredentialApi),
			AsRoute(template.NewTemplateApi),
			AsRoute(campaign.NewCampaignApi),
			AsRoute(email.NewEmailApi),
			AsRoute(ai.NewAIApi),
			AsRoute(notification.NewWebSocketApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			func(cfg *config.Config) { utils.SetSecret(cfg.JWTSecret) },
			RegisterAllRoutesWithAnnotation,
			StartServer,
			InitializeIndexes,
		),
	)

	app.Run()
}
