package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"collab-marketplace/handlers"
	"collab-marketplace/middleware"
	"collab-marketplace/models"
	"collab-marketplace/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 1 * 1024 * 1024, // JSON only
	})

	// 🔐 GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	// Load allowed origins from environment variable
	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-Session-Token, X-User-ID, X-User-Email",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Profile{},
		&models.Brand{},
		&models.Contract{},
		&models.SavedContract{},
		&models.Application{},
		&models.Bid{},
		&models.CreatorPublicProfile{},
		&models.CollaborationRequest{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	profileService := services.NewProfileService(db)
	contractService := services.NewContractService(db)
	applicationService := services.NewApplicationService(db)
	bidService := services.NewBidService(db)
	creatorProfileService := services.NewCreatorProfileService(db)

	// Optional direct session validation against the auth service; when unset
	// the Gateway's identity headers are the only path.
	var authClient *services.AuthServiceClient
	if authURL := os.Getenv("AUTH_SERVICE_URL"); authURL != "" {
		authToken := os.Getenv("AUTH_SERVICE_TOKEN")
		if authToken == "" {
			log.Fatal("AUTH_SERVICE_TOKEN must be set when AUTH_SERVICE_URL is configured")
		}
		authClient = services.NewAuthServiceClient(authURL, authToken)
	}
	app.Use(middleware.UserContextMiddleware(authClient))

	bidService.StartExpirySweeper()

	handlers.SetupProfileRoutes(app, profileService)
	handlers.SetupContractRoutes(app, contractService)
	handlers.SetupApplicationRoutes(app, applicationService, bidService)
	handlers.SetupCreatorProfileRoutes(app, creatorProfileService)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5300"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Println("✅ Bid expiry sweeper running (every 1m)")
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
