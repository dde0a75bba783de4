package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"card-collection-system/handlers"
	"card-collection-system/models"
	"card-collection-system/services"
	"card-collection-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	seed := flag.Bool("seed", false, "wipe and repopulate demo data, then exit")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable not set")
	}

	tokenTTL := 7 * 24 * time.Hour
	if raw := os.Getenv("JWT_EXPIRES_IN"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			log.Fatalf("invalid JWT_EXPIRES_IN %q: %v", raw, err)
		}
		tokenTTL = ttl
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Album{},
		&models.Card{},
		&models.UserCard{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	if *seed {
		if err := services.SeedDatabase(db); err != nil {
			log.Fatal("seeding failed:", err)
		}
		log.Println("✅ Database seeded")
		return
	}

	if err := utils.InitStorage(); err != nil {
		log.Fatal("failed to initialize storage client:", err)
	}
	if !utils.StorageConfigured() {
		log.Println("⚠️  R2 storage not configured, artwork uploads go to ./uploads")
		if err := utils.EnsureUploadDir(); err != nil {
			log.Fatal("failed to ensure upload dir:", err)
		}
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // 10MB, artwork uploads only
	})

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000"
	}
	originsList := strings.Split(allowedOrigins, ",")
	for i, origin := range originsList {
		originsList[i] = strings.TrimSpace(origin)
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(originsList, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		sqlDB, err := db.DB()
		if err != nil || sqlDB.Ping() != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success":   false,
				"message":   "Health check failed",
				"timestamp": time.Now().UTC(),
				"database":  "disconnected",
			})
		}
		return c.JSON(fiber.Map{
			"success":   true,
			"message":   "Server is running",
			"timestamp": time.Now().UTC(),
			"database":  "connected",
		})
	})

	authService := services.NewAuthService(db, jwtSecret, tokenTTL)
	userService := services.NewUserService(db)
	albumService := services.NewAlbumService(db)
	cardService := services.NewCardService(db)
	collectionService := services.NewCollectionService(db)

	handlers.SetupAuthRoutes(app, authService)
	handlers.SetupUserRoutes(app, userService, jwtSecret)
	handlers.SetupAlbumRoutes(app, albumService, jwtSecret)
	handlers.SetupCardRoutes(app, cardService, collectionService, jwtSecret)

	app.Static("/uploads", "./uploads")

	cardService.StartRecountScheduler(10 * time.Minute)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Println("✅ Album counter reconciliation running (every 10m)")
	log.Printf("✅ CORS configured for origins: %s", strings.Join(originsList, ","))

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
