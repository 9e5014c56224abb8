package main

import (
	"log"
	"time"

	"makhraj/backend/cache"
	"makhraj/backend/config"
	"makhraj/backend/middleware"
	"makhraj/backend/routes"
	"makhraj/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize database
	db, err := utils.InitDB(cfg)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}

	// Calendar-day basis for the daily progression
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatalf("Error loading timezone %q: %v", cfg.Timezone, err)
	}

	// Initialize logger
	logger := utils.InitLogger()

	// Leaderboard cache
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	lbCache := cache.NewLeaderboard(redisClient)

	// Create Fiber app
	app := fiber.New()

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	// Setup routes
	routes.SetupRoutes(app, db, lbCache, cfg, logger, loc)

	// Start server
	log.Fatal(app.Listen(":" + cfg.ServerPort))
}
