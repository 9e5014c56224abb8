package routes

import (
	"log"
	"time"

	"makhraj/backend/cache"
	"makhraj/backend/config"
	"makhraj/backend/controllers"
	"makhraj/backend/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, lbCache *cache.Leaderboard, cfg *config.Config, logger *log.Logger, loc *time.Location) {
	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	teacherMiddleware := middleware.TeacherMiddleware(db, cfg)
	adminMiddleware := middleware.AdminMiddleware(db, cfg)

	// Profile routes
	profileController := controllers.NewProfileController(db, cfg)
	app.Get("/api/user/profile", authMiddleware, profileController.GetProfile)
	app.Put("/api/user/profile", authMiddleware, profileController.UpdateProfile)

	// Daily progression. No auth middleware: the route keeps the legacy
	// contract of identifying the user by the posted userId.
	progressionController := controllers.NewProgressionController(db, cfg, logger, loc)
	app.Post("/api/progression", progressionController.Progress)

	// Letters routes
	lettersController := controllers.NewLettersController(db, cfg)
	letters := app.Group("/api/letters", authMiddleware)
	letters.Get("/", lettersController.GetLetters)
	letters.Get("/:id", lettersController.GetLetterDetails)
	letters.Post("/:id/complete", lettersController.CompleteLetter)

	// Quizzes routes
	quizController := controllers.NewQuizController(db, cfg, lbCache, logger)
	quizzes := app.Group("/api/quizzes", authMiddleware)
	quizzes.Get("/", quizController.GetQuizzes)
	quizzes.Get("/:id", quizController.GetQuizDetails)
	quizzes.Post("/:id/attempts", quizController.SubmitAttempt)
	quizzes.Get("/:id/result", quizController.GetQuizResult)

	// Shop routes
	shopController := controllers.NewShopController(db, cfg, loc)
	shop := app.Group("/api/shop", authMiddleware)
	shop.Get("/", shopController.GetShop)
	shop.Get("/inventory", shopController.GetInventory)
	shop.Post("/:id/buy", shopController.BuyItem)

	// Community routes
	communityController := controllers.NewCommunityController(db, cfg)
	community := app.Group("/api/community", authMiddleware)
	community.Get("/messages", communityController.GetMessages)
	community.Post("/messages", communityController.PostMessage)

	// Leaderboard
	leaderboardController := controllers.NewLeaderboardController(db, cfg, lbCache, logger)
	app.Get("/api/leaderboard", authMiddleware, leaderboardController.GetLeaderboard)

	// Dashboards
	dashboardController := controllers.NewDashboardController(db, cfg)
	app.Get("/api/teacher/dashboard", authMiddleware, teacherMiddleware, dashboardController.GetTeacherDashboard)
	app.Get("/api/admin/dashboard", authMiddleware, adminMiddleware, dashboardController.GetAdminDashboard)

	// Admin content management
	adminLetters := app.Group("/api/admin/letters", authMiddleware, adminMiddleware)
	adminLetters.Post("/", lettersController.CreateLetter)
	adminLetters.Put("/:id", lettersController.UpdateLetter)

	adminQuizzes := app.Group("/api/admin/quizzes", authMiddleware, adminMiddleware)
	adminQuizzes.Post("/", quizController.CreateQuiz)
	adminQuizzes.Post("/:id/questions", quizController.AddQuestion)

	adminShop := app.Group("/api/admin/shop", authMiddleware, adminMiddleware)
	adminShop.Post("/", shopController.CreateItem)
}
