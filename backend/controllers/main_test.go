package controllers_test

import (
	"os"
	"testing"
	"time"

	"makhraj/backend/config"
	"makhraj/backend/models"
	"makhraj/backend/routes"
	"makhraj/backend/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	app      *fiber.App
	db       *gorm.DB
	cfg      *config.Config
	loc      *time.Location
	testUser models.User
	jwtToken string
)

func TestMain(m *testing.M) {
	setup()
	code := m.Run()
	teardown()
	os.Exit(code)
}

func setup() {
	cfg = &config.Config{
		DBHost:     "localhost",
		DBPort:     "5432",
		DBUser:     "postgres",
		DBPassword: "postgres",
		DBName:     "makhraj_app_test",
		JWTSecret:  "testsecret",
		ServerPort: "8080",
		Timezone:   "Asia/Jakarta",
	}

	var err error
	db, err = utils.InitDB(cfg)
	if err != nil {
		panic(err)
	}

	loc, err = time.LoadLocation(cfg.Timezone)
	if err != nil {
		panic(err)
	}

	logger := utils.InitLogger()

	app = fiber.New()
	routes.SetupRoutes(app, db, nil, cfg, logger, loc)

	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	testUser = models.User{
		Username:     "testuser",
		Email:        "test@example.com",
		PasswordHash: string(hash),
	}
	db.Create(&testUser)
	db.Create(&models.Profile{UserID: testUser.ID, Streak: 0, Energy: 5})

	jwtToken, _ = utils.GenerateJWTToken(testUser.ID, cfg)
}

func teardown() {
	db.Migrator().DropTable(
		&models.User{},
		&models.Profile{},
		&models.LoginHistory{},
		&models.Letter{},
		&models.UserLetterProgress{},
		&models.Quiz{},
		&models.QuizQuestion{},
		&models.QuizAttempt{},
		&models.ShopItem{},
		&models.InventoryItem{},
		&models.Purchase{},
		&models.Message{},
	)
}

func adminToken() string {
	var admin models.User
	if err := db.Where("username = ?", "adminuser").First(&admin).Error; err != nil {
		hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
		admin = models.User{
			Username:     "adminuser",
			Email:        "admin@example.com",
			PasswordHash: string(hash),
			Role:         "admin",
		}
		db.Create(&admin)
		db.Create(&models.Profile{UserID: admin.ID, Energy: 5})
	}
	token, _ := utils.GenerateJWTToken(admin.ID, cfg)
	return token
}
