package utils

import (
	"fmt"
	"makhraj/backend/config"
	"makhraj/backend/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitDB opens the Postgres connection and migrates the schema
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
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
	); err != nil {
		return nil, err
	}

	return db, nil
}
