package controllers

import (
	"errors"
	"log"
	"strconv"
	"time"

	"makhraj/backend/config"
	"makhraj/backend/models"
	"makhraj/backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ProgressionController owns the daily streak/energy update. Now is a field
// so tests can pin the clock; the evaluator itself never reads wall time.
type ProgressionController struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Logger *log.Logger
	Loc    *time.Location
	Now    func() time.Time
}

func NewProgressionController(db *gorm.DB, cfg *config.Config, logger *log.Logger, loc *time.Location) *ProgressionController {
	return &ProgressionController{
		DB:     db,
		Cfg:    cfg,
		Logger: logger,
		Loc:    loc,
		Now:    time.Now,
	}
}

// Progress godoc
// @Summary Apply the daily streak/energy progression
// @Description Extends or resets the streak and replenishes energy once per calendar day
// @Tags progression
// @Accept json
// @Produce json
// @Param request body map[string]interface{} true "User identifier"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /progression [post]
func (pc *ProgressionController) Progress(c *fiber.Ctx) error {
	var input struct {
		UserID string `json:"userId"`
	}

	if err := c.BodyParser(&input); err != nil || input.UserID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "User ID is required",
		})
	}

	userID, err := strconv.ParseUint(input.UserID, 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid user ID",
		})
	}

	// A user id can match several profile rows if registration ever
	// double-fired. Tolerated: take the oldest row, but say so in the log
	// instead of masking the anomaly.
	var profiles []models.Profile
	if err := pc.DB.Where("user_id = ?", userID).Order("id").Find(&profiles).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Could not load profile",
		})
	}
	if len(profiles) == 0 {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Profile not found",
		})
	}
	if len(profiles) > 1 {
		pc.Logger.Printf("progression: user %s has %d profile rows, using id %d",
			input.UserID, len(profiles), profiles[0].ID)
	}
	profile := profiles[0]

	now := pc.Now()
	result := services.EvaluateDailyProgress(now, profile.LastProgressAt, profile.Streak, profile.Energy, pc.Loc)

	if result.Outcome == services.OutcomeAlreadyProgressed {
		return c.JSON(fiber.Map{
			"success":                true,
			"alreadyProgressedToday": true,
			"data": fiber.Map{
				"streak":     profile.Streak,
				"energy":     profile.Energy,
				"lastUpdate": profile.LastProgressAt,
			},
		})
	}

	// Conditional update on the timestamp we read: if a concurrent request
	// progressed this user first, zero rows match and no increment is lost.
	query := pc.DB.Model(&models.Profile{}).Where("id = ?", profile.ID)
	if profile.LastProgressAt == nil {
		query = query.Where("last_progress_at IS NULL")
	} else {
		query = query.Where("last_progress_at = ?", *profile.LastProgressAt)
	}

	update := query.Updates(map[string]interface{}{
		"streak":           result.NewStreak,
		"energy":           result.NewEnergy,
		"last_progress_at": now,
	})
	if update.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Could not update profile",
		})
	}

	if update.RowsAffected == 0 {
		// Either the row vanished or another request won the day.
		var current models.Profile
		if err := pc.DB.First(&current, profile.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"success": false,
					"error":   "Profile not found",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   "Could not load profile",
			})
		}
		return c.JSON(fiber.Map{
			"success":                true,
			"alreadyProgressedToday": true,
			"data": fiber.Map{
				"streak":     current.Streak,
				"energy":     current.Energy,
				"lastUpdate": current.LastProgressAt,
			},
		})
	}

	return c.JSON(fiber.Map{
		"success":                true,
		"alreadyProgressedToday": false,
		"data": fiber.Map{
			"streak":       result.NewStreak,
			"energy":       result.NewEnergy,
			"energyAdded":  result.NewEnergy - profile.Energy,
			"streakBroken": result.Outcome == services.OutcomeReset,
			"lastUpdate":   now,
		},
	})
}
