package controllers

import (
	"makhraj/backend/config"
	"makhraj/backend/models"
	"makhraj/backend/utils"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Rewards for completing a letter lesson for the first time.
const (
	LetterXPReward     = 15
	LetterPointsReward = 10
)

type LettersController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewLettersController(db *gorm.DB, cfg *config.Config) *LettersController {
	return &LettersController{DB: db, Cfg: cfg}
}

// GetLetters godoc
// @Summary List hijaiyah letters
// @Description Returns all letters with the caller's per-letter progress
// @Tags letters
// @Accept json
// @Produce json
// @Param group query string false "Filter by makhraj group"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /letters [get]
func (lc *LettersController) GetLetters(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, lc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	group := c.Query("group")

	query := lc.DB.Model(&models.Letter{}).Order("sequence_order")
	if group != "" {
		query = query.Where("makhraj_group = ?", group)
	}

	var letters []models.Letter
	if err := query.Find(&letters).Error; err != nil {
		return utils.InternalServerError(c, "Failed to fetch letters")
	}

	var progresses []models.UserLetterProgress
	lc.DB.Where("user_id = ?", userID).Find(&progresses)

	progressByLetter := make(map[uint]models.UserLetterProgress, len(progresses))
	for _, p := range progresses {
		progressByLetter[p.LetterID] = p
	}

	var result []map[string]interface{}
	for _, letter := range letters {
		p := progressByLetter[letter.ID]
		result = append(result, map[string]interface{}{
			"id":             letter.ID,
			"arabic":         letter.Arabic,
			"latin_name":     letter.LatinName,
			"makhraj_group":  letter.MakhrajGroup,
			"audio_url":      letter.AudioURL,
			"sequence_order": letter.SequenceOrder,
			"completed":      p.Completed,
			"attempts":       p.Attempts,
		})
	}

	return utils.Success(c, fiber.StatusOK, result)
}

// GetLetterDetails godoc
// @Summary Get one letter
// @Description Returns a letter lesson with the caller's progress
// @Tags letters
// @Accept json
// @Produce json
// @Param id path int true "Letter ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /letters/{id} [get]
func (lc *LettersController) GetLetterDetails(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, lc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	letterID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid letter ID")
	}

	var letter models.Letter
	if err := lc.DB.First(&letter, letterID).Error; err != nil {
		return utils.NotFound(c, "Letter not found")
	}

	var progress models.UserLetterProgress
	lc.DB.Where("user_id = ? AND letter_id = ?", userID, letterID).First(&progress)

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"letter":   letter,
		"progress": progress,
	})
}

// CompleteLetter godoc
// @Summary Complete a letter lesson
// @Description Marks the letter learned and awards XP and points on first completion
// @Tags letters
// @Accept json
// @Produce json
// @Param id path int true "Letter ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /letters/{id}/complete [post]
func (lc *LettersController) CompleteLetter(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, lc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	letterID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid letter ID")
	}

	var letter models.Letter
	if err := lc.DB.First(&letter, letterID).Error; err != nil {
		return utils.NotFound(c, "Letter not found")
	}

	var progress models.UserLetterProgress
	firstCompletion := false
	if err := lc.DB.Where("user_id = ? AND letter_id = ?", userID, letterID).First(&progress).Error; err != nil {
		progress = models.UserLetterProgress{
			UserID:    userID,
			LetterID:  uint(letterID),
			Completed: true,
			Attempts:  1,
		}
		firstCompletion = true
		if err := lc.DB.Create(&progress).Error; err != nil {
			return utils.InternalServerError(c, "Could not save progress")
		}
	} else {
		firstCompletion = !progress.Completed
		progress.Completed = true
		progress.Attempts++
		if err := lc.DB.Save(&progress).Error; err != nil {
			return utils.InternalServerError(c, "Could not save progress")
		}
	}

	// Rewards only once per letter, re-practicing is free
	xpEarned, pointsEarned := 0, 0
	if firstCompletion {
		xpEarned, pointsEarned = LetterXPReward, LetterPointsReward
		if err := lc.DB.Model(&models.Profile{}).
			Where("user_id = ?", userID).
			Updates(map[string]interface{}{
				"xp":     gorm.Expr("xp + ?", xpEarned),
				"points": gorm.Expr("points + ?", pointsEarned),
			}).Error; err != nil {
			return utils.InternalServerError(c, "Could not award rewards")
		}
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"message":       "Letter completed",
		"progress":      progress,
		"xp_earned":     xpEarned,
		"points_earned": pointsEarned,
	})
}

// CreateLetter godoc
// @Summary Create a letter (admin)
// @Tags admin
// @Accept json
// @Produce json
// @Param letter body models.Letter true "Letter data"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/letters [post]
func (lc *LettersController) CreateLetter(c *fiber.Ctx) error {
	var letter models.Letter
	if err := c.BodyParser(&letter); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if letter.Arabic == "" || letter.LatinName == "" {
		return utils.BadRequest(c, "Arabic glyph and latin name are required")
	}

	if err := lc.DB.Create(&letter).Error; err != nil {
		return utils.InternalServerError(c, "Could not create letter")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"message": "Letter created",
		"letter":  letter,
	})
}

// UpdateLetter godoc
// @Summary Update a letter (admin)
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Letter ID"
// @Param letter body models.Letter true "Letter data"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/letters/{id} [put]
func (lc *LettersController) UpdateLetter(c *fiber.Ctx) error {
	letterID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid letter ID")
	}

	var letter models.Letter
	if err := lc.DB.First(&letter, letterID).Error; err != nil {
		return utils.NotFound(c, "Letter not found")
	}

	var input models.Letter
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Arabic != "" {
		letter.Arabic = input.Arabic
	}
	if input.LatinName != "" {
		letter.LatinName = input.LatinName
	}
	if input.MakhrajGroup != "" {
		letter.MakhrajGroup = input.MakhrajGroup
	}
	if input.Description != "" {
		letter.Description = input.Description
	}
	if input.AudioURL != "" {
		letter.AudioURL = input.AudioURL
	}
	if input.SequenceOrder != 0 {
		letter.SequenceOrder = input.SequenceOrder
	}

	if err := lc.DB.Save(&letter).Error; err != nil {
		return utils.InternalServerError(c, "Could not update letter")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"message": "Letter updated",
		"letter":  letter,
	})
}
