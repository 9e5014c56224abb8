package controllers

import (
	"context"
	"errors"
	"log"
	"strconv"

	"makhraj/backend/cache"
	"makhraj/backend/config"
	"makhraj/backend/models"
	"makhraj/backend/services"
	"makhraj/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var errNotEnoughEnergy = errors.New("not enough energy")

type QuizController struct {
	DB          *gorm.DB
	Cfg         *config.Config
	Leaderboard *cache.Leaderboard
	Logger      *log.Logger
}

func NewQuizController(db *gorm.DB, cfg *config.Config, leaderboard *cache.Leaderboard, logger *log.Logger) *QuizController {
	return &QuizController{DB: db, Cfg: cfg, Leaderboard: leaderboard, Logger: logger}
}

// GetQuizzes godoc
// @Summary List quizzes
// @Description Returns quizzes with the caller's attempt usage
// @Tags quizzes
// @Accept json
// @Produce json
// @Param group query string false "Filter by makhraj group"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /quizzes [get]
func (qc *QuizController) GetQuizzes(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, qc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	group := c.Query("group")

	query := qc.DB.Model(&models.Quiz{})
	if group != "" {
		query = query.Where("makhraj_group = ?", group)
	}

	var quizzes []models.Quiz
	if err := query.Find(&quizzes).Error; err != nil {
		return utils.InternalServerError(c, "Failed to fetch quizzes")
	}

	var result []map[string]interface{}
	for _, quiz := range quizzes {
		var attemptsUsed int64
		qc.DB.Model(&models.QuizAttempt{}).
			Where("user_id = ? AND quiz_id = ?", userID, quiz.ID).
			Count(&attemptsUsed)

		result = append(result, map[string]interface{}{
			"id":               quiz.ID,
			"title":            quiz.Title,
			"short_desc":       quiz.ShortDesc,
			"difficulty":       quiz.Difficulty,
			"makhraj_group":    quiz.MakhrajGroup,
			"logo_url":         quiz.LogoURL,
			"energy_cost":      quiz.EnergyCost,
			"attempts_allowed": quiz.AttemptsAllowed,
			"attempts_used":    attemptsUsed,
		})
	}

	return utils.Success(c, fiber.StatusOK, result)
}

// GetQuizDetails godoc
// @Summary Get a quiz with its questions
// @Description Returns quiz questions with correct answers stripped
// @Tags quizzes
// @Accept json
// @Produce json
// @Param id path int true "Quiz ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /quizzes/{id} [get]
func (qc *QuizController) GetQuizDetails(c *fiber.Ctx) error {
	quizID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid quiz ID")
	}

	var quiz models.Quiz
	if err := qc.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("sequence_order")
	}).First(&quiz, quizID).Error; err != nil {
		return utils.NotFound(c, "Quiz not found")
	}

	// Never ship the answer key to the client
	questions := make([]map[string]interface{}, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		questions = append(questions, map[string]interface{}{
			"id":             q.ID,
			"prompt":         q.Prompt,
			"audio_url":      q.AudioURL,
			"options":        q.Options,
			"sequence_order": q.SequenceOrder,
		})
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"id":          quiz.ID,
		"title":       quiz.Title,
		"description": quiz.Description,
		"energy_cost": quiz.EnergyCost,
		"questions":   questions,
	})
}

type submitAnswer struct {
	QuestionID uint `json:"question_id"`
	Selected   int  `json:"selected"`
}

// SubmitAttempt godoc
// @Summary Submit a quiz attempt
// @Description Spends energy, grades the answers and awards XP and points
// @Tags quizzes
// @Accept json
// @Produce json
// @Param id path int true "Quiz ID"
// @Param answers body map[string]interface{} true "Submitted answers"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /quizzes/{id}/attempts [post]
func (qc *QuizController) SubmitAttempt(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, qc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	quizID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid quiz ID")
	}

	var input struct {
		Answers []submitAnswer `json:"answers"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var quiz models.Quiz
	if err := qc.DB.Preload("Questions").First(&quiz, quizID).Error; err != nil {
		return utils.NotFound(c, "Quiz not found")
	}

	var attemptsUsed int64
	qc.DB.Model(&models.QuizAttempt{}).
		Where("user_id = ? AND quiz_id = ?", userID, quiz.ID).
		Count(&attemptsUsed)
	if quiz.AttemptsAllowed > 0 && attemptsUsed >= int64(quiz.AttemptsAllowed) {
		return utils.BadRequest(c, "No attempts left")
	}

	var profile models.Profile
	if err := qc.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return utils.NotFound(c, "Profile not found")
	}
	if profile.Energy < quiz.EnergyCost {
		return utils.BadRequest(c, "Not enough energy")
	}

	answers := make(map[uint]int, len(input.Answers))
	for _, a := range input.Answers {
		answers[a.QuestionID] = a.Selected
	}
	score := services.ScoreQuiz(quiz.Questions, answers)

	attempt := models.QuizAttempt{
		UserID:         userID,
		QuizID:         quiz.ID,
		QuestionsTotal: score.Total,
		CorrectAnswers: score.Correct,
		Score:          score.Score,
		XPEarned:       score.XPEarned,
		PointsEarned:   score.PointsEarned,
	}

	// Energy spend, reward grant and attempt record move together
	err = qc.DB.Transaction(func(tx *gorm.DB) error {
		// Conditional decrement: a concurrent attempt must not drive energy negative
		spend := tx.Model(&models.Profile{}).
			Where("user_id = ? AND energy >= ?", userID, quiz.EnergyCost).
			Updates(map[string]interface{}{
				"energy": gorm.Expr("energy - ?", quiz.EnergyCost),
				"xp":     gorm.Expr("xp + ?", score.XPEarned),
				"points": gorm.Expr("points + ?", score.PointsEarned),
			})
		if spend.Error != nil {
			return spend.Error
		}
		if spend.RowsAffected == 0 {
			return errNotEnoughEnergy
		}
		return tx.Create(&attempt).Error
	})
	if err != nil {
		if errors.Is(err, errNotEnoughEnergy) {
			return utils.BadRequest(c, "Not enough energy")
		}
		return utils.InternalServerError(c, "Could not record attempt")
	}

	// Keep the cached ranking warm; a failure only delays the next rebuild
	if qc.Leaderboard != nil {
		var user models.User
		if err := qc.DB.First(&user, userID).Error; err == nil {
			if err := qc.Leaderboard.SetScore(context.Background(), userID, user.Username, profile.XP+score.XPEarned); err != nil {
				qc.Logger.Printf("leaderboard: score update failed for user %d: %v", userID, err)
			}
		}
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"message":       "Attempt recorded",
		"score":         score.Score,
		"correct":       score.Correct,
		"total":         score.Total,
		"xp_earned":     score.XPEarned,
		"points_earned": score.PointsEarned,
		"energy_left":   profile.Energy - quiz.EnergyCost,
	})
}

// GetQuizResult godoc
// @Summary Get latest quiz result
// @Tags quizzes
// @Accept json
// @Produce json
// @Param id path int true "Quiz ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /quizzes/{id}/result [get]
func (qc *QuizController) GetQuizResult(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, qc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	quizID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid quiz ID")
	}

	var attempt models.QuizAttempt
	if err := qc.DB.Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("created_at DESC").
		First(&attempt).Error; err != nil {
		return utils.NotFound(c, "No attempts for this quiz")
	}

	return utils.Success(c, fiber.StatusOK, attempt)
}

// CreateQuiz godoc
// @Summary Create a quiz (admin)
// @Tags admin
// @Accept json
// @Produce json
// @Param quiz body models.Quiz true "Quiz data"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/quizzes [post]
func (qc *QuizController) CreateQuiz(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, qc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var quiz models.Quiz
	if err := c.BodyParser(&quiz); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if quiz.Title == "" {
		return utils.BadRequest(c, "Title is required")
	}

	quiz.AuthorID = userID
	if quiz.EnergyCost <= 0 {
		quiz.EnergyCost = 1
	}

	if err := qc.DB.Create(&quiz).Error; err != nil {
		return utils.InternalServerError(c, "Could not create quiz")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"message": "Quiz created",
		"quiz":    quiz,
	})
}

// AddQuestion godoc
// @Summary Add a question to a quiz (admin)
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Quiz ID"
// @Param question body models.QuizQuestion true "Question data"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/quizzes/{id}/questions [post]
func (qc *QuizController) AddQuestion(c *fiber.Ctx) error {
	quizID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid quiz ID")
	}

	var quiz models.Quiz
	if err := qc.DB.First(&quiz, quizID).Error; err != nil {
		return utils.NotFound(c, "Quiz not found")
	}

	var question models.QuizQuestion
	if err := c.BodyParser(&question); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	question.QuizID = quiz.ID

	if err := qc.DB.Create(&question).Error; err != nil {
		return utils.InternalServerError(c, "Could not create question")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"message":  "Question added",
		"question": question,
	})
}
