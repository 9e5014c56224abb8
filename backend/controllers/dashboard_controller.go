package controllers

import (
	"time"

	"makhraj/backend/config"
	"makhraj/backend/models"
	"makhraj/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type DashboardController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewDashboardController(db *gorm.DB, cfg *config.Config) *DashboardController {
	return &DashboardController{DB: db, Cfg: cfg}
}

// GetTeacherDashboard godoc
// @Summary Teacher dashboard
// @Description Per-letter completion, quiz averages and active students
// @Tags dashboards
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /teacher/dashboard [get]
func (dc *DashboardController) GetTeacherDashboard(c *fiber.Ctx) error {
	// Completion per letter across all students
	var letterStats []struct {
		LetterID     uint   `json:"letter_id"`
		LatinName    string `json:"latin_name"`
		MakhrajGroup string `json:"makhraj_group"`
		Completed    int64  `json:"completed"`
		Attempted    int64  `json:"attempted"`
	}

	dc.DB.Raw(`
		SELECT l.id as letter_id, l.latin_name, l.makhraj_group,
		COUNT(ulp.id) FILTER (WHERE ulp.completed) as completed,
		COUNT(ulp.id) as attempted
		FROM letters l
		LEFT JOIN user_letter_progresses ulp ON ulp.letter_id = l.id AND ulp.deleted_at IS NULL
		WHERE l.deleted_at IS NULL
		GROUP BY l.id, l.latin_name, l.makhraj_group
		ORDER BY l.sequence_order
	`).Scan(&letterStats)

	// Quiz averages
	var quizStats []struct {
		QuizID   uint    `json:"quiz_id"`
		Title    string  `json:"title"`
		Attempts int64   `json:"attempts"`
		AvgScore float64 `json:"avg_score"`
	}

	dc.DB.Raw(`
		SELECT q.id as quiz_id, q.title,
		COUNT(qa.id) as attempts,
		COALESCE(AVG(qa.score), 0) as avg_score
		FROM quizzes q
		LEFT JOIN quiz_attempts qa ON qa.quiz_id = q.id AND qa.deleted_at IS NULL
		WHERE q.deleted_at IS NULL
		GROUP BY q.id, q.title
		ORDER BY attempts DESC
	`).Scan(&quizStats)

	// Students active over the last week
	var activeStudents int64
	dc.DB.Model(&models.Profile{}).
		Where("last_progress_at > ?", time.Now().AddDate(0, 0, -7)).
		Count(&activeStudents)

	var avgStreak float64
	dc.DB.Model(&models.Profile{}).Select("COALESCE(AVG(streak), 0)").Scan(&avgStreak)

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"letter_stats":    letterStats,
		"quiz_stats":      quizStats,
		"active_students": activeStudents,
		"avg_streak":      avgStreak,
	})
}

// GetAdminDashboard godoc
// @Summary Admin platform metrics
// @Tags dashboards
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/dashboard [get]
func (dc *DashboardController) GetAdminDashboard(c *fiber.Ctx) error {
	var metrics struct {
		TotalUsers    int64   `json:"total_users"`
		ActiveUsers   int64   `json:"active_users"`
		NewUsers      int64   `json:"new_users"`
		TotalLetters  int64   `json:"total_letters"`
		TotalQuizzes  int64   `json:"total_quizzes"`
		TotalMessages int64   `json:"total_messages"`
		AvgQuizScore  float64 `json:"avg_quiz_score"`
		PointsInShop  int64   `json:"points_spent_in_shop"`
	}

	dc.DB.Model(&models.User{}).Count(&metrics.TotalUsers)
	dc.DB.Model(&models.LoginHistory{}).
		Where("login_time > ?", time.Now().AddDate(0, 0, -30)).
		Distinct("user_id").
		Count(&metrics.ActiveUsers)
	dc.DB.Model(&models.User{}).
		Where("created_at > ?", time.Now().AddDate(0, 0, -7)).
		Count(&metrics.NewUsers)
	dc.DB.Model(&models.Letter{}).Count(&metrics.TotalLetters)
	dc.DB.Model(&models.Quiz{}).Count(&metrics.TotalQuizzes)
	dc.DB.Model(&models.Message{}).Count(&metrics.TotalMessages)
	dc.DB.Model(&models.QuizAttempt{}).
		Select("COALESCE(AVG(score), 0)").Scan(&metrics.AvgQuizScore)
	dc.DB.Model(&models.Purchase{}).
		Select("COALESCE(SUM(price_paid), 0)").Scan(&metrics.PointsInShop)

	// Registration trend
	var userGrowth []map[string]interface{}
	dc.DB.Raw(`
		SELECT DATE(created_at) as date, COUNT(*) as users
		FROM users
		WHERE deleted_at IS NULL
		GROUP BY DATE(created_at)
		ORDER BY date
	`).Scan(&userGrowth)

	// Best sellers
	var popularItems []map[string]interface{}
	dc.DB.Raw(`
		SELECT si.id, si.name, COUNT(p.id) as purchases
		FROM shop_items si
		LEFT JOIN purchases p ON p.item_id = si.id AND p.deleted_at IS NULL
		WHERE si.deleted_at IS NULL
		GROUP BY si.id, si.name
		ORDER BY purchases DESC
		LIMIT 5
	`).Scan(&popularItems)

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"metrics":       metrics,
		"user_growth":   userGrowth,
		"popular_items": popularItems,
		"timestamp":     time.Now().Format(time.RFC3339),
	})
}
