package controllers

import (
	"errors"
	"log"
	"strconv"

	"makhraj/backend/cache"
	"makhraj/backend/config"
	"makhraj/backend/models"
	"makhraj/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const leaderboardMaxSize = 100

type LeaderboardController struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Cache  *cache.Leaderboard
	Logger *log.Logger
}

func NewLeaderboardController(db *gorm.DB, cfg *config.Config, lbCache *cache.Leaderboard, logger *log.Logger) *LeaderboardController {
	return &LeaderboardController{DB: db, Cfg: cfg, Cache: lbCache, Logger: logger}
}

// GetLeaderboard godoc
// @Summary Get the XP leaderboard
// @Description Returns the top users by XP, served from cache with a database fallback
// @Tags leaderboard
// @Accept json
// @Produce json
// @Param limit query int false "Number of entries" default(10)
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /leaderboard [get]
func (lc *LeaderboardController) GetLeaderboard(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if limit < 1 {
		limit = 10
	}
	if limit > leaderboardMaxSize {
		limit = leaderboardMaxSize
	}

	ctx := c.Context()

	if lc.Cache != nil {
		entries, err := lc.Cache.Top(ctx, limit)
		if err == nil {
			return utils.Success(c, fiber.StatusOK, fiber.Map{
				"entries": entries,
				"source":  "cache",
			})
		}
		if !errors.Is(err, cache.ErrLeaderboardEmpty) {
			lc.Logger.Printf("leaderboard: cache read failed: %v", err)
		}
	}

	entries, err := lc.loadFromDB(limit)
	if err != nil {
		return utils.InternalServerError(c, "Failed to fetch leaderboard")
	}

	if lc.Cache != nil {
		// Rebuild with the full window so later requests with a bigger
		// limit still hit the cache
		full, err := lc.loadFromDB(leaderboardMaxSize)
		if err == nil {
			if err := lc.Cache.Rebuild(ctx, full); err != nil {
				lc.Logger.Printf("leaderboard: cache rebuild failed: %v", err)
			}
		}
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"entries": entries,
		"source":  "database",
	})
}

func (lc *LeaderboardController) loadFromDB(limit int) ([]models.LeaderboardEntry, error) {
	var rows []struct {
		UserID   uint
		Username string
		XP       int
	}

	err := lc.DB.Raw(`
		SELECT u.id as user_id, u.username, p.xp
		FROM profiles p
		JOIN users u ON u.id = p.user_id
		WHERE u.deleted_at IS NULL AND p.deleted_at IS NULL
		ORDER BY p.xp DESC, u.id
		LIMIT ?
	`, limit).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]models.LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		entries = append(entries, models.LeaderboardEntry{
			UserID:   row.UserID,
			Username: row.Username,
			XP:       row.XP,
			Rank:     i + 1,
		})
	}
	return entries, nil
}
