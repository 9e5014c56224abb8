package controllers

import (
	"strconv"
	"strings"

	"makhraj/backend/config"
	"makhraj/backend/models"
	"makhraj/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CommunityController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewCommunityController(db *gorm.DB, cfg *config.Config) *CommunityController {
	return &CommunityController{DB: db, Cfg: cfg}
}

// GetMessages godoc
// @Summary List community messages
// @Description Returns paginated messages for a channel, newest first
// @Tags community
// @Accept json
// @Produce json
// @Param channel query string false "Channel name" default(general)
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} utils.PaginatedResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /community/messages [get]
func (cc *CommunityController) GetMessages(c *fiber.Ctx) error {
	channel := c.Query("channel", "general")
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	query := cc.DB.Model(&models.Message{}).Where("channel = ?", channel)

	var total int64
	query.Count(&total)

	var messages []models.Message
	if err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&messages).Error; err != nil {
		return utils.InternalServerError(c, "Failed to fetch messages")
	}

	return utils.Paginate(c, messages, total, page, pageSize)
}

// PostMessage godoc
// @Summary Post a community message
// @Tags community
// @Accept json
// @Produce json
// @Param message body map[string]interface{} true "Message data"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /community/messages [post]
func (cc *CommunityController) PostMessage(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		Channel string `json:"channel"`
		Text    string `json:"text"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	input.Text = strings.TrimSpace(input.Text)
	if input.Text == "" {
		return utils.BadRequest(c, "Message text is required")
	}
	if input.Channel == "" {
		input.Channel = "general"
	}

	var user models.User
	if err := cc.DB.First(&user, userID).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}

	message := models.Message{
		Channel:   input.Channel,
		UserID:    userID,
		UserName:  user.Username,
		UserImage: user.AvatarURL,
		Text:      input.Text,
	}

	if err := cc.DB.Create(&message).Error; err != nil {
		return utils.InternalServerError(c, "Could not create message")
	}

	return utils.Success(c, fiber.StatusOK, message)
}
