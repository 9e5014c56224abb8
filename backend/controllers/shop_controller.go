package controllers

import (
	"errors"
	"strconv"
	"time"

	"makhraj/backend/config"
	"makhraj/backend/models"
	"makhraj/backend/services"
	"makhraj/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var errInsufficientPoints = errors.New("insufficient points")

type ShopController struct {
	DB  *gorm.DB
	Cfg *config.Config
	Loc *time.Location
	Now func() time.Time
}

func NewShopController(db *gorm.DB, cfg *config.Config, loc *time.Location) *ShopController {
	return &ShopController{DB: db, Cfg: cfg, Loc: loc, Now: time.Now}
}

// GetShop godoc
// @Summary List shop items
// @Description Returns active items with today's flash sale applied
// @Tags shop
// @Accept json
// @Produce json
// @Param category query string false "Filter by category"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /shop [get]
func (sc *ShopController) GetShop(c *fiber.Ctx) error {
	category := c.Query("category")

	query := sc.DB.Model(&models.ShopItem{}).Where("active = true")
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var items []models.ShopItem
	if err := query.Order("price").Find(&items).Error; err != nil {
		return utils.InternalServerError(c, "Failed to fetch shop items")
	}

	// The sale is computed over all active items so the filter cannot
	// change which items are discounted today
	var allItems []models.ShopItem
	sc.DB.Where("active = true").Order("id").Find(&allItems)
	sale := services.SelectFlashSale(allItems, sc.Now(), sc.Loc)

	saleByItem := make(map[uint]services.FlashSaleItem, len(sale))
	for _, s := range sale {
		saleByItem[s.Item.ID] = s
	}

	var result []map[string]interface{}
	for _, item := range items {
		entry := map[string]interface{}{
			"id":          item.ID,
			"name":        item.Name,
			"description": item.Description,
			"category":    item.Category,
			"price":       item.Price,
			"image_url":   item.ImageURL,
			"stackable":   item.Stackable,
		}
		if s, ok := saleByItem[item.ID]; ok {
			entry["flash_sale"] = true
			entry["discount"] = s.Discount
			entry["sale_price"] = s.SalePrice
		}
		result = append(result, entry)
	}

	return utils.Success(c, fiber.StatusOK, result)
}

// BuyItem godoc
// @Summary Buy a shop item
// @Description Deducts points (sale price when discounted) and adds the item to the inventory
// @Tags shop
// @Accept json
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /shop/{id}/buy [post]
func (sc *ShopController) BuyItem(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, sc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	itemID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid item ID")
	}

	var item models.ShopItem
	if err := sc.DB.First(&item, itemID).Error; err != nil || !item.Active {
		return utils.NotFound(c, "Item not found")
	}

	// Non-stackable cosmetics are owned once
	if !item.Stackable {
		var owned int64
		sc.DB.Model(&models.InventoryItem{}).
			Where("user_id = ? AND item_id = ?", userID, item.ID).
			Count(&owned)
		if owned > 0 {
			return utils.BadRequest(c, "Item already owned")
		}
	}

	price := item.Price
	discount := 0
	var allItems []models.ShopItem
	sc.DB.Where("active = true").Order("id").Find(&allItems)
	for _, s := range services.SelectFlashSale(allItems, sc.Now(), sc.Loc) {
		if s.Item.ID == item.ID {
			price = s.SalePrice
			discount = s.Discount
			break
		}
	}

	var profile models.Profile
	if err := sc.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return utils.NotFound(c, "Profile not found")
	}
	if profile.Points < price {
		return utils.BadRequest(c, "Not enough points")
	}

	purchase := models.Purchase{
		UserID:    userID,
		ItemID:    item.ID,
		Reference: uuid.NewString(),
		PricePaid: price,
		Discount:  discount,
	}

	err = sc.DB.Transaction(func(tx *gorm.DB) error {
		// Conditional decrement: a stale read must not drive points negative
		spend := tx.Model(&models.Profile{}).
			Where("user_id = ? AND points >= ?", userID, price).
			Update("points", gorm.Expr("points - ?", price))
		if spend.Error != nil {
			return spend.Error
		}
		if spend.RowsAffected == 0 {
			return errInsufficientPoints
		}

		if err := tx.Create(&purchase).Error; err != nil {
			return err
		}

		var inv models.InventoryItem
		if err := tx.Where("user_id = ? AND item_id = ?", userID, item.ID).First(&inv).Error; err == nil {
			inv.Quantity++
			return tx.Save(&inv).Error
		}
		inv = models.InventoryItem{UserID: userID, ItemID: item.ID, Quantity: 1}
		return tx.Create(&inv).Error
	})
	if err != nil {
		if errors.Is(err, errInsufficientPoints) {
			return utils.BadRequest(c, "Not enough points")
		}
		return utils.InternalServerError(c, "Could not complete purchase")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"message":    "Purchase complete",
		"reference":  purchase.Reference,
		"price_paid": price,
		"discount":   discount,
	})
}

// GetInventory godoc
// @Summary List owned items
// @Tags shop
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /shop/inventory [get]
func (sc *ShopController) GetInventory(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, sc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var inventory []models.InventoryItem
	if err := sc.DB.Where("user_id = ?", userID).Find(&inventory).Error; err != nil {
		return utils.InternalServerError(c, "Failed to fetch inventory")
	}

	var result []map[string]interface{}
	for _, inv := range inventory {
		var item models.ShopItem
		if err := sc.DB.First(&item, inv.ItemID).Error; err != nil {
			continue // item was removed from the catalogue
		}
		result = append(result, map[string]interface{}{
			"id":        inv.ID,
			"item_id":   item.ID,
			"name":      item.Name,
			"category":  item.Category,
			"image_url": item.ImageURL,
			"quantity":  inv.Quantity,
			"equipped":  inv.Equipped,
		})
	}

	return utils.Success(c, fiber.StatusOK, result)
}

// CreateItem godoc
// @Summary Create a shop item (admin)
// @Tags admin
// @Accept json
// @Produce json
// @Param item body models.ShopItem true "Item data"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/shop [post]
func (sc *ShopController) CreateItem(c *fiber.Ctx) error {
	var item models.ShopItem
	if err := c.BodyParser(&item); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if item.Name == "" || item.Price <= 0 {
		return utils.BadRequest(c, "Name and a positive price are required")
	}
	item.Active = true

	if err := sc.DB.Create(&item).Error; err != nil {
		return utils.InternalServerError(c, "Could not create item")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"message": "Item created",
		"item":    item,
	})
}
