package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"makhraj/backend/models"
	"makhraj/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestCreateShopItemRequiresAdmin(t *testing.T) {
	itemData := map[string]interface{}{
		"name":  "Gold Frame",
		"price": 50,
	}
	jsonData, _ := json.Marshal(itemData)

	req := httptest.NewRequest("POST", "/api/admin/shop", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", jwtToken)

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestCreateShopItemAsAdmin(t *testing.T) {
	itemData := map[string]interface{}{
		"name":        "Tajwid Booster",
		"category":    "booster",
		"price":       25,
		"stackable":   true,
		"description": "Doubles XP for one quiz",
	}
	jsonData, _ := json.Marshal(itemData)

	req := httptest.NewRequest("POST", "/api/admin/shop", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", adminToken())

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	data := result["data"].(map[string]interface{})
	item := data["item"].(map[string]interface{})
	assert.Equal(t, "Tajwid Booster", item["name"])
	assert.Equal(t, true, item["active"])
}

func TestBuyItemFlow(t *testing.T) {
	item := models.ShopItem{Name: "Starter Avatar", Category: "avatar", Price: 50, Active: true}
	db.Create(&item)

	buyer := models.User{Username: "buyer", Email: "buyer@example.com", PasswordHash: "x"}
	db.Create(&buyer)
	db.Create(&models.Profile{UserID: buyer.ID, Points: 100, Energy: 5})
	token, _ := utils.GenerateJWTToken(buyer.ID, cfg)

	req := httptest.NewRequest("POST", fmt.Sprintf("/api/shop/%d/buy", item.ID), nil)
	req.Header.Set("Authorization", token)

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	data := result["data"].(map[string]interface{})
	assert.NotEmpty(t, data["reference"])
	pricePaid := int(data["price_paid"].(float64))
	assert.LessOrEqual(t, pricePaid, item.Price) // flash sale can only lower the price

	var profile models.Profile
	db.Where("user_id = ?", buyer.ID).First(&profile)
	assert.Equal(t, 100-pricePaid, profile.Points)

	var inventory models.InventoryItem
	assert.NoError(t, db.Where("user_id = ? AND item_id = ?", buyer.ID, item.ID).First(&inventory).Error)
	assert.Equal(t, 1, inventory.Quantity)

	// Cosmetics are owned once
	req = httptest.NewRequest("POST", fmt.Sprintf("/api/shop/%d/buy", item.ID), nil)
	req.Header.Set("Authorization", token)
	resp, err = app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestBuyItemInsufficientPoints(t *testing.T) {
	item := models.ShopItem{Name: "Premium Frame", Category: "frame", Price: 9000, Active: true}
	db.Create(&item)

	poor := models.User{Username: "pooruser", Email: "poor@example.com", PasswordHash: "x"}
	db.Create(&poor)
	db.Create(&models.Profile{UserID: poor.ID, Points: 10, Energy: 5})
	token, _ := utils.GenerateJWTToken(poor.ID, cfg)

	req := httptest.NewRequest("POST", fmt.Sprintf("/api/shop/%d/buy", item.ID), nil)
	req.Header.Set("Authorization", token)

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestShopListsFlashSale(t *testing.T) {
	for i := 0; i < 4; i++ {
		db.Create(&models.ShopItem{Name: fmt.Sprintf("Booster %d", i), Category: "booster", Price: 30 + i, Stackable: true, Active: true})
	}

	req := httptest.NewRequest("GET", "/api/shop", nil)
	req.Header.Set("Authorization", jwtToken)

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	items := result["data"].([]interface{})
	assert.NotEmpty(t, items)

	onSale := 0
	for _, raw := range items {
		entry := raw.(map[string]interface{})
		if entry["flash_sale"] == true {
			onSale++
			assert.Less(t, entry["sale_price"].(float64), entry["price"].(float64))
		}
	}
	assert.Greater(t, onSale, 0)
	assert.LessOrEqual(t, onSale, 3)
}
