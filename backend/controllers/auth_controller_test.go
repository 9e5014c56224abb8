package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"makhraj/backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestRegister(t *testing.T) {
	registerData := map[string]string{
		"username":      "newuser",
		"email":         "newuser@example.com",
		"password_hash": "password123",
	}
	jsonData, _ := json.Marshal(registerData)

	req := httptest.NewRequest("POST", "/api/auth/register", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	assert.NotEmpty(t, result["token"])
	assert.NotEmpty(t, result["user"])

	// Registration must create the gamification profile alongside the user
	var user models.User
	assert.NoError(t, db.Where("username = ?", "newuser").First(&user).Error)
	var profile models.Profile
	assert.NoError(t, db.Where("user_id = ?", user.ID).First(&profile).Error)
	assert.Equal(t, 0, profile.Streak)
	assert.Nil(t, profile.LastProgressAt)
}

func TestLogin(t *testing.T) {
	loginData := map[string]string{
		"username": "testuser",
		"password": "password",
	}
	jsonData, _ := json.Marshal(loginData)

	req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	assert.NotEmpty(t, result["token"])
	assert.NotEmpty(t, result["user"])
}

func TestLoginDoesNotTouchStreak(t *testing.T) {
	var before models.Profile
	db.Where("user_id = ?", testUser.ID).First(&before)

	loginData := map[string]string{
		"username": "testuser",
		"password": "password",
	}
	jsonData, _ := json.Marshal(loginData)

	req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var after models.Profile
	db.Where("user_id = ?", testUser.ID).First(&after)
	assert.Equal(t, before.Streak, after.Streak)
	assert.Equal(t, before.Energy, after.Energy)
}

func TestGetProfile(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/user/profile", nil)
	req.Header.Set("Authorization", jwtToken)

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	data := result["data"].(map[string]interface{})
	assert.Equal(t, "testuser", data["username"])
	assert.Equal(t, "test@example.com", data["email"])
	assert.NotNil(t, data["progress"])
}
