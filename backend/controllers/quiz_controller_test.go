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

func seedQuiz(t *testing.T) models.Quiz {
	quiz := models.Quiz{Title: "Huruf Halq", MakhrajGroup: "halq", EnergyCost: 1, AttemptsAllowed: 3}
	db.Create(&quiz)
	for i, correct := range []int{0, 2} {
		db.Create(&models.QuizQuestion{
			QuizID:        quiz.ID,
			Prompt:        fmt.Sprintf("Question %d", i+1),
			Options:       `["kha","ha","ain"]`,
			CorrectAnswer: correct,
			SequenceOrder: i + 1,
		})
	}
	return quiz
}

func TestQuizDetailsHideAnswers(t *testing.T) {
	quiz := seedQuiz(t)

	req := httptest.NewRequest("GET", fmt.Sprintf("/api/quizzes/%d", quiz.ID), nil)
	req.Header.Set("Authorization", jwtToken)

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	questions := result["data"].(map[string]interface{})["questions"].([]interface{})
	assert.Len(t, questions, 2)
	for _, raw := range questions {
		q := raw.(map[string]interface{})
		assert.NotContains(t, q, "CorrectAnswer")
		assert.NotContains(t, q, "correct_answer")
	}
}

func TestSubmitAttemptSpendsEnergyAndAwards(t *testing.T) {
	quiz := seedQuiz(t)

	student := models.User{Username: "quizuser", Email: "quiz@example.com", PasswordHash: "x"}
	db.Create(&student)
	db.Create(&models.Profile{UserID: student.ID, Energy: 5, Points: 0, XP: 0})
	token, _ := utils.GenerateJWTToken(student.ID, cfg)

	var questions []models.QuizQuestion
	db.Where("quiz_id = ?", quiz.ID).Order("sequence_order").Find(&questions)

	payload := map[string]interface{}{
		"answers": []map[string]interface{}{
			{"question_id": questions[0].ID, "selected": 0}, // right
			{"question_id": questions[1].ID, "selected": 1}, // wrong
		},
	}
	jsonData, _ := json.Marshal(payload)

	req := httptest.NewRequest("POST", fmt.Sprintf("/api/quizzes/%d/attempts", quiz.ID), bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", token)

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	data := result["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["correct"])
	assert.Equal(t, float64(50), data["score"])
	assert.Equal(t, float64(4), data["energy_left"])

	var profile models.Profile
	db.Where("user_id = ?", student.ID).First(&profile)
	assert.Equal(t, 4, profile.Energy)
	assert.Equal(t, 10, profile.XP)
	assert.Equal(t, 5, profile.Points)
}

func TestSubmitAttemptRejectedWithoutEnergy(t *testing.T) {
	quiz := seedQuiz(t)

	tired := models.User{Username: "tireduser", Email: "tired@example.com", PasswordHash: "x"}
	db.Create(&tired)
	db.Create(&models.Profile{UserID: tired.ID, Energy: 0})
	token, _ := utils.GenerateJWTToken(tired.ID, cfg)

	jsonData, _ := json.Marshal(map[string]interface{}{"answers": []map[string]interface{}{}})
	req := httptest.NewRequest("POST", fmt.Sprintf("/api/quizzes/%d/attempts", quiz.ID), bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", token)

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	assert.Equal(t, "Not enough energy", result["message"])
}

func TestSubmitAttemptEnergyNeverNegative(t *testing.T) {
	quiz := seedQuiz(t)

	low := models.User{Username: "lowenergy", Email: "lowenergy@example.com", PasswordHash: "x"}
	db.Create(&low)
	db.Create(&models.Profile{UserID: low.ID, Energy: 1})
	token, _ := utils.GenerateJWTToken(low.ID, cfg)

	jsonData, _ := json.Marshal(map[string]interface{}{"answers": []map[string]interface{}{}})

	req := httptest.NewRequest("POST", fmt.Sprintf("/api/quizzes/%d/attempts", quiz.ID), bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", token)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// The last point of energy is spent; a repeat is rejected, not overdrawn
	req = httptest.NewRequest("POST", fmt.Sprintf("/api/quizzes/%d/attempts", quiz.ID), bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", token)
	resp, err = app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var profile models.Profile
	db.Where("user_id = ?", low.ID).First(&profile)
	assert.Equal(t, 0, profile.Energy)

	var attempts int64
	db.Model(&models.QuizAttempt{}).Where("user_id = ?", low.ID).Count(&attempts)
	assert.Equal(t, int64(1), attempts)
}

func TestCompleteLetterAwardsOnce(t *testing.T) {
	letter := models.Letter{Arabic: "ع", LatinName: "ain", MakhrajGroup: "halq", SequenceOrder: 18}
	db.Create(&letter)

	learner := models.User{Username: "learner", Email: "learner@example.com", PasswordHash: "x"}
	db.Create(&learner)
	db.Create(&models.Profile{UserID: learner.ID, Energy: 5})
	token, _ := utils.GenerateJWTToken(learner.ID, cfg)

	req := httptest.NewRequest("POST", fmt.Sprintf("/api/letters/%d/complete", letter.ID), nil)
	req.Header.Set("Authorization", token)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	data := result["data"].(map[string]interface{})
	assert.Equal(t, float64(15), data["xp_earned"])
	assert.Equal(t, float64(10), data["points_earned"])

	// Re-practicing is free: no double rewards
	req = httptest.NewRequest("POST", fmt.Sprintf("/api/letters/%d/complete", letter.ID), nil)
	req.Header.Set("Authorization", token)
	resp, _ = app.Test(req)
	json.NewDecoder(resp.Body).Decode(&result)
	data = result["data"].(map[string]interface{})
	assert.Equal(t, float64(0), data["xp_earned"])

	var profile models.Profile
	db.Where("user_id = ?", learner.ID).First(&profile)
	assert.Equal(t, 15, profile.XP)
	assert.Equal(t, 10, profile.Points)
}
