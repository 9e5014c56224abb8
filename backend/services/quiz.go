package services

import "makhraj/backend/models"

// Per-correct-answer rewards for quiz attempts.
const (
	QuizXPPerCorrect     = 10
	QuizPointsPerCorrect = 5
)

// QuizScore is the graded result of one attempt.
type QuizScore struct {
	Total        int
	Correct      int
	Score        float64
	XPEarned     int
	PointsEarned int
}

// ScoreQuiz grades submitted answers (question id -> chosen option index)
// against the quiz questions. Unanswered questions count as wrong.
func ScoreQuiz(questions []models.QuizQuestion, answers map[uint]int) QuizScore {
	result := QuizScore{Total: len(questions)}
	if result.Total == 0 {
		return result
	}

	for _, q := range questions {
		if chosen, ok := answers[q.ID]; ok && chosen == q.CorrectAnswer {
			result.Correct++
		}
	}

	result.Score = float64(result.Correct) / float64(result.Total) * 100
	result.XPEarned = result.Correct * QuizXPPerCorrect
	result.PointsEarned = result.Correct * QuizPointsPerCorrect
	return result
}
