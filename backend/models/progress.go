package models

import "time"

type ProgressOverview struct {
	Streak           int        `json:"streak"`
	Energy           int        `json:"energy"`
	Points           int        `json:"points"`
	XP               int        `json:"xp"`
	LettersCompleted int64      `json:"letters_completed"`
	QuizzesTaken     int64      `json:"quizzes_taken"`
	LastProgress     *time.Time `json:"last_progress"`
}

type LeaderboardEntry struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	XP       int    `json:"xp"`
	Rank     int    `json:"rank"`
}
