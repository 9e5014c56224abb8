package models

import "gorm.io/gorm"

type Quiz struct {
	gorm.Model
	Title           string         `json:"title"`
	ShortDesc       string         `json:"short_desc"`
	Description     string         `json:"description"`
	Difficulty      string         `json:"difficulty"`    // beginner, intermediate, advanced
	MakhrajGroup    string         `json:"makhraj_group"` // limits questions to one articulation group, empty = mixed
	AuthorID        uint           `json:"author_id"`
	LogoURL         string         `json:"logo_url"`
	EnergyCost      int            `gorm:"default:1" json:"energy_cost"`
	Questions       []QuizQuestion `json:"questions,omitempty"`
	AttemptsAllowed int            `gorm:"default:3" json:"attempts_allowed"`
}

type QuizQuestion struct {
	gorm.Model
	QuizID        uint   `json:"quiz_id"`
	Prompt        string `json:"prompt"`
	AudioURL      string `json:"audio_url"`
	Options       string `json:"options"` // JSON array of options
	CorrectAnswer int    `json:"correct_answer"`
	SequenceOrder int    `json:"sequence_order"`
}

type QuizAttempt struct {
	gorm.Model
	UserID         uint    `gorm:"index" json:"user_id"`
	QuizID         uint    `json:"quiz_id"`
	QuestionsTotal int     `json:"questions_total"`
	CorrectAnswers int     `json:"correct_answers"`
	Score          float64 `json:"score"`
	XPEarned       int     `json:"xp_earned"`
	PointsEarned   int     `json:"points_earned"`
}
