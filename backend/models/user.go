package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username     string `gorm:"unique;not null" json:"username"`
	Email        string `gorm:"unique;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"password_hash"`
	Role         string `gorm:"default:user" json:"role"` // user, teacher, admin
	School       string `json:"school"`
	AvatarURL    string `json:"avatar_url"`
}

// Profile holds the gamification state for one user. LastProgressAt is
// intentionally separate from gorm's UpdatedAt: points/xp writes touch the
// row too, and the daily streak rule must only see progression writes.
type Profile struct {
	gorm.Model
	UserID         uint       `gorm:"index" json:"user_id"`
	Streak         int        `gorm:"default:0" json:"streak"`
	Energy         int        `gorm:"default:5" json:"energy"`
	Points         int        `gorm:"default:0" json:"points"`
	XP             int        `gorm:"default:0" json:"xp"`
	LastProgressAt *time.Time `json:"last_progress_at"`
}

type LoginHistory struct {
	gorm.Model
	UserID    uint      `json:"user_id"`
	LoginTime time.Time `json:"login_time"`
}
