package models

import "gorm.io/gorm"

type Message struct {
	gorm.Model
	Channel   string `gorm:"index;default:general" json:"channel"`
	UserID    uint   `json:"user_id"`
	UserName  string `json:"user_name"`
	UserImage string `json:"user_image"`
	Text      string `gorm:"not null" json:"text"`
}
