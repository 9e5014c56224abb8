package models

import "gorm.io/gorm"

type Letter struct {
	gorm.Model
	Arabic        string `gorm:"not null" json:"arabic"`     // the hijaiyah glyph
	LatinName     string `gorm:"not null" json:"latin_name"` // alif, ba, ta, ...
	MakhrajGroup  string `json:"makhraj_group"`              // halq, lisan, syafatain, khoisyum, jauf
	Description   string `json:"description"`
	AudioURL      string `json:"audio_url"`
	SequenceOrder int    `json:"sequence_order"`
}

type UserLetterProgress struct {
	gorm.Model
	UserID    uint `gorm:"index" json:"user_id"`
	LetterID  uint `json:"letter_id"`
	Completed bool `gorm:"default:false" json:"completed"`
	Attempts  int  `gorm:"default:0" json:"attempts"`
}
