package models

import "gorm.io/gorm"

type ShopItem struct {
	gorm.Model
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"` // avatar, frame, booster
	Price       int    `gorm:"not null" json:"price"`
	ImageURL    string `json:"image_url"`
	Stackable   bool   `gorm:"default:false" json:"stackable"` // boosters stack, cosmetics are owned once
	Active      bool   `gorm:"default:true" json:"active"`
}

type InventoryItem struct {
	gorm.Model
	UserID   uint `gorm:"index" json:"user_id"`
	ItemID   uint `json:"item_id"`
	Quantity int  `gorm:"default:1" json:"quantity"`
	Equipped bool `gorm:"default:false" json:"equipped"`
}

// Purchase is the receipt trail; Reference is a UUID shown to the user.
type Purchase struct {
	gorm.Model
	UserID    uint   `gorm:"index" json:"user_id"`
	ItemID    uint   `json:"item_id"`
	Reference string `gorm:"unique;not null" json:"reference"`
	PricePaid int    `json:"price_paid"`
	Discount  int    `json:"discount"` // percent, 0 when bought off-sale
}
