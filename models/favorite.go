package models

import "time"

type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_favorite_pair;not null" json:"userId"`
	ProductID uint      `gorm:"uniqueIndex:idx_favorite_pair;not null" json:"productId"`
	Product   Product   `json:"product"`
	CreatedAt time.Time `json:"createdAt"`
}
