package model

import "time"

// Cache is a hiding spot dropped on the map. CreatorID is fixed at creation.
type Cache struct {
	ID          string    `gorm:"type:char(36);primaryKey" json:"id"`
	Latitude    float64   `gorm:"not null" json:"latitude"`
	Longitude   float64   `gorm:"not null" json:"longitude"`
	Difficulty  int       `gorm:"not null" json:"difficulty"`
	Description string    `gorm:"type:text" json:"description"`
	CreatorID   uint      `gorm:"not null;index" json:"creator"`
	Creator     User      `gorm:"foreignKey:CreatorID" json:"creator_user"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
