package model

import "time"

const (
	CacheActionCreated = "created"
	CacheActionUpdated = "updated"
	CacheActionDeleted = "deleted"
)

type CacheEvent struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CacheID    string    `gorm:"type:char(36);not null;index" json:"cache_id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	Action     string    `gorm:"size:16;not null" json:"action"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	OccurredAt time.Time `gorm:"not null;index" json:"occurred_at"`
}
