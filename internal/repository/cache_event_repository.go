package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"geocatch/internal/model"
)

type CacheEventRepository struct {
	db *gorm.DB
}

func NewCacheEventRepository(db *gorm.DB) *CacheEventRepository {
	return &CacheEventRepository{db: db}
}

func (r *CacheEventRepository) Create(ctx context.Context, event *model.CacheEvent) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("create cache event failed: %w", err)
	}
	return nil
}

func (r *CacheEventRepository) ListByCacheID(ctx context.Context, cacheID string, limit int) ([]model.CacheEvent, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}

	var events []model.CacheEvent
	if err := r.db.WithContext(ctx).
		Where("cache_id = ?", cacheID).
		Order("occurred_at ASC").
		Order("id ASC").
		Limit(limit).
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list cache events failed: %w", err)
	}
	return events, nil
}
