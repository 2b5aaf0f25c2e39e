package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"geocatch/internal/model"
)

type CacheRepository struct {
	db *gorm.DB
}

func NewCacheRepository(db *gorm.DB) *CacheRepository {
	return &CacheRepository{db: db}
}

func (r *CacheRepository) Create(ctx context.Context, cache *model.Cache) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(cache).Error; err != nil {
		return fmt.Errorf("create cache failed: %w", err)
	}
	return nil
}

func (r *CacheRepository) GetByID(ctx context.Context, id string) (*model.Cache, error) {
	var cache model.Cache
	if err := r.db.WithContext(ctx).Preload("Creator").Where("id = ?", id).First(&cache).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query cache by id failed: %w", err)
	}
	return &cache, nil
}

func (r *CacheRepository) GetByIDAndCreatorID(ctx context.Context, id string, creatorID uint) (*model.Cache, error) {
	var cache model.Cache
	if err := r.db.WithContext(ctx).Preload("Creator").Where("id = ? AND creator_id = ?", id, creatorID).First(&cache).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query cache by owner failed: %w", err)
	}
	return &cache, nil
}

func (r *CacheRepository) List(ctx context.Context) ([]model.Cache, error) {
	var caches []model.Cache
	if err := r.db.WithContext(ctx).Preload("Creator").Order("created_at ASC").Order("id ASC").Find(&caches).Error; err != nil {
		return nil, fmt.Errorf("list caches failed: %w", err)
	}
	return caches, nil
}

// UpdateByIDAndCreatorID writes the mutable fields only. It reports false when
// no row matched, which covers both a missing cache and a foreign owner.
func (r *CacheRepository) UpdateByIDAndCreatorID(ctx context.Context, cache *model.Cache) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Cache{}).
		Where("id = ? AND creator_id = ?", cache.ID, cache.CreatorID).
		Updates(map[string]any{
			"latitude":    cache.Latitude,
			"longitude":   cache.Longitude,
			"difficulty":  cache.Difficulty,
			"description": cache.Description,
		})
	if result.Error != nil {
		return false, fmt.Errorf("update cache failed: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *CacheRepository) DeleteByIDAndCreatorID(ctx context.Context, id string, creatorID uint) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ? AND creator_id = ?", id, creatorID).Delete(&model.Cache{})
	if result.Error != nil {
		return false, fmt.Errorf("delete cache failed: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
