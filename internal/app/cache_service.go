package app

import (
	"context"
	"log"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"geocatch/internal/model"
)

type CacheStore interface {
	Create(ctx context.Context, cache *model.Cache) error
	GetByID(ctx context.Context, id string) (*model.Cache, error)
	GetByIDAndCreatorID(ctx context.Context, id string, creatorID uint) (*model.Cache, error)
	List(ctx context.Context) ([]model.Cache, error)
	UpdateByIDAndCreatorID(ctx context.Context, cache *model.Cache) (bool, error)
	DeleteByIDAndCreatorID(ctx context.Context, id string, creatorID uint) (bool, error)
}

type CacheEventStore interface {
	ListByCacheID(ctx context.Context, cacheID string, limit int) ([]model.CacheEvent, error)
}

// CacheEventPublisher hands activity records to the async worker.
type CacheEventPublisher interface {
	Publish(ctx context.Context, event model.CacheEvent) error
}

// ListingCache holds the rendered result of List between mutations.
type ListingCache interface {
	GetListing(ctx context.Context) ([]model.Cache, bool, error)
	SetListing(ctx context.Context, caches []model.Cache) error
	Invalidate(ctx context.Context) error
}

// CacheService is the registry of hiding spots. Writes are scoped to the
// creator; a foreign cache is reported exactly like a missing one.
type CacheService struct {
	caches    CacheStore
	events    CacheEventStore
	publisher CacheEventPublisher
	listing   ListingCache
	now       func() time.Time
}

type CreateCacheInput struct {
	CreatorID   uint
	Latitude    *float64
	Longitude   *float64
	Difficulty  int
	Description string
}

type UpdateCacheInput struct {
	ActorID     uint
	ID          string
	Latitude    *float64
	Longitude   *float64
	Difficulty  int
	Description string
}

func NewCacheService(caches CacheStore, events CacheEventStore, publisher CacheEventPublisher, listing ListingCache) *CacheService {
	return &CacheService{
		caches:    caches,
		events:    events,
		publisher: publisher,
		listing:   listing,
		now:       time.Now,
	}
}

func (s *CacheService) Create(ctx context.Context, input CreateCacheInput) (*model.Cache, error) {
	if input.CreatorID == 0 {
		return nil, ErrInvalidInput
	}
	if !validCoordinates(input.Latitude, input.Longitude) {
		return nil, ErrInvalidInput
	}

	cache := &model.Cache{
		ID:          uuid.NewString(),
		Latitude:    *input.Latitude,
		Longitude:   *input.Longitude,
		Difficulty:  input.Difficulty,
		Description: strings.TrimSpace(input.Description),
		CreatorID:   input.CreatorID,
	}
	if err := s.caches.Create(ctx, cache); err != nil {
		return nil, err
	}

	s.afterMutation(ctx, cache, model.CacheActionCreated)
	return cache, nil
}

func (s *CacheService) Get(ctx context.Context, id string) (*model.Cache, error) {
	if id == "" {
		return nil, ErrCacheNotFound
	}
	cache, err := s.caches.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cache == nil {
		return nil, ErrCacheNotFound
	}
	return cache, nil
}

func (s *CacheService) List(ctx context.Context) ([]model.Cache, error) {
	if s.listing != nil {
		cached, ok, err := s.listing.GetListing(ctx)
		if err != nil {
			log.Printf("read cache listing failed: %v", err)
		} else if ok {
			return cached, nil
		}
	}

	caches, err := s.caches.List(ctx)
	if err != nil {
		return nil, err
	}
	if caches == nil {
		caches = []model.Cache{}
	}

	if s.listing != nil {
		if err := s.listing.SetListing(ctx, caches); err != nil {
			log.Printf("write cache listing failed: %v", err)
		}
	}
	return caches, nil
}

func (s *CacheService) Update(ctx context.Context, input UpdateCacheInput) (*model.Cache, error) {
	if input.ActorID == 0 || input.ID == "" {
		return nil, ErrCacheNotFound
	}
	if !validCoordinates(input.Latitude, input.Longitude) {
		return nil, ErrInvalidInput
	}

	cache := &model.Cache{
		ID:          input.ID,
		Latitude:    *input.Latitude,
		Longitude:   *input.Longitude,
		Difficulty:  input.Difficulty,
		Description: strings.TrimSpace(input.Description),
		CreatorID:   input.ActorID,
	}
	updated, err := s.caches.UpdateByIDAndCreatorID(ctx, cache)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrCacheNotFound
	}

	s.afterMutation(ctx, cache, model.CacheActionUpdated)

	stored, err := s.caches.GetByIDAndCreatorID(ctx, cache.ID, input.ActorID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		// deleted between the write and the read
		return nil, ErrCacheNotFound
	}
	return stored, nil
}

func (s *CacheService) Delete(ctx context.Context, actorID uint, id string) error {
	if actorID == 0 || id == "" {
		return ErrCacheNotFound
	}

	deleted, err := s.caches.DeleteByIDAndCreatorID(ctx, id, actorID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrCacheNotFound
	}

	s.afterMutation(ctx, &model.Cache{ID: id, CreatorID: actorID}, model.CacheActionDeleted)
	return nil
}

// History returns the recorded activity of an existing cache, oldest first.
func (s *CacheService) History(ctx context.Context, id string) ([]model.CacheEvent, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	events, err := s.events.ListByCacheID(ctx, id, 100)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []model.CacheEvent{}
	}
	return events, nil
}

// afterMutation drops the cached listing and publishes the activity record.
// Neither step can fail the request that triggered it.
func (s *CacheService) afterMutation(ctx context.Context, cache *model.Cache, action string) {
	if s.listing != nil {
		if err := s.listing.Invalidate(ctx); err != nil {
			log.Printf("invalidate cache listing failed: %v", err)
		}
	}
	if s.publisher == nil {
		return
	}
	event := model.CacheEvent{
		CacheID:    cache.ID,
		UserID:     cache.CreatorID,
		Action:     action,
		Latitude:   cache.Latitude,
		Longitude:  cache.Longitude,
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Printf("publish cache event %s for %s failed: %v", action, cache.ID, err)
	}
}

func validCoordinates(lat, lon *float64) bool {
	if lat == nil || lon == nil {
		return false
	}
	if math.IsNaN(*lat) || math.IsNaN(*lon) {
		return false
	}
	return *lat >= -90 && *lat <= 90 && *lon >= -180 && *lon <= 180
}
