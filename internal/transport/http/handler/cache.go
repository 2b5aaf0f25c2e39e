package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"geocatch/internal/app"
	"geocatch/internal/model"
	"geocatch/internal/transport/http/middleware"
	"geocatch/internal/transport/http/response"
)

type CacheHandler struct {
	cacheService *app.CacheService
}

// CacheRequest is shared by create and update. Coordinates are pointers so a
// missing field can be told apart from zero.
type CacheRequest struct {
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Difficulty  int      `json:"difficulty"`
	Description string   `json:"description" binding:"max=2000"`
}

type CacheResponse struct {
	ID              string    `json:"id"`
	Latitude        float64   `json:"latitude"`
	Longitude       float64   `json:"longitude"`
	Difficulty      int       `json:"difficulty"`
	Description     string    `json:"description"`
	Creator         uint      `json:"creator"`
	CreatorUsername string    `json:"creator_username"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func NewCacheHandler(cacheService *app.CacheService) *CacheHandler {
	return &CacheHandler{cacheService: cacheService}
}

func (h *CacheHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	var req CacheRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	cache, err := h.cacheService.Create(c.Request.Context(), app.CreateCacheInput{
		CreatorID:   userID,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Difficulty:  req.Difficulty,
		Description: req.Description,
	})
	if err != nil {
		h.writeError(c, err, "create cache failed")
		return
	}

	response.Created(c, "cache created successfully", cache.ID)
}

func (h *CacheHandler) List(c *gin.Context) {
	caches, err := h.cacheService.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err, "list caches failed")
		return
	}

	out := make([]CacheResponse, 0, len(caches))
	for i := range caches {
		out = append(out, toCacheResponse(&caches[i]))
	}
	response.JSON(c, http.StatusOK, out)
}

func (h *CacheHandler) Get(c *gin.Context) {
	cache, err := h.cacheService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err, "get cache failed")
		return
	}
	response.JSON(c, http.StatusOK, toCacheResponse(cache))
}

func (h *CacheHandler) History(c *gin.Context) {
	events, err := h.cacheService.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err, "get cache history failed")
		return
	}
	response.JSON(c, http.StatusOK, events)
}

func (h *CacheHandler) Update(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	var req CacheRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	_, err := h.cacheService.Update(c.Request.Context(), app.UpdateCacheInput{
		ActorID:     userID,
		ID:          c.Param("id"),
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Difficulty:  req.Difficulty,
		Description: req.Description,
	})
	if err != nil {
		h.writeError(c, err, "update cache failed")
		return
	}

	response.Message(c, http.StatusOK, "cache updated successfully")
}

func (h *CacheHandler) Delete(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	if err := h.cacheService.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.writeError(c, err, "delete cache failed")
		return
	}

	response.Message(c, http.StatusOK, "cache deleted successfully")
}

func (h *CacheHandler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "latitude and longitude are required and must be in range")
	case errors.Is(err, app.ErrCacheNotFound):
		response.Error(c, http.StatusNotFound, response.CodeCacheNotFound, err.Error())
	default:
		log.Printf("%s: %v", fallback, err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, fallback)
	}
}

func toCacheResponse(cache *model.Cache) CacheResponse {
	return CacheResponse{
		ID:              cache.ID,
		Latitude:        cache.Latitude,
		Longitude:       cache.Longitude,
		Difficulty:      cache.Difficulty,
		Description:     cache.Description,
		Creator:         cache.CreatorID,
		CreatorUsername: cache.Creator.Username,
		CreatedAt:       cache.CreatedAt,
		UpdatedAt:       cache.UpdatedAt,
	}
}
