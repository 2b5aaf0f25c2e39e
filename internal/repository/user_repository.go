package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"geocatch/internal/model"
)

// ErrDuplicate is returned when a write trips a unique index.
var ErrDuplicate = errors.New("duplicate record")

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("create user failed: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by username failed: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by email failed: %w", err)
	}
	return &user, nil
}

// ListByLogin returns every user whose username or email matches. A username
// may look like another user's email, so the result can hold two rows.
func (r *UserRepository) ListByLogin(ctx context.Context, username, email string) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", username, email).
		Order("id ASC").
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("query user by login failed: %w", err)
	}
	return users, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by id failed: %w", err)
	}
	return &user, nil
}

// UpdateCredentials overwrites email and password of an existing user.
func (r *UserRepository) UpdateCredentials(ctx context.Context, id uint, email, password string) error {
	err := r.db.WithContext(ctx).
		Model(&model.User{ID: id}).
		Updates(map[string]any{"email": email, "password": password}).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("update user failed: %w", err)
	}
	return nil
}
