package database

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/agile-blog-backend/errs"
	"github.com/rpupo63/agile-blog-backend/models"
	"github.com/rpupo63/agile-blog-backend/services"
	"gorm.io/gorm"
)

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db}
}

var _ services.UserStore = (*UserRepo)(nil)

// FindByID returns a user by its ID
func (r *UserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFoundError("user not found")
		}
		return nil, err
	}
	return &user, nil
}

// FindByEmail returns a user by email, used by login and the seed path
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFoundError("user not found")
		}
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user
func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if err != nil {
		msg := err.Error()
		switch {
		case strings.Contains(msg, "idx_users_email"):
			return errs.NewValidationError("email", "email is already registered")
		case strings.Contains(msg, "idx_users_username"):
			return errs.NewValidationError("username", "username is already taken")
		}
	}
	return err
}

// UpdateProfileAvatar writes the profile avatar object name; nil clears it
func (r *UserRepo) UpdateProfileAvatar(ctx context.Context, id uuid.UUID, name *string) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Update("profile_avatar", name).Error
}
