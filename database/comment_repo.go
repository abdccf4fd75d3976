package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rpupo63/agile-blog-backend/errs"
	"github.com/rpupo63/agile-blog-backend/models"
	"github.com/rpupo63/agile-blog-backend/services"
	"gorm.io/gorm"
)

type CommentRepo struct {
	db *gorm.DB
}

func NewCommentRepo(db *gorm.DB) *CommentRepo {
	return &CommentRepo{db}
}

var _ services.CommentStore = (*CommentRepo)(nil)

// FindByID returns a comment by its ID
func (r *CommentRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).Preload("Author").First(&comment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFoundError("comment not found")
		}
		return nil, err
	}
	return &comment, nil
}

// ListByPost returns all comments for a post, newest first
func (r *CommentRepo) ListByPost(ctx context.Context, postID uuid.UUID) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Find(&comments).Error
	return comments, err
}

// FindByPostAndAuthor returns the author's first comment on a post, used by
// the idempotent seed path
func (r *CommentRepo) FindByPostAndAuthor(ctx context.Context, postID, authorID uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND author_id = ?", postID, authorID).
		Order("created_at ASC").
		First(&comment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFoundError("comment not found")
		}
		return nil, err
	}
	return &comment, nil
}

// Create inserts a new comment
func (r *CommentRepo) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Omit("Author", "Post").Create(comment).Error
}

// Update saves an existing comment
func (r *CommentRepo) Update(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Omit("Author", "Post").Save(comment).Error
}

// Delete removes a comment by id
func (r *CommentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Comment{}, "id = ?", id).Error
}
