package database

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/agile-blog-backend/errs"
	"github.com/rpupo63/agile-blog-backend/models"
	"github.com/rpupo63/agile-blog-backend/services"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PostRepo struct {
	db *gorm.DB
}

func NewPostRepo(db *gorm.DB) *PostRepo {
	return &PostRepo{db}
}

var _ services.PostStore = (*PostRepo)(nil)

// FindByID returns a post by its ID with tags and author preloaded
func (r *PostRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Preload("Tags").Preload("Author").First(&post, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFoundError("post not found")
		}
		return nil, err
	}
	return &post, nil
}

// FindBySlug returns a post by its unique slug
func (r *PostRepo) FindBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Preload("Tags").Preload("Author").First(&post, "slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFoundError("post not found")
		}
		return nil, err
	}
	return &post, nil
}

// List applies the listing rule in SQL. The rule is the security boundary for
// anonymous callers; authenticated callers additionally get their own
// unpublished posts, matching the published-or-author listing contract.
func (r *PostRepo) List(ctx context.Context, q services.PostQuery) ([]models.Post, error) {
	var posts []models.Post
	tx := r.db.WithContext(ctx).Preload("Tags").Preload("Author")

	switch {
	case q.OwnOnly:
		if q.Caller == uuid.Nil {
			return nil, errs.NewUnauthorizedError("listing own posts requires a session")
		}
		tx = tx.Where("author_id = ?", q.Caller).Order("updated_at DESC")
	case q.Caller == uuid.Nil:
		tx = tx.Where("status = ?", models.PostStatusPublished).
			Order("published_at DESC NULLS LAST, created_at DESC")
	default:
		tx = tx.Where("status = ? OR author_id = ?", models.PostStatusPublished, q.Caller).
			Order("published_at DESC NULLS LAST, created_at DESC")
	}

	err := tx.Find(&posts).Error
	return posts, err
}

// Create inserts a new post. omitColumns are excluded from the write.
func (r *PostRepo) Create(ctx context.Context, post *models.Post, omitColumns ...string) error {
	omit := append([]string{"Author"}, omitColumns...)
	err := r.db.WithContext(ctx).Omit(omit...).Create(post).Error
	return r.translate(err, post.Slug)
}

// Update saves an existing post. Associations are replaced separately via
// ReplaceTags; omitColumns are excluded from the write.
func (r *PostRepo) Update(ctx context.Context, post *models.Post, omitColumns ...string) error {
	omit := append([]string{"Author", "Tags"}, omitColumns...)
	err := r.db.WithContext(ctx).Omit(omit...).Save(post).Error
	return r.translate(err, post.Slug)
}

// ReplaceTags swaps the post's tag set for the given tags
func (r *PostRepo) ReplaceTags(ctx context.Context, post *models.Post, tags []models.Tag) error {
	return r.db.WithContext(ctx).Model(post).Association("Tags").Replace(tags)
}

// UpdateAttachments writes the full attachment name list as an explicit column
// update. An empty list is written as an empty JSON array, never skipped.
func (r *PostRepo) UpdateAttachments(ctx context.Context, id uuid.UUID, names []string) error {
	if names == nil {
		names = []string{}
	}
	return r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).
		Update("attachments", datatypes.NewJSONSlice(names)).Error
}

// UpdateCover writes the cover object name; nil clears it
func (r *PostRepo) UpdateCover(ctx context.Context, id uuid.UUID, name *string) error {
	return r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).
		Update("cover", name).Error
}

// Delete removes a post; the comment FK cascades in the database
func (r *PostRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Post{}, "id = ?", id).Error
}

// translate maps slug unique-index violations to the typed DuplicateSlug error
func (r *PostRepo) translate(err error, slug string) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "idx_posts_slug") ||
		(strings.Contains(msg, "duplicate key") && strings.Contains(msg, "slug")) {
		return errs.NewDuplicateSlugError(slug)
	}
	return err
}
