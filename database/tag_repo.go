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

type TagRepo struct {
	db *gorm.DB
}

func NewTagRepo(db *gorm.DB) *TagRepo {
	return &TagRepo{db}
}

var _ services.TagStore = (*TagRepo)(nil)

// FindByID returns a tag by its ID
func (r *TagRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.WithContext(ctx).First(&tag, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFoundError("tag not found")
		}
		return nil, err
	}
	return &tag, nil
}

// FindBySlug returns a tag by its unique slug
func (r *TagRepo) FindBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.WithContext(ctx).First(&tag, "slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFoundError("tag not found")
		}
		return nil, err
	}
	return &tag, nil
}

// FindByIDs returns the tags matching the given IDs, in store order
func (r *TagRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error
	return tags, err
}

// List returns all tags sorted by name
func (r *TagRepo) List(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.WithContext(ctx).Order("name ASC").Find(&tags).Error
	return tags, err
}

// Create inserts a new tag
func (r *TagRepo) Create(ctx context.Context, tag *models.Tag) error {
	return r.translate(r.db.WithContext(ctx).Create(tag).Error, tag)
}

// Update saves an existing tag
func (r *TagRepo) Update(ctx context.Context, tag *models.Tag) error {
	return r.translate(r.db.WithContext(ctx).Save(tag).Error, tag)
}

// Delete removes a tag. Posts referencing it lose the reference via the join
// table's FK; the posts themselves are untouched (non-cascading relation).
func (r *TagRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Tag{}, "id = ?", id).Error
}

func (r *TagRepo) translate(err error, tag *models.Tag) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "idx_tags_slug"):
		return errs.NewDuplicateSlugError(tag.Slug)
	case strings.Contains(msg, "idx_tags_name"):
		return errs.NewValidationError("name", "tag name is already taken")
	}
	return err
}
