package services

import (
	"context"
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rpupo63/agile-blog-backend/access"
	"github.com/rpupo63/agile-blog-backend/errs"
	"github.com/rpupo63/agile-blog-backend/models"
)

// TagInput carries the client-writable fields of a tag.
type TagInput struct {
	Name  string  `json:"name"`
	Slug  string  `json:"slug"`
	Color *string `json:"color,omitempty"`
}

var (
	tagSlugRe  = regexp.MustCompile(`^[a-z0-9-]+$`)
	tagColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

type Tags struct {
	store  TagStore
	logger zerolog.Logger
}

func NewTags(store TagStore) *Tags {
	return &Tags{
		store:  store,
		logger: log.With().Str("serviceName", "tags").Logger(),
	}
}

// List returns every tag; tags are publicly readable.
func (s *Tags) List(ctx context.Context) ([]models.Tag, error) {
	return s.store.List(ctx)
}

func (s *Tags) GetBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	return s.store.FindBySlug(ctx, slug)
}

// Create adds a tag; any authenticated caller may write tags.
func (s *Tags) Create(ctx context.Context, caller access.Requester, in TagInput) (*models.Tag, error) {
	if !access.CanMutateTag(caller) {
		return nil, errs.NewUnauthorizedError("creating a tag requires a session")
	}
	if err := validateTagFields(in); err != nil {
		return nil, err
	}

	tag := &models.Tag{
		Name:  in.Name,
		Slug:  in.Slug,
		Color: in.Color,
	}
	if err := s.store.Create(ctx, tag); err != nil {
		return nil, err
	}
	return s.store.FindByID(ctx, tag.ID)
}

func (s *Tags) Update(ctx context.Context, caller access.Requester, tagID uuid.UUID, in TagInput) (*models.Tag, error) {
	tag, err := s.store.FindByID(ctx, tagID)
	if err != nil {
		return nil, err
	}
	if !access.CanMutateTag(caller) {
		return nil, errs.NewUnauthorizedError("updating a tag requires a session")
	}
	if err := validateTagFields(in); err != nil {
		return nil, err
	}

	tag.Name = in.Name
	tag.Slug = in.Slug
	tag.Color = in.Color
	if err := s.store.Update(ctx, tag); err != nil {
		return nil, err
	}
	return s.store.FindByID(ctx, tagID)
}

// Delete removes a tag. Posts referencing it simply lose the reference; the
// store drops the join rows.
func (s *Tags) Delete(ctx context.Context, caller access.Requester, tagID uuid.UUID) error {
	if _, err := s.store.FindByID(ctx, tagID); err != nil {
		return err
	}
	if !access.CanMutateTag(caller) {
		return errs.NewUnauthorizedError("deleting a tag requires a session")
	}
	return s.store.Delete(ctx, tagID)
}

func validateTagFields(in TagInput) error {
	nameLen := utf8.RuneCountInString(in.Name)
	if nameLen < models.TagNameMinLen || nameLen > models.TagNameMaxLen {
		return errs.NewValidationError("name",
			fmt.Sprintf("name must be %d-%d characters", models.TagNameMinLen, models.TagNameMaxLen))
	}
	if len(in.Slug) < models.TagSlugMinLen || len(in.Slug) > models.TagSlugMaxLen || !tagSlugRe.MatchString(in.Slug) {
		return errs.NewValidationError("slug",
			fmt.Sprintf("slug must be %d-%d characters of a-z, 0-9 and hyphens", models.TagSlugMinLen, models.TagSlugMaxLen))
	}
	if in.Color != nil && !tagColorRe.MatchString(*in.Color) {
		return errs.NewValidationError("color", "color must be a #RRGGBB hex value")
	}
	return nil
}
