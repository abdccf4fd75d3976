package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rpupo63/agile-blog-backend/access"
	"github.com/rpupo63/agile-blog-backend/errs"
	"github.com/rpupo63/agile-blog-backend/models"
)

// PostInput carries the client-writable fields of a post. There is no author
// field on purpose: the author is always the caller, set at creation and never
// reassigned.
type PostInput struct {
	Title            string             `json:"title"`
	Slug             string             `json:"slug,omitempty"`
	Excerpt          *string            `json:"excerpt,omitempty"`
	Content          string             `json:"content"`
	TagIDs           []uuid.UUID        `json:"tags,omitempty"`
	Status           models.PostStatus  `json:"status,omitempty"`
	PublishedAtLocal *string            `json:"publishedAtLocal,omitempty"`
	PublishedTz      *string            `json:"publishedTz,omitempty"`
	ReadingMinutes   *int               `json:"readingMinutes,omitempty"`
	ShowAttachments  *bool              `json:"showAttachments,omitempty"`
}

// ListFilter is presentation filtering applied to the already-fetched page.
// It is layered after the store's access rule and is never a security
// boundary; unpublished posts are excluded by the store query, not here.
type ListFilter struct {
	TagSlug string
	Keyword string
	From    *time.Time
	To      *time.Time
}

type Posts struct {
	store  PostStore
	tags   TagStore
	logger zerolog.Logger
}

func NewPosts(store PostStore, tags TagStore) *Posts {
	return &Posts{
		store:  store,
		tags:   tags,
		logger: log.With().Str("serviceName", "posts").Logger(),
	}
}

// Create persists a new post. The caller becomes the author unconditionally,
// the slug is derived from the title when absent or invalid, and reading
// minutes are estimated from content when not supplied.
func (s *Posts) Create(ctx context.Context, caller access.Requester, in PostInput) (*models.Post, error) {
	if !access.CanCreatePost(caller) {
		return nil, errs.NewUnauthorizedError("creating a post requires a session")
	}
	if err := validatePostFields(in); err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = models.PostStatusDraft
	}

	slug := in.Slug
	if !IsValidSlug(slug) {
		slug = DeriveSlug(in.Title)
	}

	post := &models.Post{
		Title:    in.Title,
		Slug:     slug,
		Excerpt:  in.Excerpt,
		Content:  in.Content,
		Status:   status,
		AuthorID: caller.ID,
	}
	if err := s.applySchedule(post, in); err != nil {
		return nil, err
	}
	if in.ReadingMinutes != nil {
		post.ReadingMinutes = *in.ReadingMinutes
	} else {
		post.ReadingMinutes = EstimateReadingMinutes(in.Content)
	}
	if in.ShowAttachments != nil {
		post.ShowAttachments = *in.ShowAttachments
	}

	tags, err := s.resolveTags(ctx, in.TagIDs)
	if err != nil {
		return nil, err
	}
	post.Tags = tags

	if err := s.createWithCompatRetry(ctx, post); err != nil {
		return nil, err
	}

	return s.store.FindByID(ctx, post.ID)
}

// Update mutates an existing post. Only the author may write; a
// client-supplied slug is dropped (immutable after creation).
func (s *Posts) Update(ctx context.Context, caller access.Requester, postID uuid.UUID, in PostInput) (*models.Post, error) {
	post, err := s.store.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !caller.Authenticated {
		return nil, errs.NewUnauthorizedError("updating a post requires a session")
	}
	if !access.CanMutatePost(caller, post) {
		return nil, errs.NewForbiddenError("only the author may update this post")
	}
	if err := validatePostFields(in); err != nil {
		return nil, err
	}

	contentChanged := post.Content != in.Content

	post.Title = in.Title
	post.Excerpt = in.Excerpt
	post.Content = in.Content
	if in.Status != "" {
		post.Status = in.Status
	}
	if err := s.applySchedule(post, in); err != nil {
		return nil, err
	}
	switch {
	case in.ReadingMinutes != nil:
		post.ReadingMinutes = *in.ReadingMinutes
	case contentChanged:
		post.ReadingMinutes = EstimateReadingMinutes(in.Content)
	}
	if in.ShowAttachments != nil {
		post.ShowAttachments = *in.ShowAttachments
	}

	tags, err := s.resolveTags(ctx, in.TagIDs)
	if err != nil {
		return nil, err
	}

	if err := s.updateWithCompatRetry(ctx, post); err != nil {
		return nil, err
	}
	if err := s.store.ReplaceTags(ctx, post, tags); err != nil {
		return nil, err
	}

	return s.store.FindByID(ctx, postID)
}

// Delete removes a post; the store cascades comment deletion.
func (s *Posts) Delete(ctx context.Context, caller access.Requester, postID uuid.UUID) error {
	post, err := s.store.FindByID(ctx, postID)
	if err != nil {
		return err
	}
	if !caller.Authenticated {
		return errs.NewUnauthorizedError("deleting a post requires a session")
	}
	if !access.CanMutatePost(caller, post) {
		return errs.NewForbiddenError("only the author may delete this post")
	}
	return s.store.Delete(ctx, postID)
}

// List fetches the caller-visible page from the store and layers the
// presentation filters on top.
func (s *Posts) List(ctx context.Context, caller access.Requester, filter ListFilter) ([]models.Post, error) {
	posts, err := s.store.List(ctx, PostQuery{Caller: caller.ID})
	if err != nil {
		return nil, err
	}
	return applyListFilter(posts, filter), nil
}

// ListOwn returns the caller's posts regardless of status, newest update first.
func (s *Posts) ListOwn(ctx context.Context, caller access.Requester) ([]models.Post, error) {
	if !caller.Authenticated {
		return nil, errs.NewUnauthorizedError("listing own posts requires a session")
	}
	return s.store.List(ctx, PostQuery{Caller: caller.ID, OwnOnly: true})
}

// GetBySlug returns a single post if the view rule admits the caller. A
// denied view reads as not-found so that existence does not leak.
func (s *Posts) GetBySlug(ctx context.Context, caller access.Requester, slug string) (*models.Post, error) {
	post, err := s.store.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !access.CanViewPost(caller, post) {
		return nil, errs.NewNotFoundError("post not found")
	}
	return post, nil
}

// createWithCompatRetry retries a rejected create once without the
// showAttachments column. Older deployments predate the column; the shim keeps
// writes working against them and surfaces the original error otherwise.
func (s *Posts) createWithCompatRetry(ctx context.Context, post *models.Post) error {
	err := s.store.Create(ctx, post)
	if err != nil && errs.IsUnknownColumn(err, "show_attachments") {
		s.logger.Warn().Err(err).Msg("store rejected showAttachments, retrying without it")
		return s.store.Create(ctx, post, "show_attachments")
	}
	return err
}

func (s *Posts) updateWithCompatRetry(ctx context.Context, post *models.Post) error {
	err := s.store.Update(ctx, post, "slug")
	if err != nil && errs.IsUnknownColumn(err, "show_attachments") {
		s.logger.Warn().Err(err).Msg("store rejected showAttachments, retrying without it")
		return s.store.Update(ctx, post, "slug", "show_attachments")
	}
	return err
}

// applySchedule converts the author-local publish time into the stored
// absolute instant and records the offset used, so the editor can reconstruct
// the original wall-clock time later.
func (s *Posts) applySchedule(post *models.Post, in PostInput) error {
	if in.PublishedTz != nil {
		post.PublishedTz = in.PublishedTz
	}
	if in.PublishedAtLocal == nil {
		return nil
	}
	if *in.PublishedAtLocal == "" {
		post.PublishedAt = nil
		return nil
	}
	offset := ""
	if post.PublishedTz != nil {
		offset = *post.PublishedTz
	}
	instant, err := ToAbsoluteInstant(*in.PublishedAtLocal, offset)
	if err != nil {
		return err
	}
	post.PublishedAt = &instant
	return nil
}

func (s *Posts) resolveTags(ctx context.Context, ids []uuid.UUID) ([]models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	tags, err := s.tags.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		return nil, errs.NewValidationError("tags", "one or more referenced tags do not exist")
	}
	return tags, nil
}

var htmlTagRe = regexp.MustCompile(`<[^>]*>`)

func validatePostFields(in PostInput) error {
	titleLen := utf8.RuneCountInString(in.Title)
	if titleLen < models.PostTitleMinLen || titleLen > models.PostTitleMaxLen {
		return errs.NewValidationError("title",
			fmt.Sprintf("title must be %d-%d characters", models.PostTitleMinLen, models.PostTitleMaxLen))
	}
	if strings.TrimSpace(htmlTagRe.ReplaceAllString(in.Content, "")) == "" {
		return errs.NewValidationError("content", "content is required")
	}
	if in.Excerpt != nil && utf8.RuneCountInString(*in.Excerpt) > models.PostExcerptMaxLen {
		return errs.NewValidationError("excerpt",
			fmt.Sprintf("excerpt must be at most %d characters", models.PostExcerptMaxLen))
	}
	if in.Status != "" && !models.ValidPostStatus(in.Status) {
		return errs.NewValidationError("status", "status must be draft, published or archived")
	}
	if len(in.TagIDs) > models.PostMaxTags {
		return errs.NewValidationError("tags",
			fmt.Sprintf("a post may reference at most %d tags", models.PostMaxTags))
	}
	if in.ReadingMinutes != nil &&
		(*in.ReadingMinutes < models.PostMinReadingMin || *in.ReadingMinutes > models.PostMaxReadingMin) {
		return errs.NewValidationError("readingMinutes",
			fmt.Sprintf("readingMinutes must be %d-%d", models.PostMinReadingMin, models.PostMaxReadingMin))
	}
	return nil
}

func applyListFilter(posts []models.Post, filter ListFilter) []models.Post {
	keyword := strings.ToLower(strings.TrimSpace(filter.Keyword))
	out := make([]models.Post, 0, len(posts))
	for _, post := range posts {
		if filter.TagSlug != "" && !postHasTagSlug(post, filter.TagSlug) {
			continue
		}
		if keyword != "" && !postMatchesKeyword(post, keyword) {
			continue
		}
		if filter.From != nil && (post.PublishedAt == nil || post.PublishedAt.Before(*filter.From)) {
			continue
		}
		if filter.To != nil && (post.PublishedAt == nil || post.PublishedAt.After(*filter.To)) {
			continue
		}
		out = append(out, post)
	}
	return out
}

func postHasTagSlug(post models.Post, slug string) bool {
	for _, tag := range post.Tags {
		if tag.Slug == slug {
			return true
		}
	}
	return false
}

func postMatchesKeyword(post models.Post, keyword string) bool {
	if strings.Contains(strings.ToLower(post.Title), keyword) {
		return true
	}
	if post.Excerpt != nil && strings.Contains(strings.ToLower(*post.Excerpt), keyword) {
		return true
	}
	return strings.Contains(strings.ToLower(post.Content), keyword)
}
