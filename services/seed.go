package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"github.com/rpupo63/agile-blog-backend/errs"
	"github.com/rpupo63/agile-blog-backend/models"
)

// Seeder populates a fresh database with a demo author, a few tags, two
// published posts and a comment. Every record is keyed on a stable natural key
// (email, slug, post+author) so re-running the seed is a no-op.
type Seeder struct {
	posts    PostStore
	tags     TagStore
	comments CommentStore
	users    UserStore
	logger   zerolog.Logger
}

func NewSeeder(posts PostStore, tags TagStore, comments CommentStore, users UserStore) *Seeder {
	return &Seeder{
		posts:    posts,
		tags:     tags,
		comments: comments,
		users:    users,
		logger:   log.With().Str("serviceName", "seeder").Logger(),
	}
}

type seedTag struct {
	name  string
	slug  string
	color string
}

var seedTags = []seedTag{
	{"Frontend", "frontend", "#5eead4"},
	{"Backend", "backend", "#f7c266"},
	{"Lifestyle", "lifestyle", "#7dd3fc"},
}

// Run seeds the demo data set. Email and password identify the demo author;
// the username is derived from the email when the account does not exist yet.
func (s *Seeder) Run(ctx context.Context, email, password, username string) error {
	author, err := s.ensureAuthor(ctx, email, password, username)
	if err != nil {
		return err
	}

	tags := make([]models.Tag, 0, len(seedTags))
	for _, st := range seedTags {
		tag, err := s.ensureTag(ctx, st)
		if err != nil {
			return err
		}
		tags = append(tags, *tag)
	}

	now := time.Now().UTC().Truncate(time.Minute)
	offset := LocalOffsetString()

	first, err := s.ensurePost(ctx, models.Post{
		Title:   "Shipping a Side Project Without Burning Out",
		Slug:    "shipping-a-side-project-without-burning-out",
		Content: "<p>Small scope, steady pace. This post walks through how I cut a six month wishlist down to a two week build, what got dropped, and why the boring parts shipped first.</p><p>The short version: pick one user, one workflow, one deadline. Everything else is a tag on the backlog.</p>",
		Excerpt: strPtr("How a two week scope beat a six month wishlist."),
		Status:  models.PostStatusPublished,
	}, &now, offset, author.ID, []models.Tag{tags[1], tags[2]})
	if err != nil {
		return err
	}

	if _, err := s.ensurePost(ctx, models.Post{
		Title:   "Notes on Keeping a Component Library Small",
		Slug:    "notes-on-keeping-a-component-library-small",
		Content: "<p>Every component you add is a component you maintain. These are the questions I ask before anything new lands in the shared library, and the three components I deleted last quarter.</p><p>Deleting turned out to be the most valuable review outcome we have.</p>",
		Excerpt: strPtr("Three questions before a component goes shared."),
		Status:  models.PostStatusPublished,
	}, &now, offset, author.ID, []models.Tag{tags[0]}); err != nil {
		return err
	}

	return s.ensureComment(ctx, first.ID, author.ID,
		"Revisiting this after launch: the one-user rule held up better than expected.")
}

func (s *Seeder) ensureAuthor(ctx context.Context, email, password, username string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errs.IsNotFound(err) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errs.NewInternalError("failed to hash seed password")
	}
	user = &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info().Str("email", email).Msg("seeded demo author")
	return user, nil
}

func (s *Seeder) ensureTag(ctx context.Context, st seedTag) (*models.Tag, error) {
	tag, err := s.tags.FindBySlug(ctx, st.slug)
	if err == nil {
		return tag, nil
	}
	if !errs.IsNotFound(err) {
		return nil, err
	}

	color := st.color
	tag = &models.Tag{Name: st.name, Slug: st.slug, Color: &color}
	if err := s.tags.Create(ctx, tag); err != nil {
		return nil, err
	}
	s.logger.Info().Str("slug", st.slug).Msg("seeded tag")
	return tag, nil
}

func (s *Seeder) ensurePost(ctx context.Context, post models.Post, publishedAt *time.Time, offset string, authorID uuid.UUID, tags []models.Tag) (*models.Post, error) {
	found, err := s.posts.FindBySlug(ctx, post.Slug)
	if err == nil {
		return found, nil
	}
	if !errs.IsNotFound(err) {
		return nil, err
	}

	post.AuthorID = authorID
	post.PublishedAt = publishedAt
	post.PublishedTz = &offset
	post.ReadingMinutes = 3
	post.ShowAttachments = true
	post.Tags = tags
	if err := s.posts.Create(ctx, &post); err != nil {
		return nil, err
	}
	s.logger.Info().Str("slug", post.Slug).Msg("seeded post")
	return s.posts.FindBySlug(ctx, post.Slug)
}

func (s *Seeder) ensureComment(ctx context.Context, postID, authorID uuid.UUID, content string) error {
	_, err := s.comments.FindByPostAndAuthor(ctx, postID, authorID)
	if err == nil {
		return nil
	}
	if !errs.IsNotFound(err) {
		return err
	}

	comment := &models.Comment{
		PostID:   postID,
		AuthorID: authorID,
		Content:  content,
		Status:   models.CommentStatusVisible,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return err
	}
	s.logger.Info().Msg("seeded comment")
	return nil
}

func strPtr(s string) *string {
	return &s
}
