package services

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/rpupo63/agile-blog-backend/models"
)

// PostQuery narrows a post listing. The store applies the listing rule in SQL:
// anonymous callers get published posts only; authenticated callers get
// published posts plus their own, newest publication first. OwnOnly restricts
// to the caller's posts regardless of status, most recently updated first.
type PostQuery struct {
	Caller  uuid.UUID // uuid.Nil for anonymous
	OwnOnly bool
}

type PostStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	FindBySlug(ctx context.Context, slug string) (*models.Post, error)
	List(ctx context.Context, q PostQuery) ([]models.Post, error)
	// Create and Update take column names to leave out of the write; the
	// lifecycle uses this for slug immutability and the showAttachments
	// compatibility retry.
	Create(ctx context.Context, post *models.Post, omitColumns ...string) error
	Update(ctx context.Context, post *models.Post, omitColumns ...string) error
	ReplaceTags(ctx context.Context, post *models.Post, tags []models.Tag) error
	// UpdateAttachments always writes the attachments column, including an
	// explicit empty list. An update that omitted the column would be a no-op
	// in the store and leave stale files attached.
	UpdateAttachments(ctx context.Context, id uuid.UUID, names []string) error
	UpdateCover(ctx context.Context, id uuid.UUID, name *string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type TagStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Tag, error)
	FindBySlug(ctx context.Context, slug string) (*models.Tag, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Tag, error)
	List(ctx context.Context) ([]models.Tag, error)
	Create(ctx context.Context, tag *models.Tag) error
	Update(ctx context.Context, tag *models.Tag) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CommentStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	// ListByPost returns all of a post's comments newest first; visibility
	// filtering happens against the access rules, per comment.
	ListByPost(ctx context.Context, postID uuid.UUID) ([]models.Comment, error)
	FindByPostAndAuthor(ctx context.Context, postID, authorID uuid.UUID) (*models.Comment, error)
	Create(ctx context.Context, comment *models.Comment) error
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type UserStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateProfileAvatar(ctx context.Context, id uuid.UUID, name *string) error
}

// ObjectStorage is the bucket holding attachment, cover and avatar bytes.
type ObjectStorage interface {
	Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	Remove(ctx context.Context, name string) error
}
