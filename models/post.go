package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PostStatus is the three-state publication status of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
	PostStatusArchived  PostStatus = "archived"
)

// ValidPostStatus reports whether s is one of the three known statuses.
func ValidPostStatus(s PostStatus) bool {
	switch s {
	case PostStatusDraft, PostStatusPublished, PostStatusArchived:
		return true
	}
	return false
}

// Post represents a blog post. The slug is unique and immutable after creation,
// and the author is set once at creation and never reassigned. Attachments holds
// the object-storage names of the post's image attachments; the file bytes live
// in the object store, not in the database.
type Post struct {
	ID              uuid.UUID                   `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Title           string                      `json:"title" db:"title" gorm:"type:text;not null"`
	Slug            string                      `json:"slug" db:"slug" gorm:"type:text;not null;uniqueIndex:idx_posts_slug"`
	Excerpt         *string                     `json:"excerpt,omitempty" db:"excerpt" gorm:"type:text"`
	Content         string                      `json:"content" db:"content" gorm:"type:text;not null"`
	Cover           *string                     `json:"cover,omitempty" db:"cover" gorm:"type:text"`
	Attachments     datatypes.JSONSlice[string] `json:"attachments" db:"attachments" gorm:"type:jsonb"`
	Status          PostStatus                  `json:"status" db:"status" gorm:"type:text;not null;default:'draft';index:idx_posts_status_published_at"`
	PublishedAt     *time.Time                  `json:"publishedAt,omitempty" db:"published_at" gorm:"type:timestamptz;index:idx_posts_status_published_at"`
	PublishedTz     *string                     `json:"publishedTz,omitempty" db:"published_tz" gorm:"type:text"`
	AuthorID        uuid.UUID                   `json:"author" db:"author_id" gorm:"type:uuid;not null;index:idx_posts_author"`
	ReadingMinutes  int                         `json:"readingMinutes" db:"reading_minutes" gorm:"type:integer;not null;default:1"`
	ShowAttachments bool                        `json:"showAttachments" db:"show_attachments" gorm:"type:boolean;not null;default:false"`
	CreatedAt       time.Time                   `json:"created" db:"created_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time                   `json:"updated" db:"updated_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`

	Author *User `json:"expand_author,omitempty" gorm:"foreignKey:AuthorID;references:ID"`
	Tags   []Tag `json:"expand_tags,omitempty" gorm:"many2many:post_tags;constraint:OnDelete:CASCADE"`
}

// Field limits for posts, enforced by the lifecycle before any store write.
const (
	PostTitleMinLen   = 4
	PostTitleMaxLen   = 140
	PostSlugMinLen    = 3
	PostSlugMaxLen    = 120
	PostExcerptMaxLen = 260
	PostMaxTags       = 6
	PostMinReadingMin = 1
	PostMaxReadingMin = 60
)
