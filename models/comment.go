package models

import (
	"time"

	"github.com/google/uuid"
)

// CommentStatus is the two-state visibility of a comment.
type CommentStatus string

const (
	CommentStatusVisible CommentStatus = "visible"
	CommentStatusHidden  CommentStatus = "hidden"
)

// Comment is a child record of a post. Deleting the post cascades to its comments.
type Comment struct {
	ID        uuid.UUID     `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	PostID    uuid.UUID     `json:"post" db:"post_id" gorm:"type:uuid;not null;index:idx_comments_post"`
	AuthorID  uuid.UUID     `json:"author" db:"author_id" gorm:"type:uuid;not null;index:idx_comments_author"`
	Content   string        `json:"content" db:"content" gorm:"type:text;not null"`
	Status    CommentStatus `json:"status" db:"status" gorm:"type:text;not null;default:'visible'"`
	CreatedAt time.Time     `json:"created" db:"created_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time     `json:"updated" db:"updated_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`

	Post   *Post `json:"expand_post,omitempty" gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE"`
	Author *User `json:"expand_author,omitempty" gorm:"foreignKey:AuthorID;references:ID"`
}

const (
	CommentMinLen = 2
	CommentMaxLen = 480
)
