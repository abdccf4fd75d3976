package models

import (
	"time"

	"github.com/google/uuid"
)

// Tag represents a label that posts reference. Name and slug are both unique.
type Tag struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Name      string    `json:"name" db:"name" gorm:"type:text;not null;uniqueIndex:idx_tags_name"`
	Slug      string    `json:"slug" db:"slug" gorm:"type:text;not null;uniqueIndex:idx_tags_slug"`
	Color     *string   `json:"color,omitempty" db:"color" gorm:"type:text"`
	CreatedAt time.Time `json:"created" db:"created_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated" db:"updated_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
}

const (
	TagNameMinLen = 2
	TagNameMaxLen = 50
	TagSlugMinLen = 2
	TagSlugMaxLen = 60
)
