package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an authorable account. Credential fields are owned by the auth
// surface; the blog core reads the identity fields and writes ProfileAvatar
// (the blog-specific secondary avatar, stored as an object name).
type User struct {
	ID            uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Username      string    `json:"username" db:"username" gorm:"type:text;not null;uniqueIndex:idx_users_username"`
	Email         string    `json:"email" db:"email" gorm:"type:text;not null;uniqueIndex:idx_users_email"`
	PasswordHash  string    `json:"-" db:"password_hash" gorm:"type:text;not null"`
	Avatar        *string   `json:"avatar,omitempty" db:"avatar" gorm:"type:text"`
	ProfileAvatar *string   `json:"profileAvatar,omitempty" db:"profile_avatar" gorm:"type:text"`
	CreatedAt     time.Time `json:"created" db:"created_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time `json:"updated" db:"updated_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
}
