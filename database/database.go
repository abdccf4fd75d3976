package database

import (
	"github.com/rpupo63/agile-blog-backend/models"
	"gorm.io/gorm"
)

type Database struct {
	postRepo    *PostRepo
	tagRepo     *TagRepo
	commentRepo *CommentRepo
	userRepo    *UserRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		postRepo:    NewPostRepo(db),
		tagRepo:     NewTagRepo(db),
		commentRepo: NewCommentRepo(db),
		userRepo:    NewUserRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) PostRepo() *PostRepo {
	return d.postRepo
}

func (d Database) TagRepo() *TagRepo {
	return d.tagRepo
}

func (d Database) CommentRepo() *CommentRepo {
	return d.commentRepo
}

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

// Migrate creates or updates the schema for all collections. The comment FK
// carries ON DELETE CASCADE, so deleting a post removes its comments in-store.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Post{},
		&models.Comment{},
	)
}
