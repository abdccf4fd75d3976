package api

import (
	"github.com/rpupo63/agile-blog-backend/database"
	"github.com/rpupo63/agile-blog-backend/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, objects services.ObjectStorage, jwtSecret string) *routeHandlers {
	posts := services.NewPosts(database.PostRepo(), database.TagRepo())
	tags := services.NewTags(database.TagRepo())
	comments := services.NewComments(database.CommentRepo(), database.PostRepo())
	attachments := services.NewAttachments(database.PostRepo(), database.UserRepo(), objects)

	return &routeHandlers{
		authHandler:    newAuthHandler(database.UserRepo(), jwtSecret),
		postHandler:    newPostHandler(posts, attachments),
		tagHandler:     newTagHandler(tags),
		commentHandler: newCommentHandler(comments),
		userHandler:    newUserHandler(database.UserRepo(), attachments),
	}
}
