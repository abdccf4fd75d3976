package api

import (
	"github.com/go-chi/chi/v5"
)

// setupFrontendRoutes sets up all routes. Public routes still resolve the
// caller when a token is present, so visibility rules see the real identity.
func setupFrontendRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	// Public routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.identify)
		r.Use(ColoredHTTPLoggingMiddleware)

		// Auth Handler endpoints
		r.Post("/auth/signup", handlers.authHandler.signup())
		r.Post("/auth/login", handlers.authHandler.login())

		// Post Handler endpoints
		r.Get("/posts", handlers.postHandler.getAllPosts())
		r.Get("/post/{slug}", handlers.postHandler.getPost())

		// Tag Handler endpoints
		r.Get("/tags", handlers.tagHandler.getAllTags())

		// Comment Handler endpoints
		r.Get("/post/{postID}/comments", handlers.commentHandler.getPostComments())

		// User Handler endpoints
		r.Get("/user/{userID}", handlers.userHandler.getUser())
	})

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.authenticate)
		r.Use(ColoredHTTPLoggingMiddleware)

		// Auth Handler endpoints
		r.Get("/auth/me", handlers.authHandler.me())

		// Post Handler endpoints
		r.Get("/my/posts", handlers.postHandler.getMyPosts())
		r.Post("/post", handlers.postHandler.createPost())
		r.Put("/post/{postID}", handlers.postHandler.updatePost())
		r.Delete("/post/{postID}", handlers.postHandler.deletePost())
		r.Post("/post/{postID}/attachments", handlers.postHandler.addAttachments())
		r.Delete("/post/{postID}/attachment/{name}", handlers.postHandler.removeAttachment())
		r.Put("/post/{postID}/cover", handlers.postHandler.setCover())

		// Tag Handler endpoints
		r.Post("/tag", handlers.tagHandler.createTag())
		r.Put("/tag/{tagID}", handlers.tagHandler.updateTag())
		r.Delete("/tag/{tagID}", handlers.tagHandler.deleteTag())

		// Comment Handler endpoints
		r.Post("/post/{postID}/comment", handlers.commentHandler.createComment())
		r.Put("/comment/{commentID}", handlers.commentHandler.updateComment())
		r.Delete("/comment/{commentID}", handlers.commentHandler.deleteComment())

		// User Handler endpoints
		r.Put("/me/avatar", handlers.userHandler.setProfileAvatar())
	})
}
