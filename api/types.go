package api

import (
	"github.com/rpupo63/agile-blog-backend/models"
	"github.com/rpupo63/agile-blog-backend/services"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	authHandler    authHandler
	postHandler    postHandler
	tagHandler     tagHandler
	commentHandler commentHandler
	userHandler    userHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"Internal Server Error"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"title"`
	Details string `json:"details,omitempty" example:"Additional error details"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

// PostView is a post plus its schedule rendered back in the author's offset,
// so the editor shows the wall-clock time that was typed.
type PostView struct {
	models.Post
	PublishedAtLocal *string `json:"publishedAtLocal,omitempty"`
}

func newPostView(p models.Post) PostView {
	view := PostView{Post: p}
	if p.PublishedAt != nil {
		offset := ""
		if p.PublishedTz != nil {
			offset = *p.PublishedTz
		}
		local := services.ToLocalDisplay(*p.PublishedAt, offset)
		view.PublishedAtLocal = &local
	}
	return view
}

func newPostViews(posts []models.Post) []PostView {
	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, newPostView(p))
	}
	return views
}

// PostCollection represents multiple posts
type PostCollection struct {
	Posts []PostView `json:"posts"`
	Total int        `json:"total,omitempty"`
}
