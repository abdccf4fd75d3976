package api

import (
	"encoding/json"
	"net/http"

	"github.com/rpupo63/agile-blog-backend/errs"
	"github.com/rpupo63/agile-blog-backend/models"
	"github.com/rpupo63/agile-blog-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type commentHandler struct {
	responder Responder
	logger    zerolog.Logger
	comments  *services.Comments
}

func newCommentHandler(comments *services.Comments) commentHandler {
	logger := log.With().Str("handlerName", "commentHandler").Logger()

	return commentHandler{
		responder: NewResponder(logger),
		logger:    logger,
		comments:  comments,
	}
}

type commentRequest struct {
	Content string               `json:"content"`
	Status  models.CommentStatus `json:"status,omitempty"`
}

// getPostComments retrieves the comments of a post visible to the caller
// @Summary Get post comments
// @Description Retrieves a post's comments the caller may see, newest first
// @Tags Comments
// @Produce json
// @Param postID path string true "Post ID" format(uuid)
// @Success 200 {array} models.Comment "List of comments"
// @Failure 404 {object} ErrorResponse "Not Found - Post not found or not visible"
// @Router /post/{postID}/comments [get]
func (h commentHandler) getPostComments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := parseUUIDParam(r, "postID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		comments, err := h.comments.ListForPost(r.Context(), requesterFromCtx(r.Context()), postID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, comments)
	}
}

// createComment adds a comment to a post
// @Summary Create comment
// @Description Adds a comment authored by the caller; new comments start visible
// @Tags Comments
// @Accept json
// @Produce json
// @Param postID path string true "Post ID" format(uuid)
// @Param comment body commentRequest true "Comment data"
// @Success 201 {object} models.Comment "Created comment"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid comment data"
// @Failure 404 {object} ErrorResponse "Not Found - Post not found or not visible"
// @Router /post/{postID}/comment [post]
func (h commentHandler) createComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := parseUUIDParam(r, "postID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req commentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		comment, err := h.comments.Create(r.Context(), requesterFromCtx(r.Context()), postID, req.Content)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, comment)
	}
}

// updateComment updates a comment's content or status
// @Summary Update comment
// @Description Updates a comment; only the author may write
// @Tags Comments
// @Accept json
// @Produce json
// @Param commentID path string true "Comment ID" format(uuid)
// @Param comment body commentRequest true "Updated comment data"
// @Success 200 {object} models.Comment "Updated comment"
// @Failure 403 {object} ErrorResponse "Forbidden - Caller is not the author"
// @Failure 404 {object} ErrorResponse "Not Found - Comment not found"
// @Router /comment/{commentID} [put]
func (h commentHandler) updateComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		commentID, err := parseUUIDParam(r, "commentID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req commentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		comment, err := h.comments.Update(r.Context(), requesterFromCtx(r.Context()), commentID, req.Content, req.Status)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, comment)
	}
}

// deleteComment deletes a comment by ID
// @Summary Delete comment
// @Description Deletes a comment; only the author may delete
// @Tags Comments
// @Produce json
// @Param commentID path string true "Comment ID" format(uuid)
// @Success 200 {object} map[string]string "Success message"
// @Failure 403 {object} ErrorResponse "Forbidden - Caller is not the author"
// @Failure 404 {object} ErrorResponse "Not Found - Comment not found"
// @Router /comment/{commentID} [delete]
func (h commentHandler) deleteComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		commentID, err := parseUUIDParam(r, "commentID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.comments.Delete(r.Context(), requesterFromCtx(r.Context()), commentID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "comment deleted successfully",
		})
	}
}
