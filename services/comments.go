package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rpupo63/agile-blog-backend/access"
	"github.com/rpupo63/agile-blog-backend/errs"
	"github.com/rpupo63/agile-blog-backend/models"
)

type Comments struct {
	store  CommentStore
	posts  PostStore
	logger zerolog.Logger
}

func NewComments(store CommentStore, posts PostStore) *Comments {
	return &Comments{
		store:  store,
		posts:  posts,
		logger: log.With().Str("serviceName", "comments").Logger(),
	}
}

// Create adds a comment to a post the caller can view. New comments always
// start visible; the client cannot choose a status.
func (s *Comments) Create(ctx context.Context, caller access.Requester, postID uuid.UUID, content string) (*models.Comment, error) {
	if !access.CanCreateComment(caller) {
		return nil, errs.NewUnauthorizedError("commenting requires a session")
	}
	if err := validateCommentContent(content); err != nil {
		return nil, err
	}

	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !access.CanViewPost(caller, post) {
		return nil, errs.NewNotFoundError("post not found")
	}

	comment := &models.Comment{
		PostID:   postID,
		AuthorID: caller.ID,
		Content:  strings.TrimSpace(content),
		Status:   models.CommentStatusVisible,
	}
	if err := s.store.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.store.FindByID(ctx, comment.ID)
}

// ListForPost returns the post's comments the caller may see, newest first.
// The post itself must be viewable; a hidden post hides its comments too.
func (s *Comments) ListForPost(ctx context.Context, caller access.Requester, postID uuid.UUID) ([]models.Comment, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !access.CanViewPost(caller, post) {
		return nil, errs.NewNotFoundError("post not found")
	}

	comments, err := s.store.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	visible := make([]models.Comment, 0, len(comments))
	for _, c := range comments {
		if access.CanViewComment(caller, &c) {
			visible = append(visible, c)
		}
	}
	return visible, nil
}

// Update rewrites a comment's content or status; author-only.
func (s *Comments) Update(ctx context.Context, caller access.Requester, commentID uuid.UUID, content string, status models.CommentStatus) (*models.Comment, error) {
	comment, err := s.store.FindByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if !caller.Authenticated {
		return nil, errs.NewUnauthorizedError("editing a comment requires a session")
	}
	if !access.CanMutateComment(caller, comment) {
		return nil, errs.NewForbiddenError("only the author may edit this comment")
	}
	if err := validateCommentContent(content); err != nil {
		return nil, err
	}
	if status != "" && status != models.CommentStatusVisible && status != models.CommentStatusHidden {
		return nil, errs.NewValidationError("status", "status must be visible or hidden")
	}

	comment.Content = strings.TrimSpace(content)
	if status != "" {
		comment.Status = status
	}
	if err := s.store.Update(ctx, comment); err != nil {
		return nil, err
	}
	return s.store.FindByID(ctx, commentID)
}

// Delete removes a comment; author-only.
func (s *Comments) Delete(ctx context.Context, caller access.Requester, commentID uuid.UUID) error {
	comment, err := s.store.FindByID(ctx, commentID)
	if err != nil {
		return err
	}
	if !caller.Authenticated {
		return errs.NewUnauthorizedError("deleting a comment requires a session")
	}
	if !access.CanMutateComment(caller, comment) {
		return errs.NewForbiddenError("only the author may delete this comment")
	}
	return s.store.Delete(ctx, commentID)
}

func validateCommentContent(content string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(content))
	if n < models.CommentMinLen || n > models.CommentMaxLen {
		return errs.NewValidationError("content",
			fmt.Sprintf("comment must be %d-%d characters", models.CommentMinLen, models.CommentMaxLen))
	}
	return nil
}
