package api

import (
	"encoding/json"
	"net/http"

	"github.com/rpupo63/agile-blog-backend/errs"
	"github.com/rpupo63/agile-blog-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type tagHandler struct {
	responder Responder
	logger    zerolog.Logger
	tags      *services.Tags
}

func newTagHandler(tags *services.Tags) tagHandler {
	logger := log.With().Str("handlerName", "tagHandler").Logger()

	return tagHandler{
		responder: NewResponder(logger),
		logger:    logger,
		tags:      tags,
	}
}

// getAllTags retrieves all tags
// @Summary Get all tags
// @Description Retrieves every tag; tags are publicly readable
// @Tags Tags
// @Produce json
// @Success 200 {array} models.Tag "List of tags"
// @Router /tags [get]
func (h tagHandler) getAllTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := h.tags.List(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find tags", "tags", err))
			return
		}

		h.responder.WriteJSON(w, tags)
	}
}

// createTag creates a new tag
// @Summary Create tag
// @Description Creates a new tag; any authenticated caller may write tags
// @Tags Tags
// @Accept json
// @Produce json
// @Param tag body services.TagInput true "Tag data"
// @Success 201 {object} models.Tag "Created tag"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid tag data"
// @Failure 409 {object} ErrorResponse "Conflict - Slug already taken"
// @Router /tag [post]
func (h tagHandler) createTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input services.TagInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		tag, err := h.tags.Create(r.Context(), requesterFromCtx(r.Context()), input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, tag)
	}
}

// updateTag updates an existing tag
// @Summary Update tag
// @Description Updates a tag's name, slug and color
// @Tags Tags
// @Accept json
// @Produce json
// @Param tagID path string true "Tag ID" format(uuid)
// @Param tag body services.TagInput true "Updated tag data"
// @Success 200 {object} models.Tag "Updated tag"
// @Failure 404 {object} ErrorResponse "Not Found - Tag not found"
// @Router /tag/{tagID} [put]
func (h tagHandler) updateTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tagID, err := parseUUIDParam(r, "tagID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var input services.TagInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		tag, err := h.tags.Update(r.Context(), requesterFromCtx(r.Context()), tagID, input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, tag)
	}
}

// deleteTag deletes a tag by ID
// @Summary Delete tag
// @Description Deletes a tag; posts referencing it lose the reference
// @Tags Tags
// @Produce json
// @Param tagID path string true "Tag ID" format(uuid)
// @Success 200 {object} map[string]string "Success message"
// @Failure 404 {object} ErrorResponse "Not Found - Tag not found"
// @Router /tag/{tagID} [delete]
func (h tagHandler) deleteTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tagID, err := parseUUIDParam(r, "tagID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.tags.Delete(r.Context(), requesterFromCtx(r.Context()), tagID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "tag deleted successfully",
		})
	}
}
