package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/agile-blog-backend/errs"
	"github.com/rpupo63/agile-blog-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// maxUploadMemory bounds the in-memory part of multipart parsing; larger
// parts spill to temp files.
const maxUploadMemory = 16 << 20

type postHandler struct {
	responder   Responder
	logger      zerolog.Logger
	posts       *services.Posts
	attachments *services.Attachments
}

func newPostHandler(posts *services.Posts, attachments *services.Attachments) postHandler {
	logger := log.With().Str("handlerName", "postHandler").Logger()

	return postHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		posts:       posts,
		attachments: attachments,
	}
}

// getAllPosts retrieves the posts visible to the caller
// @Summary Get all posts
// @Description Retrieves visible posts, optionally narrowed by tag, keyword and publication date range
// @Tags Posts
// @Produce json
// @Param tag query string false "Tag slug"
// @Param q query string false "Keyword matched against title, excerpt and content"
// @Param from query string false "Earliest publication date (YYYY-MM-DD)"
// @Param to query string false "Latest publication date (YYYY-MM-DD)"
// @Success 200 {object} PostCollection "List of posts"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid date filter"
// @Router /posts [get]
func (h postHandler) getAllPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := services.ListFilter{
			TagSlug: r.URL.Query().Get("tag"),
			Keyword: r.URL.Query().Get("q"),
		}

		if from := r.URL.Query().Get("from"); from != "" {
			t, err := time.Parse("2006-01-02", from)
			if err != nil {
				h.responder.WriteError(w, errs.NewBadRequestError("invalid from date, expected YYYY-MM-DD"))
				return
			}
			filter.From = &t
		}
		if to := r.URL.Query().Get("to"); to != "" {
			t, err := time.Parse("2006-01-02", to)
			if err != nil {
				h.responder.WriteError(w, errs.NewBadRequestError("invalid to date, expected YYYY-MM-DD"))
				return
			}
			// Inclusive end of day
			endOfDay := t.Add(24*time.Hour - time.Second)
			filter.To = &endOfDay
		}

		posts, err := h.posts.List(r.Context(), requesterFromCtx(r.Context()), filter)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find posts", "posts", err))
			return
		}

		views := newPostViews(posts)
		h.responder.WriteJSON(w, PostCollection{Posts: views, Total: len(views)})
	}
}

// getMyPosts retrieves every post of the caller regardless of status
// @Summary Get own posts
// @Description Retrieves the caller's posts of any status, most recently updated first
// @Tags Posts
// @Produce json
// @Success 200 {object} PostCollection "List of posts"
// @Failure 401 {object} ErrorResponse "Unauthorized - Missing or invalid token"
// @Router /my/posts [get]
func (h postHandler) getMyPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := h.posts.ListOwn(r.Context(), requesterFromCtx(r.Context()))
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find posts", "posts", err))
			return
		}

		views := newPostViews(posts)
		h.responder.WriteJSON(w, PostCollection{Posts: views, Total: len(views)})
	}
}

// getPost retrieves a specific post by slug
// @Summary Get post
// @Description Retrieves a post by slug with its author and tags
// @Tags Posts
// @Produce json
// @Param slug path string true "Post slug"
// @Success 200 {object} PostView "Post details"
// @Failure 404 {object} ErrorResponse "Not Found - Post not found or not visible"
// @Router /post/{slug} [get]
func (h postHandler) getPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		if slug == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing slug"))
			return
		}

		post, err := h.posts.GetBySlug(r.Context(), requesterFromCtx(r.Context()), slug)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, newPostView(*post))
	}
}

// createPost creates a new post
// @Summary Create post
// @Description Creates a new post authored by the caller
// @Tags Posts
// @Accept json
// @Produce json
// @Param post body services.PostInput true "Post data"
// @Success 201 {object} PostView "Created post"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid post data"
// @Failure 409 {object} ErrorResponse "Conflict - Slug already taken"
// @Router /post [post]
func (h postHandler) createPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to read request body")
			h.responder.WriteError(w, errs.NewBadRequestError("failed to read request body"))
			return
		}

		var input services.PostInput
		if err := json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&input); err != nil {
			h.logger.Error().Err(err).Str("body", string(bodyBytes)).Msg("Failed to decode post request body")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		post, err := h.posts.Create(r.Context(), requesterFromCtx(r.Context()), input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, newPostView(*post))
	}
}

// updatePost updates an existing post
// @Summary Update post
// @Description Updates an existing post; only the author may write and the slug never changes
// @Tags Posts
// @Accept json
// @Produce json
// @Param postID path string true "Post ID" format(uuid)
// @Param post body services.PostInput true "Updated post data"
// @Success 200 {object} PostView "Updated post"
// @Failure 403 {object} ErrorResponse "Forbidden - Caller is not the author"
// @Failure 404 {object} ErrorResponse "Not Found - Post not found"
// @Router /post/{postID} [put]
func (h postHandler) updatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := parseUUIDParam(r, "postID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var input services.PostInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		post, err := h.posts.Update(r.Context(), requesterFromCtx(r.Context()), postID, input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, newPostView(*post))
	}
}

// deletePost deletes a post by ID
// @Summary Delete post
// @Description Deletes a post and its comments; only the author may delete
// @Tags Posts
// @Produce json
// @Param postID path string true "Post ID" format(uuid)
// @Success 200 {object} map[string]string "Success message"
// @Failure 403 {object} ErrorResponse "Forbidden - Caller is not the author"
// @Failure 404 {object} ErrorResponse "Not Found - Post not found"
// @Router /post/{postID} [delete]
func (h postHandler) deletePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := parseUUIDParam(r, "postID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.posts.Delete(r.Context(), requesterFromCtx(r.Context()), postID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "post deleted successfully",
		})
	}
}

// addAttachments uploads new attachments and reconciles the post's set
// @Summary Add attachments
// @Description Uploads image attachments; the `existing` form values name the files to keep, `files` carries the uploads
// @Tags Posts
// @Accept multipart/form-data
// @Produce json
// @Param postID path string true "Post ID" format(uuid)
// @Param existing formData string false "Stored attachment names to keep, repeated per name"
// @Param files formData file false "New image files"
// @Success 200 {object} map[string][]string "Resulting attachment list"
// @Failure 400 {object} ErrorResponse "Bad Request - Rejected file or too many attachments"
// @Failure 403 {object} ErrorResponse "Forbidden - Caller is not the author"
// @Router /post/{postID}/attachments [post]
func (h postHandler) addAttachments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := parseUUIDParam(r, "postID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed multipart body"))
			return
		}

		existing := r.MultipartForm.Value["existing"]

		var uploads []services.Upload
		for _, header := range r.MultipartForm.File["files"] {
			file, err := header.Open()
			if err != nil {
				h.responder.WriteError(w, errs.NewBadRequestError("failed to open uploaded file"))
				return
			}
			data, err := io.ReadAll(file)
			file.Close()
			if err != nil {
				h.responder.WriteError(w, errs.NewBadRequestError("failed to read uploaded file"))
				return
			}
			uploads = append(uploads, services.Upload{Name: header.Filename, Data: data})
		}

		names, err := h.attachments.Add(r.Context(), requesterFromCtx(r.Context()), postID, existing, uploads)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string][]string{"attachments": names})
	}
}

// removeAttachment detaches one attachment from a post
// @Summary Remove attachment
// @Description Detaches one attachment by stored name; the rest keep their order
// @Tags Posts
// @Produce json
// @Param postID path string true "Post ID" format(uuid)
// @Param name path string true "Stored attachment name"
// @Success 200 {object} map[string][]string "Remaining attachment list"
// @Failure 403 {object} ErrorResponse "Forbidden - Caller is not the author"
// @Failure 404 {object} ErrorResponse "Not Found - Post not found"
// @Router /post/{postID}/attachment/{name} [delete]
func (h postHandler) removeAttachment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := parseUUIDParam(r, "postID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		name := chi.URLParam(r, "name")
		if name == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing attachment name"))
			return
		}

		names, err := h.attachments.Remove(r.Context(), requesterFromCtx(r.Context()), postID, name)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string][]string{"attachments": names})
	}
}

// setCover replaces the post's cover image
// @Summary Set cover
// @Description Replaces the post's cover image with the uploaded file
// @Tags Posts
// @Accept multipart/form-data
// @Produce json
// @Param postID path string true "Post ID" format(uuid)
// @Param file formData file true "Cover image"
// @Success 200 {object} map[string]string "Stored cover name"
// @Failure 400 {object} ErrorResponse "Bad Request - Rejected file"
// @Failure 403 {object} ErrorResponse "Forbidden - Caller is not the author"
// @Router /post/{postID}/cover [put]
func (h postHandler) setCover() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := parseUUIDParam(r, "postID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		upload, err := singleUpload(r, "file")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		name, err := h.attachments.SetCover(r.Context(), requesterFromCtx(r.Context()), postID, upload)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{"cover": name})
	}
}

func parseUUIDParam(r *http.Request, param string) (uuid.UUID, error) {
	value := chi.URLParam(r, param)
	if value == "" {
		return uuid.Nil, errs.NewBadRequestError("missing " + param)
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, errs.NewBadRequestError("invalid " + param)
	}
	return id, nil
}

func singleUpload(r *http.Request, field string) (services.Upload, error) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return services.Upload{}, errs.NewBadRequestError("malformed multipart body")
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		return services.Upload{}, errs.NewBadRequestError("missing " + field + " upload")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return services.Upload{}, errs.NewBadRequestError("failed to read uploaded file")
	}

	return services.Upload{Name: header.Filename, Data: data}, nil
}
