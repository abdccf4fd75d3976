package api

import (
	"net/http"

	"github.com/rpupo63/agile-blog-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type userHandler struct {
	responder   Responder
	logger      zerolog.Logger
	users       services.UserStore
	attachments *services.Attachments
}

func newUserHandler(users services.UserStore, attachments *services.Attachments) userHandler {
	logger := log.With().Str("handlerName", "userHandler").Logger()

	return userHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		users:       users,
		attachments: attachments,
	}
}

// getUser retrieves a public profile by ID
// @Summary Get user
// @Description Retrieves a user's public profile; the password hash is never serialized
// @Tags Users
// @Produce json
// @Param userID path string true "User ID" format(uuid)
// @Success 200 {object} models.User "User profile"
// @Failure 404 {object} ErrorResponse "Not Found - User not found"
// @Router /user/{userID} [get]
func (h userHandler) getUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := parseUUIDParam(r, "userID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		user, err := h.users.FindByID(r.Context(), userID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, user)
	}
}

// setProfileAvatar replaces the caller's blog avatar
// @Summary Set profile avatar
// @Description Replaces the caller's blog avatar with the uploaded image
// @Tags Users
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Avatar image"
// @Success 200 {object} map[string]string "Stored avatar name"
// @Failure 400 {object} ErrorResponse "Bad Request - Rejected file"
// @Failure 401 {object} ErrorResponse "Unauthorized - Missing or invalid token"
// @Router /me/avatar [put]
func (h userHandler) setProfileAvatar() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		upload, err := singleUpload(r, "file")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		name, err := h.attachments.SetProfileAvatar(r.Context(), requesterFromCtx(r.Context()), upload)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{"profileAvatar": name})
	}
}
