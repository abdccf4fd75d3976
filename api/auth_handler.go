package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rpupo63/agile-blog-backend/errs"
	"github.com/rpupo63/agile-blog-backend/models"
	"github.com/rpupo63/agile-blog-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const tokenLifetime = 7 * 24 * time.Hour

type authHandler struct {
	responder Responder
	logger    zerolog.Logger
	userStore services.UserStore
	secret    []byte
}

func newAuthHandler(userStore services.UserStore, jwtSecret string) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder: NewResponder(logger),
		logger:    logger,
		userStore: userStore,
		secret:    []byte(jwtSecret),
	}
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// signup registers a new account and returns a session token
// @Summary Sign up
// @Description Registers a new account and returns a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body signupRequest true "Account data"
// @Success 201 {object} authResponse "Token and account"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid account data"
// @Router /auth/signup [post]
func (h authHandler) signup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to read request body")
			h.responder.WriteError(w, errs.NewBadRequestError("failed to read request body"))
			return
		}

		var req signupRequest
		if err := json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		req.Username = strings.TrimSpace(req.Username)
		req.Email = strings.TrimSpace(strings.ToLower(req.Email))

		if utf8.RuneCountInString(req.Username) < 3 {
			h.responder.WriteError(w, errs.NewValidationError("username", "username must be at least 3 characters"))
			return
		}
		if !strings.Contains(req.Email, "@") {
			h.responder.WriteError(w, errs.NewValidationError("email", "a valid email address is required"))
			return
		}
		if len(req.Password) < 8 {
			h.responder.WriteError(w, errs.NewValidationError("password", "password must be at least 8 characters"))
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalError("failed to hash password"))
			return
		}

		user := &models.User{
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: string(hash),
		}
		if err := h.userStore.Create(r.Context(), user); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		token, err := h.issueToken(user.ID.String())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, authResponse{Token: token, User: *user})
	}
}

// login exchanges credentials for a session token
// @Summary Log in
// @Description Exchanges email and password for a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body loginRequest true "Credentials"
// @Success 200 {object} authResponse "Token and account"
// @Failure 401 {object} ErrorResponse "Unauthorized - Wrong credentials"
// @Router /auth/login [post]
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		email := strings.TrimSpace(strings.ToLower(req.Email))
		user, err := h.userStore.FindByEmail(r.Context(), email)
		if err != nil {
			// Same response for unknown email and wrong password
			h.responder.WriteError(w, errs.NewUnauthorizedError("wrong email or password"))
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("wrong email or password"))
			return
		}

		token, err := h.issueToken(user.ID.String())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, authResponse{Token: token, User: *user})
	}
}

// me returns the account behind the current session
// @Summary Current account
// @Description Returns the account the bearer token belongs to
// @Tags Auth
// @Produce json
// @Success 200 {object} models.User "Account"
// @Failure 401 {object} ErrorResponse "Unauthorized - Missing or invalid token"
// @Router /auth/me [get]
func (h authHandler) me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requester := requesterFromCtx(r.Context())
		if !requester.Authenticated {
			h.responder.WriteError(w, errs.NewUnauthorizedError("a session is required"))
			return
		}

		user, err := h.userStore.FindByID(r.Context(), requester.ID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, user)
	}
}

func (h authHandler) issueToken(subject string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.secret)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to sign token")
		return "", errs.NewInternalError("failed to issue token")
	}
	return token, nil
}
