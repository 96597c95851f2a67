package handlers

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/mail"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/youtweet/backend/internal/auth"
	"github.com/youtweet/backend/internal/logging"
	"github.com/youtweet/backend/internal/models"
	"github.com/youtweet/backend/internal/repositories"
)

// AuthHandler implements account registration and session endpoints.
type AuthHandler struct {
	Users    UserStore
	Sessions SessionManager
	Storage  AssetStorage
	Limiter  RateLimiter
	NowFunc  func() time.Time
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type authResponse struct {
	User   models.User          `json:"user"`
	Tokens models.SessionTokens `json:"tokens"`
}

// Register handles POST /api/v1/auth/register. The payload may be JSON or a
// multipart form carrying optional avatar and coverImage files.
func (h AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if !allowRequest(h.Limiter, r, "register") {
		respondError(ctx, w, http.StatusTooManyRequests, "too many registration attempts")
		return
	}

	if h.Users == nil || h.Sessions == nil {
		logger.Error("registration dependencies unavailable", "hasUsers", h.Users != nil, "hasSessions", h.Sessions != nil)
		respondError(ctx, w, http.StatusInternalServerError, "registration unavailable")
		return
	}

	req, avatar, cover, err := h.decodeRegister(r)
	if err != nil {
		logger.Warn("invalid registration payload", "error", err)
		respondError(ctx, w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FullName = strings.TrimSpace(req.FullName)

	if msg := validateRegistration(req); msg != "" {
		logger.Warn("registration rejected", "username", req.Username, "reason", msg)
		respondError(ctx, w, http.StatusBadRequest, msg)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("hash password", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "failed to secure password")
		return
	}

	now := h.now()
	user := models.User{
		ID:        uuid.NewString(),
		Username:  req.Username,
		Email:     req.Email,
		FullName:  req.FullName,
		Password:  string(hashed),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if avatar != nil {
		location, err := h.storeImage(r, user.ID, "avatar", avatar)
		if err != nil {
			logger.Error("store avatar", "error", err)
			respondError(ctx, w, http.StatusInternalServerError, "failed to store avatar")
			return
		}
		user.Avatar = location
	}
	if cover != nil {
		location, err := h.storeImage(r, user.ID, "cover", cover)
		if err != nil {
			logger.Error("store cover image", "error", err)
			respondError(ctx, w, http.StatusInternalServerError, "failed to store cover image")
			return
		}
		user.CoverImage = location
	}

	if err := h.Users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			respondError(ctx, w, http.StatusConflict, "username or email already registered")
			return
		}
		logger.Error("create user", "error", err, "username", req.Username)
		respondError(ctx, w, http.StatusInternalServerError, "failed to create account")
		return
	}

	tokens, err := h.Sessions.Issue(ctx, user.ID)
	if err != nil {
		logger.Error("issue session", "error", err, "userId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to create session")
		return
	}

	respond(ctx, w, http.StatusCreated, authResponse{User: user, Tokens: tokens}, "account created")
}

// Login handles POST /api/v1/auth/login. Callers may identify themselves by
// username or email.
func (h AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if !allowRequest(h.Limiter, r, "login") {
		respondError(ctx, w, http.StatusTooManyRequests, "too many login attempts")
		return
	}

	if h.Users == nil || h.Sessions == nil {
		logger.Error("authentication dependencies unavailable", "hasUsers", h.Users != nil, "hasSessions", h.Sessions != nil)
		respondError(ctx, w, http.StatusInternalServerError, "authentication unavailable")
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid login payload", "error", err)
		respondError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if (req.Username == "" && req.Email == "") || req.Password == "" {
		respondError(ctx, w, http.StatusBadRequest, "username or email and password are required")
		return
	}

	user, err := h.lookupUser(r, req)
	if err != nil {
		logger.Warn("login user lookup failed", "username", req.Username, "email", req.Email, "error", err)
		respondError(ctx, w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		logger.Warn("login password mismatch", "userId", user.ID)
		respondError(ctx, w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	tokens, err := h.Sessions.Issue(ctx, user.ID)
	if err != nil {
		logger.Error("issue session", "error", err, "userId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to create session")
		return
	}

	respond(ctx, w, http.StatusOK, authResponse{User: user, Tokens: tokens}, "login successful")
}

// Refresh handles POST /api/v1/auth/refresh, exchanging a refresh token for a
// new session.
func (h AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Sessions == nil {
		logger.Error("session manager unavailable")
		respondError(ctx, w, http.StatusInternalServerError, "session service unavailable")
		return
	}

	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid refresh payload", "error", err)
		respondError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.RefreshToken = strings.TrimSpace(req.RefreshToken)
	if req.RefreshToken == "" {
		respondError(ctx, w, http.StatusBadRequest, "refresh token is required")
		return
	}

	tokens, err := h.Sessions.Refresh(ctx, req.RefreshToken)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, auth.ErrRefreshTokenExpired) || errors.Is(err, auth.ErrSessionNotFound) {
			status = http.StatusUnauthorized
		}
		logger.Warn("refresh failed", "error", err, "status", status)
		respondError(ctx, w, status, "unable to refresh session")
		return
	}

	respond(ctx, w, http.StatusOK, map[string]models.SessionTokens{"tokens": tokens}, "session refreshed")
}

// Logout handles POST /api/v1/auth/logout, revoking the supplied refresh token.
func (h AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if auth.UserIDFromContext(ctx) == "" {
		respondError(ctx, w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.RefreshToken = strings.TrimSpace(req.RefreshToken)
	if req.RefreshToken == "" {
		respondError(ctx, w, http.StatusBadRequest, "refresh token is required")
		return
	}

	h.Sessions.Revoke(ctx, req.RefreshToken)
	respond(ctx, w, http.StatusOK, nil, "logged out")
}

func (h AuthHandler) decodeRegister(r *http.Request) (registerRequest, *multipart.FileHeader, *multipart.FileHeader, error) {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/") {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return registerRequest{}, nil, nil, err
		}
		return req, nil, nil, nil
	}

	if err := r.ParseMultipartForm(16 << 20); err != nil {
		return registerRequest{}, nil, nil, err
	}

	req := registerRequest{
		Username: r.FormValue("username"),
		Email:    r.FormValue("email"),
		FullName: r.FormValue("fullName"),
		Password: r.FormValue("password"),
	}

	var avatar, cover *multipart.FileHeader
	if headers := r.MultipartForm.File["avatar"]; len(headers) > 0 {
		avatar = headers[0]
	}
	if headers := r.MultipartForm.File["coverImage"]; len(headers) > 0 {
		cover = headers[0]
	}
	return req, avatar, cover, nil
}

func (h AuthHandler) storeImage(r *http.Request, userID, kind string, header *multipart.FileHeader) (string, error) {
	if h.Storage == nil {
		return "", errors.New("asset storage unavailable")
	}

	f, err := header.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	key := path.Join("users", userID, kind+path.Ext(header.Filename))
	return h.Storage.Save(r.Context(), key, f)
}

func (h AuthHandler) lookupUser(r *http.Request, req loginRequest) (models.User, error) {
	if req.Username != "" {
		return h.Users.FindByUsername(r.Context(), req.Username)
	}
	return h.Users.FindByEmail(r.Context(), req.Email)
}

func validateRegistration(req registerRequest) string {
	switch {
	case req.Username == "":
		return "username is required"
	case req.Email == "":
		return "email is required"
	case req.FullName == "":
		return "full name is required"
	case req.Password == "":
		return "password is required"
	case len(req.Password) < 8:
		return "password must be at least 8 characters"
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return "invalid email address"
	}
	return ""
}

func (h AuthHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
