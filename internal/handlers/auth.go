package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/chesshub/apiserver/config"
	"github.com/chesshub/apiserver/internal/auth"
	"github.com/chesshub/apiserver/internal/services"
	"github.com/chesshub/apiserver/internal/store"
	"github.com/go-chi/chi/v5"
)

// Messages for the token middleware ladder. The wording is part of the API
// contract and asserted by clients.
const (
	msgNotAuthenticated = "Not authenticated. Please log in."
	msgInvalidToken     = "Invalid token. Please log in again."
	msgTokenExpired     = "Token expired. Please log in again."
	msgUserGone         = "User no longer exists."
	msgBadCredentials   = "Invalid email or password"
	msgDuplicateEmail   = "User already exists with this email"
	msgUserNotFound     = "User not found"
	msgInternalError    = "Internal server error"
)

// AuthHandler provides registration, login, and profile endpoints.
type AuthHandler struct {
	users    *services.UserService
	secret   []byte
	tokenTTL time.Duration
	log      *slog.Logger
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(users *services.UserService, cfg config.AuthConfig, log *slog.Logger) *AuthHandler {
	return &AuthHandler{
		users:    users,
		secret:   []byte(cfg.JWTSecret),
		tokenTTL: cfg.TokenTTL,
		log:      log,
	}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(r chi.Router, users *services.UserService, cfg config.AuthConfig, log *slog.Logger) {
	handler := NewAuthHandler(users, cfg, log)

	r.Post("/register", handler.Register)
	r.Post("/login", handler.Login)
	r.With(handler.RequireAuth).Get("/me", handler.Me)
	r.With(handler.RequireAuth).Patch("/profile", handler.UpdateProfile)
}

// RequireAuth gates a route behind a bearer token. The checks run in a fixed
// order: header presence, signature, expiry, then user existence. Each failure
// is a 401 with its own message; the resolved user is attached to the request
// context on success.
func (h *AuthHandler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, msgNotAuthenticated)
			return
		}

		userID, err := auth.ParseToken(tokenString, h.secret)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				writeError(w, http.StatusUnauthorized, msgTokenExpired)
				return
			}
			writeError(w, http.StatusUnauthorized, msgInvalidToken)
			return
		}

		user, err := h.users.GetByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusUnauthorized, msgUserGone)
				return
			}
			h.log.Error("failed to resolve token subject", "error", err)
			writeError(w, http.StatusInternalServerError, msgInternalError)
			return
		}

		ctx := context.WithValue(r.Context(), contextUserKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Register creates a new user account and returns a signed token.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if v := validateRegister(req); v != nil {
		writeError(w, http.StatusBadRequest, v.Message)
		return
	}

	user, err := h.users.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			writeError(w, http.StatusBadRequest, msgDuplicateEmail)
			return
		}
		h.log.Error("failed to register user", "error", err)
		writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	token, err := auth.IssueToken(user.ID, h.secret, h.tokenTTL)
	if err != nil {
		h.log.Error("failed to issue token", "error", err)
		writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	h.log.Info("user registered", "user_id", user.ID, "email", user.Email)
	writeJSON(w, http.StatusCreated, AuthResponse{
		Status: "success",
		Token:  token,
		Data:   UserData{User: user},
	})
}

// Login verifies credentials and returns a signed token. Unknown emails and
// wrong passwords get the same reply so accounts cannot be enumerated.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if v := validateLogin(req); v != nil {
		writeError(w, http.StatusBadRequest, v.Message)
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, msgBadCredentials)
			return
		}
		h.log.Error("failed to authenticate user", "error", err)
		writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	token, err := auth.IssueToken(user.ID, h.secret, h.tokenTTL)
	if err != nil {
		h.log.Error("failed to issue token", "error", err)
		writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Status: "success",
		Token:  token,
		Data:   UserData{User: user},
	})
}

// Me returns the current authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, msgNotAuthenticated)
		return
	}

	writeJSON(w, http.StatusOK, UserResponse{
		Status: "success",
		Data:   UserData{User: user},
	})
}

// UpdateProfile changes the authenticated user's display name.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, msgNotAuthenticated)
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if v := checkName(req.Name); v != nil {
		writeError(w, http.StatusBadRequest, v.Message)
		return
	}

	updated, err := h.users.UpdateName(r.Context(), user.ID, req.Name)
	if err != nil {
		// The gate saw the user, but the row can vanish before the update.
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, msgUserNotFound)
			return
		}
		h.log.Error("failed to update profile", "error", err)
		writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	h.log.Info("profile updated", "user_id", updated.ID)
	writeJSON(w, http.StatusOK, UserResponse{
		Status: "success",
		Data:   UserData{User: updated},
	})
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	Name string `json:"name"`
}

func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}
