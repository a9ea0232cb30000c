package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/camden-git/gallerysysbackend/config"
	"github.com/camden-git/gallerysysbackend/models"
	"github.com/camden-git/gallerysysbackend/repository"
	"github.com/camden-git/gallerysysbackend/services"
)

type AuthHandler struct {
	UserRepo repository.UserRepository
	Cache    *services.RoleCache
	Cfg      config.Config
}

func NewAuthHandler(userRepo repository.UserRepository, cache *services.RoleCache, cfg config.Config) *AuthHandler {
	return &AuthHandler{UserRepo: userRepo, Cache: cache, Cfg: cfg}
}

type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string      `json:"token"`
	User      models.User `json:"user"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// Login verifies credentials and issues a JWT. The token's ID claim doubles as
// the session context id under which this session's roles are cached, so a
// fresh login always starts from an empty cache slot.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad-payload", "invalid request payload")
		return
	}

	user, err := h.UserRepo.GetByUsername(payload.Username)
	if err != nil {
		WriteAPIError(w, http.StatusUnauthorized, "bad-credentials", "invalid username or password")
		return
	}
	if !user.CheckPassword(payload.Password) {
		WriteAPIError(w, http.StatusUnauthorized, "bad-credentials", "invalid username or password")
		return
	}

	sessionID := uuid.NewString()
	expirationTime := time.Now().Add(time.Duration(h.Cfg.JWTExpirationHours) * time.Hour)
	claims := &jwt.RegisteredClaims{
		ID:        sessionID,
		Subject:   fmt.Sprint(user.ID),
		ExpiresAt: jwt.NewNumericDate(expirationTime),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		Issuer:    "gallerysysbackend",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(h.Cfg.JWTSecret))
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "token", "failed to generate token")
		return
	}

	h.Cache.Invalidate(sessionID, user.Username)

	userForResponse := *user
	userForResponse.PasswordHash = ""

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(LoginResponse{
		Token:     tokenString,
		User:      userForResponse,
		ExpiresAt: expirationTime,
	})
}

// Logout tears down the session's cache context. The client discards the token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := r.Context().Value(SessionContextKey).(string)
	if ok && sessionID != "" {
		h.Cache.InvalidateContext(sessionID)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "logged out"})
}

// CurrentUser returns the authenticated user from the request context.
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok || user == nil {
		WriteAPIError(w, http.StatusInternalServerError, "context", "could not retrieve user from context")
		return
	}

	userForResponse := *user
	userForResponse.PasswordHash = ""

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(userForResponse)
}
