package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/camden-git/gallerysysbackend/models"
	"github.com/camden-git/gallerysysbackend/permissions"
	"github.com/camden-git/gallerysysbackend/repository"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

const (
	// UserContextKey is the key used to store the user object in the request context.
	UserContextKey ContextKey = "user"
	// SessionContextKey is the key used to store the token's session id in the
	// request context. The role cache is partitioned by this id.
	SessionContextKey ContextKey = "session"
)

// AuthMiddleware verifies the bearer token and, if valid, loads the user and
// adds both the user and the token's session id to the request context.
func AuthMiddleware(userRepo repository.UserRepository, jwtSecret string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			WriteAPIError(w, http.StatusUnauthorized, "auth", "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			WriteAPIError(w, http.StatusUnauthorized, "auth", "Authorization header format must be Bearer {token}")
			return
		}
		tokenString := parts[1]

		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			WriteAPIError(w, http.StatusUnauthorized, "auth", "invalid token")
			return
		}

		var userID uint
		if _, err := fmt.Sscan(claims.Subject, &userID); err != nil {
			WriteAPIError(w, http.StatusUnauthorized, "auth", "invalid user ID in token")
			return
		}

		user, err := userRepo.GetByID(userID)
		if err != nil {
			// the user may have been deleted after the token was issued
			WriteAPIError(w, http.StatusUnauthorized, "auth", "user not found")
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		ctx = context.WithValue(ctx, SessionContextKey, claims.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequirePermission checks that some role of the authenticated user satisfies
// the criteria. It must run after AuthMiddleware.
func RequirePermission(criteria permissions.Criteria, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := r.Context().Value(UserContextKey).(*models.User)
		if !ok || user == nil {
			WriteAPIError(w, http.StatusInternalServerError, "context", "user not found in context")
			return
		}

		for _, role := range user.Roles {
			if role != nil && criteria(role) {
				next.ServeHTTP(w, r)
				return
			}
		}
		WriteAPIError(w, http.StatusForbidden, "forbidden", "missing required permission")
	})
}

// requestUser pulls the authenticated user out of the request context.
func requestUser(r *http.Request) (*models.User, bool) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	return user, ok && user != nil
}

// requestSession pulls the session id out of the request context.
func requestSession(r *http.Request) string {
	sessionID, _ := r.Context().Value(SessionContextKey).(string)
	return sessionID
}
