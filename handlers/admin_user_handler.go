package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/camden-git/gallerysysbackend/models"
	"github.com/camden-git/gallerysysbackend/repository"
)

type AdminUserHandler struct {
	UserRepo repository.UserRepository
}

func NewAdminUserHandler(userRepo repository.UserRepository) *AdminUserHandler {
	return &AdminUserHandler{UserRepo: userRepo}
}

type UserCreatePayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateUser adds a new account. Role membership is managed separately
// through the role endpoints.
func (h *AdminUserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var payload UserCreatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad-payload", "invalid request payload: "+err.Error())
		return
	}
	if payload.Username == "" || payload.Password == "" {
		WriteAPIError(w, http.StatusBadRequest, "bad-payload", "username and password are required")
		return
	}

	user := &models.User{Username: payload.Username}
	if err := user.SetPassword(payload.Password); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "password", "failed to hash password")
		return
	}
	if err := h.UserRepo.Create(user); err != nil {
		WriteServiceError(w, err)
		return
	}

	userForResponse := *user
	userForResponse.PasswordHash = ""
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(userForResponse)
}

// ListUsers returns every account.
func (h *AdminUserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.UserRepo.ListAll()
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(users)
}

// GetUserRoles returns the roles a user is a member of.
func (h *AdminUserHandler) GetUserRoles(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "userID")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad-id", "invalid user ID format")
		return
	}

	roles, err := h.UserRepo.GetUserRoles(uint(id))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(roles)
}
