package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/camden-git/gallerysysbackend/database"
	"github.com/camden-git/gallerysysbackend/models"
	"github.com/camden-git/gallerysysbackend/repository"
	"github.com/camden-git/gallerysysbackend/services"
)

type AdminRoleHandler struct {
	Store    *services.RoleStore
	RoleRepo repository.RoleRepository
	StatsDB  *sql.DB
}

func NewAdminRoleHandler(store *services.RoleStore, roleRepo repository.RoleRepository, statsDB *sql.DB) *AdminRoleHandler {
	return &AdminRoleHandler{Store: store, RoleRepo: roleRepo, StatsDB: statsDB}
}

// --- DTOs for Role Management ---

type RolePayload struct {
	Name                 string `json:"name"`
	CanView              bool   `json:"can_view"`
	CanViewOriginal      bool   `json:"can_view_original"`
	CanAddMediaObject    bool   `json:"can_add_media_object"`
	CanAddChildAlbum     bool   `json:"can_add_child_album"`
	CanEditMediaObject   bool   `json:"can_edit_media_object"`
	CanEditAlbum         bool   `json:"can_edit_album"`
	CanDeleteMediaObject bool   `json:"can_delete_media_object"`
	CanDeleteChildAlbum  bool   `json:"can_delete_child_album"`
	CanSynchronize       bool   `json:"can_synchronize"`
	CanAdministerSite    bool   `json:"can_administer_site"`
	CanAdministerGallery bool   `json:"can_administer_gallery"`
	HideWatermark        bool   `json:"hide_watermark"`
	RootAlbumIDs         []uint `json:"root_album_ids"`
}

func (p *RolePayload) toModel() *models.Role {
	return &models.Role{
		Name:                 p.Name,
		CanView:              p.CanView,
		CanViewOriginal:      p.CanViewOriginal,
		CanAddMediaObject:    p.CanAddMediaObject,
		CanAddChildAlbum:     p.CanAddChildAlbum,
		CanEditMediaObject:   p.CanEditMediaObject,
		CanEditAlbum:         p.CanEditAlbum,
		CanDeleteMediaObject: p.CanDeleteMediaObject,
		CanDeleteChildAlbum:  p.CanDeleteChildAlbum,
		CanSynchronize:       p.CanSynchronize,
		CanAdministerSite:    p.CanAdministerSite,
		CanAdministerGallery: p.CanAdministerGallery,
		HideWatermark:        p.HideWatermark,
	}
}

// UserSummaryDTO is a very minimal user representation for embedding in other responses.
type UserSummaryDTO struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

func toUserSummaryListDTO(users []models.User) []UserSummaryDTO {
	dtos := make([]UserSummaryDTO, len(users))
	for i, user := range users {
		dtos[i] = UserSummaryDTO{ID: user.ID, Username: user.Username}
	}
	return dtos
}

// roleName extracts and decodes the role name URL parameter.
func roleName(r *http.Request) (string, error) {
	raw := chi.URLParam(r, "roleName")
	return url.PathUnescape(raw)
}

// --- Handler Methods ---

// ListRoles returns every role. Owner roles are system-managed and hidden
// unless include_owner_roles=true.
func (h *AdminRoleHandler) ListRoles(w http.ResponseWriter, r *http.Request) {
	includeOwnerRoles := r.URL.Query().Get("include_owner_roles") == "true"
	roles, err := h.Store.AllRoles(includeOwnerRoles)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(roles)
}

// GetRole returns a single role by name.
func (h *AdminRoleHandler) GetRole(w http.ResponseWriter, r *http.Request) {
	name, err := roleName(r)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad-name", "invalid role name")
		return
	}

	role, err := h.Store.Get(name)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(role)
}

// CreateRole creates a new role from the payload.
func (h *AdminRoleHandler) CreateRole(w http.ResponseWriter, r *http.Request) {
	var payload RolePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad-payload", "invalid request payload: "+err.Error())
		return
	}
	if payload.Name == "" {
		WriteAPIError(w, http.StatusBadRequest, "bad-name", "role name is required")
		return
	}

	exists, err := h.Store.Exists(payload.Name)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if exists {
		WriteAPIError(w, http.StatusConflict, "duplicate-name", fmt.Sprintf("role %q already exists", payload.Name))
		return
	}

	h.saveRole(w, r, &payload, http.StatusCreated)
}

// UpdateRole replaces the named role's flags and grants with the payload.
func (h *AdminRoleHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	name, err := roleName(r)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad-name", "invalid role name")
		return
	}

	var payload RolePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad-payload", "invalid request payload: "+err.Error())
		return
	}
	payload.Name = name

	exists, err := h.Store.Exists(name)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if !exists {
		WriteAPIError(w, http.StatusNotFound, "not-found", "role not found")
		return
	}

	h.saveRole(w, r, &payload, http.StatusOK)
}

func (h *AdminRoleHandler) saveRole(w http.ResponseWriter, r *http.Request, payload *RolePayload, successStatus int) {
	actingUser, ok := requestUser(r)
	if !ok {
		WriteAPIError(w, http.StatusInternalServerError, "context", "user not found in context")
		return
	}

	role := payload.toModel()
	if err := h.Store.Save(role, payload.RootAlbumIDs, actingUser.Username); err != nil {
		WriteServiceError(w, err)
		return
	}

	saved, err := h.Store.Get(role.Name)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(successStatus)
	json.NewEncoder(w).Encode(saved)
}

// DeleteRole removes a role by name.
func (h *AdminRoleHandler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	name, err := roleName(r)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad-name", "invalid role name")
		return
	}

	actingUser, ok := requestUser(r)
	if !ok {
		WriteAPIError(w, http.StatusInternalServerError, "context", "user not found in context")
		return
	}

	if err := h.Store.Delete(name, actingUser.Username); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetRoleUsers lists the members of a role.
func (h *AdminRoleHandler) GetRoleUsers(w http.ResponseWriter, r *http.Request) {
	name, err := roleName(r)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad-name", "invalid role name")
		return
	}

	users, err := h.RoleRepo.FindUsersByRoleName(name)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toUserSummaryListDTO(users))
}

type MembershipPayload struct {
	Username string `json:"username"`
}

// AddUserToRole enrolls a user in a role.
func (h *AdminRoleHandler) AddUserToRole(w http.ResponseWriter, r *http.Request) {
	name, err := roleName(r)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad-name", "invalid role name")
		return
	}

	var payload MembershipPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Username == "" {
		WriteAPIError(w, http.StatusBadRequest, "bad-payload", "username is required")
		return
	}

	if err := h.Store.AddMember(name, payload.Username); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveUserFromRole removes a user from a role.
func (h *AdminRoleHandler) RemoveUserFromRole(w http.ResponseWriter, r *http.Request) {
	name, err := roleName(r)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad-name", "invalid role name")
		return
	}
	username := chi.URLParam(r, "username")
	if username == "" {
		WriteAPIError(w, http.StatusBadRequest, "bad-payload", "username is required")
		return
	}

	if err := h.Store.RemoveMember(name, username); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type RoleStatsResponse struct {
	GeneratedAt          time.Time           `json:"generated_at"`
	Roles                []database.RoleStat `json:"roles"`
	SiteAdminMemberships int                 `json:"site_admin_memberships"`
}

// RoleStats returns membership counts per role for the admin dashboard,
// plus the total number of site-admin memberships as a survivability
// indicator.
func (h *AdminRoleHandler) RoleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := database.ListRoleStats(h.StatsDB)
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "stats", "failed to compute role statistics: "+err.Error())
		return
	}
	adminMemberships, err := database.CountSiteAdminMemberships(h.StatsDB, "")
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "stats", "failed to compute role statistics: "+err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(RoleStatsResponse{
		GeneratedAt:          time.Now(),
		Roles:                stats,
		SiteAdminMemberships: adminMemberships,
	})
}
