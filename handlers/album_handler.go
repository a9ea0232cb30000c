package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/camden-git/gallerysysbackend/models"
	"github.com/camden-git/gallerysysbackend/permissions"
	"github.com/camden-git/gallerysysbackend/realtime"
	"github.com/camden-git/gallerysysbackend/repository"
	"github.com/camden-git/gallerysysbackend/services"
	"github.com/camden-git/gallerysysbackend/workers"
)

type AlbumHandler struct {
	AlbumRepo repository.AlbumRepositoryInterface
	MediaRepo repository.MediaObjectRepositoryInterface
	Tree      *services.AlbumTree
	Cascade   *services.CascadeSynchronizer
	Ownership *services.OwnershipManager
	Resolver  *services.PermissionResolver
	Refresher *workers.RoleRefresher
	Hub       *realtime.Hub
}

func NewAlbumHandler(
	albumRepo repository.AlbumRepositoryInterface,
	mediaRepo repository.MediaObjectRepositoryInterface,
	tree *services.AlbumTree,
	cascade *services.CascadeSynchronizer,
	ownership *services.OwnershipManager,
	resolver *services.PermissionResolver,
	refresher *workers.RoleRefresher,
	hub *realtime.Hub,
) *AlbumHandler {
	return &AlbumHandler{
		AlbumRepo: albumRepo,
		MediaRepo: mediaRepo,
		Tree:      tree,
		Cascade:   cascade,
		Ownership: ownership,
		Resolver:  resolver,
		Refresher: refresher,
		Hub:       hub,
	}
}

// albumID extracts the album ID URL parameter.
func albumID(r *http.Request) (uint, error) {
	idStr := chi.URLParam(r, "albumID")
	id, err := strconv.ParseUint(idStr, 10, 32)
	return uint(id), err
}

type AlbumCreatePayload struct {
	GalleryID   uint    `json:"gallery_id"`
	ParentID    uint    `json:"parent_id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	IsPrivate   bool    `json:"is_private"`
}

// CreateAlbum creates an album under an existing parent.
func (h *AlbumHandler) CreateAlbum(w http.ResponseWriter, r *http.Request) {
	var payload AlbumCreatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad-payload", "invalid request payload: "+err.Error())
		return
	}
	if payload.Name == "" {
		WriteAPIError(w, http.StatusBadRequest, "bad-payload", "album name is required")
		return
	}

	parent, err := h.Tree.Get(payload.ParentID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if parent.GalleryID != payload.GalleryID {
		WriteAPIError(w, http.StatusBadRequest, "bad-parent", "parent album belongs to a different gallery")
		return
	}

	now := time.Now().Unix()
	album := &models.Album{
		GalleryID:   payload.GalleryID,
		ParentID:    &parent.ID,
		Name:        payload.Name,
		Description: payload.Description,
		IsPrivate:   payload.IsPrivate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.AlbumRepo.Create(album); err != nil {
		WriteServiceError(w, err)
		return
	}

	// derived album sets now have a new descendant to pick up
	h.Refresher.QueueAll()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(album)
}

// GetAlbum returns a single album.
func (h *AlbumHandler) GetAlbum(w http.ResponseWriter, r *http.Request) {
	id, err := albumID(r)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad-id", "invalid album ID format")
		return
	}

	album, err := h.Tree.Get(id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(album)
}

// GetAlbumChildren lists an album's direct children in display order.
func (h *AlbumHandler) GetAlbumChildren(w http.ResponseWriter, r *http.Request) {
	id, err := albumID(r)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad-id", "invalid album ID format")
		return
	}

	children, err := h.Tree.Children(id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(children)
}

// GetAlbumMedia lists the media objects directly inside an album.
func (h *AlbumHandler) GetAlbumMedia(w http.ResponseWriter, r *http.Request) {
	id, err := albumID(r)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad-id", "invalid album ID format")
		return
	}

	if _, err := h.Tree.Get(id); err != nil {
		WriteServiceError(w, err)
		return
	}
	mediaObjects, err := h.MediaRepo.ListByAlbum(id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(mediaObjects)
}

type PrivacyPayload struct {
	IsPrivate bool `json:"is_private"`
}

// SetPrivacy applies the privacy flag to the album and cascades it through
// every descendant album and media object.
func (h *AlbumHandler) SetPrivacy(w http.ResponseWriter, r *http.Request) {
	id, err := albumID(r)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad-id", "invalid album ID format")
		return
	}

	var payload PrivacyPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad-payload", "invalid request payload: "+err.Error())
		return
	}

	if _, err := h.Tree.Get(id); err != nil {
		WriteServiceError(w, err)
		return
	}
	if err := h.Cascade.SetPrivacyRecursive(id, payload.IsPrivate); err != nil {
		WriteServiceError(w, err)
		return
	}

	h.Hub.Broadcast(realtime.Event{
		Type:    realtime.EventAlbumPrivacy,
		AlbumID: id,
		Extra:   map[string]interface{}{"is_private": payload.IsPrivate},
	})
	w.WriteHeader(http.StatusNoContent)
}

type OwnerPayload struct {
	Username string `json:"username"`
}

type OwnerResponse struct {
	OwnerUsername string `json:"owner_username"`
	OwnerRoleName string `json:"owner_role_name"`
}

// SetOwner assigns or clears the album's owner. An empty username clears the
// current owner and destroys the backing owner role.
func (h *AlbumHandler) SetOwner(w http.ResponseWriter, r *http.Request) {
	id, err := albumID(r)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad-id", "invalid album ID format")
		return
	}

	var payload OwnerPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad-payload", "invalid request payload: "+err.Error())
		return
	}

	roleName, err := h.Ownership.AssignOwner(id, payload.Username)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	h.Hub.Broadcast(realtime.Event{
		Type:     realtime.EventAlbumOwnerChange,
		AlbumID:  id,
		Username: payload.Username,
	})

	if payload.Username == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(OwnerResponse{OwnerUsername: payload.Username, OwnerRoleName: roleName})
}

type HighestPermittedResponse struct {
	AlbumID uint `json:"album_id"`
	Found   bool `json:"found"`
}

// HighestPermittedAlbum returns the shallowest album in a gallery where the
// authenticated user holds the requested permission.
func (h *AlbumHandler) HighestPermittedAlbum(w http.ResponseWriter, r *http.Request) {
	galleryIDStr := chi.URLParam(r, "galleryID")
	galleryID, err := strconv.ParseUint(galleryIDStr, 10, 32)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad-id", "invalid gallery ID format")
		return
	}

	permKey := r.URL.Query().Get("permission")
	def, ok := permissions.GetPermissionDefinition(permKey)
	if !ok {
		WriteAPIError(w, http.StatusBadRequest, "bad-permission", "unknown permission key: "+permKey)
		return
	}

	user, ok := requestUser(r)
	if !ok {
		WriteAPIError(w, http.StatusInternalServerError, "context", "user not found in context")
		return
	}

	id, found, err := h.Resolver.HighestPermittedAlbum(requestSession(r), uint(galleryID), def.Criteria, user.Username)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HighestPermittedResponse{AlbumID: id, Found: found})
}

// AccessibleAlbums returns every album id the authenticated user can reach
// with the requested permission.
func (h *AlbumHandler) AccessibleAlbums(w http.ResponseWriter, r *http.Request) {
	permKey := r.URL.Query().Get("permission")
	def, ok := permissions.GetPermissionDefinition(permKey)
	if !ok {
		WriteAPIError(w, http.StatusBadRequest, "bad-permission", "unknown permission key: "+permKey)
		return
	}

	user, ok := requestUser(r)
	if !ok {
		WriteAPIError(w, http.StatusInternalServerError, "context", "user not found in context")
		return
	}

	idSet, err := h.Resolver.AlbumIDsWithPermission(requestSession(r), user.Username, def.Criteria)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	ids := make([]uint, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string][]uint{"album_ids": ids})
}
