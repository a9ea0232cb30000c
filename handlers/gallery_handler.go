package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/camden-git/gallerysysbackend/models"
	"github.com/camden-git/gallerysysbackend/repository"
	"github.com/camden-git/gallerysysbackend/services"
	"github.com/camden-git/gallerysysbackend/workers"
)

type GalleryHandler struct {
	GalleryRepo repository.GalleryRepositoryInterface
	AlbumRepo   repository.AlbumRepositoryInterface
	Tree        *services.AlbumTree
	Refresher   *workers.RoleRefresher
}

func NewGalleryHandler(
	galleryRepo repository.GalleryRepositoryInterface,
	albumRepo repository.AlbumRepositoryInterface,
	tree *services.AlbumTree,
	refresher *workers.RoleRefresher,
) *GalleryHandler {
	return &GalleryHandler{GalleryRepo: galleryRepo, AlbumRepo: albumRepo, Tree: tree, Refresher: refresher}
}

type GalleryCreatePayload struct {
	Name string `json:"name"`
}

// CreateGallery creates a gallery together with its root album. The two
// records point at each other, so the gallery is created first and patched
// with the root album id once that exists.
func (h *GalleryHandler) CreateGallery(w http.ResponseWriter, r *http.Request) {
	var payload GalleryCreatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad-payload", "invalid request payload: "+err.Error())
		return
	}
	if payload.Name == "" {
		WriteAPIError(w, http.StatusBadRequest, "bad-payload", "gallery name is required")
		return
	}

	gallery := &models.Gallery{Name: payload.Name}
	if err := h.GalleryRepo.Create(gallery); err != nil {
		WriteServiceError(w, err)
		return
	}

	now := time.Now().Unix()
	root := &models.Album{
		GalleryID: gallery.ID,
		Name:      payload.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.AlbumRepo.Create(root); err != nil {
		WriteServiceError(w, err)
		return
	}

	gallery.RootAlbumID = root.ID
	if err := h.GalleryRepo.Update(gallery); err != nil {
		WriteServiceError(w, err)
		return
	}

	// site-admin roles must pick up the new gallery root
	h.Refresher.QueueAll()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(gallery)
}

// ListGalleries returns every gallery.
func (h *GalleryHandler) ListGalleries(w http.ResponseWriter, r *http.Request) {
	galleries, err := h.GalleryRepo.ListAll()
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(galleries)
}

// GetGallery returns a single gallery.
func (h *GalleryHandler) GetGallery(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "galleryID")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad-id", "invalid gallery ID format")
		return
	}

	gallery, err := h.GalleryRepo.GetByID(uint(id))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(gallery)
}

// GetGalleryAlbums lists every album in a gallery.
func (h *GalleryHandler) GetGalleryAlbums(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "galleryID")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad-id", "invalid gallery ID format")
		return
	}

	if _, err := h.GalleryRepo.GetByID(uint(id)); err != nil {
		WriteServiceError(w, err)
		return
	}
	albums, err := h.AlbumRepo.ListByGallery(uint(id))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(albums)
}
