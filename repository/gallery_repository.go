package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/camden-git/gallerysysbackend/models"
	"gorm.io/gorm"
)

// GalleryRepository handles database operations for Gallery entities
type GalleryRepository struct {
	DB *gorm.DB
}

// NewGalleryRepository creates a new instance of GalleryRepository
func NewGalleryRepository(db *gorm.DB) *GalleryRepository {
	return &GalleryRepository{DB: db}
}

// Create creates a new gallery record in the database
func (r *GalleryRepository) Create(gallery *models.Gallery) error {
	now := time.Now().Unix()
	if gallery.CreatedAt == 0 {
		gallery.CreatedAt = now
	}
	if gallery.UpdatedAt == 0 {
		gallery.UpdatedAt = now
	}
	if err := r.DB.Create(gallery).Error; err != nil {
		return fmt.Errorf("failed to create gallery %s: %w", gallery.Name, err)
	}
	return nil
}

// GetByID retrieves a gallery by its ID
func (r *GalleryRepository) GetByID(id uint) (*models.Gallery, error) {
	var gallery models.Gallery
	err := r.DB.First(&gallery, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get gallery by ID %d: %w", id, err)
	}
	return &gallery, nil
}

// Update saves changes to an existing gallery record
func (r *GalleryRepository) Update(gallery *models.Gallery) error {
	gallery.UpdatedAt = time.Now().Unix()
	result := r.DB.Model(&models.Gallery{}).Where("id = ?", gallery.ID).Updates(gallery)
	if result.Error != nil {
		return fmt.Errorf("failed to update gallery %d: %w", gallery.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListAll retrieves all galleries, ordered by ID
func (r *GalleryRepository) ListAll() ([]models.Gallery, error) {
	var galleries []models.Gallery
	err := r.DB.Order("id ASC").Find(&galleries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list galleries: %w", err)
	}
	return galleries, nil
}
