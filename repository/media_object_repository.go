package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/camden-git/gallerysysbackend/models"
	"gorm.io/gorm"
)

// MediaObjectRepository handles database operations for MediaObject entities
type MediaObjectRepository struct {
	DB *gorm.DB
}

// NewMediaObjectRepository creates a new instance of MediaObjectRepository
func NewMediaObjectRepository(db *gorm.DB) *MediaObjectRepository {
	return &MediaObjectRepository{DB: db}
}

// Create creates a new media object record in the database
func (r *MediaObjectRepository) Create(mediaObject *models.MediaObject) error {
	now := time.Now().Unix()
	if mediaObject.CreatedAt == 0 {
		mediaObject.CreatedAt = now
	}
	if mediaObject.UpdatedAt == 0 {
		mediaObject.UpdatedAt = now
	}
	if err := r.DB.Create(mediaObject).Error; err != nil {
		return fmt.Errorf("failed to create media object %s: %w", mediaObject.FileName, err)
	}
	return nil
}

// GetByID retrieves a media object by its ID
func (r *MediaObjectRepository) GetByID(id uint) (*models.MediaObject, error) {
	var mediaObject models.MediaObject
	err := r.DB.First(&mediaObject, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get media object by ID %d: %w", id, err)
	}
	return &mediaObject, nil
}

// ListByAlbum retrieves all media objects in an album
func (r *MediaObjectRepository) ListByAlbum(albumID uint) ([]models.MediaObject, error) {
	var mediaObjects []models.MediaObject
	err := r.DB.Where("album_id = ?", albumID).Order("id ASC").Find(&mediaObjects).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list media objects for album %d: %w", albumID, err)
	}
	return mediaObjects, nil
}

// SetPrivacy updates the privacy flag on a single media object
func (r *MediaObjectRepository) SetPrivacy(mediaObjectID uint, isPrivate bool) error {
	now := time.Now().Unix()
	result := r.DB.Model(&models.MediaObject{}).Where("id = ?", mediaObjectID).Updates(map[string]interface{}{
		"is_private": isPrivate,
		"updated_at": now,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to set privacy for media object ID %d: %w", mediaObjectID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a media object by its ID
func (r *MediaObjectRepository) Delete(id uint) error {
	result := r.DB.Delete(&models.MediaObject{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete media object ID %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
