package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/camden-git/gallerysysbackend/models"
	"gorm.io/gorm"
)

// AlbumRepository handles database operations for Album entities
type AlbumRepository struct {
	DB *gorm.DB
}

// NewAlbumRepository creates a new instance of AlbumRepository
func NewAlbumRepository(db *gorm.DB) *AlbumRepository {
	return &AlbumRepository{DB: db}
}

// Create creates a new album record in the database
func (r *AlbumRepository) Create(album *models.Album) error {
	now := time.Now().Unix()
	if album.CreatedAt == 0 {
		album.CreatedAt = now
	}
	if album.UpdatedAt == 0 {
		album.UpdatedAt = now
	}

	err := r.DB.Create(album).Error
	if err != nil {
		return fmt.Errorf("failed to create album %s: %w", album.Name, err)
	}
	return nil
}

// GetByID retrieves an album by its ID
func (r *AlbumRepository) GetByID(id uint) (*models.Album, error) {
	var album models.Album
	err := r.DB.First(&album, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get album by ID %d: %w", id, err)
	}
	return &album, nil
}

// ListChildren retrieves the direct children of an album, ordered by name
// then ID for stable enumeration. The tree applies natural ordering on top.
func (r *AlbumRepository) ListChildren(parentID uint) ([]models.Album, error) {
	var albums []models.Album
	err := r.DB.Where("parent_id = ?", parentID).Order("name ASC, id ASC").Find(&albums).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list children of album %d: %w", parentID, err)
	}
	return albums, nil
}

// ListByGallery retrieves every album in a gallery
func (r *AlbumRepository) ListByGallery(galleryID uint) ([]models.Album, error) {
	var albums []models.Album
	err := r.DB.Where("gallery_id = ?", galleryID).Order("id ASC").Find(&albums).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list albums for gallery %d: %w", galleryID, err)
	}
	return albums, nil
}

// ListByOwnerRole retrieves every album bound to the given owner role name
func (r *AlbumRepository) ListByOwnerRole(roleName string) ([]models.Album, error) {
	var albums []models.Album
	err := r.DB.Where("owner_role_name = ?", roleName).Find(&albums).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list albums owned via role %s: %w", roleName, err)
	}
	return albums, nil
}

// Update saves the full album record
func (r *AlbumRepository) Update(album *models.Album) error {
	album.UpdatedAt = time.Now().Unix()
	if err := r.DB.Save(album).Error; err != nil {
		return fmt.Errorf("failed to update album ID %d: %w", album.ID, err)
	}
	return nil
}

// SetPrivacy updates the privacy flag on a single album
func (r *AlbumRepository) SetPrivacy(albumID uint, isPrivate bool) error {
	now := time.Now().Unix()
	result := r.DB.Model(&models.Album{}).Where("id = ?", albumID).Updates(map[string]interface{}{
		"is_private": isPrivate,
		"updated_at": now,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to set privacy for album ID %d: %w", albumID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetOwnership sets the owner username and owner role name on an album
func (r *AlbumRepository) SetOwnership(albumID uint, ownerUsername, ownerRoleName string) error {
	now := time.Now().Unix()
	result := r.DB.Model(&models.Album{}).Where("id = ?", albumID).Updates(map[string]interface{}{
		"owner_username":  ownerUsername,
		"owner_role_name": ownerRoleName,
		"updated_at":      now,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to set ownership for album ID %d: %w", albumID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearOwnership removes the owner binding from an album
func (r *AlbumRepository) ClearOwnership(albumID uint) error {
	now := time.Now().Unix()
	result := r.DB.Model(&models.Album{}).Where("id = ?", albumID).Updates(map[string]interface{}{
		"owner_username":  gorm.Expr("NULL"),
		"owner_role_name": gorm.Expr("NULL"),
		"updated_at":      now,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to clear ownership for album ID %d: %w", albumID, result.Error)
	}
	return nil
}

// Delete removes an album by its ID
// this will perform a soft delete because models.Album has gorm.DeletedAt
func (r *AlbumRepository) Delete(id uint) error {
	result := r.DB.Delete(&models.Album{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete album ID %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
