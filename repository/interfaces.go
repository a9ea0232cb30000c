package repository

import (
	"errors"

	"github.com/camden-git/gallerysysbackend/models"
)

// ErrNotFound is returned by repositories when the requested record does not
// exist. GORM implementations translate gorm.ErrRecordNotFound into it so the
// service layer never depends on the storage driver's sentinels.
var ErrNotFound = errors.New("record not found")

// AlbumRepositoryInterface defines the methods for album data operations
type AlbumRepositoryInterface interface {
	Create(album *models.Album) error
	GetByID(id uint) (*models.Album, error)
	ListChildren(parentID uint) ([]models.Album, error)
	ListByGallery(galleryID uint) ([]models.Album, error)
	ListByOwnerRole(roleName string) ([]models.Album, error)
	Update(album *models.Album) error
	SetPrivacy(albumID uint, isPrivate bool) error
	SetOwnership(albumID uint, ownerUsername, ownerRoleName string) error
	ClearOwnership(albumID uint) error
	Delete(id uint) error
}

// MediaObjectRepositoryInterface defines the methods for media object data operations
type MediaObjectRepositoryInterface interface {
	Create(mediaObject *models.MediaObject) error
	GetByID(id uint) (*models.MediaObject, error)
	ListByAlbum(albumID uint) ([]models.MediaObject, error)
	SetPrivacy(mediaObjectID uint, isPrivate bool) error
	Delete(id uint) error
}

// GalleryRepositoryInterface defines the methods for gallery data operations
type GalleryRepositoryInterface interface {
	Create(gallery *models.Gallery) error
	GetByID(id uint) (*models.Gallery, error)
	ListAll() ([]models.Gallery, error)
	Update(gallery *models.Gallery) error
}

// RoleRepository defines the methods for role data operations
type RoleRepository interface {
	Create(role *models.Role) error
	GetByID(id uint) (*models.Role, error)
	GetByName(name string) (*models.Role, error)
	ListAll() ([]models.Role, error)
	Update(role *models.Role) error
	DeleteByName(name string) error

	// user-role management
	FindUsersByRoleName(name string) ([]models.User, error)
	AddUserToRole(userID, roleID uint) error
	RemoveUserFromRole(userID, roleID uint) error
}

// UserRepository defines the methods for user data operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	ListAll() ([]models.User, error)

	// GetUserRoles returns the roles the user is a member of
	GetUserRoles(userID uint) ([]models.Role, error)
}
