package models

import "gorm.io/gorm"

// Album represents a node in a gallery's album tree.
// The gallery root album has a nil ParentID; every other album points at its
// parent within the same gallery.
type Album struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	GalleryID   uint    `gorm:"not null;index" json:"gallery_id"`
	ParentID    *uint   `gorm:"index" json:"parent_id,omitempty"` // nil for the gallery root
	Name        string  `gorm:"not null" json:"name"`
	Description *string `gorm:"" json:"description,omitempty"` // Nullable

	// privacy flag, cascaded down the subtree by the synchronizer
	IsPrivate bool `gorm:"not null;default:false" json:"is_private"`

	// ownership binding; both are set together by the ownership manager and
	// cleared together when the owner role loses this album or is deleted
	OwnerUsername *string `gorm:"" json:"owner_username,omitempty"` // Nullable
	OwnerRoleName *string `gorm:"" json:"owner_role_name,omitempty"` // Nullable

	CreatedAt int64          `gorm:"not null" json:"created_at"` // Unix timestamp
	UpdatedAt int64          `gorm:"not null" json:"updated_at"` // Unix timestamp
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"` // For soft deletes
}

// TableName explicitly sets the table name for GORM.
func (Album) TableName() string {
	return "albums"
}

// IsGalleryRoot reports whether this album is the root of its gallery's tree.
func (a *Album) IsGalleryRoot() bool {
	return a.ParentID == nil
}

// HasOwner reports whether an owner is currently assigned to the album.
func (a *Album) HasOwner() bool {
	return a.OwnerUsername != nil && *a.OwnerUsername != ""
}
