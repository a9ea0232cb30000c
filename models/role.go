package models

import (
	"strings"
	"time"
)

// MaxRoleNameLength is the hard ceiling on role names, enforced both by the
// column definition and by the owner-role name generator.
const MaxRoleNameLength = 256

// OwnerRoleNamePrefix marks system-managed roles that bind an album to its
// owning user. Roles whose name starts with this prefix are created and
// destroyed by the ownership manager, never by administrators directly.
const OwnerRoleNamePrefix = "Album Owner"

// Role defines a bundle of permission flags and the set of albums those
// permissions apply to
type Role struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null;size:256"`

	// permission flags; each Can* flag applies to every album in AllAlbumIDs
	CanView              bool `json:"can_view" gorm:"not null;default:false"`
	CanViewOriginal      bool `json:"can_view_original" gorm:"not null;default:false"`
	CanAddMediaObject    bool `json:"can_add_media_object" gorm:"not null;default:false"`
	CanAddChildAlbum     bool `json:"can_add_child_album" gorm:"not null;default:false"`
	CanEditMediaObject   bool `json:"can_edit_media_object" gorm:"not null;default:false"`
	CanEditAlbum         bool `json:"can_edit_album" gorm:"not null;default:false"`
	CanDeleteMediaObject bool `json:"can_delete_media_object" gorm:"not null;default:false"`
	CanDeleteChildAlbum  bool `json:"can_delete_child_album" gorm:"not null;default:false"`
	CanSynchronize       bool `json:"can_synchronize" gorm:"not null;default:false"`
	CanAdministerSite    bool `json:"can_administer_site" gorm:"not null;default:false"`
	CanAdministerGallery bool `json:"can_administer_gallery" gorm:"not null;default:false"`
	HideWatermark        bool `json:"hide_watermark" gorm:"not null;default:false"`

	// RootAlbumIDs holds the top-level album ids explicitly granted to the
	// role. AllAlbumIDs is derived from them on every save and must never be
	// edited directly; it is empty until the role has been saved.
	RootAlbumIDs []uint `json:"root_album_ids" gorm:"serializer:json"`
	AllAlbumIDs  []uint `json:"all_album_ids" gorm:"serializer:json"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Users     []*User   `json:"-" gorm:"many2many:user_roles;"`
}

// IsOwnerRole reports whether the role belongs to the reserved owner-role
// namespace.
func (r *Role) IsOwnerRole() bool {
	return strings.HasPrefix(r.Name, OwnerRoleNamePrefix)
}

// AppliesToAlbum reports whether the role's permissions cover the given album
// id, based on the derived AllAlbumIDs set.
func (r *Role) AppliesToAlbum(albumID uint) bool {
	for _, id := range r.AllAlbumIDs {
		if id == albumID {
			return true
		}
	}
	return false
}

// UserRole is the join table for the many-to-many relationship between users and roles.
type UserRole struct {
	UserID    uint      `json:"user_id" gorm:"primaryKey"`
	RoleID    uint      `json:"role_id" gorm:"primaryKey"`
	User      User      `json:"-" gorm:"foreignKey:UserID"`
	Role      Role      `json:"-" gorm:"foreignKey:RoleID"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name for UserRole to be `user_roles`
func (UserRole) TableName() string {
	return "user_roles"
}
