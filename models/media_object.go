package models

// MediaObject represents a single media item (photo or video) inside an album.
// Media objects are leaves of the resource tree: the privacy cascade sets and
// persists them but never recurses into them.
type MediaObject struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	AlbumID   uint   `gorm:"not null;index" json:"album_id"`
	GalleryID uint   `gorm:"not null;index" json:"gallery_id"`
	FileName  string `gorm:"not null" json:"file_name"`
	Title     string `gorm:"" json:"title"`
	IsPrivate bool   `gorm:"not null;default:false" json:"is_private"`
	CreatedAt int64  `gorm:"not null" json:"created_at"` // Unix timestamp
	UpdatedAt int64  `gorm:"not null" json:"updated_at"` // Unix timestamp
}

// TableName explicitly sets the table name for GORM.
func (MediaObject) TableName() string {
	return "media_objects"
}
