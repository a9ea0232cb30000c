package models

// Gallery is an isolated top-level partition with its own album tree.
// Galleries are created by the installer/administration surface; this core
// only reads them to scope permission resolution and validation.
type Gallery struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"not null;unique" json:"name"`
	RootAlbumID uint   `gorm:"not null" json:"root_album_id"`
	CreatedAt   int64  `gorm:"not null" json:"created_at"` // Unix timestamp
	UpdatedAt   int64  `gorm:"not null" json:"updated_at"` // Unix timestamp
}

// TableName explicitly sets the table name for GORM.
func (Gallery) TableName() string {
	return "galleries"
}
