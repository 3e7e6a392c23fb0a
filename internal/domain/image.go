package domain

import "time"

// Image is the metadata record for a profile picture stored in object
// storage. One row per account: an upload replaces the previous row.
type Image struct {
	ID         string    `gorm:"column:id;primaryKey"`
	UserID     string    `gorm:"column:user_id;uniqueIndex"`
	FileName   string    `gorm:"column:file_name"`
	URL        string    `gorm:"column:url"`
	UploadDate time.Time `gorm:"column:upload_date"`
}

func (Image) TableName() string { return "images" }
