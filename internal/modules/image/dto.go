package image

import (
	"time"

	"webapp/internal/domain"
)

// ImageView is the public asset representation.
type ImageView struct {
	FileName   string    `json:"file_name"`
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	UploadDate time.Time `json:"upload_date"`
	UserID     string    `json:"user_id"`
}

func NewImageView(img *domain.Image) ImageView {
	return ImageView{
		FileName:   img.FileName,
		ID:         img.ID,
		URL:        img.URL,
		UploadDate: img.UploadDate,
		UserID:     img.UserID,
	}
}
