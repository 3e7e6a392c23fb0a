package repository

import (
	"context"

	"gorm.io/gorm"

	"webapp/internal/domain"
)

type ImageRepository struct {
	db *gorm.DB
}

func NewImageRepository(db *gorm.DB) *ImageRepository {
	return &ImageRepository{db: db}
}

func (r *ImageRepository) GetByUserID(ctx context.Context, userID string) (*domain.Image, error) {
	var img domain.Image
	tx := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&img)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &img, nil
}

// Replace installs img as the single asset record for its owner,
// removing any previous record in the same transaction.
func (r *ImageRepository) Replace(ctx context.Context, img *domain.Image) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", img.UserID).Delete(&domain.Image{}).Error; err != nil {
			return err
		}
		return tx.Create(img).Error
	})
}

func (r *ImageRepository) DeleteByUserID(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.Image{}).Error
}
