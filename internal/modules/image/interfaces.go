package image

import (
	"context"

	"webapp/internal/domain"
)

// ImageRepositoryInterface — only the methods the image service uses
type ImageRepositoryInterface interface {
	GetByUserID(ctx context.Context, userID string) (*domain.Image, error)
	Replace(ctx context.Context, img *domain.Image) error
	DeleteByUserID(ctx context.Context, userID string) error
}
