package user

import (
	"context"

	"webapp/internal/domain"
)

// UserRepositoryInterface — only the methods the user service uses
type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, u *domain.User) error
}

// VerificationSender hands a verification email to the background
// dispatcher. Implementations must not block the request path.
type VerificationSender interface {
	EnqueueVerification(email, link string)
}
