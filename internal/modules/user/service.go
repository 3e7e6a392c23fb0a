package user

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"webapp/internal/domain"
	"webapp/internal/mailer"
)

const bcryptCost = 10

// Service contains the account lifecycle logic: registration,
// retrieval, profile update and email verification.
type Service struct {
	users         UserRepositoryInterface
	sender        VerificationSender
	appURL        string
	verifyEnabled bool
	tokenTTL      time.Duration
}

func NewService(users UserRepositoryInterface, sender VerificationSender, appURL string, verifyEnabled bool, tokenTTL time.Duration) *Service {
	return &Service{
		users:         users,
		sender:        sender,
		appURL:        appURL,
		verifyEnabled: verifyEnabled,
		tokenTTL:      tokenTTL,
	}
}

// Register creates a new account. The secret is hashed here, before
// persistence. When verification is enabled the account starts
// unverified with a one-time token and the verification email is
// enqueued best-effort; a dispatch failure never fails registration.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	u := &domain.User{
		ID:             uuid.NewString(),
		Email:          email,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		PasswordHash:   string(hash),
		Verified:       !s.verifyEnabled,
		AccountCreated: now,
		AccountUpdated: now,
	}

	var token string
	if s.verifyEnabled {
		token = uuid.NewString()
		expiry := now.Add(s.tokenTTL)
		u.VerificationToken = &token
		u.TokenExpiry = &expiry
	}

	if err := s.users.Create(ctx, u); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	if s.verifyEnabled {
		s.sender.EnqueueVerification(u.Email, mailer.VerificationLink(s.appURL, u.Email, token))
	}

	return u, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// Update replaces the profile names and secret, re-hashing the secret
// and refreshing the last-update timestamp.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) error {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return err
	}

	u.FirstName = req.FirstName
	u.LastName = req.LastName
	u.PasswordHash = string(hash)
	u.AccountUpdated = time.Now().UTC()

	return s.users.Update(ctx, u)
}

// VerifyEmail flips the account to verified when the presented token
// matches and has not expired. The token is one-time: it is cleared on
// success and there is no transition back to unverified.
func (s *Service) VerifyEmail(ctx context.Context, email, token string) error {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidToken
		}
		return err
	}

	if u.VerificationToken == nil || u.TokenExpiry == nil {
		return ErrInvalidToken
	}
	if subtle.ConstantTimeCompare([]byte(*u.VerificationToken), []byte(token)) != 1 {
		return ErrInvalidToken
	}
	if !u.TokenExpiry.After(time.Now().UTC()) {
		return ErrInvalidToken
	}

	u.Verified = true
	u.VerificationToken = nil
	u.TokenExpiry = nil
	u.AccountUpdated = time.Now().UTC()

	return s.users.Update(ctx, u)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
