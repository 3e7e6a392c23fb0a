package image

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"webapp/internal/domain"
	"webapp/internal/storage"
)

const keyPrefix = "profile-images/"

// Service stores profile pictures in object storage and keeps their
// metadata records in lockstep: upload writes the object first, then
// the record; delete removes the object first, then the record.
type Service struct {
	repo  ImageRepositoryInterface
	store storage.ObjectStorage
}

func NewService(repo ImageRepositoryInterface, store storage.ObjectStorage) *Service {
	return &Service{repo: repo, store: store}
}

// Upload stores the file and replaces the owner's asset record. A
// storage failure leaves no metadata behind; a metadata failure after
// a successful write leaves an orphaned object, which is logged and
// surfaced, not masked.
func (s *Service) Upload(ctx context.Context, userID string, fileHeader *multipart.FileHeader) (*domain.Image, error) {
	if fileHeader == nil || fileHeader.Size == 0 {
		return nil, ErrNoFile
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	mimeType, err := imageContentType(fileHeader, file)
	if err != nil {
		return nil, err
	}
	if seeker, ok := file.(io.Seeker); ok {
		_, _ = seeker.Seek(0, io.SeekStart)
	}

	prior, err := s.repo.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	key := keyPrefix + uuid.NewString() + "-" + sanitizeName(fileHeader.Filename)
	url, err := s.store.Put(ctx, key, mimeType, file)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	img := &domain.Image{
		ID:         uuid.NewString(),
		UserID:     userID,
		FileName:   fileHeader.Filename,
		URL:        url,
		UploadDate: time.Now().UTC(),
	}
	if err := s.repo.Replace(ctx, img); err != nil {
		slog.Error("metadata write failed after storage write, object orphaned",
			"key", key, "user_id", userID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	// The replaced object is gone from metadata; removing it from
	// storage is best-effort.
	if prior != nil {
		if err := s.store.Delete(ctx, storage.KeyFromURL(prior.URL)); err != nil {
			slog.Warn("failed to delete replaced object", "url", prior.URL, "error", err)
		}
	}

	return img, nil
}

func (s *Service) Fetch(ctx context.Context, userID string) (*domain.Image, error) {
	img, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, err
	}
	return img, nil
}

// Delete removes the stored object, then the metadata record. When the
// storage delete fails the record stays, so no dangling reference is
// created.
func (s *Service) Delete(ctx context.Context, userID string) error {
	img, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrImageNotFound
		}
		return err
	}

	if err := s.store.Delete(ctx, storage.KeyFromURL(img.URL)); err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	return s.repo.DeleteByUserID(ctx, userID)
}

// imageContentType resolves the upload's MIME type. The declared part
// header wins: clients announcing an image/* type are trusted, which
// covers formats content sniffing cannot identify (SVG, HEIC). Parts
// without a useful declaration fall back to sniffing the first 512
// bytes.
func imageContentType(fileHeader *multipart.FileHeader, file multipart.File) (string, error) {
	declared := strings.TrimSpace(strings.Split(fileHeader.Header.Get("Content-Type"), ";")[0])
	if strings.HasPrefix(declared, "image/") {
		return declared, nil
	}

	buf := make([]byte, 512)
	n, _ := file.Read(buf)
	sniffed := strings.Split(http.DetectContentType(buf[:n]), ";")[0]
	if strings.HasPrefix(sniffed, "image/") {
		return sniffed, nil
	}
	return "", ErrNotAnImage
}

func sanitizeName(name string) string {
	name = filepath.Base(name)
	ext := filepath.Ext(name)
	name = strings.TrimSuffix(name, ext)
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return '_'
	}, name)
	if len(name) > 40 {
		name = name[:40]
	}
	if name == "" {
		name = "file"
	}
	return name + ext
}
