package service

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/stemsi/reportcard-backend/internal/model"
	"golang.org/x/crypto/blake2b"
)

type mediaStore interface {
	Put(ctx context.Context, m *model.Media) error
	GetByID(ctx context.Context, id string) (*model.Media, error)
}

// MediaService stores and serves uploaded assets.
type MediaService struct {
	repo     mediaStore
	maxBytes int64
}

// NewMediaService creates a new MediaService accepting uploads of at most
// maxBytes.
func NewMediaService(repo mediaStore, maxBytes int64) *MediaService {
	return &MediaService{repo: repo, maxBytes: maxBytes}
}

// Upload is a file received from a client.
type Upload struct {
	FileName string
	Body     io.Reader
}

// StoreLogo reads an image upload and stores it as a logo. Uploading the
// same bytes twice yields the same record.
func (s *MediaService) StoreLogo(ctx context.Context, up Upload) (*model.Media, error) {
	blob, err := io.ReadAll(io.LimitReader(up.Body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(blob)) > s.maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrFileTooLarge, s.maxBytes)
	}

	mt := mimetype.Detect(blob)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, mt.String())
	}

	m := &model.Media{
		ID:       MediaID(model.MediaTypeLogo, blob),
		Type:     model.MediaTypeLogo,
		Blob:     blob,
		FileName: up.FileName,
		MimeType: mt.String(),
	}
	if err := s.repo.Put(ctx, m); err != nil {
		return nil, fmt.Errorf("store media: %w", err)
	}
	return m, nil
}

// Get retrieves a media record with its blob.
func (s *MediaService) Get(ctx context.Context, id string) (*model.Media, error) {
	return s.repo.GetByID(ctx, id)
}

// MediaID derives the id of a blob from its type and a 128-bit BLAKE2b
// digest of its content.
func MediaID(t model.MediaType, blob []byte) string {
	h, _ := blake2b.New(16, nil)
	h.Write(blob)
	return string(t) + "_" + hex.EncodeToString(h.Sum(nil))
}
