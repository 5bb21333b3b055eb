package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/rs/zerolog"

	"github.com/romanbrito/onlineStorePrisma/internal/ids"
	"github.com/romanbrito/onlineStorePrisma/internal/media"
	"github.com/romanbrito/onlineStorePrisma/internal/session"
)

// ObjectStore stores uploaded files and returns their public URL.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
}

type ImageService struct {
	store    ObjectStore
	maxBytes int64
	log      zerolog.Logger
	now      func() time.Time
}

func NewImageService(store ObjectStore, maxBytes int64, log zerolog.Logger) *ImageService {
	return &ImageService{
		store:    store,
		maxBytes: maxBytes,
		log:      log,
		now:      time.Now,
	}
}

type UploadImageInput struct {
	File         io.Reader
	DeclaredType string
}

// ItemImages are the URLs to store on an item.
type ItemImages struct {
	Image      string
	LargeImage string
}

// Upload stores an item photo. The same object serves as both the list and
// the large image.
func (s *ImageService) Upload(ctx context.Context, caller session.Identity, input UploadImageInput) (ItemImages, error) {
	if !caller.Authenticated() {
		return ItemImages{}, ErrNotAuthenticated
	}
	if input.File == nil {
		return ItemImages{}, fmt.Errorf("%w: file is required", ErrInvalidInput)
	}

	limit := s.maxBytes
	data, err := io.ReadAll(io.LimitReader(input.File, limit+1))
	if err != nil {
		return ItemImages{}, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return ItemImages{}, fmt.Errorf("%w: empty file", ErrInvalidInput)
	}
	if int64(len(data)) > limit {
		return ItemImages{}, fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidInput, limit)
	}

	format, err := media.Detect(data)
	if err != nil {
		return ItemImages{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	declared := media.DeclaredType(input.DeclaredType)
	if declared != "" && declared != "application/octet-stream" && declared != format.MIME {
		return ItemImages{}, fmt.Errorf("%w: content type mismatch: declared %s, actual %s", ErrInvalidInput, declared, format.MIME)
	}

	key := path.Join("items", s.now().UTC().Format("2006/01/02"), ids.New()+"."+format.Ext)
	url, err := s.store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), format.MIME)
	if err != nil {
		return ItemImages{}, err
	}

	s.log.Info().Str("user_id", caller.UserID).Str("key", key).Int("bytes", len(data)).Msg("item image uploaded")
	return ItemImages{Image: url, LargeImage: url}, nil
}
