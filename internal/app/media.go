package app

import (
	"context"
	"path"
	"time"

	"github.com/google/uuid"

	"chileadicto/internal/domain"
)

// MediaService fronts the blob storage for the admin gallery widgets:
// uploads return the hosted public URL, listings go through a short
// read-through cache.
type MediaService struct {
	blobs domain.BlobStore
	cache domain.Cache
	ttl   time.Duration
}

func NewMediaService(blobs domain.BlobStore, cache domain.Cache, ttl time.Duration) *MediaService {
	return &MediaService{blobs: blobs, cache: cache, ttl: ttl}
}

func (s *MediaService) Upload(ctx context.Context, site, filename string, data []byte, contentType string) (string, error) {
	// Object names are random; the original filename only contributes
	// its extension so public URLs stay stable and collision-free.
	key := site + "/" + uuid.NewString() + path.Ext(filename)
	url, err := s.blobs.Upload(ctx, key, data, contentType)
	if err != nil {
		return "", err
	}
	if s.cache != nil {
		_ = s.cache.Del(ctx, "media:"+site)
	}
	return url, nil
}

func (s *MediaService) List(ctx context.Context, site string) ([]domain.MediaObject, error) {
	key := "media:" + site
	var out []domain.MediaObject
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &out); ok {
			return out, nil
		}
	}
	out, err := s.blobs.List(ctx, site)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, out, int(s.ttl.Seconds()))
	}
	return out, nil
}
