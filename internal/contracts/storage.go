package contracts

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"contract-portal/contract-portal-backend/pkg/storage"
)

// ArtifactStore persists generated contract artifacts in object storage and
// hands back presigned URLs for them.
type ArtifactStore struct {
	s3     storage.S3Client
	bucket string
	urlTTL time.Duration
	now    func() time.Time
}

func NewArtifactStore(s3 storage.S3Client, bucket string, urlTTL time.Duration) *ArtifactStore {
	return &ArtifactStore{
		s3:     s3,
		bucket: bucket,
		urlTTL: urlTTL,
		now:    time.Now,
	}
}

// SaveArtifact uploads one artifact and returns a resolvable URL for it.
func (s *ArtifactStore) SaveArtifact(ctx context.Context, name, contentType string, data []byte) (string, error) {
	key := s.artifactKey(name)
	if err := s.s3.Upload(ctx, s.bucket, key, contentType, bytes.NewReader(data)); err != nil {
		return "", err
	}
	url, err := s.s3.GetPresignedURL(ctx, s.bucket, key, s.urlTTL)
	if err != nil {
		return "", fmt.Errorf("presign artifact %s: %w", key, err)
	}
	return url, nil
}

// DeleteArtifactsOlderThan removes stored artifacts last modified before the
// cutoff and reports how many were deleted.
func (s *ArtifactStore) DeleteArtifactsOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	objects, err := s.s3.List(ctx, s.bucket, artifactPrefix)
	if err != nil {
		return 0, err
	}
	deleted := 0
	for _, obj := range objects {
		if !obj.LastModified.Before(cutoff) {
			continue
		}
		if err := s.s3.Delete(ctx, s.bucket, obj.Key); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

const artifactPrefix = "contracts/"

func (s *ArtifactStore) artifactKey(name string) string {
	return fmt.Sprintf("%s%s/%s", artifactPrefix, s.now().Format("2006/01"), name)
}
