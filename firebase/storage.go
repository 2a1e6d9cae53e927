package firebase

import (
	"context"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultFolder receives uploads that do not name a known folder.
const DefaultFolder = "uploads"

// Folders lists where admin uploads may be stored.
var Folders = map[string]bool{
	"products":    true,
	"categories":  true,
	"locations":   true,
	"hero":        true,
	DefaultFolder: true,
}

// StorageClient abstracts Firebase Storage operations for dependency injection and testing.
type StorageClient interface {
	// UploadImage stores r under folder and returns its public URL.
	UploadImage(ctx context.Context, folder string, r io.Reader, filename, contentType string) (string, error)
	DeleteFile(ctx context.Context, objectPath string) error
}

// BucketStorage writes to the app's default Storage bucket with a public-read ACL.
type BucketStorage struct {
	app    *App
	bucket string
	now    func() time.Time
}

func (a *App) Storage() (*BucketStorage, error) {
	if a.bucket == "" {
		return nil, fmt.Errorf("FIREBASE_STORAGE_BUCKET not set")
	}
	return &BucketStorage{app: a, bucket: a.bucket, now: time.Now}, nil
}

func objectPath(folder, filename string, now time.Time) string {
	if !Folders[folder] {
		folder = DefaultFolder
	}
	return fmt.Sprintf("%s/%d_%s_%s", folder, now.Unix(), uuid.NewString()[:8], sanitizeFilename(filename))
}

func publicURL(bucket, path string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, path)
}

func (s *BucketStorage) bucketHandle(ctx context.Context) (*storage.BucketHandle, error) {
	client, err := s.app.app.Storage(ctx)
	if err != nil {
		return nil, err
	}
	return client.Bucket(s.bucket)
}

func (s *BucketStorage) UploadImage(ctx context.Context, folder string, r io.Reader, filename, contentType string) (string, error) {
	bucket, err := s.bucketHandle(ctx)
	if err != nil {
		return "", err
	}

	path := objectPath(folder, filename, s.now())
	obj := bucket.Object(path)
	wc := obj.NewWriter(ctx)
	wc.ContentType = contentType
	wc.CacheControl = "public, max-age=31536000"

	if _, err := io.Copy(wc, r); err != nil {
		wc.Close()
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload: %w", err)
	}

	// Make object publicly readable so the URL works without authentication
	if err := obj.ACL().Set(ctx, storage.AllUsers, storage.RoleReader); err != nil {
		s.app.logger.Warn("failed to set public ACL", zap.String("object", path), zap.Error(err))
	}

	return publicURL(s.bucket, path), nil
}

func (s *BucketStorage) DeleteFile(ctx context.Context, objectPath string) error {
	bucket, err := s.bucketHandle(ctx)
	if err != nil {
		return err
	}

	if err := bucket.Object(objectPath).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete object %s: %w", objectPath, err)
	}

	s.app.logger.Info("deleted file", zap.String("object", objectPath), zap.String("bucket", s.bucket))
	return nil
}
