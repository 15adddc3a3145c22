package clients

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"account-service/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BlobStorage uploads user photos and resolves their public URLs.
type BlobStorage interface {
	UploadPhoto(ctx context.Context, userID int64, filename, contentType string, data []byte) (string, error)
}

type supabaseStorage struct {
	baseURL   string
	secretKey string
	bucket    string
	client    *http.Client
	log       *zap.Logger
}

// NewBlobStorage builds a Supabase storage client backed by its REST API.
func NewBlobStorage(config utils.ClientsConfig, log *zap.Logger) BlobStorage {
	return &supabaseStorage{
		baseURL:   strings.TrimRight(config.SupabaseURL, "/"),
		secretKey: config.SupabaseSecretKey,
		bucket:    config.SupabaseBucket,
		client:    &http.Client{Timeout: 30 * time.Second},
		log:       log,
	}
}

func (s *supabaseStorage) UploadPhoto(ctx context.Context, userID int64, filename, contentType string, data []byte) (string, error) {
	if s.baseURL == "" || s.secretKey == "" {
		return "", fmt.Errorf("blob storage is not configured")
	}

	objectName := s.objectName(userID, filename)
	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, s.bucket, url.PathEscape(objectName))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.secretKey)
	req.Header.Set("Content-Type", contentType)
	// Re-uploading the same object name replaces it
	req.Header.Set("x-upsert", "true")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload photo for user %d: %w", userID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		s.log.Error("Storage upload rejected",
			zap.Int("status", resp.StatusCode),
			zap.Int64("user_id", userID),
			zap.String("object", objectName),
		)
		return "", fmt.Errorf("upload photo for user %d: status %d", userID, resp.StatusCode)
	}

	return s.publicURL(objectName), nil
}

// objectName builds a per-user unique object key: user-<id>-photo-<uuid>.<ext>
func (s *supabaseStorage) objectName(userID int64, filename string) string {
	ext := ""
	if i := strings.LastIndex(filename, "."); i >= 0 {
		ext = filename[i:]
	}
	return fmt.Sprintf("user-%d-photo-%s%s", userID, uuid.NewString(), ext)
}

func (s *supabaseStorage) publicURL(objectName string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, url.PathEscape(objectName))
}
