package receipt

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
)

// Archive keeps a copy of scanned images and returns a URL for the copy.
type Archive interface {
	Store(ctx context.Context, key string, img Image) (string, error)
}

// GCSArchive stores images in a Cloud Storage bucket. It uses Application
// Default Credentials.
type GCSArchive struct {
	client *storage.Client
	bucket string
	prefix string
}

func NewGCSArchive(ctx context.Context, bucket string) (*GCSArchive, error) {
	if strings.TrimSpace(bucket) == "" {
		return nil, fmt.Errorf("create storage client: missing bucket")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCSArchive{client: client, bucket: bucket, prefix: "receipts"}, nil
}

// Store uploads the image under <prefix>/<key><ext> and returns its gs:// URI.
func (a *GCSArchive) Store(ctx context.Context, key string, img Image) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	objectName := path.Join(a.prefix, key+extensionFor(img.MIMEType))
	w := a.client.Bucket(a.bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = img.MIMEType

	if _, err := w.Write(img.Data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write object %s: %w", objectName, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize upload %s: %w", objectName, err)
	}
	return fmt.Sprintf("gs://%s/%s", a.bucket, objectName), nil
}

func (a *GCSArchive) Close() error {
	return a.client.Close()
}

func extensionFor(mimeType string) string {
	switch strings.ToLower(mimeType) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/heic":
		return ".heic"
	case "image/gif":
		return ".gif"
	default:
		return ""
	}
}
