package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Kategori penyimpanan blob. Object key = "{kategori}_{digest}", jadi maksimal
// satu salinan fisik per byte sequence per kategori.
const (
	KategoriProgress = "progress"
	KategoriLampiran = "lampiran"
	KategoriProfile  = "profile"
	KategoriChat     = "chat"
)

// BlobStore adalah kontrak blob store content-addressed.
// Put idempoten: menaruh ulang digest yang sama aman (object key sama,
// isi identik).
type BlobStore interface {
	Put(ctx context.Context, kategori, digest string, data []byte, contentType string) (string, error)
}

// MinioStore adalah implementasi BlobStore di atas object storage
// S3-compatible (MinIO).
type MinioStore struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// NewMinioStore membuat koneksi ke object storage dari environment:
// MINIO_ENDPOINT, MINIO_ACCESS_KEY, MINIO_SECRET_KEY, MINIO_BUCKET,
// MINIO_PUBLIC_URL, MINIO_USE_SSL.
func NewMinioStore() (*MinioStore, error) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	bucket := os.Getenv("MINIO_BUCKET")
	if endpoint == "" || bucket == "" {
		return nil, fmt.Errorf("MINIO_ENDPOINT / MINIO_BUCKET belum dikonfigurasi")
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(os.Getenv("MINIO_ACCESS_KEY"), os.Getenv("MINIO_SECRET_KEY"), ""),
		Secure: os.Getenv("MINIO_USE_SSL") == "true",
	})
	if err != nil {
		return nil, fmt.Errorf("gagal koneksi ke object storage: %w", err)
	}

	baseURL := os.Getenv("MINIO_PUBLIC_URL")
	if baseURL == "" {
		scheme := "http"
		if os.Getenv("MINIO_USE_SSL") == "true" {
			scheme = "https"
		}
		baseURL = fmt.Sprintf("%s://%s/%s", scheme, endpoint, bucket)
	}

	return &MinioStore{client: client, bucket: bucket, baseURL: baseURL}, nil
}

// Put mengunggah data dengan key "{kategori}_{digest}" dan mengembalikan
// URL publiknya.
func (s *MinioStore) Put(ctx context.Context, kategori, digest string, data []byte, contentType string) (string, error) {
	objectKey := fmt.Sprintf("%s_%s", kategori, digest)

	_, err := s.client.PutObject(ctx, s.bucket, objectKey,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return "", fmt.Errorf("gagal upload blob %s: %w", objectKey, err)
	}

	return fmt.Sprintf("%s/%s", s.baseURL, objectKey), nil
}
