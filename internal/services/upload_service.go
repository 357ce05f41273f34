package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"foodgo/internal/common"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
)

// MaxUploadBytes caps an uploaded image.
const MaxUploadBytes = 5 << 20

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// UploadService stores images in an object store and returns their public URL.
type UploadService interface {
	UploadImage(ctx context.Context, reader io.Reader, size int64) (string, error)
	EnsureBucketExists(ctx context.Context) error
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	PublicURL string
}

type minioUploadService struct {
	client *minio.Client
	cfg    MinioConfig
}

func NewMinioUploadService(cfg MinioConfig) (UploadService, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create minio client")
	}
	return &minioUploadService{client: client, cfg: cfg}, nil
}

func (m *minioUploadService) UploadImage(ctx context.Context, reader io.Reader, size int64) (string, error) {
	if size > MaxUploadBytes {
		return "", common.NewValidationError("file exceeds %d bytes", MaxUploadBytes)
	}

	data, err := io.ReadAll(io.LimitReader(reader, MaxUploadBytes+1))
	if err != nil {
		return "", errors.Wrap(err, "read upload")
	}
	if len(data) > MaxUploadBytes {
		return "", common.NewValidationError("file exceeds %d bytes", MaxUploadBytes)
	}

	contentType, ext, err := DetectImageType(data)
	if err != nil {
		return "", err
	}
	objectName := uuid.NewString() + ext
	_, err = m.client.PutObject(ctx, m.cfg.Bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", errors.Wrap(err, "put object")
	}
	return m.objectURL(objectName), nil
}

func (m *minioUploadService) objectURL(objectName string) string {
	if m.cfg.PublicURL != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(m.cfg.PublicURL, "/"), m.cfg.Bucket, objectName)
	}
	scheme := "http"
	if m.cfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, m.cfg.Endpoint, m.cfg.Bucket, objectName)
}

func (m *minioUploadService) EnsureBucketExists(ctx context.Context) error {
	found, err := m.client.BucketExists(ctx, m.cfg.Bucket)
	if err != nil {
		return errors.Wrap(err, "check bucket")
	}
	if !found {
		return errors.Wrap(m.client.MakeBucket(ctx, m.cfg.Bucket, minio.MakeBucketOptions{}), "make bucket")
	}
	return nil
}

// DetectImageType sniffs data and accepts only jpeg, png, webp and gif.
func DetectImageType(data []byte) (contentType, ext string, err error) {
	contentType = http.DetectContentType(data)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", "", common.NewValidationError("unsupported file type %s", contentType)
	}
	return contentType, ext, nil
}
