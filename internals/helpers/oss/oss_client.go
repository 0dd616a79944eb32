package helper

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/google/uuid"
)

// OSSService wraps one bucket of Aliyun OSS for media uploads.
type OSSService struct {
	bucket        *oss.Bucket
	bucketName    string
	publicBaseURL string
	prefix        string
}

func getEnv(k string) string { return strings.TrimSpace(os.Getenv(k)) }

// NewOSSServiceFromEnv builds the service from OSS_* env vars. prefix is an
// optional key prefix, e.g. "uploads/".
func NewOSSServiceFromEnv(prefix string) (*OSSService, error) {
	endpoint := getEnv("OSS_ENDPOINT")
	keyID := getEnv("OSS_ACCESS_KEY_ID")
	keySecret := getEnv("OSS_ACCESS_KEY_SECRET")
	bucketName := getEnv("OSS_BUCKET")
	if endpoint == "" || keyID == "" || keySecret == "" || bucketName == "" {
		return nil, errors.New("OSS env incomplete (need OSS_ENDPOINT, OSS_ACCESS_KEY_ID, OSS_ACCESS_KEY_SECRET, OSS_BUCKET)")
	}

	client, err := oss.New(endpoint, keyID, keySecret)
	if err != nil {
		return nil, fmt.Errorf("oss client: %w", err)
	}
	bucket, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("oss bucket: %w", err)
	}

	base := getEnv("OSS_PUBLIC_BASE_URL")
	if base == "" {
		base = fmt.Sprintf("https://%s.%s", bucketName, endpoint)
	}
	return &OSSService{
		bucket:        bucket,
		bucketName:    bucketName,
		publicBaseURL: strings.TrimRight(base, "/"),
		prefix:        strings.Trim(prefix, "/"),
	}, nil
}

// objectKey builds "<prefix>/<dir>/<uuid><ext>".
func (s *OSSService) objectKey(dir, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	name := uuid.New().String() + ext
	parts := []string{}
	if s.prefix != "" {
		parts = append(parts, s.prefix)
	}
	if dir = strings.Trim(dir, "/"); dir != "" {
		parts = append(parts, dir)
	}
	parts = append(parts, name)
	return path.Join(parts...)
}

// UploadBytesToDir stores a blob under dir and returns its object key.
func (s *OSSService) UploadBytesToDir(dir, filename string, data []byte, contentType string) (string, error) {
	key := s.objectKey(dir, filename)
	opts := []oss.Option{}
	if contentType != "" {
		opts = append(opts, oss.ContentType(contentType))
	}
	if err := s.bucket.PutObject(key, bytes.NewReader(data), opts...); err != nil {
		return "", fmt.Errorf("oss put %s: %w", key, err)
	}
	return key, nil
}

// UploadFromFormFileToDir streams a multipart file into the bucket.
func (s *OSSService) UploadFromFormFileToDir(dir string, fh *multipart.FileHeader) (string, string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", "", err
	}
	defer src.Close()

	contentType := fh.Header.Get("Content-Type")
	key := s.objectKey(dir, fh.Filename)
	opts := []oss.Option{}
	if contentType != "" {
		opts = append(opts, oss.ContentType(contentType))
	}
	if err := s.bucket.PutObject(key, src, opts...); err != nil {
		return "", "", fmt.Errorf("oss put %s: %w", key, err)
	}
	return key, contentType, nil
}

// PublicURL maps an object key to its public address.
func (s *OSSService) PublicURL(key string) string {
	return s.publicBaseURL + "/" + strings.TrimLeft(key, "/")
}

// DeleteByPublicURL removes an object given the URL previously handed out.
func (s *OSSService) DeleteByPublicURL(publicURL string) error {
	u, err := url.Parse(publicURL)
	if err != nil {
		return err
	}
	key := strings.TrimLeft(u.Path, "/")
	if key == "" {
		return errors.New("empty object key")
	}
	return s.bucket.DeleteObject(key)
}
