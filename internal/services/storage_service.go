// internal/services/storage_service.go
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"

	"github.com/javajoker/catalog-backend/internal/config"
)

var (
	ErrFileTooLarge   = errors.New("file exceeds the maximum allowed size")
	ErrFileType       = errors.New("file type is not allowed")
	ErrForeignAsset   = errors.New("url does not belong to this store")
	unsafeNameChars   = regexp.MustCompile(`[^A-Za-z0-9_-]+`)
	avatarIgnoreNames = map[string]bool{".DS_Store": true, "Thumbs.db": true, "desktop.ini": true}
)

// AssetStore persists uploaded images and resolves them by public URL.
type AssetStore interface {
	Save(ctx context.Context, header *multipart.FileHeader) (string, error)
	Delete(ctx context.Context, url string) error
}

type UploadOptions struct {
	MaxSize      int64 // in bytes
	AllowedTypes []string
}

func DefaultImageUploadOptions(maxMB int) UploadOptions {
	return UploadOptions{
		MaxSize:      int64(maxMB) * 1024 * 1024,
		AllowedTypes: []string{".jpg", ".jpeg", ".png", ".gif", ".webp"},
	}
}

// NewAssetStore returns the S3 store when AWS is configured and the local
// filesystem store otherwise.
func NewAssetStore(cfg *config.Config) (AssetStore, error) {
	options := DefaultImageUploadOptions(cfg.Storage.MaxUploadMB)

	if !cfg.AWS.S3Enabled() {
		return NewLocalAssetStore(cfg.Storage.ImagesDir, cfg.Storage.ImagesURLPath, options), nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWS.AccessKeyID,
			cfg.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	baseURL := cfg.AWS.CloudFrontURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.AWS.S3Bucket, cfg.AWS.Region)
	}

	return NewS3AssetStore(s3.New(sess), cfg.AWS.S3Bucket, baseURL, cfg.AWS.PublicRead, options), nil
}

func checkUpload(header *multipart.FileHeader, options UploadOptions) error {
	if options.MaxSize > 0 && header.Size > options.MaxSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, header.Size, options.MaxSize)
	}

	if len(options.AllowedTypes) > 0 {
		fileExt := strings.ToLower(filepath.Ext(header.Filename))
		for _, allowedType := range options.AllowedTypes {
			if fileExt == allowedType {
				return nil
			}
		}
		return fmt.Errorf("%w: %q", ErrFileType, fileExt)
	}

	return nil
}

// generateFileName keeps a sanitised form of the original base name and
// appends a UUID: "<base>_<uuid><ext>".
func generateFileName(originalName string) string {
	name := filepath.Base(strings.ReplaceAll(originalName, "\\", "/"))
	ext := strings.ToLower(filepath.Ext(name))
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.Trim(unsafeNameChars.ReplaceAllString(base, "_"), "_")

	if base == "" {
		return uuid.NewString() + ext
	}
	return fmt.Sprintf("%s_%s%s", base, uuid.NewString(), ext)
}

// LocalAssetStore writes images to a directory served under urlPrefix.
type LocalAssetStore struct {
	dir       string
	urlPrefix string
	options   UploadOptions
}

func NewLocalAssetStore(dir, urlPrefix string, options UploadOptions) *LocalAssetStore {
	return &LocalAssetStore{
		dir:       dir,
		urlPrefix: strings.TrimSuffix(urlPrefix, "/"),
		options:   options,
	}
}

func (s *LocalAssetStore) Save(ctx context.Context, header *multipart.FileHeader) (string, error) {
	if err := checkUpload(header, s.options); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	filename := generateFileName(header.Filename)
	dst, err := os.OpenFile(filepath.Join(s.dir, filename), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return s.urlPrefix + "/" + filename, nil
}

// Delete removes the file behind url. A file that is already gone is not
// an error.
func (s *LocalAssetStore) Delete(ctx context.Context, url string) error {
	name, ok := strings.CutPrefix(url, s.urlPrefix+"/")
	if !ok || name == "" || name != path.Base(name) || name == ".." {
		return fmt.Errorf("%w: %s", ErrForeignAsset, url)
	}

	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

const s3ProductFolder = "products"

// S3AssetStore keeps images in an S3 bucket under the products/ prefix.
type S3AssetStore struct {
	client     s3iface.S3API
	bucket     string
	baseURL    string
	publicRead bool
	options    UploadOptions
}

func NewS3AssetStore(client s3iface.S3API, bucket, baseURL string, publicRead bool, options UploadOptions) *S3AssetStore {
	return &S3AssetStore{
		client:     client,
		bucket:     bucket,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		publicRead: publicRead,
		options:    options,
	}
}

func (s *S3AssetStore) Save(ctx context.Context, header *multipart.FileHeader) (string, error) {
	if err := checkUpload(header, s.options); err != nil {
		return "", err
	}

	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	fileBytes, err := io.ReadAll(src)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	key := s3ProductFolder + "/" + generateFileName(header.Filename)
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	params := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(fileBytes),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(fileBytes))),
	}
	if s.publicRead {
		params.ACL = aws.String(s3.ObjectCannedACLPublicRead)
	}

	if _, err := s.client.PutObjectWithContext(ctx, params); err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return s.baseURL + "/" + key, nil
}

func (s *S3AssetStore) Delete(ctx context.Context, url string) error {
	key, ok := strings.CutPrefix(url, s.baseURL+"/")
	if !ok || !strings.HasPrefix(key, s3ProductFolder+"/") {
		return fmt.Errorf("%w: %s", ErrForeignAsset, url)
	}

	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}
	return nil
}

// ListAvatarFiles returns the sorted file names in dir, skipping
// directories and OS metadata files. A missing directory yields an empty
// list.
func ListAvatarFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || avatarIgnoreNames[name] || strings.HasPrefix(name, "._") {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
