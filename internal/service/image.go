package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/exceptions"
)

var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ImageService decodes uploaded images and hands them to an ImageStore.
// Keys are kept under folder; payload errors are reported against field.
type ImageService struct {
	store  ImageStore
	folder string
	field  string
}

// NewImageService creates the ImageService for recipe images
func NewImageService(store ImageStore) *ImageService {
	return &ImageService{store: store, folder: "recipes/", field: "image"}
}

// NewAvatarService creates the ImageService for user avatars
func NewAvatarService(store ImageStore) *ImageService {
	return &ImageService{store: store, folder: "avatars/", field: "avatar"}
}

// Save stores a base64 data URI ("data:image/png;base64,...") and returns the public URL
func (s *ImageService) Save(ctx context.Context, payload string) (string, error) {
	data, err := decodeDataURI(payload)
	if err != nil {
		return "", s.invalid(err.Error())
	}

	// The declared media type is ignored; the bytes decide
	contentType := http.DetectContentType(data)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", s.invalid(fmt.Sprintf("unsupported image type %q", contentType))
	}

	key := s.folder + uuid.NewString() + ext
	url, err := s.store.Put(ctx, key, contentType, data)
	if err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	log.Printf("[ImageService] stored %s (%d bytes)", key, len(data))
	return url, nil
}

// Remove deletes a previously saved image; failures are only logged
func (s *ImageService) Remove(ctx context.Context, url string) {
	if url == "" {
		return
	}
	key := s.folder + path.Base(url)
	if err := s.store.Delete(ctx, key); err != nil {
		log.Printf("[ImageService] failed to delete %s: %v", key, err)
	}
}

func decodeDataURI(payload string) ([]byte, error) {
	if !strings.HasPrefix(payload, "data:") {
		return nil, fmt.Errorf("image must be a base64 data URI")
	}
	meta, encoded, ok := strings.Cut(payload[len("data:"):], ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("image must be a base64 data URI")
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("image is not valid base64")
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("image is empty")
	}
	return data, nil
}

func (s *ImageService) invalid(msg string) error {
	ve := &exceptions.ValidationError{}
	ve.Add(s.field, msg)
	return ve
}

// s3API is the subset of the S3 client the store uses
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3ImageStore keeps images in the configured bucket
type S3ImageStore struct {
	client    s3API
	bucket    string
	publicURL func(key string) string
}

func NewS3ImageStore(cfg *config.S3Config) *S3ImageStore {
	return &S3ImageStore{
		client:    cfg.Client,
		bucket:    cfg.BucketName,
		publicURL: cfg.PublicURL,
	}
}

func (s *S3ImageStore) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return s.publicURL(key), nil
}

func (s *S3ImageStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}

// DiskImageStore writes images below a local media root, served under urlPrefix
type DiskImageStore struct {
	root      string
	urlPrefix string
}

func NewDiskImageStore(root, urlPrefix string) *DiskImageStore {
	return &DiskImageStore{root: root, urlPrefix: strings.TrimSuffix(urlPrefix, "/")}
}

func (s *DiskImageStore) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	dst := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return s.urlPrefix + "/" + key, nil
}

func (s *DiskImageStore) Delete(ctx context.Context, key string) error {
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
