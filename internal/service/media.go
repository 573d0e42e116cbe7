package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"vybe/internal/config"
	"vybe/internal/model"
)

// extByContentType picks the object key extension for uploads stored as-is.
var extByContentType = map[string]string{
	model.ContentTypeJPEG: ".jpg",
	model.ContentTypePNG:  ".png",
	model.ContentTypeGIF:  ".gif",
	model.ContentTypeWebP: ".webp",
	model.ContentTypeMP4:  ".mp4",
	model.ContentTypeMOV:  ".mov",
	model.ContentTypeWebM: ".webm",
}

// MediaService handles media uploads to Cloudflare R2. Every storage call
// runs under its own deadline so a slow upload cannot hold a request open
// indefinitely.
type MediaService struct {
	s3Client      *s3.Client
	bucket        string
	publicURL     string
	uploadTimeout time.Duration
}

// NewMediaService constructs an S3-compatible client for Cloudflare R2.
func NewMediaService(ctx context.Context, cfg *config.Config) (*MediaService, error) {
	if cfg.R2AccountID == "" || cfg.R2AccessKeyID == "" || cfg.R2SecretAccessKey == "" || cfg.R2BucketName == "" || cfg.R2PublicURL == "" {
		return nil, fmt.Errorf("missing Cloudflare R2 configuration")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.R2AccessKeyID, cfg.R2SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for R2: %w", err)
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID)
	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return &MediaService{
		s3Client:      s3Client,
		bucket:        cfg.R2BucketName,
		publicURL:     strings.TrimSuffix(cfg.R2PublicURL, "/"),
		uploadTimeout: time.Duration(cfg.MediaUploadTimeout) * time.Second,
	}, nil
}

// UploadAvatar enforces size/type, normalizes to 200x200 JPEG, and uploads to R2.
func (s *MediaService) UploadAvatar(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*model.UploadResult, error) {
	data, contentType, err := readUpload(file, header, model.MaxAvatarSizeBytes)
	if err != nil {
		return nil, err
	}
	if !model.IsAllowedImageType(contentType) {
		return nil, model.ErrInvalidImageType
	}

	jpegBytes, err := resizeToJPEG(data, model.AvatarWidth, model.AvatarHeight, 85)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s/%s%s", model.AvatarFolder, uuid.NewString(), model.AvatarExt)

	if err := s.putObject(ctx, key, jpegBytes, model.ContentTypeJPEG, model.AvatarCacheControl); err != nil {
		return nil, err
	}

	return &model.UploadResult{URL: s.publicURL + "/" + key, Key: key}, nil
}

// UploadPostMedia stores an image or video as-is under the given folder and
// reports which media kind it was. Images are capped at 10MB, videos at 100MB.
func (s *MediaService) UploadPostMedia(ctx context.Context, file multipart.File, header *multipart.FileHeader, folder string) (*model.UploadResult, string, error) {
	data, contentType, err := readUpload(file, header, model.MaxVideoSizeBytes)
	if err != nil {
		return nil, "", err
	}

	var mediaType string
	switch {
	case model.IsAllowedImageType(contentType):
		if int64(len(data)) > model.MaxImageSizeBytes {
			return nil, "", model.ErrFileTooLarge
		}
		mediaType = model.MediaTypeImage
	case model.IsAllowedVideoType(contentType):
		mediaType = model.MediaTypeVideo
	default:
		return nil, "", model.ErrInvalidImageType
	}

	ext := extByContentType[contentType]
	key := fmt.Sprintf("%s/%s%s", folder, uuid.NewString(), ext)

	if err := s.putObject(ctx, key, data, contentType, ""); err != nil {
		return nil, "", err
	}

	return &model.UploadResult{URL: s.publicURL + "/" + key, Key: key}, mediaType, nil
}

// readUpload loads the upload into memory with a size check and resolves its
// content type, sniffing the bytes when the header doesn't say.
func readUpload(file multipart.File, header *multipart.FileHeader, maxSize int64) ([]byte, string, error) {
	if header.Size > maxSize {
		return nil, "", model.ErrFileTooLarge
	}

	limitedReader := io.LimitReader(file, maxSize+1)
	data, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > maxSize {
		return nil, "", model.ErrFileTooLarge
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" && len(data) > 0 {
		contentType = http.DetectContentType(data[:min(len(data), 512)])
	}
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = strings.TrimSpace(contentType[:idx])
	}

	return data, contentType, nil
}

// resizeToJPEG centers/crops to target size and encodes as JPEG.
func resizeToJPEG(data []byte, width, height, quality int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	resized := imaging.Fill(img, width, height, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}

	return buf.Bytes(), nil
}

// putObject uploads bytes to R2 under the per-call deadline.
func (s *MediaService) putObject(ctx context.Context, key string, body []byte, contentType, cacheControl string) error {
	ctx, cancel := context.WithTimeout(ctx, s.uploadTimeout)
	defer cancel()

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	}
	if cacheControl != "" {
		input.CacheControl = aws.String(cacheControl)
	}

	if _, err := s.s3Client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("failed to upload to r2: %w", err)
	}
	return nil
}

// DeleteObject removes an object by key. Callers should ensure the key is not the shared default.
func (s *MediaService) DeleteObject(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.uploadTimeout)
	defer cancel()

	_, err := s.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from r2: %w", err)
	}
	return nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
