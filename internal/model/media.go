package model

import "errors"

const (
	MaxAvatarSizeBytes = 5 * 1024 * 1024
	AvatarWidth        = 200
	AvatarHeight       = 200
	AvatarFolder       = "avatars"
	AvatarExt          = ".jpg"
	AvatarCacheControl = "public, max-age=31536000" // 1 year

	MaxImageSizeBytes = 10 * 1024 * 1024
	MaxVideoSizeBytes = 100 * 1024 * 1024
	PostMediaFolder   = "posts"
	StoryMediaFolder  = "stories"
)

// Supported content types for upload validation
const (
	ContentTypeJPEG = "image/jpeg"
	ContentTypePNG  = "image/png"
	ContentTypeGIF  = "image/gif"
	ContentTypeWebP = "image/webp"
	ContentTypeMP4  = "video/mp4"
	ContentTypeMOV  = "video/quicktime"
	ContentTypeWebM = "video/webm"
)

var allowedImageTypes = map[string]struct{}{
	ContentTypeJPEG: {},
	ContentTypePNG:  {},
	ContentTypeGIF:  {},
	ContentTypeWebP: {},
}

var allowedVideoTypes = map[string]struct{}{
	ContentTypeMP4:  {},
	ContentTypeMOV:  {},
	ContentTypeWebM: {},
}

// Error codes for HTTP responses
const (
	CodeFileTooLarge     = "FILE_TOO_LARGE"
	CodeInvalidMediaType = "INVALID_MEDIA_TYPE"
)

// Domain errors for media operations
var (
	ErrFileTooLarge     = errors.New("file too large")
	ErrInvalidImageType = errors.New("invalid image type")
	ErrUploadFailed     = errors.New("media upload failed")
)

// UploadResult represents the uploaded object location.
// URL is the public-facing URL; Key is the object key inside the bucket
// (kept around so a later delete can find the object).
type UploadResult struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// IsAllowedImageType reports if the content type is a supported image format.
func IsAllowedImageType(contentType string) bool {
	_, ok := allowedImageTypes[contentType]
	return ok
}

// IsAllowedVideoType reports if the content type is a supported video format.
func IsAllowedVideoType(contentType string) bool {
	_, ok := allowedVideoTypes[contentType]
	return ok
}
