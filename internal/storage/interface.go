package storage

import (
	"context"
	"mime/multipart"
)

// ThumbnailUploader defines the interface for uploading idea thumbnails.
// This interface allows for easy mocking in tests
type ThumbnailUploader interface {
	UploadThumbnail(ctx context.Context, file multipart.File, header *multipart.FileHeader, userID string) (*UploadResult, error)
}

// Ensure S3Uploader implements ThumbnailUploader
var _ ThumbnailUploader = (*S3Uploader)(nil)
