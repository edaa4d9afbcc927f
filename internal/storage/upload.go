package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"structiv/internal/domain"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var allowedExt = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var allowedMIME = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

const msgOnlyImages = "Only image files are allowed!"

// UploadError is a client mistake in an upload request.
type UploadError struct {
	Msg string
}

func (e *UploadError) Error() string { return e.Msg }

// ImageUploader validates unit image uploads and hands them to an ImageStore.
type ImageUploader struct {
	store    domain.ImageStore
	maxFiles int
	maxBytes int64
	maxMB    int64
	logger   *zerolog.Logger
}

func NewImageUploader(store domain.ImageStore, maxFiles int, maxFileSizeMB int64, logger *zerolog.Logger) *ImageUploader {
	return &ImageUploader{
		store:    store,
		maxFiles: maxFiles,
		maxBytes: maxFileSizeMB << 20,
		maxMB:    maxFileSizeMB,
		logger:   logger,
	}
}

// MaxFiles is the per-request file limit.
func (u *ImageUploader) MaxFiles() int { return u.maxFiles }

// MaxBytes is the per-file size limit.
func (u *ImageUploader) MaxBytes() int64 { return u.maxBytes }

// TooLarge is the error for a body that exceeded the size limit while reading.
func (u *ImageUploader) TooLarge() error {
	return &UploadError{Msg: fmt.Sprintf("File too large. Maximum size is %dMB per file.", u.maxMB)}
}

// Save checks every file first and stores them only when all pass.
// The returned URLs keep the order of files.
func (u *ImageUploader) Save(ctx context.Context, files []*multipart.FileHeader) ([]string, error) {
	if len(files) == 0 {
		return nil, &UploadError{Msg: "No files uploaded"}
	}
	if len(files) > u.maxFiles {
		return nil, &UploadError{Msg: fmt.Sprintf("Too many files. Maximum is %d files.", u.maxFiles)}
	}

	types := make([]string, len(files))
	for i, fh := range files {
		if fh.Size > u.maxBytes {
			return nil, u.TooLarge()
		}
		ct, err := sniff(fh)
		if err != nil {
			return nil, err
		}
		types[i] = ct
	}

	urls := make([]string, 0, len(files))
	for i, fh := range files {
		url, err := u.saveOne(ctx, fh, types[i])
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	u.logger.Info().Int("count", len(urls)).Msg("unit images uploaded")
	return urls, nil
}

func (u *ImageUploader) saveOne(ctx context.Context, fh *multipart.FileHeader, contentType string) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer src.Close()

	name := "unit-" + uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
	return u.store.Save(ctx, name, src, contentType)
}

// sniff checks the extension and the detected content type of fh.
func sniff(fh *multipart.FileHeader) (string, error) {
	if !allowedExt[strings.ToLower(filepath.Ext(fh.Filename))] {
		return "", &UploadError{Msg: msgOnlyImages}
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer src.Close()

	mt, err := mimetype.DetectReader(io.LimitReader(src, 3072))
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	if !mimetype.EqualsAny(mt.String(), allowedMIME...) {
		return "", &UploadError{Msg: msgOnlyImages}
	}
	return mt.String(), nil
}
