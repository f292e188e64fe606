// Package validation checks uploaded files against the configured upload
// policy before they reach the extraction pipeline.
package validation

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"bizval/internal/config"
)

var (
	// ErrEmptyFile is returned for zero-byte uploads.
	ErrEmptyFile = errors.New("uploaded file is empty")
	// ErrFileTooLarge is returned when the upload exceeds the size limit.
	ErrFileTooLarge = errors.New("uploaded file exceeds the size limit")
	// ErrExtensionNotAllowed is returned for file types outside the policy.
	ErrExtensionNotAllowed = errors.New("file type not allowed")
	// ErrUnsafeFilename is returned for filenames with path components.
	ErrUnsafeFilename = errors.New("filename contains path components")
)

// UploadValidator validates uploaded files against the upload policy.
type UploadValidator struct {
	maxSize     int64
	allowedExts []string
	logger      *slog.Logger
}

// NewUploadValidator creates a validator from the upload configuration.
func NewUploadValidator(cfg config.UploadConfig, logger *slog.Logger) *UploadValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &UploadValidator{
		maxSize:     cfg.MaxFileSize,
		allowedExts: cfg.AllowedExtensions,
		logger:      logger,
	}
}

// Validate checks the filename and declared size of an upload.
func (v *UploadValidator) Validate(filename string, size int64) error {
	if err := v.ValidateFilename(filename); err != nil {
		return err
	}
	return v.ValidateSize(size)
}

// ValidateFilename checks that the filename is safe and its extension is
// on the allow list.
func (v *UploadValidator) ValidateFilename(filename string) error {
	if filename != filepath.Base(filename) || strings.ContainsAny(filename, `/\`) {
		return fmt.Errorf("%w: %q", ErrUnsafeFilename, filename)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range v.allowedExts {
		if strings.EqualFold(allowed, ext) {
			return nil
		}
	}

	v.logger.Warn("rejected upload with disallowed extension",
		slog.String("filename", filename),
		slog.String("extension", ext))
	return fmt.Errorf("%w: %q", ErrExtensionNotAllowed, ext)
}

// ValidateSize checks the upload size against the configured limit.
func (v *UploadValidator) ValidateSize(size int64) error {
	if size <= 0 {
		return ErrEmptyFile
	}
	if size > v.maxSize {
		return fmt.Errorf("%w: %d bytes (limit %d)", ErrFileTooLarge, size, v.maxSize)
	}
	return nil
}
