package service

import (
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"video-gallery/config"
	"video-gallery/constant"
)

// IngestRequest is what the upload endpoint collected from the caller.
type IngestRequest struct {
	UserID       string
	File         *multipart.FileHeader
	Title        string
	Description  string
	OriginalSize string
	// Oversized is set when the request body was cut off at the size limit
	// before the file part could be read.
	Oversized bool
}

type ValidatedUpload struct {
	UserID       string
	File         *multipart.FileHeader
	ContentType  string
	Title        string
	Description  *string
	OriginalSize int64
}

type Validator struct {
	credentials config.Cloudinary
	hasProvider bool
	maxFileSize int64
}

func NewValidator(credentials config.Cloudinary, hasProvider bool, maxFileSize int64) Validator {
	if maxFileSize <= 0 {
		maxFileSize = constant.DefaultMaxFileSize
	}
	return Validator{
		credentials: credentials,
		hasProvider: hasProvider,
		maxFileSize: maxFileSize,
	}
}

func (v Validator) MaxFileSize() int64 {
	return v.maxFileSize
}

// Preflight runs the checks that need nothing from the request body, so the
// caller can refuse an upload before reading it.
func (v Validator) Preflight(userID string) error {
	if userID == "" {
		return ErrUnauthenticated
	}
	if !v.credentials.Complete() || !v.hasProvider {
		return ErrMisconfigured
	}
	return nil
}

// Validate runs the checks in their fixed precedence order and stops at the
// first failure. It performs no I/O.
func (v Validator) Validate(req IngestRequest) (*ValidatedUpload, error) {
	if err := v.Preflight(req.UserID); err != nil {
		return nil, err
	}

	if req.Oversized {
		return nil, v.tooLarge()
	}

	if req.File == nil {
		return nil, ErrMissingFile
	}

	contentType := req.File.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(contentType), constant.VideoMediaTypePrefix) {
		return nil, ErrInvalidFileType
	}

	if req.File.Size > v.maxFileSize {
		return nil, v.tooLarge()
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, withMessage(ErrInvalidInput, "Title is required", nil)
	}

	originalSize, err := strconv.ParseInt(strings.TrimSpace(req.OriginalSize), 10, 64)
	if err != nil || originalSize <= 0 {
		return nil, withMessage(ErrInvalidInput, "originalSize must be a positive byte count", err)
	}

	var description *string
	if d := strings.TrimSpace(req.Description); d != "" {
		description = &d
	}

	return &ValidatedUpload{
		UserID:       req.UserID,
		File:         req.File,
		ContentType:  contentType,
		Title:        title,
		Description:  description,
		OriginalSize: originalSize,
	}, nil
}

func (v Validator) tooLarge() *Error {
	return withMessage(ErrFileTooLarge, fmt.Sprintf("File size too large. Maximum size is %s.", sizeLabel(v.maxFileSize)), nil)
}

func sizeLabel(n int64) string {
	if n%(1<<30) == 0 {
		return fmt.Sprintf("%dGB", n>>30)
	}
	return humanize.IBytes(uint64(n))
}
