package service

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNonRetryable marks failures that will not succeed on a later attempt.
var ErrNonRetryable = errors.New("non-retryable error")

type Kind string

const (
	KindUnauthenticated        Kind = "unauthenticated"
	KindMisconfigured          Kind = "misconfigured"
	KindMissingFile            Kind = "missing_file"
	KindInvalidFileType        Kind = "invalid_file_type"
	KindFileTooLarge           Kind = "file_too_large"
	KindInvalidInput           Kind = "invalid_input"
	KindProviderTimeout        Kind = "provider_timeout"
	KindProviderFailure        Kind = "provider_failure"
	KindPersistenceUnreachable Kind = "persistence_unreachable"
	KindPersistenceRejected    Kind = "persistence_rejected"
)

func (k Kind) HTTPStatus() int {
	switch k {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindMissingFile, KindInvalidFileType, KindFileTooLarge, KindInvalidInput:
		return http.StatusBadRequest
	case KindProviderTimeout:
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Error is the classified failure every endpoint converts into a JSON body.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so the sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrUnauthenticated        = &Error{Kind: KindUnauthenticated, Message: "Unauthorized"}
	ErrMisconfigured          = &Error{Kind: KindMisconfigured, Message: "Cloudinary credentials not found"}
	ErrMissingFile            = &Error{Kind: KindMissingFile, Message: "File not found"}
	ErrInvalidFileType        = &Error{Kind: KindInvalidFileType, Message: "Invalid file type. Please upload a video file."}
	ErrFileTooLarge           = &Error{Kind: KindFileTooLarge, Message: "File size too large. Maximum size is 1GB."}
	ErrInvalidInput           = &Error{Kind: KindInvalidInput, Message: "Invalid upload request"}
	ErrProviderTimeout        = &Error{Kind: KindProviderTimeout, Message: "Upload timed out. Please try again with a smaller file."}
	ErrProviderFailure        = &Error{Kind: KindProviderFailure, Message: "Upload video failed"}
	ErrPersistenceUnreachable = &Error{Kind: KindPersistenceUnreachable, Message: "Failed to save video to database"}
	ErrPersistenceRejected    = &Error{Kind: KindPersistenceRejected, Message: "Failed to save video to database"}
)

func wrap(sentinel *Error, err error) *Error {
	return &Error{Kind: sentinel.Kind, Message: sentinel.Message, Err: err}
}

func withMessage(sentinel *Error, message string, err error) *Error {
	return &Error{Kind: sentinel.Kind, Message: message, Err: err}
}
