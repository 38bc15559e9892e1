package message

import "errors"

// Validation errors.
var (
	// ErrInvalidMethod is returned when a request method is outside the allowed set.
	ErrInvalidMethod = errors.New("message: invalid method")

	// ErrInvalidStatus is returned when a status code has no known reason phrase.
	ErrInvalidStatus = errors.New("message: invalid status code")
)

// Stream errors.
var (
	ErrNotReadable         = errors.New("message: stream is not readable")
	ErrNotWritable         = errors.New("message: stream is not writable")
	ErrNotSeekable         = errors.New("message: stream is not seekable")
	ErrStreamClosed        = errors.New("message: stream is closed")
	ErrResourceUnavailable = errors.New("message: underlying resource unavailable")
	ErrNoEncoder           = errors.New("message: no encoder for non-string payload")
)

// Uploaded file errors.
var (
	ErrAlreadyMoved = errors.New("message: uploaded file already moved")
	ErrUploadFailed = errors.New("message: upload failed")
)
