package storage

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError is returned when an upload breaks a rule.
type ValidationError struct {
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("storage: %s: %s", e.Rule, e.Message)
}

// ErrValidation matches every *ValidationError through errors.Is.
var ErrValidation = errors.New("storage: validation failed")

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ValidationRule checks an upload before it is stored.
type ValidationRule func(size int64, mimeType string) error

// Validate runs rules in order and returns the first failure.
func Validate(size int64, mimeType string, rules ...ValidationRule) error {
	for _, rule := range rules {
		if err := rule(size, mimeType); err != nil {
			return err
		}
	}
	return nil
}

func MaxSize(limit int64) ValidationRule {
	return func(size int64, _ string) error {
		if size > limit {
			return &ValidationError{Rule: "max_size", Message: fmt.Sprintf("file is %d bytes, limit is %d", size, limit)}
		}
		return nil
	}
}

func NotEmpty() ValidationRule {
	return func(size int64, _ string) error {
		if size <= 0 {
			return &ValidationError{Rule: "not_empty", Message: ErrEmptyFile.Error()}
		}
		return nil
	}
}

// AllowedTypes accepts exact MIME types and "type/*" wildcards.
func AllowedTypes(patterns ...string) ValidationRule {
	return func(_ int64, mimeType string) error {
		if !matchesMIME(mimeType, patterns) {
			return &ValidationError{
				Rule:    "allowed_types",
				Message: fmt.Sprintf("%q is not one of %s", normalizeMIME(mimeType), strings.Join(patterns, ", ")),
			}
		}
		return nil
	}
}

func ImageOnly() ValidationRule {
	return func(_ int64, mimeType string) error {
		if !IsImage(mimeType) {
			return &ValidationError{Rule: "image_only", Message: fmt.Sprintf("%q is not an image", normalizeMIME(mimeType))}
		}
		return nil
	}
}

// MediaOnly accepts images and the plain document types.
func MediaOnly() ValidationRule {
	return func(_ int64, mimeType string) error {
		if !IsImage(mimeType) && !isDocument(mimeType) {
			return &ValidationError{Rule: "media_only", Message: fmt.Sprintf("%q is not allowed", normalizeMIME(mimeType))}
		}
		return nil
	}
}
