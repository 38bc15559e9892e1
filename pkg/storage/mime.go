package storage

import (
	"bytes"
	"io"
	"net/http"
	"strings"
)

const (
	MIMEOctetStream    = "application/octet-stream"
	mimeDetectionBytes = 512
)

var imageTypes = map[string]struct{}{
	"image/jpeg":    {},
	"image/png":     {},
	"image/gif":     {},
	"image/webp":    {},
	"image/svg+xml": {},
	"image/x-icon":  {},
	"image/avif":    {},
}

var documentTypes = map[string]struct{}{
	"application/pdf": {},
	"text/plain":      {},
	"text/csv":        {},
}

var mimeExtensions = map[string]string{
	"image/jpeg":       ".jpg",
	"image/png":        ".png",
	"image/gif":        ".gif",
	"image/webp":       ".webp",
	"image/svg+xml":    ".svg",
	"image/x-icon":     ".ico",
	"image/avif":       ".avif",
	"application/pdf":  ".pdf",
	"text/plain":       ".txt",
	"text/csv":         ".csv",
	"application/zip":  ".zip",
	"application/json": ".json",
	"video/mp4":        ".mp4",
	"video/webm":       ".webm",
	"audio/mpeg":       ".mp3",
	"audio/ogg":        ".ogg",
}

// ExtFromMIME returns the preferred extension with a leading dot, or "".
func ExtFromMIME(mimeType string) string {
	return mimeExtensions[normalizeMIME(mimeType)]
}

// IsImage reports whether mimeType is a browser-displayable image.
func IsImage(mimeType string) bool {
	_, ok := imageTypes[normalizeMIME(mimeType)]
	return ok
}

func isDocument(mimeType string) bool {
	_, ok := documentTypes[normalizeMIME(mimeType)]
	return ok
}

// DetectMIME sniffs the content type of r and returns a seekable reader
// positioned at the start. The S3 client needs a seekable body to hash the
// payload, so non-seekable readers are buffered.
func DetectMIME(r io.Reader) (string, io.ReadSeeker) {
	if rs, ok := r.(io.ReadSeeker); ok {
		buf := make([]byte, mimeDetectionBytes)
		n, _ := io.ReadFull(rs, buf)
		_, _ = rs.Seek(0, io.SeekStart)
		if n == 0 {
			return MIMEOctetStream, rs
		}
		return http.DetectContentType(buf[:n]), rs
	}

	data, err := io.ReadAll(r)
	if err != nil || len(data) == 0 {
		return MIMEOctetStream, bytes.NewReader(nil)
	}
	return http.DetectContentType(data), bytes.NewReader(data)
}

func normalizeMIME(mimeType string) string {
	mimeType, _, _ = strings.Cut(mimeType, ";")
	return strings.TrimSpace(strings.ToLower(mimeType))
}

// matchesMIME supports exact types and "type/*" wildcards.
func matchesMIME(mimeType string, allowed []string) bool {
	mimeType = normalizeMIME(mimeType)
	for _, pattern := range allowed {
		pattern = strings.TrimSpace(strings.ToLower(pattern))
		if mimeType == pattern {
			return true
		}
		if prefix, ok := strings.CutSuffix(pattern, "*"); ok && strings.HasSuffix(prefix, "/") && strings.HasPrefix(mimeType, prefix) {
			return true
		}
	}
	return false
}
