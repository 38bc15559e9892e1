package mailer

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Template is a markdown body with its front matter.
type Template struct {
	Metadata map[string]any
	Body     string
}

var fence = []byte("---")

// ParseTemplate splits a "---" fenced YAML front matter block from the
// body. Content without front matter is all body.
func ParseTemplate(content []byte) (*Template, error) {
	t := &Template{Metadata: map[string]any{}}
	if !bytes.HasPrefix(content, fence) {
		t.Body = string(content)
		return t, nil
	}

	rest := bytes.TrimLeft(content[len(fence):], "\r\n")
	if len(rest) == 0 {
		return nil, fmt.Errorf("%w: empty after opening fence", ErrInvalidFrontmatter)
	}
	front, body, ok := bytes.Cut(rest, fence)
	if !ok {
		return nil, fmt.Errorf("%w: closing fence not found", ErrInvalidFrontmatter)
	}
	body = bytes.TrimPrefix(bytes.TrimPrefix(body, []byte("\r")), []byte("\n"))
	t.Body = string(body)

	if len(bytes.TrimSpace(front)) > 0 {
		if err := yaml.Unmarshal(front, &t.Metadata); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidFrontmatter, err)
		}
	}
	return t, nil
}
