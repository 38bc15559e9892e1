package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Memory keeps files in process memory. It backs local development when no
// bucket is configured, and tests.
type Memory struct {
	files   map[string]memoryFile
	baseURL string
	mu      sync.RWMutex
}

type memoryFile struct {
	contentType string
	data        []byte
}

var _ Storage = (*Memory)(nil)

// NewMemory returns an empty store. URLs are baseURL + "/" + key.
func NewMemory(baseURL string) *Memory {
	return &Memory{files: make(map[string]memoryFile), baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (m *Memory) Put(_ context.Context, r io.Reader, size int64, opts ...Option) (*FileInfo, error) {
	o := &putOptions{acl: ACLPublicRead}
	for _, opt := range opts {
		opt(o)
	}

	contentType, body := o.contentType, r
	if contentType == "" {
		contentType, body = DetectMIME(r)
	}
	if err := Validate(size, contentType, o.rules...); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}

	key := o.key
	if key == "" {
		key = buildKey(o.prefix, contentType)
	}

	m.mu.Lock()
	m.files[key] = memoryFile{contentType: contentType, data: data}
	m.mu.Unlock()

	return &FileInfo{Key: key, Size: int64(len(data)), ContentType: contentType, ACL: o.acl}, nil
}

func (m *Memory) Get(_ context.Context, key string) (io.ReadCloser, error) {
	m.mu.RLock()
	f, ok := m.files[key]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(f.data)), nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.files, key)
	m.mu.Unlock()
	return nil
}

func (m *Memory) URL(_ context.Context, key string, _ ...URLOption) (string, error) {
	m.mu.RLock()
	_, ok := m.files[key]
	m.mu.RUnlock()
	if !ok {
		return "", ErrNotFound
	}
	return m.baseURL + "/" + key, nil
}

// Len returns the number of stored files.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.files)
}
