package message

import (
	"fmt"
	"os"
	"strings"
)

// FileStream is a stream backed by a file on disk.
type FileStream struct {
	stream
	name string
	mode string
}

// OpenFile opens name with an fopen-style mode: r, r+, w, w+, a, a+, x, x+, c, c+.
// A "b" or "t" flag is accepted and ignored.
// Modes ending in "+" are read-write, modes starting with "r" are read-only,
// everything else is write-only.
func OpenFile(name, mode string) (*FileStream, error) {
	flag, readable, writable, err := parseMode(mode)
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(name, flag, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResourceUnavailable, err)
	}

	return &FileStream{
		stream: stream{
			h:        &fileHandle{File: f},
			readable: readable,
			writable: writable,
			seekable: true,
		},
		name: name,
		mode: mode,
	}, nil
}

// Name returns the path the stream was opened with.
func (f *FileStream) Name() string { return f.name }

// Mode returns the mode string the stream was opened with.
func (f *FileStream) Mode() string { return f.mode }

func parseMode(mode string) (flag int, readable, writable bool, err error) {
	m := strings.NewReplacer("b", "", "t", "").Replace(mode)
	if m == "" {
		return 0, false, false, fmt.Errorf("%w: empty file mode", ErrResourceUnavailable)
	}

	plus := strings.HasSuffix(m, "+")
	base := strings.TrimSuffix(m, "+")

	access := os.O_WRONLY
	if plus {
		access = os.O_RDWR
	}

	switch base {
	case "r":
		if !plus {
			access = os.O_RDONLY
		}
		flag = access
	case "w":
		flag = access | os.O_CREATE | os.O_TRUNC
	case "a":
		flag = access | os.O_CREATE | os.O_APPEND
	case "x":
		flag = access | os.O_CREATE | os.O_EXCL
	case "c":
		flag = access | os.O_CREATE
	default:
		return 0, false, false, fmt.Errorf("%w: invalid file mode %q", ErrResourceUnavailable, mode)
	}

	switch {
	case plus:
		readable, writable = true, true
	case base == "r":
		readable = true
	default:
		writable = true
	}
	return flag, readable, writable, nil
}

// fileHandle adds Size to *os.File.
type fileHandle struct {
	*os.File
}

func (f *fileHandle) Size() (int64, error) {
	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
