package message

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
)

// Upload error codes reported by ErrorCode.
const (
	UploadOK = iota
	UploadErrIniSize
	UploadErrFormSize
	UploadErrPartial
	UploadErrNoFile
)

// UploadedFileInfo describes a file received outside of multipart parsing,
// typically one already stored in a temporary path.
type UploadedFileInfo struct {
	Name    string
	Type    string
	TmpName string
	Size    int64
	Error   int
}

// UploadedFile is a normalized uploaded file descriptor.
type UploadedFile struct {
	stream    Stream
	open      func() (io.ReadCloser, error)
	name      string
	mediaType string
	tmpName   string
	movedTo   string
	size      int64
	errCode   int
}

// NewUploadedFile returns a descriptor for a file stored at info.TmpName.
func NewUploadedFile(info UploadedFileInfo) *UploadedFile {
	return &UploadedFile{
		name:      info.Name,
		mediaType: info.Type,
		tmpName:   info.TmpName,
		size:      info.Size,
		errCode:   info.Error,
	}
}

func uploadedFileFromHeader(fh *multipart.FileHeader) *UploadedFile {
	return &UploadedFile{
		name:      fh.Filename,
		mediaType: fh.Header.Get("Content-Type"),
		size:      fh.Size,
		open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

func (f *UploadedFile) ClientFilename() string  { return f.name }
func (f *UploadedFile) ClientMediaType() string { return f.mediaType }
func (f *UploadedFile) Size() int64             { return f.size }
func (f *UploadedFile) ErrorCode() int          { return f.errCode }

// Open returns a reader over the file content, from wherever it lives now.
func (f *UploadedFile) Open() (io.ReadCloser, error) {
	if f.errCode != UploadOK {
		return nil, fmt.Errorf("%w: code %d", ErrUploadFailed, f.errCode)
	}
	switch {
	case f.movedTo != "":
		return openFile(f.movedTo)
	case f.tmpName != "":
		return openFile(f.tmpName)
	case f.open != nil:
		return f.open()
	}
	return nil, ErrResourceUnavailable
}

// Stream returns a read-only stream over the file content.
func (f *UploadedFile) Stream() (Stream, error) {
	if f.stream != nil {
		return f.stream, nil
	}
	if f.errCode != UploadOK {
		return nil, fmt.Errorf("%w: code %d", ErrUploadFailed, f.errCode)
	}

	if path := f.path(); path != "" {
		s, err := OpenFile(path, "r")
		if err != nil {
			return nil, err
		}
		f.stream = s
		return s, nil
	}

	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.Join(ErrResourceUnavailable, err)
	}
	f.stream = NewMemoryStream(data, true, false)
	return f.stream, nil
}

// MoveTo moves the file to target. A temporary file is renamed when possible
// and copied otherwise. A file can be moved once.
func (f *UploadedFile) MoveTo(target string) error {
	if f.movedTo != "" {
		return ErrAlreadyMoved
	}
	if f.errCode != UploadOK {
		return fmt.Errorf("%w: code %d", ErrUploadFailed, f.errCode)
	}

	if f.tmpName != "" {
		if err := os.Rename(f.tmpName, target); err == nil {
			f.moved(target)
			return nil
		}
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	dst, err := os.Create(target)
	if err != nil {
		return errors.Join(ErrResourceUnavailable, err)
	}
	if _, err := io.Copy(dst, rc); err != nil {
		_ = dst.Close()
		return errors.Join(ErrResourceUnavailable, err)
	}
	if err := dst.Close(); err != nil {
		return errors.Join(ErrResourceUnavailable, err)
	}

	f.moved(target)
	return nil
}

func (f *UploadedFile) moved(target string) {
	f.movedTo = target
	if f.stream != nil {
		_ = f.stream.Close()
		f.stream = nil
	}
}

func (f *UploadedFile) path() string {
	if f.movedTo != "" {
		return f.movedTo
	}
	return f.tmpName
}

func openFile(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Join(ErrResourceUnavailable, err)
	}
	return file, nil
}
