// Package media serves admin uploads to object storage and the media
// browser used by the article editor.
package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrymomot/inkwell/internal"
	"github.com/dmitrymomot/inkwell/internal/repository"
	"github.com/dmitrymomot/inkwell/pkg/message"
	"github.com/dmitrymomot/inkwell/pkg/router"
	"github.com/dmitrymomot/inkwell/pkg/storage"
)

// DefaultMaxSize is the per-file upload limit.
const DefaultMaxSize = 10 << 20

// Prefix is the storage key prefix of uploads.
const Prefix = "media"

// Store is the media table.
type Store interface {
	CreateMedia(ctx context.Context, m repository.Media) (*repository.Media, error)
	FindMedia(ctx context.Context, id int64) (*repository.Media, error)
	ListMedia(ctx context.Context, p repository.Page) ([]repository.Media, error)
}

// Controller handles POST /media, GET /media/browser and GET /media/<id>.
// Mount it behind auth.RequireAdmin.
type Controller struct {
	store   Store
	files   storage.Storage
	logger  *slog.Logger
	maxSize int64
}

type Option func(*Controller)

func WithMaxSize(n int64) Option {
	return func(c *Controller) {
		if n > 0 {
			c.maxSize = n
		}
	}
}

func NewController(store Store, files storage.Storage, log *slog.Logger, opts ...Option) *Controller {
	c := &Controller{store: store, files: files, logger: log, maxSize: DefaultMaxSize}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Serve(req *message.ServerRequest, _ *message.Response, _ router.Next) (*message.Response, error) {
	chunks := router.Chunkify(router.Tail(req))
	if len(chunks) > 1 {
		return nil, internal.ErrNotFound("")
	}

	switch method := req.Method(); {
	case chunks[0] == "" && method == http.MethodPost:
		return c.upload(req)
	case chunks[0] == "browser" && method == http.MethodGet:
		return c.browser(req)
	case chunks[0] != "" && method == http.MethodGet:
		id, err := strconv.ParseInt(chunks[0], 10, 64)
		if err != nil {
			return nil, internal.ErrNotFound("")
		}
		return c.preview(req.Context(), id)
	}
	return nil, internal.ErrNotFound("")
}

// File is an upload as returned to the editor.
type File struct {
	Created     time.Time `json:"created"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	URL         string    `json:"url"`
	PreviewURL  string    `json:"preview_url"`
	Size        int64     `json:"size"`
	ID          int64     `json:"id"`
}

// UploadResult is the JSON body of POST /media.
type UploadResult struct {
	Errors map[string]string `json:"errors"`
	Files  []File            `json:"files"`
}

func (c *Controller) upload(req *message.ServerRequest) (*message.Response, error) {
	ctx := req.Context()
	res := UploadResult{Errors: map[string]string{}, Files: []File{}}

	uploads := req.UploadedFiles()["file"]
	if len(uploads) == 0 {
		res.Errors["file"] = "No file uploaded"
		return jsonResponse(http.StatusUnprocessableEntity, res)
	}

	for _, up := range uploads {
		f, err := c.save(ctx, up)
		switch {
		case errors.Is(err, storage.ErrValidation), errors.Is(err, message.ErrUploadFailed):
			res.Errors[up.ClientFilename()] = err.Error()
		case err != nil:
			return nil, err
		default:
			res.Files = append(res.Files, *f)
		}
	}

	status := http.StatusOK
	if len(res.Files) == 0 {
		status = http.StatusUnprocessableEntity
	}
	return jsonResponse(status, res)
}

// save uploads one file and records it. A failed insert removes the
// stored object again.
func (c *Controller) save(ctx context.Context, up *message.UploadedFile) (*File, error) {
	r, err := up.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()

	info, err := c.files.Put(ctx, r, up.Size(),
		storage.WithPrefix(Prefix),
		storage.WithValidation(storage.NotEmpty(), storage.MaxSize(c.maxSize), storage.MediaOnly()),
	)
	if err != nil {
		return nil, err
	}

	m, err := c.store.CreateMedia(ctx, repository.Media{
		StorageKey:  info.Key,
		Filename:    up.ClientFilename(),
		ContentType: info.ContentType,
		Size:        info.Size,
	})
	if err != nil {
		if derr := c.files.Delete(ctx, info.Key); derr != nil {
			c.logger.WarnContext(ctx, "remove orphaned upload", slog.String("key", info.Key), slog.Any("error", derr))
		}
		return nil, fmt.Errorf("media: record upload: %w", err)
	}

	c.logger.InfoContext(ctx, "media uploaded", slog.String("key", info.Key), slog.Int64("size", info.Size))
	return c.file(ctx, m)
}

func (c *Controller) browser(req *message.ServerRequest) (*message.Response, error) {
	ctx := req.Context()
	page, _ := strconv.Atoi(req.QueryParam("page"))

	list, err := c.store.ListMedia(ctx, repository.Page{Number: page, PerPage: 50})
	if err != nil {
		return nil, err
	}
	files := make([]File, 0, len(list))
	for i := range list {
		f, err := c.file(ctx, &list[i])
		if err != nil {
			return nil, err
		}
		files = append(files, *f)
	}
	return jsonResponse(http.StatusOK, files)
}

func (c *Controller) preview(ctx context.Context, id int64) (*message.Response, error) {
	m, err := c.store.FindMedia(ctx, id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, internal.ErrNotFound("", internal.WithError(err))
	case err != nil:
		return nil, err
	}
	u, err := c.files.URL(ctx, m.StorageKey)
	if err != nil {
		return nil, err
	}
	return message.NewRedirectResponse(u), nil
}

func (c *Controller) file(ctx context.Context, m *repository.Media) (*File, error) {
	u, err := c.files.URL(ctx, m.StorageKey)
	if err != nil {
		return nil, err
	}
	return &File{
		ID:          m.ID,
		Filename:    m.Filename,
		ContentType: m.ContentType,
		Size:        m.Size,
		Created:     m.Created,
		URL:         u,
		PreviewURL:  "/media/" + strconv.FormatInt(m.ID, 10),
	}, nil
}

func jsonResponse(status int, v any) (*message.Response, error) {
	resp, err := message.NewJSONResponse(status)
	if err != nil {
		return nil, err
	}
	if _, err := resp.WriteValue(v); err != nil {
		return nil, err
	}
	return resp, nil
}
