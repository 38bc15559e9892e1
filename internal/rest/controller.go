// Package rest serves admin resources as a small REST interface:
//
//	GET    /<resource>               list
//	GET    /<resource>?mode=add      add form
//	GET    /<resource>/<id>          show
//	GET    /<resource>/<id>?mode=edit edit form
//	POST   /<resource>               add
//	POST   /<resource>/<id>          update
//	DELETE /<resource>/<id>          delete
//
// XHR requests get JSON, results carrying a redirect get one, and
// everything else is rendered in the admin layout.
package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrymomot/inkwell/internal"
	"github.com/dmitrymomot/inkwell/internal/auth"
	"github.com/dmitrymomot/inkwell/internal/views"
	"github.com/dmitrymomot/inkwell/pkg/message"
	"github.com/dmitrymomot/inkwell/pkg/router"
)

// Result is what a resource operation hands back for rendering.
type Result struct {
	Item     map[string]any    `json:"item,omitempty"`
	Errors   map[string]string `json:"errors,omitempty"`
	Redirect string            `json:"redirect,omitempty"`
	Items    []map[string]any  `json:"items,omitempty"`
}

// Resource is one admin table.
type Resource interface {
	// Name is the path segment under /admin.
	Name() string
	// Columns lists the fields in display order.
	Columns() []string
	FetchAll(ctx context.Context) (Result, error)
	FetchOne(ctx context.Context, id string) (Result, error)
	Add(ctx context.Context, values url.Values) (Result, error)
	Update(ctx context.Context, id string, values url.Values) (Result, error)
	Delete(ctx context.Context, id string) (Result, error)
}

// Controller dispatches to its resources by the first tail segment.
type Controller struct {
	resources map[string]Resource
	views     *views.Renderer
}

func NewController(renderer *views.Renderer, resources ...Resource) *Controller {
	c := &Controller{resources: make(map[string]Resource, len(resources)), views: renderer}
	for _, r := range resources {
		c.resources[r.Name()] = r
	}
	return c
}

func (c *Controller) Serve(req *message.ServerRequest, resp *message.Response, _ router.Next) (*message.Response, error) {
	chunks := router.Chunkify(router.Tail(req))
	res, ok := c.resources[chunks[0]]
	if !ok || len(chunks) > 2 {
		return nil, internal.ErrNotFound("")
	}

	var (
		ctx    = req.Context()
		mode   = req.QueryParam("mode")
		id     string
		page   string
		result Result
		err    error
	)
	if len(chunks) == 2 {
		id = chunks[1]
	}

	switch method := req.Method(); {
	case method == http.MethodGet && id != "":
		page = views.PageRestShow
		if mode == "edit" {
			page = views.PageRestEdit
		}
		result, err = res.FetchOne(ctx, id)
	case method == http.MethodGet && mode == "add":
		page = views.PageRestAdd
	case method == http.MethodGet:
		page = views.PageRestIndex
		result, err = res.FetchAll(ctx)
	case method == http.MethodPost && id != "":
		page = views.PageRestEdit
		result, err = res.Update(ctx, id, postValues(req))
	case method == http.MethodPost:
		page = views.PageRestAdd
		result, err = res.Add(ctx, postValues(req))
	case method == http.MethodDelete && id != "":
		page = views.PageRestIndex
		result, err = res.Delete(ctx, id)
	default:
		return nil, internal.ErrBadRequest("",
			internal.WithError(fmt.Errorf("%w: %s %s", ErrInvalidRequest, method, req.URI().Path())))
	}
	if err != nil {
		return nil, err
	}

	switch {
	case isXHR(req):
		return c.json(result)
	case result.Redirect != "":
		return message.NewRedirectResponse(result.Redirect), nil
	}

	data := views.RestPage{
		Resource: res.Name(),
		Columns:  res.Columns(),
		Item:     result.Item,
		Items:    result.Items,
		Errors:   result.Errors,
	}
	return c.views.RenderPage(ctx, resp, views.PageAdminLayout, page, auth.Layout(req, res.Name()), data)
}

func (c *Controller) json(result Result) (*message.Response, error) {
	status := http.StatusOK
	if len(result.Errors) > 0 {
		status = http.StatusUnprocessableEntity
	}
	resp, err := message.NewJSONResponse(status)
	if err != nil {
		return nil, err
	}
	if _, err := resp.WriteValue(result); err != nil {
		return nil, err
	}
	return resp, nil
}

func isXHR(req *message.ServerRequest) bool {
	return strings.EqualFold(req.HeaderLine("X-Requested-With"), "XMLHttpRequest")
}

// postValues returns the form, or a JSON object flattened to strings.
func postValues(req *message.ServerRequest) url.Values {
	body, _ := req.ParsedBody()
	switch v := body.(type) {
	case url.Values:
		return v
	case map[string]any:
		out := make(url.Values, len(v))
		for k, val := range v {
			if val != nil {
				out.Set(k, fmt.Sprint(val))
			}
		}
		return out
	}
	return url.Values{}
}
