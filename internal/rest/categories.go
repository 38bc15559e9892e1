package rest

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/dmitrymomot/inkwell/internal"
	"github.com/dmitrymomot/inkwell/internal/repository"
	"github.com/dmitrymomot/inkwell/pkg/slug"
)

// CategoryStore is the part of the repository the categories resource uses.
type CategoryStore interface {
	ListCategories(ctx context.Context) ([]repository.Category, error)
	FindCategory(ctx context.Context, id int64) (*repository.Category, error)
	CreateCategory(ctx context.Context, c repository.Category) (*repository.Category, error)
	UpdateCategory(ctx context.Context, c repository.Category) (*repository.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

// Categories exposes blog_categories under /admin/categories.
type Categories struct {
	store CategoryStore
	// onChange runs after every write, to drop cached sidebars.
	onChange func(ctx context.Context)
}

var _ Resource = (*Categories)(nil)

func NewCategories(store CategoryStore, onChange func(ctx context.Context)) *Categories {
	if onChange == nil {
		onChange = func(context.Context) {}
	}
	return &Categories{store: store, onChange: onChange}
}

func (*Categories) Name() string { return "categories" }

func (*Categories) Columns() []string {
	return []string{"id", "type", "name", "slug", "created"}
}

func (c *Categories) FetchAll(ctx context.Context) (Result, error) {
	list, err := c.store.ListCategories(ctx)
	if err != nil {
		return Result{}, err
	}
	items := make([]map[string]any, 0, len(list))
	for i := range list {
		items = append(items, categoryItem(&list[i]))
	}
	return Result{Items: items}, nil
}

func (c *Categories) FetchOne(ctx context.Context, id string) (Result, error) {
	cat, err := c.find(ctx, id)
	if err != nil {
		return Result{}, err
	}
	return Result{Item: categoryItem(cat)}, nil
}

func (c *Categories) Add(ctx context.Context, values url.Values) (Result, error) {
	cat, errs := categoryFrom(values)
	if len(errs) > 0 {
		return Result{Item: formItem(values), Errors: errs}, nil
	}
	created, err := c.store.CreateCategory(ctx, cat)
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return Result{Item: formItem(values), Errors: map[string]string{"slug": "Slug is already in use"}}, nil
	case err != nil:
		return Result{}, err
	}
	c.onChange(ctx)
	return Result{Item: categoryItem(created), Redirect: "/admin/categories/" + strconv.FormatInt(created.ID, 10)}, nil
}

func (c *Categories) Update(ctx context.Context, id string, values url.Values) (Result, error) {
	current, err := c.find(ctx, id)
	if err != nil {
		return Result{}, err
	}
	cat, errs := categoryFrom(values)
	if len(errs) > 0 {
		item := formItem(values)
		item["id"] = current.ID
		return Result{Item: item, Errors: errs}, nil
	}
	cat.ID = current.ID
	updated, err := c.store.UpdateCategory(ctx, cat)
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		item := formItem(values)
		item["id"] = current.ID
		return Result{Item: item, Errors: map[string]string{"slug": "Slug is already in use"}}, nil
	case err != nil:
		return Result{}, err
	}
	c.onChange(ctx)
	return Result{Item: categoryItem(updated), Redirect: "/admin/categories/" + id}, nil
}

func (c *Categories) Delete(ctx context.Context, id string) (Result, error) {
	n, err := parseID(id)
	if err != nil {
		return Result{}, err
	}
	if err := c.store.DeleteCategory(ctx, n); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Result{}, internal.ErrNotFound("", internal.WithError(err))
		}
		return Result{}, err
	}
	c.onChange(ctx)
	return Result{Redirect: "/admin/categories"}, nil
}

func (c *Categories) find(ctx context.Context, id string) (*repository.Category, error) {
	n, err := parseID(id)
	if err != nil {
		return nil, err
	}
	cat, err := c.store.FindCategory(ctx, n)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, internal.ErrNotFound("", internal.WithError(err))
	}
	return cat, err
}

func parseID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 {
		return 0, internal.ErrNotFound("")
	}
	return n, nil
}

// categoryFrom validates a submitted category. The slug defaults to one
// generated from the name.
func categoryFrom(values url.Values) (repository.Category, map[string]string) {
	errs := map[string]string{}
	cat := repository.Category{
		Type: strings.TrimSpace(values.Get("type")),
		Name: strings.TrimSpace(values.Get("name")),
		Slug: strings.TrimSpace(values.Get("slug")),
	}
	if cat.Type == "" {
		cat.Type = repository.CategoryTypeCat
	}
	if cat.Type != repository.CategoryTypeCat && cat.Type != repository.CategoryTypeTag {
		errs["type"] = "Type must be cat or tag"
	}
	if cat.Name == "" {
		errs["name"] = "Name is required"
	}
	if cat.Slug == "" {
		cat.Slug = slug.Generate(cat.Name)
	} else {
		cat.Slug = slug.Generate(cat.Slug)
	}
	if cat.Slug == "" && cat.Name != "" {
		errs["slug"] = "Slug is required"
	}
	return cat, errs
}

func categoryItem(c *repository.Category) map[string]any {
	return map[string]any{
		"id":      c.ID,
		"type":    c.Type,
		"name":    c.Name,
		"slug":    c.Slug,
		"created": c.Created.Format("2006-01-02 15:04"),
	}
}

func formItem(values url.Values) map[string]any {
	return map[string]any{
		"type": values.Get("type"),
		"name": values.Get("name"),
		"slug": values.Get("slug"),
	}
}
