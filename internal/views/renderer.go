package views

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/inkwell/internal/locale"
	"github.com/dmitrymomot/inkwell/pkg/message"
)

// DefaultTheme is the theme every lookup falls back to.
const DefaultTheme = "default"

var (
	ErrTemplateNotFound = errors.New("views: template not found")
	ErrInvalidData      = errors.New("views: invalid view data")
)

// Page builds a component from its view model.
type Page func(data any) templ.Component

// Theme maps page names to pages.
type Theme map[string]Page

// Renderer resolves pages for the configured theme.
type Renderer struct {
	themes   map[string]Theme
	loc      *locale.Locale
	theme    string
	fallback string
	lang     string
	mu       sync.RWMutex
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithTheme registers or replaces a theme.
func WithTheme(name string, t Theme) RendererOption {
	return func(r *Renderer) { r.themes[name] = t }
}

// WithLang sets the lang attribute of the layout and the language of the
// interface strings.
func WithLang(lang string) RendererOption {
	return func(r *Renderer) { r.lang = lang }
}

// WithLocale renders the interface strings with l.
func WithLocale(l *locale.Locale) RendererOption {
	return func(r *Renderer) {
		r.loc = l
		r.lang = l.Tag().String()
	}
}

// NewRenderer returns a renderer for theme with the built-in default theme
// as fallback.
func NewRenderer(theme string, opts ...RendererOption) *Renderer {
	if theme == "" {
		theme = DefaultTheme
	}
	r := &Renderer{
		themes:   map[string]Theme{DefaultTheme: Default()},
		theme:    theme,
		fallback: DefaultTheme,
		lang:     "nl",
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.loc == nil {
		r.loc = locale.New(r.lang)
	}
	return r
}

// Theme returns the active theme name.
func (r *Renderer) Theme() string { return r.theme }

// Resolve returns the page name from the active theme, then from the
// fallback theme.
func (r *Renderer) Resolve(name string) (Page, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, theme := range []string{r.theme, r.fallback} {
		if p, ok := r.themes[theme][name]; ok {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
}

// Component resolves name and applies data.
func (r *Renderer) Component(name string, data any) (templ.Component, error) {
	p, err := r.Resolve(name)
	if err != nil {
		return nil, err
	}
	return p(data), nil
}

// RenderPage renders name inside layout and writes the HTML to resp.
func (r *Renderer) RenderPage(ctx context.Context, resp *message.Response, layout, name string, ld LayoutData, data any) (*message.Response, error) {
	content, err := r.Component(name, data)
	if err != nil {
		return nil, err
	}
	ld.Content = content
	if ld.Theme == "" {
		ld.Theme = r.theme
	}
	if ld.Lang == "" {
		ld.Lang = r.lang
	}

	page, err := r.Component(layout, ld)
	if err != nil {
		return nil, err
	}
	return r.write(ctx, resp, page)
}

// RenderFragment renders name without a layout.
func (r *Renderer) RenderFragment(ctx context.Context, resp *message.Response, name string, data any) (*message.Response, error) {
	c, err := r.Component(name, data)
	if err != nil {
		return nil, err
	}
	return r.write(ctx, resp, c)
}

func (r *Renderer) write(ctx context.Context, resp *message.Response, c templ.Component) (*message.Response, error) {
	var buf bytes.Buffer
	if err := c.Render(locale.WithContext(ctx, r.loc), &buf); err != nil {
		return nil, fmt.Errorf("views: render: %w", err)
	}
	resp = resp.WithHeader("Content-Type", "text/html; charset=utf-8")
	if _, err := resp.WriteString(buf.String()); err != nil {
		return nil, err
	}
	return resp, nil
}

// typed adapts a component constructor to Page. A view model of the wrong
// type renders as ErrInvalidData.
func typed[T any](fn func(T) templ.Component) Page {
	return func(data any) templ.Component {
		switch v := data.(type) {
		case T:
			return fn(v)
		case *T:
			if v != nil {
				return fn(*v)
			}
		case nil:
			var zero T
			return fn(zero)
		}
		return templ.ComponentFunc(func(context.Context, io.Writer) error {
			return fmt.Errorf("%w: want %T, got %T", ErrInvalidData, *new(T), data)
		})
	}
}
