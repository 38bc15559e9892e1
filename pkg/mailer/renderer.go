package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"sync"
	texttemplate "text/template"

	"github.com/yuin/goldmark"
)

// Renderer builds mail bodies from markdown templates with YAML front
// matter. The markdown runs through text/template first, then goldmark, and
// the HTML lands in an html/template layout as {{.Content}}.
type Renderer struct {
	fsys    fs.FS
	md      goldmark.Markdown
	cfg     RendererConfig
	bodies  sync.Map // name -> *body
	layouts sync.Map // name -> *template.Template
}

type body struct {
	meta map[string]any
	tmpl *texttemplate.Template
}

type RendererConfig struct {
	TemplateDir string // default "."
	LayoutDir   string // default "layouts"
}

func NewRenderer(fsys fs.FS, cfg RendererConfig) *Renderer {
	if cfg.TemplateDir == "" {
		cfg.TemplateDir = "."
	}
	if cfg.LayoutDir == "" {
		cfg.LayoutDir = "layouts"
	}
	return &Renderer{
		fsys: fsys,
		cfg:  cfg,
		md:   goldmark.New(goldmark.WithExtensions(NewButtonExtension())),
	}
}

// RenderResult holds both parts of a message. Text is the executed
// markdown, which reads fine as a plain-text alternative.
type RenderResult struct {
	Metadata map[string]any
	HTML     string
	Text     string
}

func (r *Renderer) Render(layout, name string, data any) (*RenderResult, error) {
	b, err := r.body(name)
	if err != nil {
		return nil, err
	}
	l, err := r.layout(layout)
	if err != nil {
		return nil, err
	}

	var text, html, out bytes.Buffer
	if err := b.tmpl.Execute(&text, data); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRenderFailed, name, err)
	}
	if err := r.md.Convert(text.Bytes(), &html); err != nil {
		return nil, fmt.Errorf("%w: %s: markdown: %w", ErrRenderFailed, name, err)
	}
	err = l.Execute(&out, map[string]any{
		"Content":  template.HTML(html.String()), //nolint:gosec // goldmark output of our own templates
		"Metadata": b.meta,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: layout %s: %w", ErrRenderFailed, layout, err)
	}
	return &RenderResult{Metadata: b.meta, HTML: out.String(), Text: text.String()}, nil
}

func (r *Renderer) body(name string) (*body, error) {
	if v, ok := r.bodies.Load(name); ok {
		return v.(*body), nil
	}
	raw, err := fs.ReadFile(r.fsys, path.Join(r.cfg.TemplateDir, name))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTemplateNotFound, name, err)
	}
	parsed, err := ParseTemplate(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRenderFailed, name, err)
	}
	tmpl, err := texttemplate.New(name).Parse(parsed.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRenderFailed, name, err)
	}
	v, _ := r.bodies.LoadOrStore(name, &body{meta: parsed.Metadata, tmpl: tmpl})
	return v.(*body), nil
}

func (r *Renderer) layout(name string) (*template.Template, error) {
	if v, ok := r.layouts.Load(name); ok {
		return v.(*template.Template), nil
	}
	raw, err := fs.ReadFile(r.fsys, path.Join(r.cfg.LayoutDir, name))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLayoutNotFound, name, err)
	}
	tmpl, err := template.New(name).Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: layout %s: %w", ErrRenderFailed, name, err)
	}
	v, _ := r.layouts.LoadOrStore(name, tmpl)
	return v.(*template.Template), nil
}
