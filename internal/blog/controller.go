package blog

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/inkwell/internal"
	"github.com/dmitrymomot/inkwell/internal/auth"
	"github.com/dmitrymomot/inkwell/internal/comments"
	"github.com/dmitrymomot/inkwell/internal/locale"
	"github.com/dmitrymomot/inkwell/internal/repository"
	"github.com/dmitrymomot/inkwell/internal/views"
	"github.com/dmitrymomot/inkwell/pkg/message"
	"github.com/dmitrymomot/inkwell/pkg/router"
	"github.com/dmitrymomot/inkwell/pkg/sanitizer"
	"github.com/dmitrymomot/inkwell/pkg/slug"
)

// DefaultPerPage is the number of articles on a listing page.
const DefaultPerPage = 20

// publishedLayouts are the accepted formats of the published form field.
var publishedLayouts = []string{"2006-01-02T15:04", "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02 15:04", "2006-01-02"}

// Controller serves every blog page. It reads the full request path:
//
//	/                        index
//	/archive[/YYYY[/MM]]     date archive
//	/archive/<tag>           tag archive
//	/edit[/<slug>]           article form, admins only
//	/<category>              category listing
//	/<slug>/comments[/...]   comments controller
//	/<slug>                  article
type Controller struct {
	store    Store
	views    *views.Renderer
	locale   *locale.Locale
	sidebars *Sidebars
	comments router.Handler
	logger   *slog.Logger
	now      func() time.Time
	perPage  int
}

type Option func(*Controller)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
		c.sidebars.now = now
	}
}

func WithPerPage(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.perPage = n
		}
	}
}

func NewController(store Store, renderer *views.Renderer, loc *locale.Locale, sidebars *Sidebars, commentsHandler router.Handler, log *slog.Logger, opts ...Option) *Controller {
	c := &Controller{
		store:    store,
		views:    renderer,
		locale:   loc,
		sidebars: sidebars,
		comments: commentsHandler,
		logger:   log,
		now:      time.Now,
		perPage:  DefaultPerPage,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Serve(req *message.ServerRequest, resp *message.Response, _ router.Next) (*message.Response, error) {
	chunks := router.Chunkify(router.Tail(req))

	switch chunks[0] {
	case "":
		return c.index(req, resp)
	case "archive":
		switch {
		case len(chunks) == 1 || chunks[1] == "":
			return c.archive(req, resp, 0, 0)
		case isYear(chunks[1]):
			year, _ := strconv.Atoi(chunks[1])
			month := 0
			if len(chunks) > 2 && chunks[2] != "" {
				m, err := strconv.Atoi(chunks[2])
				if err != nil || m < 1 || m > 12 {
					return nil, internal.ErrNotFound("")
				}
				month = m
			}
			return c.archive(req, resp, year, month)
		default:
			return c.tagArchive(req, resp, chunks[1])
		}
	case "edit":
		var s string
		if len(chunks) > 1 {
			s = chunks[1]
		}
		return c.edit(req, resp, s)
	}

	ctx := req.Context()
	cat, err := c.store.FindCategoryBySlug(ctx, chunks[0])
	switch {
	case err == nil:
		return c.category(req, resp, cat)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	if len(chunks) > 1 && chunks[1] == "comments" {
		return c.delegateComments(req, resp, chunks)
	}
	return c.article(req, resp, chunks[0])
}

func isYear(s string) bool {
	if len(s) != 4 {
		return false
	}
	_, err := strconv.Atoi(s)
	return err == nil
}

func (c *Controller) index(req *message.ServerRequest, resp *message.Response) (*message.Response, error) {
	list, err := c.list(req, repository.ArticleFilter{}, "/")
	if err != nil {
		return nil, err
	}
	return c.render(req, resp, views.PageIndex, "", list)
}

// archive lists a year or a month. Windows reaching into the future are
// not found; the window ending at the current month runs until now.
func (c *Controller) archive(req *message.ServerRequest, resp *message.Response, year, month int) (*message.Response, error) {
	now := c.now()
	loc := now.Location()
	thisYear, thisMonth := now.Year(), int(now.Month())

	var f repository.ArticleFilter
	base := "/archive"
	switch {
	case year == 0:
	case month == 0:
		if year > thisYear {
			return nil, internal.ErrNotFound("")
		}
		f.From = time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
		if year+1 != thisYear {
			f.To = f.From.AddDate(1, 0, 0)
		}
		base += "/" + strconv.Itoa(year)
	default:
		if year >= thisYear && month > thisMonth {
			return nil, internal.ErrNotFound("")
		}
		f.From = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
		next := f.From.AddDate(0, 1, 0)
		if next.Year() != thisYear || int(next.Month()) != thisMonth {
			f.To = next
		}
		base += "/" + strconv.Itoa(year) + "/" + strconv.Itoa(month)
	}

	list, err := c.list(req, f, base)
	if err != nil {
		return nil, err
	}
	list.Year, list.Month = year, month
	return c.render(req, resp, views.PageArchive, "", list)
}

func (c *Controller) tagArchive(req *message.ServerRequest, resp *message.Response, tag string) (*message.Response, error) {
	list, err := c.list(req, repository.ArticleFilter{TagSlug: tag}, "/archive/"+tag)
	if err != nil {
		return nil, err
	}
	list.Tag = tag
	return c.render(req, resp, views.PageTagArchive, "", list)
}

func (c *Controller) category(req *message.ServerRequest, resp *message.Response, cat *repository.Category) (*message.Response, error) {
	list, err := c.list(req, repository.ArticleFilter{CategoryID: cat.ID}, "/"+cat.Slug)
	if err != nil {
		return nil, err
	}
	list.Category = cat
	return c.render(req, resp, views.PageCategory, cat.Name, list)
}

// list loads one page of articles matching f together with the sidebar.
func (c *Controller) list(req *message.ServerRequest, f repository.ArticleFilter, base string) (views.ArticleList, error) {
	ctx := req.Context()
	page, _ := strconv.Atoi(req.QueryParam("page"))
	page = max(page, 1)
	f.Now = c.now()

	articles, total, err := c.store.ListArticles(ctx, f, repository.Page{Number: page, PerPage: c.perPage})
	if err != nil {
		return views.ArticleList{}, err
	}
	sidebar, err := c.sidebars.Get(ctx)
	if err != nil {
		return views.ArticleList{}, err
	}
	return views.ArticleList{
		Articles:   articles,
		Sidebar:    sidebar,
		BaseURL:    base,
		Pagination: views.NewPagination(total, c.perPage, page),
	}, nil
}

func (c *Controller) article(req *message.ServerRequest, resp *message.Response, s string) (*message.Response, error) {
	ctx := req.Context()
	_, loggedIn := auth.FromRequest(req)

	a, err := c.store.FindArticleBySlug(ctx, s, loggedIn, c.now())
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, internal.ErrNotFound("", internal.WithError(err))
	case err != nil:
		return nil, err
	}

	body, err := views.Markdown(a.Body)
	if err != nil {
		return nil, err
	}
	list, err := c.store.VisibleComments(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	sidebar, err := c.sidebars.Get(ctx)
	if err != nil {
		return nil, err
	}

	return c.render(req, resp, views.PageArticle, a.Title, views.ArticlePage{
		Article:  *a,
		BodyHTML: body,
		Comments: list,
		Sidebar:  sidebar,
		LoggedIn: loggedIn,
	})
}

// delegateComments hands /<slug>/comments/... to the comments controller
// with the article as an attribute. Unpublished articles take no comments.
func (c *Controller) delegateComments(req *message.ServerRequest, resp *message.Response, chunks []string) (*message.Response, error) {
	a, err := c.store.FindArticleBySlug(req.Context(), chunks[0], false, c.now())
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, internal.ErrNotFound("", internal.WithError(err))
	case err != nil:
		return nil, err
	}
	sub := req.WithAttribute(comments.AttrArticle, a).
		WithAttribute(router.AttrRouteTail, router.TailFrom(chunks, 2))
	return c.comments.Serve(sub, resp, nil)
}

func (c *Controller) edit(req *message.ServerRequest, resp *message.Response, s string) (*message.Response, error) {
	if out, ok, err := auth.Gate(req); !ok {
		return out, err
	}
	ctx := req.Context()

	data := views.EditArticle{}
	if s != "" {
		a, err := c.store.FindArticleBySlug(ctx, s, true, c.now())
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, internal.ErrNotFound("", internal.WithError(err))
		case err != nil:
			return nil, err
		}
		data.Article = a
	}

	if req.Method() == http.MethodPost {
		if err := c.save(req, &data); err != nil {
			return nil, err
		}
	}

	opts, err := c.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	for _, cat := range opts {
		if cat.Type == repository.CategoryTypeCat {
			data.CategoryOptions = append(data.CategoryOptions, cat)
		}
	}
	if data.Article != nil && data.Article.ID != 0 {
		linked, err := c.store.ArticleCategories(ctx, data.Article.ID)
		if err != nil {
			return nil, err
		}
		for _, l := range linked {
			data.LinkedCategories = append(data.LinkedCategories, l.ID)
		}
	}

	return c.render(req, resp, views.PageEditArticle, c.locale.T(locale.MsgPageTitleEdit), data)
}

// save stores the submitted article. Input problems end up in data.Error;
// only storage failures are returned.
func (c *Controller) save(req *message.ServerRequest, data *views.EditArticle) error {
	ctx := req.Context()
	in := repository.ArticleInput{
		Title:         strings.TrimSpace(req.PostValue("title")),
		Lead:          sanitizer.StripTags(req.PostValue("lead")),
		Body:          req.PostValue("body"),
		ImageURL:      strings.TrimSpace(req.PostValue("image_url")),
		Categories:    req.PostValues("categories"),
		SetCategories: req.HasPostValue("categories") || req.HasPostValue("categories[]"),
	}
	in.Slug = slug.Generate(in.Title)

	draft := &repository.Article{Title: in.Title, Lead: in.Lead, Body: in.Body, ImageURL: in.ImageURL}
	var id int64
	if data.Article != nil {
		id = data.Article.ID
		draft.ID = id
		draft.Slug = data.Article.Slug
	}

	published, ok := c.parsePublished(req.PostValue("published"))
	if !ok {
		data.Article, data.Error = draft, "Invalid publication date"
		return nil
	}
	in.Published = published
	draft.Published = published

	if in.Slug == "" {
		data.Article, data.Error = draft, "Title is required"
		return nil
	}

	saved, err := c.store.SaveArticle(ctx, id, in)
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		data.Article, data.Error = draft, "Another article already uses the slug "+in.Slug
		return nil
	case err != nil:
		return err
	}

	if err := c.sidebars.Invalidate(ctx); err != nil {
		c.logger.WarnContext(ctx, "invalidate sidebar", slog.Any("error", err))
	}
	c.logger.InfoContext(ctx, "article saved", slog.Int64("id", saved.ID), slog.String("slug", saved.Slug))

	data.Article = saved
	data.FormSuccess = true
	data.Success = c.locale.T(locale.MsgArticleSaved)
	return nil
}

// parsePublished defaults an empty value to now.
func (c *Controller) parsePublished(v string) (time.Time, bool) {
	now := c.now()
	v = strings.TrimSpace(v)
	if v == "" {
		return now, true
	}
	for _, layout := range publishedLayouts {
		if t, err := time.ParseInLocation(layout, v, now.Location()); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (c *Controller) render(req *message.ServerRequest, resp *message.Response, page, title string, data any) (*message.Response, error) {
	return c.views.RenderPage(req.Context(), resp, views.PageLayout, page, auth.Layout(req, title), data)
}

// ErrorPages renders 404 and 500 pages in the site layout.
func ErrorPages(renderer *views.Renderer, loc *locale.Locale) internal.ErrorRenderer {
	return func(ctx context.Context, e *internal.HTTPError) (*message.Response, error) {
		page, title := views.PageError, loc.T(locale.MsgPageTitleError)
		if e.Code == http.StatusNotFound {
			page, title = views.PageNotFound, loc.T(locale.MsgPageTitleNotFound)
		}
		data := views.ErrorPage{Title: title, Message: e.Message, RequestID: e.RequestID, Code: e.Code}
		return renderer.RenderPage(ctx, message.NewEmptyResponse(), views.PageLayout, page, views.LayoutData{Title: title}, data)
	}
}
