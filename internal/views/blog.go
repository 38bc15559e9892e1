package views

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/inkwell/internal/locale"
	"github.com/dmitrymomot/inkwell/internal/repository"
)

// ArticleURL is the public path of an article.
func ArticleURL(slug string) string { return "/" + slug }

func articleList(d ArticleList) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<div class="blog"><section class="articles">`)
		if len(d.Articles) == 0 {
			h.raw(`<p class="empty">`)
			h.t(locale.UINoArticles)
			h.raw(`</p>`)
		}
		for _, a := range d.Articles {
			teaser(h, a)
		}
		pager(h, d.BaseURL, d.Pagination)
		h.raw(`</section>`)
		sidebar(h, d.Sidebar)
		h.raw(`</div>`)
	})
}

// listingTitle heads an article list with the title built by title.
func listingTitle(title func(*locale.Locale) string, d ArticleList) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<h1 class="listing">`)
		h.text(title(h.loc))
		h.raw(`</h1>`)
		h.component(articleList(d))
	})
}

func archive(d ArticleList) templ.Component {
	return listingTitle(func(l *locale.Locale) string {
		title := l.T(locale.UIArchive)
		if d.Year > 0 {
			title += " " + strconv.Itoa(d.Year)
			if d.Month > 0 {
				title += "/" + strconv.Itoa(d.Month)
			}
		}
		return title
	}, d)
}

func tagArchive(d ArticleList) templ.Component {
	return listingTitle(func(l *locale.Locale) string { return l.T(locale.UITag, d.Tag) }, d)
}

func category(d ArticleList) templ.Component {
	return listingTitle(func(l *locale.Locale) string {
		if d.Category != nil {
			return d.Category.Name
		}
		return l.T(locale.UICategory)
	}, d)
}

func teaser(h *htmlWriter, a repository.Article) {
	h.raw(`<article class="teaser"><h2><a`)
	h.href(ArticleURL(a.Slug))
	h.raw(`>`)
	h.text(a.Title)
	h.raw(`</a></h2>`)
	published(h, a)
	if a.ImageURL != "" {
		h.raw(`<img class="lead"`)
		h.attr("src", string(templ.URL(a.ImageURL)))
		h.attr("alt", a.Title)
		h.raw(`>`)
	}
	h.raw(`<p>`)
	h.text(a.Lead)
	h.raw(`</p></article>`)
}

func published(h *htmlWriter, a repository.Article) {
	h.raw(`<time`)
	h.attr("datetime", a.Published.Format("2006-01-02T15:04:05Z07:00"))
	h.raw(`>`)
	h.text(a.Published.Format("02-01-2006"))
	h.raw(`</time>`)
}

func pager(h *htmlWriter, base string, p Pagination) {
	if p.PageCount <= 1 {
		return
	}
	link := func(n int, key string) {
		h.raw(`<a`)
		h.href(base + "?page=" + strconv.Itoa(n))
		h.raw(`>`)
		h.t(key)
		h.raw(`</a>`)
	}
	h.raw(`<nav class="pager">`)
	if p.HasPrev() {
		link(p.Current-1, locale.UIPrev)
	}
	h.raw(`<span>`)
	h.int(p.Current)
	h.raw(` / `)
	h.int(p.PageCount)
	h.raw(`</span>`)
	if p.HasNext() {
		link(p.Current+1, locale.UINext)
	}
	h.raw(`</nav>`)
}

func sidebar(h *htmlWriter, s Sidebar) {
	h.raw(`<aside class="sidebar"><h3>`)
	h.t(locale.UIArchive)
	h.raw(`</h3><ul class="archive">`)
	for _, y := range s.Years {
		ys := strconv.Itoa(y.Year)
		h.raw(`<li><a`)
		h.href("/archive/" + ys)
		h.raw(`>`)
		h.text(ys)
		h.raw(`</a> (`)
		h.int(y.Count)
		h.raw(`)<ul>`)
		for _, m := range y.Months {
			h.raw(`<li><a`)
			h.href("/archive/" + ys + "/" + strconv.Itoa(int(m.Month)))
			h.raw(`>`)
			h.text(m.Name)
			h.raw(`</a> (`)
			h.int(m.Count)
			h.raw(`)</li>`)
		}
		h.raw(`</ul></li>`)
	}
	h.raw(`</ul><h3>`)
	h.t(locale.UICategories)
	h.raw(`</h3><ul class="categories">`)
	for _, c := range s.Categories {
		h.raw(`<li><a`)
		if c.Type == repository.CategoryTypeTag {
			h.href("/archive/" + c.Slug)
		} else {
			h.href("/" + c.Slug)
		}
		h.raw(`>`)
		h.text(c.Name)
		h.raw(`</a> (`)
		h.int(c.Count)
		h.raw(`)</li>`)
	}
	h.raw(`</ul></aside>`)
}

func article(d ArticlePage) templ.Component {
	return component(func(h *htmlWriter) {
		a := d.Article
		h.raw(`<div class="blog"><article class="full"><h1>`)
		h.text(a.Title)
		h.raw(`</h1>`)
		published(h, a)
		if d.LoggedIn {
			h.raw(` <a class="edit"`)
			h.href("/edit/" + a.Slug)
			h.raw(`>`)
			h.t(locale.UIEdit)
			h.raw(`</a>`)
		}
		h.raw(`<p class="lead">`)
		h.text(a.Lead)
		h.raw(`</p><div class="body">`)
		h.raw(d.BodyHTML)
		h.raw(`</div></article>`)
		comments(h, a, d.Comments)
		sidebar(h, d.Sidebar)
		h.raw(`</div>`)
	})
}

func comments(h *htmlWriter, a repository.Article, list []repository.Comment) {
	h.raw(`<section id="comments" class="comments"><h2>`)
	h.t(locale.UIComments)
	h.raw(`</h2>`)
	for _, c := range list {
		h.raw(`<div class="comment"`)
		h.attr("id", "comment-"+strconv.FormatInt(c.ID, 10))
		if c.InReplyTo != nil {
			h.attr("data-reply-to", strconv.FormatInt(*c.InReplyTo, 10))
		}
		h.raw(`><p class="meta"><strong>`)
		h.text(c.Name)
		h.raw(`</strong> `)
		h.text(c.Created.Format("02-01-2006 15:04"))
		h.raw(`</p><div class="text">`)
		// comment text is sanitized on insert
		h.raw(c.Comment)
		h.raw(`</div></div>`)
	}
	h.raw(`<form class="comment-form" method="post"`)
	h.attr("action", ArticleURL(a.Slug)+"/comments")
	h.raw(`><input type="hidden" name="in_reply_to" value=""><input type="hidden" name="commenter_key" value="">`)
	h.raw(`<label>`)
	h.t(locale.UIName)
	h.raw(` <input type="text" name="name"></label><label>`)
	h.t(locale.UIEmail)
	h.raw(` <input type="email" name="email"></label><label>`)
	h.t(locale.UIComment)
	h.raw(` <textarea name="comment" rows="5"></textarea></label><button type="submit">`)
	h.t(locale.UIPost)
	h.raw(`</button></form></section>`)
}

func editArticle(d EditArticle) templ.Component {
	return component(func(h *htmlWriter) {
		var a repository.Article
		action := "/edit"
		if d.Article != nil {
			a = *d.Article
			if a.Slug != "" {
				action += "/" + a.Slug
			}
		}
		h.raw(`<form class="edit-article" method="post"`)
		h.attr("action", action)
		h.raw(`>`)
		if d.Error != "" {
			h.raw(`<p class="error">`)
			h.text(d.Error)
			h.raw(`</p>`)
		}
		if d.FormSuccess {
			h.raw(`<p class="success">`)
			h.text(d.Success)
			h.raw(`</p>`)
		}
		h.raw(`<label>`)
		h.t(locale.UITitle)
		h.raw(` <input type="text" name="title" required`)
		h.attr("value", a.Title)
		h.raw(`></label><label>`)
		h.t(locale.UIPublished)
		h.raw(` <input type="datetime-local" name="published"`)
		if !a.Published.IsZero() {
			h.attr("value", a.Published.Format("2006-01-02T15:04"))
		}
		h.raw(`></label><label>`)
		h.t(locale.UIImage)
		h.raw(` <input type="url" name="image_url"`)
		h.attr("value", a.ImageURL)
		h.raw(`></label><label>`)
		h.t(locale.UILead)
		h.raw(` <textarea name="lead" rows="3">`)
		h.text(a.Lead)
		h.raw(`</textarea></label><label>`)
		h.t(locale.UIBody)
		h.raw(` <textarea name="body" rows="20">`)
		h.text(a.Body)
		h.raw(`</textarea></label><fieldset class="categories"><legend>`)
		h.t(locale.UICategories)
		h.raw(`</legend>`)
		for _, c := range d.CategoryOptions {
			h.raw(`<label><input type="checkbox" name="categories[]"`)
			h.attr("value", "id:"+strconv.FormatInt(c.ID, 10))
			if d.Linked(c.ID) {
				h.raw(` checked`)
			}
			h.raw(`> `)
			h.text(c.Name)
			h.raw(`</label>`)
		}
		h.raw(`<label>`)
		h.t(locale.UINew)
		h.raw(` <input type="text" name="categories[]"></label></fieldset><button type="submit">`)
		h.t(locale.UISave)
		h.raw(`</button></form>`)
	})
}
