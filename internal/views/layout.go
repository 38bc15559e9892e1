package views

import (
	"github.com/a-h/templ"

	"github.com/dmitrymomot/inkwell/internal/locale"
)

// Page names.
const (
	PageLayout      = "layout"
	PageAdminLayout = "admin/layout"
	PageIndex       = "blog/index"
	PageArchive     = "blog/archive"
	PageTagArchive  = "blog/tag-archive"
	PageCategory    = "blog/category"
	PageArticle     = "blog/article"
	PageEditArticle = "blog/edit-article"
	PageLogin       = "login"
	PageNotFound    = "404"
	PageError       = "500"
	PageRestIndex   = "rest/index"
	PageRestShow    = "rest/show"
	PageRestAdd     = "rest/add"
	PageRestEdit    = "rest/edit"
)

// Default is the built-in theme. Other themes override pages by name.
func Default() Theme {
	return Theme{
		PageLayout:      typed(layout),
		PageAdminLayout: typed(adminLayout),
		PageIndex:       typed(articleList),
		PageArchive:     typed(archive),
		PageTagArchive:  typed(tagArchive),
		PageCategory:    typed(category),
		PageArticle:     typed(article),
		PageEditArticle: typed(editArticle),
		PageLogin:       typed(login),
		PageNotFound:    typed(notFound),
		PageError:       typed(errorPage),
		PageRestIndex:   typed(restIndex),
		PageRestShow:    typed(restShow),
		PageRestAdd:     typed(restForm),
		PageRestEdit:    typed(restForm),
	}
}

func head(h *htmlWriter, d LayoutData) {
	h.raw("<!DOCTYPE html>\n<html")
	h.attr("lang", d.Lang)
	h.raw(`><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
	h.raw("<title>")
	if d.Title != "" {
		h.text(d.Title)
		h.raw(" | ")
	}
	h.raw("Inkwell</title>")
	h.component(AssetTag(d.Theme, "css/style.css"))
	h.component(AssetTag(d.Theme, "js/app.js"))
	h.raw("</head>")
}

func nav(h *htmlWriter, id *Identity) {
	h.raw(`<nav class="top"><a href="/">Inkwell</a>`)
	if id != nil {
		h.raw(`<span class="user">`)
		h.text(id.Username)
		h.raw(`</span>`)
		if id.Role == "Admin" {
			h.raw(`<a href="/edit">`)
			h.t(locale.UINewArticle)
			h.raw(`</a><a href="/admin/categories">`)
			h.t(locale.UICategories)
			h.raw(`</a>`)
		}
		h.raw(`<a href="/logout">`)
		h.t(locale.UILogout)
		h.raw(`</a>`)
	} else {
		h.raw(`<a href="/login">`)
		h.t(locale.UILogin)
		h.raw(`</a>`)
	}
	h.raw("</nav>")
}

func layout(d LayoutData) templ.Component {
	return component(func(h *htmlWriter) {
		head(h, d)
		h.raw(`<body>`)
		nav(h, d.Identity)
		h.raw(`<main>`)
		h.component(d.Content)
		h.raw(`</main></body></html>`)
	})
}

func adminLayout(d LayoutData) templ.Component {
	return component(func(h *htmlWriter) {
		head(h, d)
		h.raw(`<body class="admin">`)
		nav(h, d.Identity)
		h.raw(`<main class="admin">`)
		h.component(d.Content)
		h.raw(`</main></body></html>`)
	})
}

func login(d Login) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<form class="login" method="post" action="/login">`)
		if d.Error != "" {
			h.raw(`<p class="error">`)
			h.text(d.Error)
			h.raw(`</p>`)
		}
		h.raw(`<label>`)
		h.t(locale.UIUsername)
		h.raw(` <input type="text" name="username" required`)
		h.attr("value", d.Username)
		h.raw(`></label><label>`)
		h.t(locale.UIPassword)
		h.raw(` <input type="password" name="password" required></label><button type="submit">`)
		h.t(locale.UILogin)
		h.raw(`</button></form>`)
		if d.GitHubEnabled {
			h.raw(`<p><a class="github" href="/login/github">`)
			h.t(locale.UILoginGitHub)
			h.raw(`</a></p>`)
		}
	})
}

func notFound(d ErrorPage) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<section class="error"><h1>`)
		h.text(orDefault(d.Title, h.loc.T(locale.MsgPageTitleNotFound)))
		h.raw(`</h1><p>`)
		h.text(orDefault(d.Message, h.loc.T(locale.UINotFoundText)))
		h.raw(`</p><p><a href="/">`)
		h.t(locale.UIBackHome)
		h.raw(`</a></p></section>`)
	})
}

func errorPage(d ErrorPage) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<section class="error"><h1>`)
		h.text(orDefault(d.Title, h.loc.T(locale.MsgPageTitleError)))
		h.raw(`</h1><p>`)
		h.text(orDefault(d.Message, h.loc.T(locale.UIErrorText)))
		h.raw(`</p>`)
		if d.RequestID != "" {
			h.raw(`<p class="request-id">`)
			h.t(locale.UIReference)
			h.raw(`: <code>`)
			h.text(d.RequestID)
			h.raw(`</code></p>`)
		}
		h.raw(`</section>`)
	})
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
