package views

import (
	"time"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/inkwell/internal/repository"
)

// Identity is the signed-in user as shown in the layout.
type Identity struct {
	Username string
	Role     string
	ID       int64
}

// LayoutData wraps a rendered page.
type LayoutData struct {
	Content  templ.Component
	Identity *Identity
	Title    string
	Theme    string
	Lang     string
}

// Pagination describes one page of a listing. Indexes are zero based.
type Pagination struct {
	First          int `json:"first"`
	Last           int `json:"last"`
	Current        int `json:"current"`
	PageCount      int `json:"page_count"`
	ItemsPerPage   int `json:"items_per_page"`
	FirstItemIndex int `json:"first_item_index"`
	LastItemIndex  int `json:"last_item_index"`
}

// NewPagination computes the pagination for total items at page current.
// current is clamped to [1, max(last, 1)].
func NewPagination(total, perPage, current int) Pagination {
	if perPage <= 0 {
		perPage = 20
	}
	pages := (total + perPage - 1) / perPage
	current = min(max(current, 1), max(pages, 1))
	return Pagination{
		First:          1,
		Last:           pages,
		Current:        current,
		PageCount:      pages,
		ItemsPerPage:   perPage,
		FirstItemIndex: (current - 1) * perPage,
		LastItemIndex:  current*perPage - 1,
	}
}

// HasPrev and HasNext drive the pager links.
func (p Pagination) HasPrev() bool { return p.Current > p.First }
func (p Pagination) HasNext() bool { return p.Current < p.Last }

// ArchiveMonth is one month in the sidebar archive.
type ArchiveMonth struct {
	Name  string     `json:"name"`
	Month time.Month `json:"month"`
	Count int        `json:"count"`
}

// ArchiveYear is one year in the sidebar archive, months ascending.
type ArchiveYear struct {
	Months []ArchiveMonth `json:"months"`
	Year   int            `json:"year"`
	Count  int            `json:"count"`
}

// Sidebar lists the archive and the categories with counts.
type Sidebar struct {
	Years      []ArchiveYear              `json:"years"`
	Categories []repository.CategoryCount `json:"categories"`
}

// ArticleList is shared by the index, archive, tag and category pages.
type ArticleList struct {
	Category   *repository.Category
	Articles   []repository.Article
	Sidebar    Sidebar
	Tag        string
	BaseURL    string
	Pagination Pagination
	Year       int
	Month      int
}

// ArticlePage is a single article with its comments.
type ArticlePage struct {
	Article  repository.Article
	BodyHTML string
	Comments []repository.Comment
	Sidebar  Sidebar
	LoggedIn bool
}

// EditArticle is the article form.
type EditArticle struct {
	Article          *repository.Article
	Error            string
	Success          string
	CategoryOptions  []repository.Category
	LinkedCategories []int64
	FormSuccess      bool
}

// Linked reports whether the category is linked to the edited article.
func (e EditArticle) Linked(id int64) bool {
	for _, l := range e.LinkedCategories {
		if l == id {
			return true
		}
	}
	return false
}

// Login is the login form.
type Login struct {
	Username      string
	Error         string
	GitHubEnabled bool
}

// ErrorPage backs the 404 and 500 pages.
type ErrorPage struct {
	Title     string
	Message   string
	RequestID string
	Code      int
}

// RestPage is rendered by the admin resource views.
type RestPage struct {
	// Item is the record for show and edit; Items the records for the list.
	Item     map[string]any
	Errors   map[string]string
	Resource string
	Columns  []string
	Items    []map[string]any
}
