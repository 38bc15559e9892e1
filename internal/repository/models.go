package repository

import "time"

// Roles.
const (
	RoleAdmin  = "Admin"
	RoleAuthor = "Author"
)

// Category types.
const (
	CategoryTypeCat = "cat"
	CategoryTypeTag = "tag"
)

type User struct {
	Created     time.Time
	GitHubLogin *string
	Username    string
	Password    string
	Salt        string
	Role        string
	ID          int64
}

type Article struct {
	Published time.Time
	Created   time.Time
	Title     string
	Slug      string
	Lead      string
	Body      string
	ImageURL  string
	ID        int64
}

// ArticleInput is the editable part of an article. Categories use the
// edit form convention: "id:N" links an existing category, anything else
// names a new one.
type ArticleInput struct {
	Published  time.Time
	Title      string
	Slug       string
	Lead       string
	Body       string
	ImageURL   string
	Categories []string
	// SetCategories is false when the form did not submit categories.
	SetCategories bool
}

type Category struct {
	Created time.Time
	Type    string
	Name    string
	Slug    string
	ID      int64
}

// CategoryCount is a category with the number of published articles in it.
type CategoryCount struct {
	Category
	Count int
}

// MonthCount is the number of articles published in one month.
type MonthCount struct {
	Year  int
	Month time.Month
	Count int
}

type Commenter struct {
	Created  time.Time
	Email    string
	Name     string
	ID       int64
	IsActive bool
}

type Comment struct {
	Created     time.Time
	InReplyTo   *int64
	ConfirmKey  *string
	IP          string
	Comment     string
	Name        string
	ID          int64
	ArticleID   int64
	CommenterID int64
	IsVisible   bool
}

type Media struct {
	Created     time.Time
	StorageKey  string
	Filename    string
	ContentType string
	Size        int64
	ID          int64
}

// Page selects one page of a listing. Page numbers start at 1.
type Page struct {
	Number  int
	PerPage int
}

func (p Page) offset() int {
	return (max(p.Number, 1) - 1) * p.limit()
}

func (p Page) limit() int {
	if p.PerPage <= 0 {
		return 20
	}
	return p.PerPage
}
