package blog

import (
	"context"
	"time"

	"github.com/dmitrymomot/inkwell/internal/repository"
)

// Store is the part of the repository the blog pages read and write.
type Store interface {
	ListArticles(ctx context.Context, f repository.ArticleFilter, p repository.Page) ([]repository.Article, int, error)
	FindArticleBySlug(ctx context.Context, slug string, includeUnpublished bool, now time.Time) (*repository.Article, error)
	SaveArticle(ctx context.Context, id int64, in repository.ArticleInput) (*repository.Article, error)
	FindCategoryBySlug(ctx context.Context, slug string) (*repository.Category, error)
	ListCategories(ctx context.Context) ([]repository.Category, error)
	ArticleCategories(ctx context.Context, articleID int64) ([]repository.Category, error)
	VisibleComments(ctx context.Context, articleID int64) ([]repository.Comment, error)
	SidebarStore
}

// SidebarStore feeds the archive and category lists.
type SidebarStore interface {
	ArchiveCounts(ctx context.Context, now time.Time) ([]repository.MonthCount, error)
	CategoryCounts(ctx context.Context, now time.Time) ([]repository.CategoryCount, error)
}

var _ Store = (*repository.Queries)(nil)
