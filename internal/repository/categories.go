package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

const categoryColumns = `c.id, c.type, c.name, c.slug, c.created`

func scanCategory(row pgx.Row) (*Category, error) {
	var c Category
	if err := row.Scan(&c.ID, &c.Type, &c.Name, &c.Slug, &c.Created); err != nil {
		return nil, wrap(err)
	}
	return &c, nil
}

func collectCategories(rows pgx.Rows, err error) ([]Category, error) {
	if err != nil {
		return nil, wrap(err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Category, error) {
		c, err := scanCategory(row)
		if err != nil {
			return Category{}, err
		}
		return *c, nil
	})
}

// FindCategoryBySlug looks up a category of type "cat".
func (q *Queries) FindCategoryBySlug(ctx context.Context, s string) (*Category, error) {
	return scanCategory(q.db.QueryRow(ctx,
		`SELECT `+categoryColumns+` FROM blog_categories c WHERE c.type = 'cat' AND c.slug = $1 LIMIT 1`, s))
}

func (q *Queries) FindCategory(ctx context.Context, id int64) (*Category, error) {
	return scanCategory(q.db.QueryRow(ctx,
		`SELECT `+categoryColumns+` FROM blog_categories c WHERE c.id = $1`, id))
}

// ListCategories returns every "cat" category ordered by name.
func (q *Queries) ListCategories(ctx context.Context) ([]Category, error) {
	return collectCategories(q.db.Query(ctx,
		`SELECT `+categoryColumns+` FROM blog_categories c WHERE c.type = 'cat' ORDER BY c.name`))
}

// ArticleCategories returns the categories linked to an article.
func (q *Queries) ArticleCategories(ctx context.Context, articleID int64) ([]Category, error) {
	return collectCategories(q.db.Query(ctx,
		`SELECT `+categoryColumns+` FROM blog_categories c
		 JOIN blog_category_has_articles l ON l.category_id = c.id
		 WHERE l.article_id = $1 ORDER BY c.name`, articleID))
}

// CategoryCounts returns categories with the number of articles published
// before now. Categories without such articles are left out.
func (q *Queries) CategoryCounts(ctx context.Context, now time.Time) ([]CategoryCount, error) {
	rows, err := q.db.Query(ctx,
		`SELECT `+categoryColumns+`, count(*)::int
		 FROM blog_categories c
		 JOIN blog_category_has_articles l ON l.category_id = c.id
		 JOIN blog_articles a ON a.id = l.article_id
		 WHERE a.published < $1
		 GROUP BY c.id ORDER BY c.name`, now)
	if err != nil {
		return nil, wrap(err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (CategoryCount, error) {
		var cc CategoryCount
		err := row.Scan(&cc.ID, &cc.Type, &cc.Name, &cc.Slug, &cc.Created, &cc.Count)
		return cc, err
	})
}

func (q *Queries) CreateCategory(ctx context.Context, c Category) (*Category, error) {
	return scanCategory(q.db.QueryRow(ctx,
		`INSERT INTO blog_categories AS c (type, name, slug) VALUES ($1, $2, $3) RETURNING `+categoryColumns,
		c.Type, c.Name, c.Slug))
}

func (q *Queries) UpdateCategory(ctx context.Context, c Category) (*Category, error) {
	return scanCategory(q.db.QueryRow(ctx,
		`UPDATE blog_categories AS c SET type = $2, name = $3, slug = $4 WHERE c.id = $1 RETURNING `+categoryColumns,
		c.ID, c.Type, c.Name, c.Slug))
}

func (q *Queries) DeleteCategory(ctx context.Context, id int64) error {
	tag, err := q.db.Exec(ctx, `DELETE FROM blog_categories WHERE id = $1`, id)
	if err != nil {
		return wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
