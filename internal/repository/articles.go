package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/inkwell/pkg/slug"
)

const articleColumns = `a.id, a.title, a.slug, a.lead, a.body, a.image_url, a.published, a.created`

func scanArticle(row pgx.Row) (*Article, error) {
	var a Article
	err := row.Scan(&a.ID, &a.Title, &a.Slug, &a.Lead, &a.Body, &a.ImageURL, &a.Published, &a.Created)
	if err != nil {
		return nil, wrap(err)
	}
	return &a, nil
}

func collectArticles(rows pgx.Rows, err error) ([]Article, error) {
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Article, error) {
		a, err := scanArticle(row)
		if err != nil {
			return Article{}, err
		}
		return *a, nil
	})
}

// ArticleFilter narrows a listing. The zero value lists every article
// published before Now.
type ArticleFilter struct {
	Now time.Time
	// From and To bound the publication date as [From, To).
	From, To   time.Time
	CategoryID int64
	TagSlug    string
}

func (f ArticleFilter) where() (string, []any) {
	now := f.Now
	if now.IsZero() {
		now = time.Now()
	}
	conds := []string{"a.published < $1"}
	args := []any{now}
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if !f.From.IsZero() {
		add("a.published >= $%d", f.From)
	}
	if !f.To.IsZero() {
		add("a.published < $%d", f.To)
	}
	if f.CategoryID != 0 {
		add("EXISTS (SELECT 1 FROM blog_category_has_articles l WHERE l.article_id = a.id AND l.category_id = $%d)", f.CategoryID)
	}
	if f.TagSlug != "" {
		add(`EXISTS (SELECT 1 FROM blog_category_has_articles l
			JOIN blog_categories c ON c.id = l.category_id
			WHERE l.article_id = a.id AND c.type = 'tag' AND c.slug = $%d)`, f.TagSlug)
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

// ListArticles returns one page of articles, newest first, and the total
// number of matching articles.
func (q *Queries) ListArticles(ctx context.Context, f ArticleFilter, p Page) ([]Article, int, error) {
	where, args := f.where()

	var total int
	if err := q.db.QueryRow(ctx, `SELECT count(*) FROM blog_articles a `+where, args...).Scan(&total); err != nil {
		return nil, 0, wrap(err)
	}

	n := len(args)
	args = append(args, p.limit(), p.offset())
	articles, err := collectArticles(q.db.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM blog_articles a %s ORDER BY a.published DESC LIMIT $%d OFFSET $%d`,
			articleColumns, where, n+1, n+2),
		args...))
	if err != nil {
		return nil, 0, wrap(err)
	}
	return articles, total, nil
}

// FindArticleBySlug returns the newest article with slug. Unless
// includeUnpublished is set, articles published after now are skipped.
func (q *Queries) FindArticleBySlug(ctx context.Context, s string, includeUnpublished bool, now time.Time) (*Article, error) {
	sql := `SELECT ` + articleColumns + ` FROM blog_articles a WHERE a.slug = $1`
	args := []any{s}
	if !includeUnpublished {
		sql += ` AND a.published < $2`
		args = append(args, now)
	}
	return scanArticle(q.db.QueryRow(ctx, sql+` ORDER BY a.published DESC LIMIT 1`, args...))
}

func (q *Queries) FindArticle(ctx context.Context, id int64) (*Article, error) {
	return scanArticle(q.db.QueryRow(ctx, `SELECT `+articleColumns+` FROM blog_articles a WHERE a.id = $1`, id))
}

// SaveArticle inserts the article when id is 0 and updates it otherwise.
// Category links are synced in the same transaction.
func (q *Queries) SaveArticle(ctx context.Context, id int64, in ArticleInput) (*Article, error) {
	var saved *Article
	err := q.InTx(ctx, func(_ pgx.Tx, tq *Queries) error {
		var err error
		if id == 0 {
			saved, err = scanArticle(tq.db.QueryRow(ctx,
				`INSERT INTO blog_articles AS a (title, slug, lead, body, image_url, published)
				 VALUES ($1, $2, $3, $4, $5, $6)
				 RETURNING `+articleColumns,
				in.Title, in.Slug, in.Lead, in.Body, in.ImageURL, in.Published))
		} else {
			saved, err = scanArticle(tq.db.QueryRow(ctx,
				`UPDATE blog_articles AS a
				 SET title = $2, slug = $3, lead = $4, body = $5, image_url = $6, published = $7
				 WHERE a.id = $1
				 RETURNING `+articleColumns,
				id, in.Title, in.Slug, in.Lead, in.Body, in.ImageURL, in.Published))
		}
		if err != nil {
			return err
		}
		if !in.SetCategories {
			return nil
		}
		return tq.syncCategories(ctx, saved.ID, in.Categories)
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// syncCategories links the article to the listed categories and unlinks
// the rest.
func (q *Queries) syncCategories(ctx context.Context, articleID int64, categories []string) error {
	linked := make([]int64, 0, len(categories))
	for _, raw := range categories {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		var catID int64
		if idStr, ok := strings.CutPrefix(raw, "id:"); ok {
			if n, err := strconv.ParseInt(idStr, 10, 64); err == nil {
				catID = n
			}
		}
		if catID == 0 {
			err := q.db.QueryRow(ctx,
				`INSERT INTO blog_categories (type, name, slug) VALUES ('cat', $1, $2) RETURNING id`,
				raw, slug.Generate(raw)).Scan(&catID)
			if err != nil {
				return wrap(err)
			}
		}

		if _, err := q.db.Exec(ctx,
			`INSERT INTO blog_category_has_articles (category_id, article_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			catID, articleID); err != nil {
			return wrap(err)
		}
		linked = append(linked, catID)
	}

	_, err := q.db.Exec(ctx,
		`DELETE FROM blog_category_has_articles WHERE article_id = $1 AND NOT (category_id = ANY($2))`,
		articleID, linked)
	return wrap(err)
}

// ArchiveCounts returns the number of published articles per month, oldest
// first.
func (q *Queries) ArchiveCounts(ctx context.Context, now time.Time) ([]MonthCount, error) {
	rows, err := q.db.Query(ctx,
		`SELECT extract(year FROM published)::int, extract(month FROM published)::int, count(*)::int
		 FROM blog_articles WHERE published < $1
		 GROUP BY 1, 2 ORDER BY 1, 2`, now)
	if err != nil {
		return nil, wrap(err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (MonthCount, error) {
		var m MonthCount
		var month int
		err := row.Scan(&m.Year, &month, &m.Count)
		m.Month = time.Month(month)
		return m, err
	})
}
