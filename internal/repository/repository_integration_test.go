//go:build integration

package repository_test

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/inkwell/internal/repository"
	"github.com/dmitrymomot/inkwell/pkg/db"
	"github.com/dmitrymomot/inkwell/pkg/logger"
)

func setup(t *testing.T) *repository.Queries {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()

	pool, err := db.Connect(ctx, db.Config{ConnectionString: dsn, RetryAttempts: 1, MaxOpenConns: 4, MinConns: 1})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	log := logger.NewNope()
	require.NoError(t, db.Migrate(ctx, pool, repository.Migrations(), "schema_migrations", db.MigrateUp, log))
	_, err = pool.Exec(ctx, `TRUNCATE users, blog_articles, blog_categories, blog_commenters, blog_comments, media RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	return repository.New(pool)
}

func TestArticles(t *testing.T) {
	q := setup(t)
	ctx := context.Background()
	now := time.Now()

	first, err := q.SaveArticle(ctx, 0, repository.ArticleInput{
		Title: "Hello", Slug: "hello", Published: now.Add(-48 * time.Hour),
		Categories: []string{"Go", "Databases"}, SetCategories: true,
	})
	require.NoError(t, err)

	_, err = q.SaveArticle(ctx, 0, repository.ArticleInput{Title: "Soon", Slug: "soon", Published: now.Add(time.Hour)})
	require.NoError(t, err)

	list, total, err := q.ListArticles(ctx, repository.ArticleFilter{Now: now}, repository.Page{Number: 1, PerPage: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, "hello", list[0].Slug)

	_, err = q.FindArticleBySlug(ctx, "soon", false, now)
	require.ErrorIs(t, err, repository.ErrNotFound)
	_, err = q.FindArticleBySlug(ctx, "soon", true, now)
	require.NoError(t, err)

	cats, err := q.ArticleCategories(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, cats, 2)

	// Keep one existing category, drop the other.
	_, err = q.SaveArticle(ctx, first.ID, repository.ArticleInput{
		Title: "Hello", Slug: "hello", Published: first.Published,
		Categories: []string{"id:" + itoa(cats[0].ID)}, SetCategories: true,
	})
	require.NoError(t, err)
	cats, err = q.ArticleCategories(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, cats, 1)

	counts, err := q.CategoryCounts(ctx, now)
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, 1, counts[0].Count)

	months, err := q.ArchiveCounts(ctx, now)
	require.NoError(t, err)
	require.Len(t, months, 1)
	assert.Equal(t, 1, months[0].Count)
}

func TestComments(t *testing.T) {
	q := setup(t)
	ctx := context.Background()

	article, err := q.SaveArticle(ctx, 0, repository.ArticleInput{Title: "A", Slug: "a", Published: time.Now().Add(-time.Hour)})
	require.NoError(t, err)

	who, err := q.CreateCommenter(ctx, "jan@example.com", "Jan")
	require.NoError(t, err)
	found, err := q.FindCommenterByEmail(ctx, "JAN@example.com")
	require.NoError(t, err)
	assert.Equal(t, who.ID, found.ID)

	key := "k1"
	c, err := q.CreateComment(ctx, repository.Comment{ArticleID: article.ID, CommenterID: who.ID, IP: "10.0.0.1", Comment: "hi", ConfirmKey: &key})
	require.NoError(t, err)
	assert.False(t, c.IsVisible)
	assert.Equal(t, "Jan", c.Name)

	ips, err := q.KnownIPs(ctx, who.ID)
	require.NoError(t, err)
	assert.Empty(t, ips)

	require.NoError(t, q.ConfirmComment(ctx, c.ID))
	ips, err = q.KnownIPs(ctx, who.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.1"}, ips)

	visible, err := q.VisibleComments(ctx, article.ID)
	require.NoError(t, err)
	assert.Len(t, visible, 1)

	n, err := q.PurgeUnconfirmed(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
