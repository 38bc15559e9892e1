package tasks_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/inkwell/internal/tasks"
	"github.com/dmitrymomot/inkwell/pkg/logger"
	"github.com/dmitrymomot/inkwell/pkg/mailer"
)

func TestSendCommentConfirmation(t *testing.T) {
	t.Parallel()

	var sent *mailer.Email
	sender := mailer.SenderFunc(func(_ context.Context, e *mailer.Email) error {
		sent = e
		return nil
	})
	m := mailer.New(sender, mailer.NewRenderer(tasks.Templates(), mailer.RendererConfig{}), mailer.Config{
		From:          "Inkwell <noreply@blog.test>",
		DefaultLayout: "base.html",
	})

	task := tasks.NewSendCommentConfirmation(m, logger.NewNope())
	assert.Equal(t, "send_comment_confirmation", task.Name())

	url := "https://blog.test/hello/comments?action=confirm&email=ann%40x.test&key=k1&comment=7"
	err := task.Handle(context.Background(), tasks.CommentConfirmation{
		Name:         "Ann",
		Email:        "ann@x.test",
		ArticleTitle: "Hello",
		ConfirmURL:   url,
	})
	require.NoError(t, err)
	require.NotNil(t, sent)

	assert.Equal(t, "Bevestig je reactie op Hello", sent.Subject)
	assert.Equal(t, "Ann <ann@x.test>", sent.To[0].String())
	assert.Equal(t, "noreply@blog.test", sent.From.Email)
	assert.Contains(t, sent.Text, url)
	assert.Contains(t, sent.HTML, "Reactie bevestigen")
	assert.Contains(t, sent.HTML, `<div class="mail">`)
}

type fakePurger struct {
	cutoff time.Time
	n      int64
	err    error
}

func (f *fakePurger) PurgeUnconfirmed(_ context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return f.n, f.err
}

func TestPurgeUnconfirmedComments(t *testing.T) {
	t.Parallel()

	t.Run("uses a seven day cutoff", func(t *testing.T) {
		t.Parallel()

		store := &fakePurger{n: 3}
		task := tasks.NewPurgeUnconfirmedComments(store, logger.NewNope())
		assert.Equal(t, "purge_unconfirmed_comments", task.Name())
		assert.Equal(t, "0 * * * *", task.Schedule())

		before := time.Now()
		require.NoError(t, task.Handle(context.Background()))
		assert.WithinDuration(t, before.Add(-tasks.UnconfirmedTTL), store.cutoff, time.Second)
	})

	t.Run("returns store errors", func(t *testing.T) {
		t.Parallel()

		want := errors.New("db down")
		task := tasks.NewPurgeUnconfirmedComments(&fakePurger{err: want}, logger.NewNope())
		require.ErrorIs(t, task.Handle(context.Background()), want)
	})
}
