// Package tasks holds the background jobs of the blog.
package tasks

import (
	"context"
	"embed"
	"io/fs"
	"log/slog"
	"time"

	"github.com/dmitrymomot/inkwell/pkg/mailer"
)

// Task names.
const (
	SendCommentConfirmationName  = "send_comment_confirmation"
	PurgeUnconfirmedCommentsName = "purge_unconfirmed_comments"
)

// MailQueue is the queue mail jobs run on.
const MailQueue = "mail"

// UnconfirmedTTL is how long an unconfirmed comment is kept.
const UnconfirmedTTL = 7 * 24 * time.Hour

//go:embed templates
var templates embed.FS

// Templates returns the mail templates, with layouts under layouts/.
func Templates() fs.FS {
	sub, err := fs.Sub(templates, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// CommentConfirmation is the payload of SendCommentConfirmationName.
type CommentConfirmation struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	ArticleTitle string `json:"article_title"`
	ConfirmURL   string `json:"confirm_url"`
}

// Mailer is the part of mailer.Mailer the tasks use.
type Mailer interface {
	Send(ctx context.Context, params mailer.SendParams) error
}

// SendCommentConfirmation mails the confirm link for a comment posted from
// an unknown IP.
type SendCommentConfirmation struct {
	mailer Mailer
	logger *slog.Logger
}

func NewSendCommentConfirmation(m Mailer, log *slog.Logger) *SendCommentConfirmation {
	return &SendCommentConfirmation{mailer: m, logger: log}
}

func (t *SendCommentConfirmation) Name() string { return SendCommentConfirmationName }

func (t *SendCommentConfirmation) Handle(ctx context.Context, p CommentConfirmation) error {
	err := t.mailer.Send(ctx, mailer.SendParams{
		To:       mailer.ParseAddress(p.Email, p.Name),
		Template: "confirm_comment.md",
		Data:     p,
	})
	if err != nil {
		return err
	}
	t.logger.InfoContext(ctx, "comment confirmation sent", slog.String("email", p.Email))
	return nil
}

// Purger deletes unconfirmed comments created before cutoff.
type Purger interface {
	PurgeUnconfirmed(ctx context.Context, cutoff time.Time) (int64, error)
}

// PurgeUnconfirmedComments runs hourly and deletes comments that were never
// confirmed within UnconfirmedTTL.
type PurgeUnconfirmedComments struct {
	store  Purger
	logger *slog.Logger
	now    func() time.Time
}

func NewPurgeUnconfirmedComments(store Purger, log *slog.Logger) *PurgeUnconfirmedComments {
	return &PurgeUnconfirmedComments{store: store, logger: log, now: time.Now}
}

func (t *PurgeUnconfirmedComments) Name() string     { return PurgeUnconfirmedCommentsName }
func (t *PurgeUnconfirmedComments) Schedule() string { return "0 * * * *" }

func (t *PurgeUnconfirmedComments) Handle(ctx context.Context) error {
	n, err := t.store.PurgeUnconfirmed(ctx, t.now().Add(-UnconfirmedTTL))
	if err != nil {
		return err
	}
	if n > 0 {
		t.logger.InfoContext(ctx, "purged unconfirmed comments", slog.Int64("count", n))
	}
	return nil
}
