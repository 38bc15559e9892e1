// Package comments serves posting and confirming comments and the
// commenter lookup used by the comment form.
package comments

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/inkwell/internal"
	"github.com/dmitrymomot/inkwell/internal/repository"
	"github.com/dmitrymomot/inkwell/internal/tasks"
	"github.com/dmitrymomot/inkwell/pkg/job"
	"github.com/dmitrymomot/inkwell/pkg/message"
	"github.com/dmitrymomot/inkwell/pkg/router"
	"github.com/dmitrymomot/inkwell/pkg/sanitizer"
)

// AttrArticle is the request attribute holding the *repository.Article the
// comments belong to.
const AttrArticle = "article"

// Form messages.
const (
	MsgEnterName    = "Please enter a name"
	MsgEnterEmail   = "Please enter an e-mail address"
	MsgBlocked      = "Your e-mail address has been blocked by the administrator"
	MsgEmptyComment = "The comment cannot be empty"
	MsgConfirmSent  = "We have sent you an e-mail with a link to confirm your comment. " +
		"Please check your mailbox and click on the link to confirm that it was you who commented."
	MsgInvalidEmail   = "Invalid e-mail address"
	MsgInvalidComment = "Invalid comment"
)

var emailSegment = regexp.MustCompile(`^[^@]+@([^.]+\.)+[a-z]{2,10}$`)

// Controller handles /<slug>/comments and /commenter/<email>.
type Controller struct {
	store   Store
	jobs    Enqueuer
	logger  *slog.Logger
	baseURL string
}

// NewController returns a controller. baseURL prefixes confirm links in
// mails; it has no trailing slash.
func NewController(store Store, jobs Enqueuer, log *slog.Logger, baseURL string) *Controller {
	return &Controller{store: store, jobs: jobs, logger: log, baseURL: strings.TrimRight(baseURL, "/")}
}

func (c *Controller) Serve(req *message.ServerRequest, _ *message.Response, _ router.Next) (*message.Response, error) {
	article, ok := req.Attribute(AttrArticle, nil).(*repository.Article)
	if !ok || article == nil {
		return c.lookup(req)
	}
	switch {
	case req.Method() == http.MethodPost:
		return c.post(req, article)
	case req.QueryParam("action") == "confirm":
		return c.confirm(req)
	}
	return nil, internal.ErrNotFound("")
}

// Message is an informational notice for the form.
type Message struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Comment is a comment as returned to the form.
type Comment struct {
	Created   time.Time `json:"created"`
	InReplyTo *int64    `json:"in_reply_to"`
	Name      string    `json:"name"`
	Comment   string    `json:"comment"`
	ID        int64     `json:"id"`
	ArticleID int64     `json:"article_id"`
}

// Result is the JSON body of every comment endpoint except the lookup.
type Result struct {
	Errors       map[string]string `json:"errors"`
	Message      *Message          `json:"message,omitempty"`
	CommenterKey *int64            `json:"commenter_key,omitempty"`
	Comment      *Comment          `json:"comment,omitempty"`
}

func (c *Controller) post(req *message.ServerRequest, article *repository.Article) (*message.Response, error) {
	ctx := req.Context()
	res := Result{Errors: map[string]string{}}

	var commenter *repository.Commenter
	var err error
	switch {
	case req.PostValue("email") != "":
		email := strings.TrimSpace(req.PostValue("email"))
		commenter, err = c.store.FindCommenterByEmail(ctx, email)
		if errors.Is(err, repository.ErrNotFound) {
			if name := strings.TrimSpace(req.PostValue("name")); name == "" {
				res.Errors["name"] = MsgEnterName
			} else {
				commenter, err = c.store.CreateCommenter(ctx, email, name)
			}
		}
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		if commenter != nil {
			res.CommenterKey = &commenter.ID
		}
	case req.PostValue("commenter_key") != "":
		id, perr := strconv.ParseInt(req.PostValue("commenter_key"), 10, 64)
		if perr == nil {
			commenter, err = c.store.FindCommenter(ctx, id)
		}
		switch {
		case perr != nil, errors.Is(err, repository.ErrNotFound):
			res.Errors["email"] = MsgEnterEmail
		case err != nil:
			return nil, err
		}
	default:
		res.Errors["email"] = MsgEnterEmail
	}

	if commenter == nil {
		return jsonResponse(res)
	}
	if !commenter.IsActive {
		res.Errors["commenter_key"] = MsgBlocked
		return jsonResponse(res)
	}

	text := strings.TrimSpace(sanitizer.SanitizeHTML(req.PostValue("comment")))
	if text == "" {
		res.Errors["comment"] = MsgEmptyComment
		return jsonResponse(res)
	}

	known, err := c.store.KnownIPs(ctx, commenter.ID)
	if err != nil {
		return nil, err
	}

	ip := req.RemoteIP()
	comment := repository.Comment{
		ArticleID:   article.ID,
		CommenterID: commenter.ID,
		InReplyTo:   parseReplyTo(req.PostValue("in_reply_to")),
		IP:          ip,
		Comment:     text,
		IsVisible:   slices.Contains(known, ip),
	}
	if !comment.IsVisible {
		key := uuid.NewString()
		comment.ConfirmKey = &key
	}

	var saved *repository.Comment
	err = c.store.Within(ctx, func(tx pgx.Tx, s Store) error {
		var err error
		if saved, err = s.CreateComment(ctx, comment); err != nil {
			return err
		}
		if saved.IsVisible {
			return nil
		}
		return c.jobs.EnqueueTx(ctx, tx, tasks.SendCommentConfirmationName, tasks.CommentConfirmation{
			Name:         commenter.Name,
			Email:        commenter.Email,
			ArticleTitle: article.Title,
			ConfirmURL:   c.confirmURL(article.Slug, commenter.Email, *comment.ConfirmKey, saved.ID),
		}, job.InQueue(tasks.MailQueue))
	})
	if err != nil {
		return nil, fmt.Errorf("comments: save: %w", err)
	}

	if saved.IsVisible {
		res.Comment = &Comment{
			ID:        saved.ID,
			ArticleID: saved.ArticleID,
			InReplyTo: saved.InReplyTo,
			Name:      commenter.Name,
			Comment:   saved.Comment,
			Created:   saved.Created,
		}
	} else {
		res.Message = &Message{Type: "info", Message: MsgConfirmSent}
		c.logger.InfoContext(ctx, "comment awaits confirmation", slog.Int64("comment_id", saved.ID))
	}
	return jsonResponse(res)
}

func (c *Controller) confirmURL(slug, email, key string, commentID int64) string {
	q := url.Values{}
	q.Set("action", "confirm")
	q.Set("email", email)
	q.Set("key", key)
	q.Set("comment", strconv.FormatInt(commentID, 10))
	return c.baseURL + "/" + slug + "/comments?" + q.Encode()
}

func (c *Controller) confirm(req *message.ServerRequest) (*message.Response, error) {
	ctx := req.Context()
	res := Result{Errors: map[string]string{}}

	commenter, err := c.store.FindCommenterByEmail(ctx, req.QueryParam("email"))
	switch {
	case errors.Is(err, repository.ErrNotFound):
		res.Errors["email"] = MsgInvalidEmail
		return jsonResponse(res)
	case err != nil:
		return nil, err
	}

	var comment *repository.Comment
	if id, perr := strconv.ParseInt(req.QueryParam("comment"), 10, 64); perr == nil {
		comment, err = c.store.FindComment(ctx, id)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}
	key := req.QueryParam("key")
	if comment == nil || comment.CommenterID != commenter.ID || comment.ConfirmKey == nil || key == "" || *comment.ConfirmKey != key {
		res.Errors["comment"] = MsgInvalidComment
		return jsonResponse(res)
	}

	if err := c.store.ConfirmComment(ctx, comment.ID); err != nil {
		return nil, err
	}
	article, err := c.store.FindArticle(ctx, comment.ArticleID)
	if err != nil {
		return nil, err
	}
	return message.NewRedirectResponse("/" + article.Slug + "#comments"), nil
}

// Lookup is the body of GET /commenter/<email>.
type Lookup struct {
	Found bool   `json:"found"`
	Name  string `json:"name"`
	Key   *int64 `json:"key"`
}

func (c *Controller) lookup(req *message.ServerRequest) (*message.Response, error) {
	var email string
	for _, chunk := range router.Chunkify(router.Tail(req)) {
		if s, err := url.PathUnescape(chunk); err == nil && emailSegment.MatchString(s) {
			email = s
		}
	}

	var out Lookup
	if email != "" {
		commenter, err := c.store.FindCommenterByEmail(req.Context(), email)
		switch {
		case err == nil:
			out = Lookup{Found: true, Name: commenter.Name, Key: &commenter.ID}
		case !errors.Is(err, repository.ErrNotFound):
			return nil, err
		}
	}
	return jsonResponse(out)
}

func parseReplyTo(s string) *int64 {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}

func jsonResponse(v any) (*message.Response, error) {
	resp, err := message.NewJSONResponse(http.StatusOK)
	if err != nil {
		return nil, err
	}
	if _, err := resp.WriteValue(v); err != nil {
		return nil, err
	}
	return resp, nil
}
