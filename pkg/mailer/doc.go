// Package mailer renders and sends transactional mail.
//
// Templates are markdown files with YAML front matter, executed with
// text/template, converted by goldmark and wrapped in an html/template
// layout. Mail templates may use [!button|Label](url) for a call-to-action
// link:
//
//	---
//	Subject: Confirm your comment on "{{.Article}}"
//	---
//	Hello {{.Name}},
//
//	[!button|Confirm comment]({{.URL}})
//
// A [Sender] delivers the result. Two transports exist: mailer/resend (HTTP
// API) and mailer/sendmail (local binary):
//
//	m := mailer.New(resend.New(cfg.Resend), mailer.NewRenderer(templates, mailer.RendererConfig{}), cfg.Mailer)
//	err := m.Send(ctx, mailer.SendParams{
//	    To:       mailer.ParseAddress(commenter.Email, commenter.Name),
//	    Template: "confirm_comment.md",
//	    Data:     payload,
//	})
//
// Addresses are written as "Name <email>" in every header.
package mailer
