package sanitizer

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy  *bluemonday.Policy
	commentPolicy *bluemonday.Policy
	articlePolicy *bluemonday.Policy
	initOnce      sync.Once
)

func initPolicies() {
	initOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()

		commentPolicy = bluemonday.NewPolicy()
		commentPolicy.AllowStandardURLs()
		commentPolicy.AllowElements(
			"p", "br",
			"strong", "b", "em", "i",
			"ul", "ol", "li",
			"code", "pre", "blockquote",
		)
		commentPolicy.AllowAttrs("href").OnElements("a")
		commentPolicy.RequireNoFollowOnLinks(true)

		// Articles are written by admins; keep everything markdown can emit.
		articlePolicy = bluemonday.UGCPolicy()
		articlePolicy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "a", "div", "span")
		articlePolicy.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	})
}

// StripTags removes all markup and returns unescaped plain text with
// collapsed whitespace. Used for leads and feed summaries.
func StripTags(s string) string {
	initPolicies()
	return strings.Join(strings.Fields(html.UnescapeString(strictPolicy.Sanitize(s))), " ")
}

// SanitizeHTML keeps basic formatting (paragraphs, emphasis, lists, code,
// links with rel=nofollow). Used for visitor comments.
func SanitizeHTML(s string) string {
	initPolicies()
	return commentPolicy.Sanitize(s)
}

// SanitizeArticle keeps headings, images, tables and code classes produced
// by the markdown renderer.
func SanitizeArticle(s string) string {
	initPolicies()
	return articlePolicy.Sanitize(s)
}

// SanitizeHTMLCustom applies policy. Returns s unchanged if policy is nil.
func SanitizeHTMLCustom(s string, policy *bluemonday.Policy) string {
	if policy == nil {
		return s
	}
	return policy.Sanitize(s)
}
