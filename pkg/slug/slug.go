package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultMaxLength is the title length Generate cuts at.
const DefaultMaxLength = 32

type config struct {
	separator string
	maxLength int
	lowercase bool
}

// Option configures Make.
type Option func(*config)

// Separator sets the string placed between words. Defaults to "-".
func Separator(s string) Option {
	return func(c *config) {
		if s != "" {
			c.separator = s
		}
	}
}

// MaxLength cuts the slug to n runes, trimming a dangling separator.
// Zero means no limit.
func MaxLength(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.maxLength = n
		}
	}
}

// Lowercase controls case folding. Defaults to true.
func Lowercase(on bool) Option {
	return func(c *config) {
		c.lowercase = on
	}
}

// Make returns the slug of s.
func Make(s string, opts ...Option) string {
	cfg := &config{separator: "-", lowercase: true}
	for _, opt := range opts {
		opt(cfg)
	}

	s = fold(s)
	if cfg.lowercase {
		s = strings.ToLower(s)
	}

	var b strings.Builder
	pending := false
	for _, r := range s {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if pending && b.Len() > 0 {
				b.WriteString(cfg.separator)
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	out := b.String()

	if cfg.maxLength > 0 {
		if rs := []rune(out); len(rs) > cfg.maxLength {
			out = strings.TrimRight(string(rs[:cfg.maxLength]), cfg.separator)
		}
	}
	return out
}

// Generate returns the slug for an article or category title.
// Titles longer than DefaultMaxLength are cut at their last space within
// that length, or hard cut when there is none.
func Generate(title string) string {
	title = fold(title)
	if rs := []rune(title); len(rs) > DefaultMaxLength {
		head := string(rs[:DefaultMaxLength])
		if i := strings.LastIndex(head, " "); i > 0 {
			head = head[:i]
		}
		title = head
	}
	return Make(title)
}

var folder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// fold strips combining marks so "é" becomes "e". Letters without an ASCII
// decomposition are mapped explicitly.
func fold(s string) string {
	out, _, err := transform.String(folder, s)
	if err != nil {
		out = s
	}
	return specials.Replace(out)
}

var specials = strings.NewReplacer(
	"ß", "ss",
	"æ", "ae", "Æ", "AE",
	"ø", "o", "Ø", "O",
	"œ", "oe", "Œ", "OE",
	"ł", "l", "Ł", "L",
	"đ", "d", "Đ", "D",
)
