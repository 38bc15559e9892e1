package mailer

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
	"time"
)

// Address is a mailbox with an optional display name.
type Address struct {
	Name  string
	Email string
}

var namedAddr = regexp.MustCompile(`^([^<]+)<([^>]+)>$`)

// ParseAddress accepts "user@example.com" or "User Name <user@example.com>".
// A non-empty name overrides the one in s.
func ParseAddress(s, name string) Address {
	a := Address{Email: strings.TrimSpace(s)}
	if m := namedAddr.FindStringSubmatch(a.Email); m != nil {
		a.Name, a.Email = strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	}
	if name != "" {
		a.Name = name
	}
	return a
}

// String formats the address as "Name <email>", or the bare email.
func (a Address) String() string {
	if a.Name == "" {
		return a.Email
	}
	return fmt.Sprintf("%s <%s>", a.Name, a.Email)
}

// Email is a message ready for a Sender.
type Email struct {
	Headers map[string]string
	From    Address
	ReplyTo string
	Subject string
	HTML    string
	Text    string
	To      []Address
	CC      []Address
	BCC     []Address
}

// AddTo appends a recipient; see ParseAddress for the accepted forms.
func (e *Email) AddTo(address, name string) *Email {
	e.To = append(e.To, ParseAddress(address, name))
	return e
}

func (e *Email) AddCC(address, name string) *Email {
	e.CC = append(e.CC, ParseAddress(address, name))
	return e
}

func (e *Email) AddBCC(address, name string) *Email {
	e.BCC = append(e.BCC, ParseAddress(address, name))
	return e
}

// ReturnPath is the envelope sender, the bare From address.
func (e *Email) ReturnPath() string {
	return e.From.Email
}

// Validate checks the fields every transport needs.
func (e *Email) Validate() error {
	switch {
	case len(e.To) == 0:
		return ErrNoRecipient
	case e.Subject == "":
		return ErrNoSubject
	case e.HTML == "" && e.Text == "":
		return ErrNoContent
	}
	return nil
}

// Bytes renders the message as RFC 5322 text with CRLF line endings. The
// HTML part wins over Text when both are set.
func (e *Email) Bytes(now time.Time) []byte {
	var b strings.Builder
	header := func(name, value string) {
		if value != "" {
			b.WriteString(name + ": " + value + "\r\n")
		}
	}

	header("From", e.From.String())
	header("To", joinAddresses(e.To))
	header("Cc", joinAddresses(e.CC))
	header("Bcc", joinAddresses(e.BCC))
	header("Reply-To", e.ReplyTo)
	header("Subject", e.Subject)
	header("Date", now.Format(time.RFC1123Z))
	header("MIME-Version", "1.0")
	body := e.HTML
	if body != "" {
		header("Content-Type", "text/html; charset=utf-8")
	} else {
		body = e.Text
		header("Content-Type", "text/plain; charset=utf-8")
	}
	for _, name := range slices.Sorted(maps.Keys(e.Headers)) {
		header(name, e.Headers[name])
	}

	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(strings.ReplaceAll(body, "\r\n", "\n"), "\n", "\r\n"))
	return []byte(b.String())
}

func joinAddresses(list []Address) string {
	parts := make([]string, len(list))
	for i, a := range list {
		parts[i] = a.String()
	}
	return strings.Join(parts, ", ")
}

// Emails returns the bare addresses of every recipient, To first.
func (e *Email) Emails() []string {
	all := make([]string, 0, len(e.To)+len(e.CC)+len(e.BCC))
	for _, list := range [][]Address{e.To, e.CC, e.BCC} {
		for _, a := range list {
			all = append(all, a.Email)
		}
	}
	return all
}
