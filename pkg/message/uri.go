package message

import (
	"net/url"
	"strconv"
	"strings"
)

// URI is an immutable URI value.
// The zero value is an empty URI.
type URI struct {
	scheme   string
	userInfo string
	host     string
	path     string
	query    string
	fragment string
	port     int
}

// ParseURI decomposes raw into its components.
// Malformed input yields an empty URI instead of an error.
func ParseURI(raw string) URI {
	u, err := url.Parse(raw)
	if err != nil {
		return URI{}
	}

	uri := URI{
		scheme:   strings.ToLower(u.Scheme),
		host:     strings.ToLower(u.Hostname()),
		path:     u.EscapedPath(),
		query:    u.RawQuery,
		fragment: u.EscapedFragment(),
	}

	if u.User != nil {
		uri.userInfo = u.User.String()
	}

	if p := u.Port(); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			uri.port = n
		}
	}

	return uri
}

func (u URI) Scheme() string   { return u.scheme }
func (u URI) UserInfo() string { return u.userInfo }
func (u URI) Host() string     { return u.host }
func (u URI) Port() int        { return u.port }
func (u URI) Path() string     { return u.path }
func (u URI) Query() string    { return u.query }
func (u URI) Fragment() string { return u.fragment }

// Authority returns "[userinfo@]host[:port]".
func (u URI) Authority() string {
	var b strings.Builder
	if u.userInfo != "" {
		b.WriteString(u.userInfo)
		b.WriteByte('@')
	}
	b.WriteString(u.hostForOutput())
	if u.port > 0 {
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(u.port))
	}
	return b.String()
}

func (u URI) WithScheme(scheme string) URI {
	u.scheme = strings.ToLower(scheme)
	return u
}

// WithUserInfo sets the percent-encoded user info; an empty password is
// omitted.
func (u URI) WithUserInfo(user, password string) URI {
	switch {
	case user == "":
		u.userInfo = ""
	case password == "":
		u.userInfo = url.User(user).String()
	default:
		u.userInfo = url.UserPassword(user, password).String()
	}
	return u
}

// WithHost sets the host, lowercased.
func (u URI) WithHost(host string) URI {
	u.host = strings.ToLower(host)
	return u
}

// WithPort sets the port. Zero or negative removes it.
func (u URI) WithPort(port int) URI {
	u.port = max(port, 0)
	return u
}

func (u URI) WithPath(path string) URI {
	u.path = path
	return u
}

// WithQuery sets the query, stripping a leading "?".
func (u URI) WithQuery(query string) URI {
	u.query = strings.TrimPrefix(query, "?")
	return u
}

// WithFragment sets the fragment, stripping a leading "#".
func (u URI) WithFragment(fragment string) URI {
	u.fragment = strings.TrimPrefix(fragment, "#")
	return u
}

// String reconstructs the URI: scheme://userinfo@host:port/path?query#fragment,
// leaving out every empty part.
func (u URI) String() string {
	var b strings.Builder
	if u.scheme != "" {
		b.WriteString(u.scheme)
		b.WriteString("://")
	}
	b.WriteString(u.Authority())
	b.WriteString(u.path)
	if u.query != "" {
		b.WriteByte('?')
		b.WriteString(u.query)
	}
	if u.fragment != "" {
		b.WriteByte('#')
		b.WriteString(u.fragment)
	}
	return b.String()
}

// IsZero reports whether every component is empty.
func (u URI) IsZero() bool {
	return u == URI{}
}

// hostForOutput brackets IPv6 literals.
func (u URI) hostForOutput() string {
	if strings.Contains(u.host, ":") {
		return "[" + u.host + "]"
	}
	return u.host
}
