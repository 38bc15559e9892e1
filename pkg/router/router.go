package router

import (
	"fmt"
	"maps"
	"strings"

	"github.com/dmitrymomot/inkwell/pkg/message"
)

// AttrRouteTail is the request attribute holding the not yet consumed part
// of the path.
const AttrRouteTail = "route_tail"

// Next continues the chain with the given request and response.
type Next func(req *message.ServerRequest, resp *message.Response) (*message.Response, error)

// Handler is one unit of the chain. next may be nil.
type Handler interface {
	Serve(req *message.ServerRequest, resp *message.Response, next Next) (*message.Response, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(req *message.ServerRequest, resp *message.Response, next Next) (*message.Response, error)

func (f HandlerFunc) Serve(req *message.ServerRequest, resp *message.Response, next Next) (*message.Response, error) {
	return f(req, resp, next)
}

// Match is the outcome of a Matcher.
// Exactly one of Response and Handler is expected to be set.
type Match struct {
	Response   *message.Response
	Handler    Handler
	Attributes map[string]any
	// Tail is passed to Handler as the route_tail attribute.
	// Empty clears the attribute so the handler sees the full path.
	Tail string
}

// Matcher inspects the path tail. It returns an error wrapping ErrNotFound
// when nothing matches.
type Matcher interface {
	Match(req *message.ServerRequest, resp *message.Response, tail string) (Match, error)
}

// MatcherFunc adapts a function to Matcher.
type MatcherFunc func(req *message.ServerRequest, resp *message.Response, tail string) (Match, error)

func (f MatcherFunc) Match(req *message.ServerRequest, resp *message.Response, tail string) (Match, error) {
	return f(req, resp, tail)
}

// Router is a Handler that dispatches through a Matcher.
type Router struct {
	matcher Matcher
}

// New returns a Router for m.
func New(m Matcher) *Router {
	return &Router{matcher: m}
}

// Serve matches the path tail, produces a response from the match and then,
// when next is set, hands that response to next.
func (r *Router) Serve(req *message.ServerRequest, resp *message.Response, next Next) (*message.Response, error) {
	m, err := r.matcher.Match(req, resp, Tail(req))
	if err != nil {
		return nil, err
	}

	switch {
	case m.Response != nil:
		resp = m.Response
	case m.Handler != nil:
		sub := req
		if len(m.Attributes) > 0 {
			attrs := req.Attributes()
			if attrs == nil {
				attrs = make(map[string]any, len(m.Attributes))
			}
			maps.Copy(attrs, m.Attributes)
			sub = sub.WithAttributes(attrs)
		}
		if m.Tail != "" {
			sub = sub.WithAttribute(AttrRouteTail, m.Tail)
		} else {
			sub = sub.WithoutAttribute(AttrRouteTail)
		}

		resp, err = m.Handler.Serve(sub, resp, nil)
		if err != nil {
			return nil, err
		}
	default:
		return nil, ErrInvalidMatch
	}

	if next != nil {
		return next(req, resp)
	}
	return resp, nil
}

// Segments is a Matcher keyed on the first path segment.
// The matched handler receives the rest of the path as its tail.
// Unknown segments go to Default with the tail cleared, or fail with
// ErrNotFound when Default is nil.
// A Responses entry is returned as is to every request, so it must not be
// passed through middleware that writes to the response.
type Segments struct {
	Routes    map[string]Handler
	Responses map[string]*message.Response
	Default   Handler
}

func (s Segments) Match(_ *message.ServerRequest, _ *message.Response, tail string) (Match, error) {
	chunks := Chunkify(tail)
	if resp, ok := s.Responses[chunks[0]]; ok {
		return Match{Response: resp}, nil
	}
	if h, ok := s.Routes[chunks[0]]; ok {
		return Match{Handler: h, Tail: TailFrom(chunks, 1)}, nil
	}
	if s.Default != nil {
		return Match{Handler: s.Default}, nil
	}
	return Match{}, fmt.Errorf("%w: %q", ErrNotFound, chunks[0])
}

// Tail returns the route_tail attribute, or the URI path when it is unset.
func Tail(req *message.ServerRequest) string {
	if t, ok := req.Attribute(AttrRouteTail, "").(string); ok && t != "" {
		return t
	}
	return req.URI().Path()
}

// Chunkify trims leading slashes from path and splits it on "/".
// The result always has at least one element.
func Chunkify(path string) []string {
	return strings.Split(strings.TrimLeft(path, "/"), "/")
}

// TailFrom joins chunks[n:] back into a path starting with "/".
func TailFrom(chunks []string, n int) string {
	if n >= len(chunks) {
		return "/"
	}
	return "/" + strings.Join(chunks[n:], "/")
}

// Chain runs handlers in order. Each handler gets a next that runs the rest
// of the list; the outer next runs after the last one. A handler that
// returns without calling next ends the chain.
func Chain(handlers ...Handler) Handler {
	return HandlerFunc(func(req *message.ServerRequest, resp *message.Response, next Next) (*message.Response, error) {
		var step func(i int) Next
		step = func(i int) Next {
			return func(req *message.ServerRequest, resp *message.Response) (*message.Response, error) {
				if i == len(handlers) {
					if next != nil {
						return next(req, resp)
					}
					return resp, nil
				}
				return handlers[i].Serve(req, resp, step(i+1))
			}
		}
		return step(0)(req, resp)
	})
}
