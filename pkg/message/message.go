package message

import (
	"maps"
	"slices"
	"strings"
)

// DefaultProtocolVersion is the protocol version of a fresh message.
const DefaultProtocolVersion = "1.1"

// headerMap is a case-insensitive header store that keeps the first-seen
// casing of every name and the order names were added in.
// It is treated as immutable: every mutator returns a new map.
type headerMap struct {
	index  map[string]string   // lowercase name -> canonical name
	values map[string][]string // canonical name -> values
	order  []string            // canonical names, insertion order
}

func (h headerMap) clone() headerMap {
	out := headerMap{
		index:  maps.Clone(h.index),
		values: make(map[string][]string, len(h.values)),
		order:  slices.Clone(h.order),
	}
	if out.index == nil {
		out.index = make(map[string]string)
	}
	for k, v := range h.values {
		out.values[k] = slices.Clone(v)
	}
	return out
}

func (h headerMap) canonical(name string) (string, bool) {
	c, ok := h.index[strings.ToLower(name)]
	return c, ok
}

func (h headerMap) get(name string) []string {
	c, ok := h.canonical(name)
	if !ok {
		return nil
	}
	return slices.Clone(h.values[c])
}

func (h headerMap) with(name string, values []string) headerMap {
	out := h.clone()
	c, ok := out.canonical(name)
	if !ok {
		c = name
		out.index[strings.ToLower(name)] = c
		out.order = append(out.order, c)
	}
	out.values[c] = slices.Clone(values)
	return out
}

func (h headerMap) added(name string, values []string) headerMap {
	c, ok := h.canonical(name)
	if !ok {
		return h.with(name, values)
	}
	out := h.clone()
	out.values[c] = append(out.values[c], values...)
	return out
}

func (h headerMap) without(name string) headerMap {
	c, ok := h.canonical(name)
	if !ok {
		return h
	}
	out := h.clone()
	delete(out.index, strings.ToLower(name))
	delete(out.values, c)
	out.order = slices.DeleteFunc(out.order, func(n string) bool { return n == c })
	return out
}

// Message holds the parts shared by requests and responses:
// headers, protocol version and body.
type Message struct {
	body     Stream
	newBody  func() Stream
	headers  headerMap
	protocol string
}

func newMessage(newBody func() Stream) Message {
	return Message{newBody: newBody}
}

// clone copies the headers and shares the body. The default body is created
// first so that a copy and its source never end up with different bodies.
func (m *Message) clone() Message {
	m.Body()
	c := *m
	c.headers = m.headers.clone()
	return c
}

// ProtocolVersion returns the HTTP protocol version, "1.1" by default.
func (m *Message) ProtocolVersion() string {
	if m.protocol == "" {
		return DefaultProtocolVersion
	}
	return m.protocol
}

// Headers returns a copy of all headers keyed by their canonical names.
func (m *Message) Headers() map[string][]string {
	out := make(map[string][]string, len(m.headers.values))
	for k, v := range m.headers.values {
		out[k] = slices.Clone(v)
	}
	return out
}

// HeaderNames returns the canonical header names in insertion order.
func (m *Message) HeaderNames() []string {
	return slices.Clone(m.headers.order)
}

// HasHeader reports whether a header exists, matching name case-insensitively.
func (m *Message) HasHeader(name string) bool {
	_, ok := m.headers.canonical(name)
	return ok
}

// Header returns the values of a header, or nil.
func (m *Message) Header(name string) []string {
	return m.headers.get(name)
}

// HeaderLine returns the values of a header joined with ",".
func (m *Message) HeaderLine(name string) string {
	return strings.Join(m.headers.get(name), ",")
}

// Body returns the body stream, creating the default one on first use.
func (m *Message) Body() Stream {
	if m.body == nil {
		if m.newBody != nil {
			m.body = m.newBody()
		} else {
			m.body = NewMemoryStream(nil, true, true)
		}
	}
	return m.body
}
