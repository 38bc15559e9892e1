// Package cookie reads cookies from a message.ServerRequest and adds
// Set-Cookie headers to a message.Response.
//
// Signed cookies carry the session id. The HMAC covers the cookie name, so
// a value cannot be replayed under another name:
//
//	m := cookie.New(cookie.WithSecret(secret), cookie.WithSecure(true))
//	resp, err := m.SetSigned(resp, "inkwell_session", id, 86400)
//	id, err := m.GetSigned(req, "inkwell_session")
//
// Responses are immutable, so every setter returns the response to use next.
package cookie
