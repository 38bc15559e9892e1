// Package message provides immutable HTTP message values: URIs, streams,
// requests, server requests and responses.
//
// Every With* method returns a modified copy and leaves the receiver untouched,
// so a value can be handed down a middleware chain without defensive copying:
//
//	req, err := message.FromHTTP(r)
//	if err != nil {
//	    return err
//	}
//	req = req.WithAttribute("route_tail", "/123")
//
// Header names are matched case-insensitively while the first-seen casing is
// kept for output:
//
//	resp := message.NewEmptyResponse().WithHeader("X-Trace", "a")
//	resp.Header("x-trace") // []string{"a"}
//
// # Streams
//
// Bodies are [Stream] values. The package ships four backings:
//
//   - [NewMemoryStream] for in-memory buffers
//   - [OpenFile] for files, opened with an fopen-style mode ("r", "w+", ...)
//   - [NewInputStream] for inbound request bodies (read-only)
//   - [NewOutputStream] for outbound bodies (write-only, buffered)
//
// Reading a write-only stream fails with [ErrNotReadable], writing a read-only
// stream fails with [ErrNotWritable].
//
// # Responses
//
// Responses validate their status against a fixed code table. [Response.Flush]
// is the single side-effecting operation: it writes the status, the headers and
// the buffered body to an http.ResponseWriter and closes the body.
//
//	resp, err := message.NewJSONResponse(http.StatusOK)
//	if err != nil {
//	    return err
//	}
//	_, _ = resp.WriteValue(map[string]any{"found": true})
//	return resp.Flush(w)
package message
