// Package router dispatches a message.ServerRequest through a chain of
// handlers that each consume part of the request path.
//
// Every unit implements Handler: it receives the request, the response built
// so far and a Next continuation, and returns the response to use from then
// on. A Router asks its Matcher to look at the leading segments of the path
// tail and either returns a prepared response or delegates to a sub-handler
// with the remaining tail stored in the "route_tail" attribute.
//
// # Usage
//
//	root := router.New(router.Segments{
//		Routes: map[string]router.Handler{
//			"blog":  blogHandler,
//			"login": loginHandler,
//		},
//		Default: pageHandler,
//	})
//
//	pipeline := router.Chain(recoverMw, requestIDMw, root)
//	resp, err := pipeline.Serve(req, message.NewEmptyResponse(), nil)
//	if router.IsNotFound(err) {
//		// render 404
//	}
//
// For a request to /blog/123 the blog handler sees Tail(req) == "/123".
//
// # Services
//
// Container is a small lazy service registry used to resolve controllers
// at dispatch time:
//
//	c := router.NewContainer()
//	c.Factory("blog", func(c *router.Container) (any, error) { return newBlog(), nil })
//	blog, err := router.Resolve[*Blog](c, "blog")
package router
