// Package internal hosts the request pipeline on net/http.
//
// App mounts the health probes and the theme assets on chi and sends every
// other request to an Entry. Entry converts the *http.Request into a
// message.ServerRequest, runs the pipeline and flushes the returned
// message.Response. Errors out of the pipeline are mapped to a status:
//
//   - *HTTPError keeps its code;
//   - router.ErrNotFound becomes 404;
//   - message.ErrInvalidMethod becomes 405;
//   - anything else is logged and becomes 500.
//
// The error page itself comes from an ErrorRenderer so this package does not
// depend on the views.
//
//	app := internal.New(pipeline,
//	    internal.WithLogger(log),
//	    internal.WithErrorRenderer(renderErrorPage),
//	    internal.WithReadinessCheck("db", db.Healthcheck(pool)),
//	)
//	err := app.Run(ctx, cfg.App.Addr, internal.ShutdownHook(db.Shutdown(pool)))
package internal
