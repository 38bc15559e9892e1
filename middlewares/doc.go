// Package middlewares holds the pipeline handlers that wrap every request
// before it reaches the blog router.
//
// Each middleware is a router.Handler that does its work and then calls the
// next handler. They are combined with router.Chain:
//
//	pipeline := router.Chain(
//	    middlewares.Recover(log),
//	    middlewares.RequestID(),
//	    middlewares.Logger(log),
//	    middlewares.Timeout(log, 30*time.Second),
//	    middlewares.Session(sessions),
//	    module,
//	)
//
// Recover turns panics into *PanicError and Timeout turns deadlines into
// *TimeoutError; the host maps both to a 500 page.
//
// RequestIDExtractor adds request_id to every log record:
//
//	log := logger.New(cfg.Logger, middlewares.RequestIDExtractor())
package middlewares
