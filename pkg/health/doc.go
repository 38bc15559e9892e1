// Package health serves the liveness and readiness probes.
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//		"postgres": db.Healthcheck(pool),
//		"redis":    redis.Healthcheck(client),
//		"jobs":     job.Healthcheck(jobs),
//	}, health.WithLogger(log)))
//
// Checks run in parallel under a shared timeout (5s by default). The
// readiness probe answers 503 when any check fails. Both handlers answer
// JSON when the client sends "Accept: application/json" or "?format=json",
// and plain text otherwise.
package health
