// Package health provides the liveness and readiness probe handlers.
//
//	r.Get("/health/live", health.Liveness[*cafe.Context](cfg.Version))
//	r.Get("/health/ready", health.Readiness[*cafe.Context](log,
//		health.Check{Name: "redis", Probe: redis.Healthcheck(client)},
//		health.Check{Name: "api", Probe: apiclient.Healthcheck(api, "health")},
//	))
//
// Liveness never touches dependencies. Readiness runs every probe with a
// per-probe timeout and answers 503 when any of them fails.
package health
