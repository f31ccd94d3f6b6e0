// Package metrics exposes Prometheus collectors for the file server.
//
// A Metrics value implements static.Observer, so path resolution outcomes
// and metadata cache lookups are counted by passing it to the engine:
//
//	m := metrics.New()
//	engine, err := static.New(root, static.WithObserver(m))
//
// HTTP level counters are fed by middleware.Metrics, and Handler serves the
// registry for scraping:
//
//	r.Handle("/metrics", m.Handler())
package metrics
