// Package health reports whether the memoization store is usable.
//
// A Checker reports a Result with a Status of Healthy, Degraded or
// Unhealthy. The file cache and a memoizer's write breaker are checkers;
// memoctl check runs them through an Aggregator:
//
//	agg := health.NewAggregator(health.AggregatorConfig{Timeout: 5 * time.Second})
//	_ = agg.Register(fileCache)
//	report, err := agg.Run(ctx)
//	if report.Status != health.StatusHealthy {
//	    ...
//	}
package health
