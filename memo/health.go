package memo

import (
	"context"

	"github.com/jonwraymond/filememo/health"
	"github.com/jonwraymond/filememo/resilience"
)

// Health returns a checker reporting on the store behind m. An open or
// half-open write breaker degrades the result; the store's own check, when
// it has one, is folded in.
func (m *Memoizer[R]) Health() health.Checker {
	return health.NewCheckerFunc("memo."+m.funcMeta.ID(), func(ctx context.Context) health.Result {
		details := map[string]any{
			"enabled": m.enabled,
		}
		status := health.StatusHealthy
		message := "cache available"

		if !m.enabled {
			return health.Healthy("caching disabled").WithDetails(details)
		}

		if cb := m.executor.CircuitBreaker(); cb != nil {
			state := cb.State()
			details["breaker"] = state.String()
			if state != resilience.StateClosed {
				status = health.Worst(status, health.StatusDegraded)
				message = "cache writes suspended"
			}
		}

		var storeErr error
		if checker, ok := m.cache.(health.Checker); ok {
			r := checker.Check(ctx)
			details[checker.Name()] = r.Status.String()
			if r.Status > status {
				message = r.Message
				storeErr = r.Error
			}
			status = health.Worst(status, r.Status)
		}

		var result health.Result
		switch status {
		case health.StatusHealthy:
			result = health.Healthy(message)
		case health.StatusDegraded:
			result = health.Degraded(message)
		default:
			result = health.Unhealthy(message, storeErr)
		}
		return result.WithDetails(details)
	})
}
