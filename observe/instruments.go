package observe

// Instruments bundles the telemetry a memoized function reports through.
//
// Contract:
//   - Concurrency: all members are safe for concurrent use.
//   - Ownership: Instruments is a value; copies share the underlying providers.
type Instruments struct {
	Tracer  Tracer
	Metrics Metrics
	Logger  Logger
}

// Nop returns Instruments that discard everything.
func Nop() Instruments {
	return Instruments{
		Tracer:  NewNoopTracer(),
		Metrics: NewNoopMetrics(),
		Logger:  NewNopLogger(),
	}
}

// FromObserver builds Instruments from an Observer's tracer, meter and logger.
func FromObserver(obs Observer) (Instruments, error) {
	if obs == nil {
		return Instruments{}, ErrNilObserver
	}

	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return Instruments{}, err
	}

	return Instruments{
		Tracer:  NewTracer(obs.Tracer()),
		Metrics: metrics,
		Logger:  obs.Logger(),
	}, nil
}

// WithDefaults fills nil members with no-op implementations.
func (i Instruments) WithDefaults() Instruments {
	if i.Tracer == nil {
		i.Tracer = NewNoopTracer()
	}
	if i.Metrics == nil {
		i.Metrics = NewNoopMetrics()
	}
	if i.Logger == nil {
		i.Logger = NewNopLogger()
	}
	return i
}
