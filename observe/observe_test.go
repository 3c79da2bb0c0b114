package observe

import (
	"context"
	"errors"
	"testing"
)

func validConfig() Config {
	return Config{
		ServiceName: "pipeline",
		Version:     "1.0.0",
		Tracing:     TracingConfig{Enabled: true, Exporter: "stdout", SamplePct: 1.0},
		Metrics:     MetricsConfig{Enabled: true, Exporter: "stdout"},
		Logging:     LoggingConfig{Enabled: true, Level: "info"},
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"valid", func(*Config) {}, nil},
		{"disabled signals ignore their settings", func(c *Config) {
			c.Tracing = TracingConfig{Exporter: "bogus", SamplePct: 7}
			c.Metrics = MetricsConfig{Exporter: "bogus"}
		}, nil},
		{"missing service name", func(c *Config) { c.ServiceName = "" }, ErrMissingServiceName},
		{"unknown tracing exporter", func(c *Config) { c.Tracing.Exporter = "zipkin" }, ErrInvalidTracingExporter},
		{"unknown metrics exporter", func(c *Config) { c.Metrics.Exporter = "statsd" }, ErrInvalidMetricsExporter},
		{"sample above range", func(c *Config) { c.Tracing.SamplePct = 1.5 }, ErrInvalidSamplePct},
		{"sample below range", func(c *Config) { c.Tracing.SamplePct = -0.1 }, ErrInvalidSamplePct},
		{"unknown log level", func(c *Config) { c.Logging.Level = "trace" }, ErrInvalidLogLevel},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.want == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Errorf("Validate() = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		wantTracing TracingConfig
		wantMetrics MetricsConfig
		wantErr     error
	}{
		{
			name: "nothing set",
		},
		{
			name:        "stdout tracing with default sampling",
			env:         map[string]string{EnvTraceExporter: "stdout"},
			wantTracing: TracingConfig{Enabled: true, Exporter: "stdout", SamplePct: 1.0},
		},
		{
			name:        "sampled tracing and prometheus metrics",
			env:         map[string]string{EnvTraceExporter: "OTLP", EnvTraceSample: "0.25", EnvMetricsExporter: "prometheus"},
			wantTracing: TracingConfig{Enabled: true, Exporter: "otlp", SamplePct: 0.25},
			wantMetrics: MetricsConfig{Enabled: true, Exporter: "prometheus"},
		},
		{
			name: "none disables",
			env:  map[string]string{EnvTraceExporter: "none", EnvMetricsExporter: "none"},
		},
		{
			name:    "unparseable sample",
			env:     map[string]string{EnvTraceExporter: "stdout", EnvTraceSample: "half"},
			wantErr: ErrInvalidSamplePct,
		},
		{
			name:    "unknown metrics exporter",
			env:     map[string]string{EnvMetricsExporter: "statsd"},
			wantErr: ErrInvalidMetricsExporter,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for _, key := range []string{EnvLogLevel, EnvTraceExporter, EnvTraceSample, EnvMetricsExporter} {
				t.Setenv(key, tc.env[key])
			}

			cfg, err := ConfigFromEnv("pipeline")
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("ConfigFromEnv() error = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ConfigFromEnv() error = %v", err)
			}
			if cfg.Tracing != tc.wantTracing {
				t.Errorf("Tracing = %+v, want %+v", cfg.Tracing, tc.wantTracing)
			}
			if cfg.Metrics != tc.wantMetrics {
				t.Errorf("Metrics = %+v, want %+v", cfg.Metrics, tc.wantMetrics)
			}
			if !cfg.Logging.Enabled || cfg.Logging.Level != "info" {
				t.Errorf("Logging = %+v, want enabled at info", cfg.Logging)
			}
		})
	}
}

func TestNewObserver(t *testing.T) {
	t.Run("all disabled is a usable no-op", func(t *testing.T) {
		obs, err := NewObserver(context.Background(), Config{ServiceName: "pipeline"})
		if err != nil {
			t.Fatalf("NewObserver() error = %v", err)
		}
		if obs.Tracer() == nil || obs.Meter() == nil || obs.Logger() == nil {
			t.Fatal("disabled observer should still hand out no-op primitives")
		}
		if err := obs.Shutdown(context.Background()); err != nil {
			t.Errorf("Shutdown() = %v", err)
		}
	})

	t.Run("stdout exporters", func(t *testing.T) {
		obs, err := NewObserver(context.Background(), validConfig())
		if err != nil {
			t.Fatalf("NewObserver() error = %v", err)
		}
		if obs.Tracer() == nil || obs.Meter() == nil {
			t.Fatal("expected tracer and meter")
		}
		if err := obs.Shutdown(context.Background()); err != nil {
			t.Errorf("Shutdown() = %v", err)
		}
	})

	t.Run("feeds instruments", func(t *testing.T) {
		obs, err := NewObserver(context.Background(), Config{ServiceName: "pipeline"})
		if err != nil {
			t.Fatalf("NewObserver() error = %v", err)
		}
		if _, err := FromObserver(obs); err != nil {
			t.Errorf("FromObserver() = %v", err)
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		if _, err := NewObserver(context.Background(), Config{}); !errors.Is(err, ErrMissingServiceName) {
			t.Errorf("NewObserver() error = %v, want ErrMissingServiceName", err)
		}
	})
}

func TestDefaultLogLevel(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"", "info"},
		{"debug", "debug"},
		{"WARN", "warn"},
		{"verbose", "info"},
	}

	for _, tc := range tests {
		t.Run(tc.env, func(t *testing.T) {
			t.Setenv(EnvLogLevel, tc.env)
			if got := DefaultLogLevel(); got != tc.want {
				t.Errorf("DefaultLogLevel() = %q, want %q", got, tc.want)
			}
		})
	}
}
