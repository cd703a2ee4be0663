package instrumentation

import (
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.ServiceName != "audioinsight" {
		t.Errorf("ServiceName = %q, want %q", cfg.ServiceName, "audioinsight")
	}
	if !cfg.Enabled {
		t.Error("expected instrumentation enabled by default")
	}
	if cfg.MetricsExporter != ExporterPrometheus {
		t.Errorf("MetricsExporter = %q, want %q", cfg.MetricsExporter, ExporterPrometheus)
	}
	if cfg.TracingExporter != ExporterNone {
		t.Errorf("TracingExporter = %q, want %q", cfg.TracingExporter, ExporterNone)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "audioinsight-test")
	t.Setenv("INSTRUMENTATION_ENABLED", "false")
	t.Setenv("METRICS_EXPORTER", "stdout")
	t.Setenv("TRACING_EXPORTER", "stdout")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.5")
	t.Setenv("AUDIT_LOGGING_ENABLED", "false")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.ServiceName != "audioinsight-test" {
		t.Errorf("ServiceName = %q", cfg.ServiceName)
	}
	if cfg.Enabled {
		t.Error("expected Enabled=false")
	}
	if cfg.MetricsExporter != ExporterStdout || cfg.TracingExporter != ExporterStdout {
		t.Errorf("exporters = %q/%q", cfg.MetricsExporter, cfg.TracingExporter)
	}
	if cfg.TraceSamplingRate != 0.5 {
		t.Errorf("TraceSamplingRate = %v, want 0.5", cfg.TraceSamplingRate)
	}
	if cfg.AuditLogging {
		t.Error("expected AuditLogging=false")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "")
	t.Setenv("METRICS_EXPORTER", "")
	t.Setenv("TRACING_EXPORTER", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.ServiceName != "audioinsight" {
		t.Errorf("ServiceName = %q, want default", cfg.ServiceName)
	}
	if cfg.MetricsExporter != ExporterPrometheus {
		t.Errorf("MetricsExporter = %q, want default", cfg.MetricsExporter)
	}
}

func TestLoadConfig_InvalidBool(t *testing.T) {
	t.Setenv("INSTRUMENTATION_ENABLED", "sometimes")

	if _, err := LoadConfig(); err == nil {
		t.Error("expected error for malformed boolean")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:   "valid prometheus",
			config: Config{MetricsExporter: ExporterPrometheus, TracingExporter: ExporterNone, TraceSamplingRate: 0.1},
		},
		{
			name:    "sampling rate too high",
			config:  Config{TraceSamplingRate: 1.5},
			wantErr: true,
		},
		{
			name:    "sampling rate negative",
			config:  Config{TraceSamplingRate: -0.1},
			wantErr: true,
		},
		{
			name:    "unknown metrics exporter",
			config:  Config{MetricsExporter: "statsd"},
			wantErr: true,
		},
		{
			name:    "unknown tracing exporter",
			config:  Config{TracingExporter: "jaeger"},
			wantErr: true,
		},
		{
			name:    "otlp tracing without endpoint",
			config:  Config{TracingExporter: ExporterOTLP},
			wantErr: true,
		},
		{
			name:    "otlp metrics without endpoint",
			config:  Config{MetricsExporter: ExporterOTLP},
			wantErr: true,
		},
		{
			name:   "otlp with endpoint",
			config: Config{MetricsExporter: ExporterOTLP, TracingExporter: ExporterOTLP, OTLPEndpoint: "localhost:4318"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
