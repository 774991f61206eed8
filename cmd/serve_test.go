package cmd

import (
	"strings"
	"testing"
)

func TestNewServeCmdFlags(t *testing.T) {
	cmd := newServeCmd()

	tests := []struct {
		flag        string
		defaultWant string
	}{
		{flag: "transport", defaultWant: "stdio"},
		{flag: "http-addr", defaultWant: ":8080"},
		{flag: "config", defaultWant: ""},
		{flag: "calendar", defaultWant: ""},
		{flag: "metrics-enabled", defaultWant: "true"},
		{flag: "metrics-addr", defaultWant: ":9090"},
		{flag: "debug", defaultWant: "false"},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			f := cmd.Flags().Lookup(tt.flag)
			if f == nil {
				t.Fatalf("flag %q not registered", tt.flag)
			}
			if f.DefValue != tt.defaultWant {
				t.Errorf("flag %q default = %q, expected %q", tt.flag, f.DefValue, tt.defaultWant)
			}
		})
	}
}

func TestApplyMetricsEnv(t *testing.T) {
	flagsUntouched := func(string) bool { return false }
	flagsSet := func(string) bool { return true }

	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("METRICS_ADDR", ":9191")

	cfg := applyMetricsEnv(MetricsConfig{Enabled: true, Addr: ":9090"}, flagsUntouched)
	if cfg.Enabled {
		t.Error("METRICS_ENABLED=false should disable the metrics server")
	}
	if cfg.Addr != ":9191" {
		t.Errorf("Addr = %q, expected METRICS_ADDR to apply", cfg.Addr)
	}

	cfg = applyMetricsEnv(MetricsConfig{Enabled: true, Addr: ":9090"}, flagsSet)
	if !cfg.Enabled || cfg.Addr != ":9090" {
		t.Errorf("explicit flags must take precedence over the environment, got %+v", cfg)
	}

	t.Setenv("METRICS_ENABLED", "not-a-bool")
	cfg = applyMetricsEnv(MetricsConfig{Enabled: true, Addr: ":9090"}, flagsUntouched)
	if !cfg.Enabled {
		t.Error("unparseable METRICS_ENABLED should leave the flag value alone")
	}
}

func TestRunServeRejectsUnknownTransport(t *testing.T) {
	err := runServe("carrier-pigeon", false, ":8080", t.TempDir()+"/config.yaml", "", MetricsConfig{})
	if err == nil {
		t.Fatal("expected error for unknown transport")
	}
	if got := err.Error(); !strings.Contains(got, "unsupported transport type") {
		t.Errorf("unexpected error message: %s", got)
	}
}
