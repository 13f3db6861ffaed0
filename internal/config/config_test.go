package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "https://jsonplaceholder.typicode.com" {
		t.Fatalf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Fatalf("HTTPTimeout = %s", cfg.HTTPTimeout)
	}
	if cfg.TrimResponseLines {
		t.Fatalf("trim_response_lines should default to false")
	}
	if cfg.SampleUserID != 1 || cfg.OutputDir != "." || cfg.StorageType != "none" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("BASE_URL", "http://127.0.0.1:8080/")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "5")
	t.Setenv("TRIM_RESPONSE_LINES", "true")
	t.Setenv("SAMPLE_USER_ID", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "http://127.0.0.1:8080" {
		t.Fatalf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.HTTPTimeout != 5*time.Second || !cfg.TrimResponseLines || cfg.SampleUserID != 3 {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"BASE_URL":             "not a url",
		"HTTP_TIMEOUT_SECONDS": "0",
		"SAMPLE_USER_ID":       "-1",
		"STORAGE_TTL_SECONDS":  "0",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", key, val)
			}
		})
	}
}

func TestNormalizeRejectsUnsupportedScheme(t *testing.T) {
	cfg := Config{BaseURL: "ftp://example.com", HTTPTimeoutSeconds: 1, SampleUserID: 1, StorageTTLSeconds: 1, StorageCleanupSeconds: 1}
	if err := cfg.normalize(); err == nil {
		t.Fatalf("expected scheme error")
	}
}
