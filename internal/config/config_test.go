package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config should be valid: %v", err)
	}
	if cfg.PreviewQuality != 85 || cfg.AnalysisSize != 1024 || cfg.ThumbnailSize != 256 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Debug() {
		t.Error("default log level should not be debug")
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvCacheDir, dir)
	t.Setenv(EnvLogLevel, "DEBUG")
	t.Setenv(EnvPreviewQuality, "70")
	t.Setenv(EnvAnalysisSize, "512")
	t.Setenv(EnvThumbnailSize, "128")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.CacheDir != dir {
		t.Errorf("CacheDir: got %q, want %q", cfg.CacheDir, dir)
	}
	if !cfg.Debug() {
		t.Error("log level should be debug")
	}
	if cfg.PreviewQuality != 70 || cfg.AnalysisSize != 512 || cfg.ThumbnailSize != 128 {
		t.Errorf("unexpected values: %+v", cfg)
	}
	if got := cfg.ThumbnailDir(); got != filepath.Join(dir, "thumbnails") {
		t.Errorf("ThumbnailDir: got %q", got)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		value   string
		wantMsg string
	}{
		{"non-numeric quality", EnvPreviewQuality, "high", EnvPreviewQuality},
		{"quality out of range", EnvPreviewQuality, "101", "preview_quality"},
		{"tiny analysis size", EnvAnalysisSize, "8", "analysis_size"},
		{"tiny thumbnails", EnvThumbnailSize, "4", "thumbnail_size"},
		{"unknown log level", EnvLogLevel, "trace", "log_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.env, tt.value)
			_, err := Load()
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q should mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.CacheDir = ""
	if err := cfg.Validate(); err == nil {
		t.Error("empty cache dir should be rejected")
	}
}
