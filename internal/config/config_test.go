package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"SOURCES_FILE", "OUTPUT_FILE", "TRANSLATION_CACHE_FILE",
		"MAX_ITEMS", "PER_SOURCE_LIMIT", "REQUEST_TIMEOUT_SECONDS",
		"ENABLE_D1_SYNC", "D1_DATABASE_NAME", "D1_REMOTE",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.SourcesPath != "data/news_sources.yaml" {
		t.Errorf("SourcesPath = %q", cfg.SourcesPath)
	}
	if cfg.OutputPath != "data/news.json" {
		t.Errorf("OutputPath = %q", cfg.OutputPath)
	}
	if cfg.CachePath != "data/translation_cache.json" {
		t.Errorf("CachePath = %q", cfg.CachePath)
	}
	if cfg.MaxItems != 80 {
		t.Errorf("MaxItems = %d, want 80", cfg.MaxItems)
	}
	if cfg.PerSourceLimit != 15 {
		t.Errorf("PerSourceLimit = %d, want 15", cfg.PerSourceLimit)
	}
	if cfg.RequestTimeout != 20*time.Second {
		t.Errorf("RequestTimeout = %v, want 20s", cfg.RequestTimeout)
	}
	if !cfg.D1Enabled || !cfg.D1Remote {
		t.Error("d1 sync defaults to enabled and remote")
	}
	if cfg.D1DatabaseName != "cyrus-ai-news" {
		t.Errorf("D1DatabaseName = %q", cfg.D1DatabaseName)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MAX_ITEMS", "25")
	t.Setenv("PER_SOURCE_LIMIT", "5")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "7")
	t.Setenv("SOURCES_FILE", "conf/feeds.json")

	cfg := Load()
	if cfg.MaxItems != 25 || cfg.PerSourceLimit != 5 {
		t.Errorf("limits = (%d, %d), want (25, 5)", cfg.MaxItems, cfg.PerSourceLimit)
	}
	if cfg.RequestTimeout != 7*time.Second {
		t.Errorf("RequestTimeout = %v, want 7s", cfg.RequestTimeout)
	}
	if cfg.SourcesPath != "conf/feeds.json" {
		t.Errorf("SourcesPath = %q", cfg.SourcesPath)
	}
}

func TestBoolParsing(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"0", false},
		{"false", false},
		{"FALSE", false},
		{"no", false},
		{"off", false},
		{"1", true},
		{"true", true},
		{"yes", true},
		{"anything", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("ENABLE_D1_SYNC", tt.value)
			if got := Load().D1Enabled; got != tt.want {
				t.Errorf("ENABLE_D1_SYNC=%q parsed as %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestInvalidIntFallsBack(t *testing.T) {
	t.Setenv("MAX_ITEMS", "not-a-number")
	if got := Load().MaxItems; got != 80 {
		t.Errorf("MaxItems = %d, want default 80 for unparsable value", got)
	}
}
