package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfig(t, `
sites:
  - name: PlayBack
    url: https://www.playback.ru/
  - url: https://volochek.life
`))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Crawl.Delay != 250*time.Millisecond {
		t.Errorf("Crawl.Delay = %v, want 250ms", cfg.Crawl.Delay)
	}
	if cfg.Crawl.Workers != runtime.GOMAXPROCS(0) {
		t.Errorf("Crawl.Workers = %d, want %d", cfg.Crawl.Workers, runtime.GOMAXPROCS(0))
	}
	if cfg.Morphology.Language != "russian" {
		t.Errorf("Morphology.Language = %q, want russian", cfg.Morphology.Language)
	}
	if len(cfg.Sites) != 2 {
		t.Fatalf("len(Sites) = %d, want 2", len(cfg.Sites))
	}
	if cfg.Sites[0].URL != "https://www.playback.ru" {
		t.Errorf("Sites[0].URL = %q, trailing slash should be trimmed", cfg.Sites[0].URL)
	}
	if cfg.Sites[1].Name != "volochek.life" {
		t.Errorf("Sites[1].Name = %q, want host as fallback name", cfg.Sites[1].Name)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfig(t, `
server:
  port: "9000"
sites:
  - name: Example
    url: https://example.com
`))
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("STORAGE_DRIVER", "memory")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Errorf("Server.Port = %q, want env override 7070", cfg.Server.Port)
	}
	if cfg.Storage.Driver != "memory" {
		t.Errorf("Storage.Driver = %q, want memory", cfg.Storage.Driver)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no sites", "server:\n  port: \"8080\"\n"},
		{"relative url", "sites:\n  - name: bad\n    url: /relative\n"},
		{"ftp url", "sites:\n  - name: bad\n    url: ftp://example.com\n"},
		{"unknown driver", "storage:\n  driver: mongo\nsites:\n  - url: https://example.com\n"},
		{"unknown fetch mode", "fetch:\n  mode: carrier-pigeon\nsites:\n  - url: https://example.com\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("CONFIG_PATH", writeConfig(t, tc.body))
			if _, err := Load(); err == nil {
				t.Fatalf("Load() expected error")
			}
		})
	}
}
