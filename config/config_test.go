package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"MANOSABA_ADDR", "PORT", "MANOSABA_ASSETS_DIR", "MANOSABA_PREFS_PATH",
		"MANOSABA_RENDER_WORKERS", "MANOSABA_RENDER_TIMEOUT", "MANOSABA_DEBUG",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("Addr = %q", cfg.Server.Addr)
	}
	if cfg.Assets.Dir != "assets" || cfg.Assets.PreferencesPath != "data/preferences.json" {
		t.Fatalf("unexpected assets config: %+v", cfg.Assets)
	}
	if cfg.Render.Workers != 4 || cfg.Render.Timeout != 30*time.Second {
		t.Fatalf("unexpected render config: %+v", cfg.Render)
	}
	if cfg.Debug {
		t.Fatalf("debug should default to false")
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("MANOSABA_ASSETS_DIR", "/srv/assets")
	t.Setenv("MANOSABA_PREFS_PATH", "/srv/prefs.yaml")
	t.Setenv("MANOSABA_RENDER_WORKERS", "0")
	t.Setenv("MANOSABA_RENDER_TIMEOUT", "1500ms")
	t.Setenv("MANOSABA_DEBUG", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9000" {
		t.Fatalf("Addr = %q", cfg.Server.Addr)
	}
	if cfg.Assets.Dir != "/srv/assets" || cfg.Assets.PreferencesPath != "/srv/prefs.yaml" {
		t.Fatalf("unexpected assets config: %+v", cfg.Assets)
	}
	if cfg.Render.Workers != 1 {
		t.Fatalf("workers should be clamped to 1, got %d", cfg.Render.Workers)
	}
	if cfg.Render.Timeout != 1500*time.Millisecond {
		t.Fatalf("Timeout = %v", cfg.Render.Timeout)
	}
	if !cfg.Debug {
		t.Fatalf("debug should be enabled")
	}
}

func TestAddrTakesPrecedence(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("MANOSABA_ADDR", "127.0.0.1:7000")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:7000" {
		t.Fatalf("Addr = %q", cfg.Server.Addr)
	}
}

func TestTimeoutSeconds(t *testing.T) {
	clearEnv(t)
	t.Setenv("MANOSABA_RENDER_TIMEOUT", "12")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Render.Timeout != 12*time.Second {
		t.Fatalf("Timeout = %v", cfg.Render.Timeout)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"PORT":                    "80 80",
		"MANOSABA_RENDER_WORKERS": "many",
		"MANOSABA_RENDER_TIMEOUT": "soon",
		"MANOSABA_DEBUG":          "maybe",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", key, value)
			}
		})
	}
}
