package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Addr)
	}
	if cfg.DBPath != "gymtrack.db" {
		t.Errorf("DBPath = %q, want gymtrack.db", cfg.DBPath)
	}
	if !cfg.Notifications {
		t.Error("Notifications should default on")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GYMTRACK_ADDR", ":9090")
	t.Setenv("GYMTRACK_NOTIFICATIONS", "off")

	cfg := Load()
	if cfg.Addr != ":9090" {
		t.Errorf("Addr = %q, want :9090", cfg.Addr)
	}
	if cfg.Notifications {
		t.Error("Notifications = on, want off")
	}
}
