package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Recognition.Threshold != 0.6 {
		t.Errorf("threshold = %f, want 0.6", cfg.Recognition.Threshold)
	}
	if cfg.Embedding.Dim != 512 {
		t.Errorf("dim = %d, want 512", cfg.Embedding.Dim)
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("driver = %s, want postgres", cfg.Database.Driver)
	}
	if cfg.Capture.DurationMs != 6000 || cfg.Capture.FPS != 2 {
		t.Errorf("capture = %+v, want 6000ms at 2fps", cfg.Capture)
	}
	if cfg.Match.UseIndex {
		t.Error("index should be off by default")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("RECOGNITION_THRESHOLD", "0.75")
	t.Setenv("EMBEDDING_DIM", "128")
	t.Setenv("DATABASE_DRIVER", "memory")
	t.Setenv("MATCH_USE_INDEX", "true")

	cfg := Load()

	if cfg.Recognition.Threshold != 0.75 {
		t.Errorf("threshold = %f, want 0.75", cfg.Recognition.Threshold)
	}
	if cfg.Embedding.Dim != 128 {
		t.Errorf("dim = %d, want 128", cfg.Embedding.Dim)
	}
	if cfg.Database.Driver != "memory" {
		t.Errorf("driver = %s, want memory", cfg.Database.Driver)
	}
	if !cfg.Match.UseIndex {
		t.Error("index should be enabled")
	}
}

func TestLoadRejectsInvalidThreshold(t *testing.T) {
	tests := []string{"0", "-0.5", "1.5", "banana"}
	for _, val := range tests {
		t.Run(val, func(t *testing.T) {
			t.Setenv("RECOGNITION_THRESHOLD", val)
			cfg := Load()
			if cfg.Recognition.Threshold != 0.6 {
				t.Errorf("threshold = %f, want default 0.6 for %q", cfg.Recognition.Threshold, val)
			}
		})
	}
}

func TestLocation(t *testing.T) {
	c := AttendanceConfig{Timezone: "Europe/Prague"}
	loc, err := c.Location()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc.String() != "Europe/Prague" {
		t.Errorf("location = %s", loc)
	}

	empty := AttendanceConfig{}
	loc, err = empty.Location()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc != time.Local {
		t.Errorf("empty timezone should resolve to time.Local, got %s", loc)
	}
}

func TestLocationInvalid(t *testing.T) {
	c := AttendanceConfig{Timezone: "Mars/Olympus_Mons"}
	if _, err := c.Location(); err == nil {
		t.Fatal("expected error for unknown zone")
	}
}
