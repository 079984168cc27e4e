package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	kerrors "github.com/matzehuels/kruskal/pkg/errors"
	"github.com/matzehuels/kruskal/pkg/server"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), configFileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("LoadConfig() = %+v, want defaults", cfg)
	}
	if cfg.Server.Addr != server.DefaultAddr {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, server.DefaultAddr)
	}
}

func TestLoadConfigXDGFile(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", base)
	if err := os.MkdirAll(filepath.Join(base, appName), 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(base, appName, configFileName)
	if err := os.WriteFile(path, []byte(`output_format = "json"`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.OutputFormat != "json" {
		t.Errorf("OutputFormat = %q, want json", cfg.OutputFormat)
	}
	if cfg.AutoplayInterval != defaultInterval {
		t.Errorf("AutoplayInterval = %s, want default %s", cfg.AutoplayInterval, defaultInterval)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
autoplay_interval = "250ms"
no_cache = true
output_format = "svg"

[server]
addr = "127.0.0.1:9090"

[history]
dir = "/tmp/kruskal-history"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	want := Config{
		AutoplayInterval: 250 * time.Millisecond,
		NoCache:          true,
		OutputFormat:     "svg",
		Server:           ServerConfig{Addr: "127.0.0.1:9090"},
		History:          HistoryConfig{Dir: "/tmp/kruskal-history"},
	}
	if cfg != want {
		t.Errorf("LoadConfig() = %+v, want %+v", cfg, want)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unknown key", `autoplay = "1s"`, "unknown keys: autoplay"},
		{"interval too short", `autoplay_interval = "1ms"`, "out of range"},
		{"interval too long", `autoplay_interval = "1m"`, "out of range"},
		{"bad format", `output_format = "png"`, "invalid format"},
		{"bad toml", `output_format = `, "load config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("LoadConfig() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfigExplicitMissing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Fatal("LoadConfig() with a missing explicit path should fail")
	}
}

func TestValidateInterval(t *testing.T) {
	for _, d := range []time.Duration{minInterval, defaultInterval, maxInterval} {
		if err := validateInterval(d); err != nil {
			t.Errorf("validateInterval(%s) error: %v", d, err)
		}
	}
	err := validateInterval(10 * time.Millisecond)
	if !kerrors.Is(err, kerrors.ErrCodeInvalidInput) {
		t.Errorf("validateInterval(10ms) = %v, want INVALID_INPUT", err)
	}
}
