package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	kerrors "github.com/matzehuels/kruskal/pkg/errors"
	"github.com/matzehuels/kruskal/pkg/pipeline"
	"github.com/matzehuels/kruskal/pkg/server"
)

// Defaults applied before the config file is read.
const (
	defaultInterval = 500 * time.Millisecond
	minInterval     = 50 * time.Millisecond
	maxInterval     = 5 * time.Second
	configFileName  = "config.toml"
)

// Config is the persistent CLI configuration. Flags override it.
//
//	autoplay_interval = "250ms"
//	no_cache = false
//	output_format = "svg"
//
//	[server]
//	addr = ":9090"
//
//	[history]
//	dir = "/var/lib/kruskal/history"
type Config struct {
	AutoplayInterval time.Duration `toml:"autoplay_interval"`
	NoCache          bool          `toml:"no_cache"`
	OutputFormat     string        `toml:"output_format"`
	Server           ServerConfig  `toml:"server"`
	History          HistoryConfig `toml:"history"`
}

// ServerConfig configures `kruskal serve`.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// HistoryConfig locates the saved trace store.
type HistoryConfig struct {
	Dir string `toml:"dir"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		AutoplayInterval: defaultInterval,
		OutputFormat:     pipeline.FormatDOT,
		Server:           ServerConfig{Addr: server.DefaultAddr},
	}
}

// LoadConfig reads path on top of the defaults. An empty path means the
// XDG location, which may be absent. An explicit path must exist.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, configFileName)
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("load config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if err := validateInterval(c.AutoplayInterval); err != nil {
		return fmt.Errorf("autoplay_interval: %w", err)
	}
	if err := pipeline.ValidateFormat(c.OutputFormat); err != nil {
		return err
	}
	return nil
}

// validateInterval checks an autoplay delay against the supported range.
func validateInterval(d time.Duration) error {
	if d < minInterval || d > maxInterval {
		return kerrors.New(kerrors.ErrCodeInvalidInput, "interval %s out of range [%s, %s]", d, minInterval, maxInterval)
	}
	return nil
}
