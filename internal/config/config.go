// Package config holds the small set of tunables the engine needs beyond
// the location list itself: poll interval, barrier drain timeout and FTP
// dial timeout. spec.md never mandates a config file, so every field has a
// sane default and loading one is optional.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the engine's tunable parameters.
type Config struct {
	// PollInterval is how long the coordinator sleeps between the end of
	// one cycle and the start barrier of the next. spec.md doesn't name a
	// value; rclone-style polling backends commonly default to a few
	// seconds, which is what we use here.
	PollInterval time.Duration `yaml:"poll_interval"`

	// DrainTimeout is how long the coordinator waits for the first event
	// of a cycle before deciding the batch is empty (spec.md §4.D: "e.g.
	// 1s").
	DrainTimeout time.Duration `yaml:"drain_timeout"`

	// FTPDialTimeout bounds how long an FTP adapter operation waits to
	// establish its per-operation connection.
	FTPDialTimeout time.Duration `yaml:"ftp_dial_timeout"`
}

// Default returns the built-in tunables used when no config file is given.
func Default() Config {
	return Config{
		PollInterval:   2 * time.Second,
		DrainTimeout:   1 * time.Second,
		FTPDialTimeout: 30 * time.Second,
	}
}

// Load reads a YAML config file and overlays it on top of Default(). A
// missing or empty field keeps its default value.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var overlay struct {
		PollInterval   *time.Duration `yaml:"poll_interval"`
		DrainTimeout   *time.Duration `yaml:"drain_timeout"`
		FTPDialTimeout *time.Duration `yaml:"ftp_dial_timeout"`
	}
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return Config{}, err
	}
	if overlay.PollInterval != nil {
		cfg.PollInterval = *overlay.PollInterval
	}
	if overlay.DrainTimeout != nil {
		cfg.DrainTimeout = *overlay.DrainTimeout
	}
	if overlay.FTPDialTimeout != nil {
		cfg.FTPDialTimeout = *overlay.FTPDialTimeout
	}
	return cfg, nil
}
