// Package config loads the canvas server's YAML configuration file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cuemby/rcanvas/pkg/log"
	"github.com/cuemby/rcanvas/pkg/types"
)

// Config is the top-level shape of the server's YAML configuration file.
type Config struct {
	BindAddr string    `yaml:"bindAddr"`
	DataDir  string    `yaml:"dataDir"`
	Log      LogConfig `yaml:"log"`
	Session  Session   `yaml:"session"`
}

// LogConfig mirrors pkg/log.Config's fields for YAML decoding.
type LogConfig struct {
	Level      string `yaml:"level"`
	JSONOutput bool   `yaml:"jsonOutput"`
}

// ResolvedLevel returns the configured level as a log.Level, defaulting
// to info for an empty or unrecognized value rather than erroring.
func (l LogConfig) ResolvedLevel() log.Level {
	switch log.Level(l.Level) {
	case log.DebugLevel, log.InfoLevel, log.WarnLevel, log.ErrorLevel:
		return log.Level(l.Level)
	default:
		return log.InfoLevel
	}
}

// Session holds the server-wide defaults applied to every session a plain
// client connect creates; sessions opened through the admin API are always
// manual-commit.
type Session struct {
	// DefaultBehavior is "auto_terminate_when_empty" or
	// "manual_commit_by_admin". An empty value defaults to
	// auto_terminate_when_empty, matching types.SessionBehavior's zero
	// value.
	DefaultBehavior string `yaml:"defaultBehavior"`
}

// Default returns the configuration a server boots with when no file is
// given: all interfaces on 8787, a ./data data directory, info-level JSON
// logging, and auto-terminating sessions.
func Default() Config {
	return Config{
		BindAddr: "0.0.0.0:8787",
		DataDir:  "./data",
		Log:      LogConfig{Level: "info", JSONOutput: true},
		Session:  Session{DefaultBehavior: "auto_terminate_when_empty"},
	}
}

// Load reads and parses the YAML file at path, starting from Default()
// so an omitted field keeps its default rather than zeroing out.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// SessionBehavior resolves DefaultBehavior to its types.SessionBehavior
// value, defaulting to AutoTerminateWhenEmpty for an unrecognized or
// empty string rather than erroring — a typo here should degrade to the
// safer, self-cleaning behavior, not refuse to boot.
func (s Session) SessionBehavior() types.SessionBehavior {
	if s.DefaultBehavior == "manual_commit_by_admin" {
		return types.ManualCommitByAdmin
	}
	return types.AutoTerminateWhenEmpty
}
