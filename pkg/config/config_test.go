package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/rcanvas/pkg/log"
	"github.com/cuemby/rcanvas/pkg/types"
)

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
bindAddr: "127.0.0.1:9000"
dataDir: "/var/lib/rcanvas"
log:
  level: debug
  jsonOutput: false
session:
  defaultBehavior: manual_commit_by_admin
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.BindAddr)
	assert.Equal(t, "/var/lib/rcanvas", cfg.DataDir)
	assert.Equal(t, log.DebugLevel, cfg.Log.ResolvedLevel())
	assert.False(t, cfg.Log.JSONOutput)
	assert.Equal(t, types.ManualCommitByAdmin, cfg.Session.SessionBehavior())
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDefaultSessionBehaviorIsAutoTerminate(t *testing.T) {
	assert.Equal(t, types.AutoTerminateWhenEmpty, Default().Session.SessionBehavior())
}

func TestUnrecognizedLogLevelFallsBackToInfo(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "verbose"
	assert.Equal(t, log.InfoLevel, cfg.Log.ResolvedLevel())
}
