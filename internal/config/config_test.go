package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "none.json"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"sysfs_dir": "/host/sys",
		"wait_timeout": "2m",
		"poll_interval": 1000000
	}`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/host/sys", cfg.SysfsDir)
	assert.Equal(t, "/run/udev/data", cfg.UdevDataDir)
	assert.Equal(t, "block", cfg.Subsystem)
	assert.Equal(t, Duration(2*time.Minute), cfg.WaitTimeout)
	assert.Equal(t, Duration(time.Millisecond), cfg.PollInterval)
}

func TestLoadCorrupted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"wait_timeout": "soon"}`), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"poll_interval": "0s"}`), 0644))
	_, err := Load(path)
	assert.ErrorContains(t, err, "poll_interval")
}

func TestPath(t *testing.T) {
	t.Setenv(EnvConfig, "")
	assert.Equal(t, ConfigFile, Path(""))
	assert.Equal(t, "/x.json", Path("/x.json"))

	t.Setenv(EnvConfig, "/env.json")
	assert.Equal(t, "/env.json", Path(""))
	assert.Equal(t, "/x.json", Path("/x.json"))
}

func TestInitConfig(t *testing.T) {
	defer SetConfig(Default())
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"subsystem": "nvme"}`), 0644))

	require.NoError(t, InitConfig(path))
	assert.Equal(t, "nvme", GetConfig().Subsystem)
}

func TestDurationRoundTrip(t *testing.T) {
	data, err := Duration(1500 * time.Millisecond).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"1.5s"`, string(data))

	var d Duration
	require.NoError(t, d.UnmarshalJSON(data))
	assert.Equal(t, Duration(1500*time.Millisecond), d)
}
