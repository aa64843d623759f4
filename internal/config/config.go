package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

type Config struct {
	SysfsDir     string   `json:"sysfs_dir"`
	UdevDataDir  string   `json:"udev_data_dir"`
	Subsystem    string   `json:"subsystem"`
	WaitTimeout  Duration `json:"wait_timeout"`
	PollInterval Duration `json:"poll_interval"`
}

// Duration accepts either a Go duration string ("30s") or nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(v)
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid duration %s", string(data))
	}
	*d = Duration(n)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

var (
	ConfigDir  = "/etc/devinit"
	ConfigFile = filepath.Join(ConfigDir, "config.json")
	EnvConfig  = "DEVINIT_CONFIG"
	config     = Default()
)

func Default() Config {
	return Config{
		SysfsDir:     "/sys",
		UdevDataDir:  "/run/udev/data",
		Subsystem:    "block",
		WaitTimeout:  Duration(30 * time.Second),
		PollInterval: Duration(500 * time.Millisecond),
	}
}

// Path returns the config file in effect: the explicit path if given,
// then $DEVINIT_CONFIG, then ConfigFile.
func Path(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	return ConfigFile
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("config file %s corrupted: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.SysfsDir == "" {
		return fmt.Errorf("sysfs_dir must be set")
	}
	if c.UdevDataDir == "" {
		return fmt.Errorf("udev_data_dir must be set")
	}
	if c.Subsystem == "" {
		return fmt.Errorf("subsystem must be set")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive")
	}
	if c.WaitTimeout < 0 {
		return fmt.Errorf("wait_timeout must not be negative")
	}
	return nil
}

func InitConfig(explicit string) error {
	cfg, err := Load(Path(explicit))
	if err != nil {
		return err
	}
	config = cfg
	return nil
}

func GetConfig() Config {
	return config
}

// SetConfig replaces the process-wide config; tests use it to point the
// tool at fixture trees.
func SetConfig(c Config) {
	config = c
}
