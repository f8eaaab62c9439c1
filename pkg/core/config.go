package core

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// AppName names the per-user config and cache directories.
const AppName = "cargo-sysdeps"

// Config holds cargo-sysdeps configuration
type Config struct {
	CacheDir      string        `yaml:"cache_dir"`
	Debug         bool          `yaml:"debug"`
	Mirrors       Mirrors       `yaml:"mirrors"`
	ContentsArch  string        `yaml:"contents_arch"`
	PacmanArch    string        `yaml:"pacman_arch"`
	DistroInfoURL string        `yaml:"distro_info_url"`
	OverridesFile string        `yaml:"overrides_file"`
	ProbeMethod   string        `yaml:"probe_method"`
	Timeout       time.Duration `yaml:"timeout"`
}

// Mirrors holds the repository base URL used for each distribution family.
type Mirrors struct {
	Debian string `yaml:"debian"`
	Ubuntu string `yaml:"ubuntu"`
	Arch   string `yaml:"arch"`
}

const (
	DefaultDebianMirror  = "http://deb.debian.org/debian"
	DefaultUbuntuMirror  = "http://archive.ubuntu.com/ubuntu"
	DefaultArchMirror    = "https://mirrors.kernel.org/archlinux"
	DefaultDistroInfoURL = "https://salsa.debian.org/debian/distro-info-data/-/raw/main"
	DefaultContentsArch  = "amd64"
	DefaultPacmanArch    = "x86_64"
	DefaultProbeMethod   = "probe"
)

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		CacheDir: getDefaultCacheDir(),
		Mirrors: Mirrors{
			Debian: DefaultDebianMirror,
			Ubuntu: DefaultUbuntuMirror,
			Arch:   DefaultArchMirror,
		},
		ContentsArch:  DefaultContentsArch,
		PacmanArch:    DefaultPacmanArch,
		DistroInfoURL: DefaultDistroInfoURL,
		ProbeMethod:   DefaultProbeMethod,
	}
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/cargo-sysdeps/config.yaml or its
// platform equivalent.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName, "config.yaml"), nil
}

// LoadConfig loads configuration from file. A missing file yields defaults;
// fields absent from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return DefaultConfig(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.fillDefaults()

	return cfg, nil
}

// fillDefaults restores defaults for keys that were present but empty.
func (c *Config) fillDefaults() {
	def := DefaultConfig()
	if c.CacheDir == "" {
		c.CacheDir = def.CacheDir
	}
	if c.Mirrors.Debian == "" {
		c.Mirrors.Debian = def.Mirrors.Debian
	}
	if c.Mirrors.Ubuntu == "" {
		c.Mirrors.Ubuntu = def.Mirrors.Ubuntu
	}
	if c.Mirrors.Arch == "" {
		c.Mirrors.Arch = def.Mirrors.Arch
	}
	if c.ContentsArch == "" {
		c.ContentsArch = def.ContentsArch
	}
	if c.PacmanArch == "" {
		c.PacmanArch = def.PacmanArch
	}
	if c.DistroInfoURL == "" {
		c.DistroInfoURL = def.DistroInfoURL
	}
	if c.ProbeMethod == "" {
		c.ProbeMethod = def.ProbeMethod
	}
}

func getDefaultCacheDir() string {
	if path := os.Getenv("CARGO_SYSDEPS_CACHE_DIR"); path != "" {
		return path
	}

	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), AppName)
	}

	return filepath.Join(dir, AppName)
}
