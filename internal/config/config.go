package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config represents the global ~/.justify/config.toml.
type Config struct {
	DefaultProfile string `toml:"default_profile"`
}

// Profile represents a per-profile profile.toml with backend settings.
type Profile struct {
	ServerURL             string `toml:"server_url"`
	PollIntervalSeconds   int    `toml:"poll_interval_seconds"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
}

// DefaultProfile returns a profile pointing at a local development backend.
func DefaultProfile() *Profile {
	return &Profile{
		ServerURL:             "http://localhost/justify/api",
		PollIntervalSeconds:   5,
		RequestTimeoutSeconds: 15,
	}
}

// PollInterval returns the refresh interval as a duration.
func (p *Profile) PollInterval() time.Duration {
	if p.PollIntervalSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(p.PollIntervalSeconds) * time.Second
}

// RequestTimeout returns the per-request timeout as a duration.
func (p *Profile) RequestTimeout() time.Duration {
	if p.RequestTimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(p.RequestTimeoutSeconds) * time.Second
}

// Load reads config from the given path. Returns zero config and error if file missing.
func Load(path string) (*Config, error) {
	var cfg Config
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	return writeTOML(path, cfg)
}

// LoadProfile reads a per-profile settings file. Missing file yields defaults.
func LoadProfile(path string) (*Profile, error) {
	p := DefaultProfile()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return p, nil
	}
	if _, err := toml.DecodeFile(path, p); err != nil {
		return nil, err
	}
	return p, nil
}

// SaveProfile writes per-profile settings, creating parent dirs as needed.
func SaveProfile(path string, p *Profile) error {
	return writeTOML(path, p)
}

func writeTOML(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(v)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}
