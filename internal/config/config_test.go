package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")

	cfg := &Config{DefaultProfile: "work"}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.DefaultProfile != "work" {
		t.Errorf("DefaultProfile = %q, want %q", loaded.DefaultProfile, "work")
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load("/nonexistent/config.toml")
	if err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestSavePermissions(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")

	if err := Save(path, &Config{DefaultProfile: "main"}); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	perm := info.Mode().Perm()
	if perm != 0600 {
		t.Errorf("file permission = %o, want 0600", perm)
	}
}

func TestLoadProfileMissingUsesDefaults(t *testing.T) {
	p, err := LoadProfile(filepath.Join(t.TempDir(), "profile.toml"))
	if err != nil {
		t.Fatalf("LoadProfile() error = %v", err)
	}
	if p.ServerURL == "" {
		t.Error("default ServerURL is empty")
	}
	if p.PollInterval() != 5*time.Second {
		t.Errorf("PollInterval = %v, want 5s", p.PollInterval())
	}
}

func TestProfileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.toml")
	in := &Profile{
		ServerURL:             "https://portal.example.gov/api",
		PollIntervalSeconds:   10,
		RequestTimeoutSeconds: 30,
	}
	if err := SaveProfile(path, in); err != nil {
		t.Fatalf("SaveProfile() error = %v", err)
	}

	out, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile() error = %v", err)
	}
	if out.ServerURL != in.ServerURL {
		t.Errorf("ServerURL = %q, want %q", out.ServerURL, in.ServerURL)
	}
	if out.PollInterval() != 10*time.Second {
		t.Errorf("PollInterval = %v, want 10s", out.PollInterval())
	}
	if out.RequestTimeout() != 30*time.Second {
		t.Errorf("RequestTimeout = %v, want 30s", out.RequestTimeout())
	}
}
