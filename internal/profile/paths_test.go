package profile

import (
	"strings"
	"testing"
)

func TestPathsAreUnderProfileDir(t *testing.T) {
	dir := Dir("work")
	for name, path := range map[string]string{
		"lock":     LockPath("work"),
		"cache db": CacheDBPath("work"),
		"log":      LogPath("work"),
		"settings": SettingsPath("work"),
	} {
		if !strings.HasPrefix(path, dir) {
			t.Errorf("%s path %q not under profile dir %q", name, path, dir)
		}
	}
}

func TestDirIsolatesProfiles(t *testing.T) {
	if Dir("a") == Dir("b") {
		t.Error("distinct profiles share a directory")
	}
}
