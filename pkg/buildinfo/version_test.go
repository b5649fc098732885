package buildinfo

import (
	"strings"
	"testing"
)

func TestGetPrefersLdflags(t *testing.T) {
	oldV, oldC, oldD := Version, Commit, Date
	defer func() { Version, Commit, Date = oldV, oldC, oldD }()

	Version, Commit, Date = "v1.2.3", "abc123", "2024-03-05T10:00:00Z"
	got := Get()
	if got != (Info{Version: "v1.2.3", Commit: "abc123", Date: "2024-03-05T10:00:00Z"}) {
		t.Errorf("Get() = %+v", got)
	}
	if !strings.Contains(Template(), "version v1.2.3") {
		t.Errorf("Template() = %q", Template())
	}
	if !strings.HasPrefix(String(), "version: v1.2.3\n") {
		t.Errorf("String() = %q", String())
	}
}

func TestGetDefaultsNeverEmpty(t *testing.T) {
	got := Get()
	if got.Version == "" || got.Commit == "" || got.Date == "" {
		t.Errorf("Get() has empty fields: %+v", got)
	}
}
