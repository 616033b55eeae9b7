package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestFill(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "3f9c2ab81d"},
			{Key: "vcs.time", Value: "2025-01-02T10:00:00Z"},
		},
	}

	got := fill(Info{Version: unsetVersion, Commit: unsetCommit, Date: unsetDate}, bi)
	if got.Version != "v0.3.1" || got.Commit != "3f9c2ab81d" || got.Date != "2025-01-02T10:00:00Z" {
		t.Errorf("fill() = %+v", got)
	}

	got = fill(Info{Version: "v1.0.0", Commit: "abc", Date: "today"}, bi)
	if got.Version != "v1.0.0" || got.Commit != "abc" || got.Date != "today" {
		t.Errorf("ldflags values should win: %+v", got)
	}

	got = fill(Info{Version: unsetVersion}, &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
	if got.Version != unsetVersion {
		t.Errorf("(devel) should not replace the version: %+v", got)
	}
}

func TestShortCommit(t *testing.T) {
	if got := (Info{Commit: "3f9c2ab81d"}).ShortCommit(); got != "3f9c2ab" {
		t.Errorf("ShortCommit() = %q", got)
	}
	if got := (Info{Commit: "none"}).ShortCommit(); got != "none" {
		t.Errorf("ShortCommit() = %q", got)
	}
}

func TestTemplate(t *testing.T) {
	tmpl := Template()
	if !strings.HasPrefix(tmpl, "{{.Name}} ") || !strings.Contains(tmpl, Get().GoVersion) {
		t.Errorf("Template() = %q", tmpl)
	}
}
