package buildinfo

import (
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	oldVersion, oldCommit, oldDate := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = oldVersion, oldCommit, oldDate })

	Version, Commit, Date = "v1.2.3", "0123456789abcdef0123", "2026-03-01T12:00:00Z"
	info := Get()
	if info.Version != "v1.2.3" || info.Date != "2026-03-01T12:00:00Z" {
		t.Errorf("Get() = %+v", info)
	}
	if info.Commit != "0123456789ab" {
		t.Errorf("commit = %q, want it shortened to 12 characters", info.Commit)
	}
	if info.GoVersion == "" {
		t.Error("GoVersion should never be empty")
	}

	if got := Template(); !strings.HasPrefix(got, "{{.Name}} v1.2.3 (commit 0123456789ab") {
		t.Errorf("Template() = %q", got)
	}
}

func TestGetFallbacks(t *testing.T) {
	oldCommit, oldDate := Commit, Date
	t.Cleanup(func() { Commit, Date = oldCommit, oldDate })

	Commit, Date = "", ""
	info := Get()
	if info.Commit == "" || info.Date == "" {
		t.Errorf("unset stamps should fall back, got %+v", info)
	}
}
