package version

import (
	"runtime"
	"strings"
	"testing"
)

func saveAndRestore() func() {
	origVersion, origCommit, origBranch, origBuildTime, origGoVersion :=
		Version, GitCommit, GitBranch, BuildTime, GoVersion
	return func() {
		Version = origVersion
		GitCommit = origCommit
		GitBranch = origBranch
		BuildTime = origBuildTime
		GoVersion = origGoVersion
	}
}

func setBuild(version, commit, branch, buildTime, goVersion string) {
	Version, GitCommit, GitBranch, BuildTime, GoVersion = version, commit, branch, buildTime, goVersion
}

func TestGetVersionInfoPlatform(t *testing.T) {
	defer saveAndRestore()()
	setBuild("dev", "", "", "", "")

	info := GetVersionInfo()
	if want := runtime.GOOS + "/" + runtime.GOARCH; info.Platform != want {
		t.Errorf("Platform = %q, want %q", info.Platform, want)
	}
	if info.GoVersion == "" {
		t.Error("GoVersion should fall back to the toolchain version")
	}
	if info.IsRelease {
		t.Error("dev should not be a release")
	}
}

func TestGetVersionInfoLdflags(t *testing.T) {
	defer saveAndRestore()()
	setBuild("1.2.0", "abc1234", "main", "2026-01-15T10:30:00Z", "go1.26.0")

	info := GetVersionInfo()
	if !info.IsRelease || info.GitCommit != "abc1234" || info.GoVersion != "go1.26.0" {
		t.Errorf("ldflags values not reported: %+v", info)
	}
	if info.BuildDate.Year() != 2026 {
		t.Errorf("expected build year 2026, got %d", info.BuildDate.Year())
	}
}

func TestShortCommit(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"abc", "abc"},
		{"abc1234", "abc1234"},
		{"abc1234def5678", "abc1234"},
	}
	for _, tc := range tests {
		if got := shortCommit(tc.in); got != tc.want {
			t.Errorf("shortCommit(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestGetFullVersionFeatureBranch(t *testing.T) {
	defer saveAndRestore()()
	setBuild("1.2.0", "abc1234", "feature/pipe", "2026-01-15T10:30:00Z", "go1.26.0")

	fv := GetFullVersion()
	if !strings.HasPrefix(fv, "1.2.0-abc1234-feature/pipe") || !strings.Contains(fv, "(built 2026-01-15T10:30:00Z)") {
		t.Errorf("unexpected full version %q", fv)
	}
}

func TestAbout(t *testing.T) {
	defer saveAndRestore()()
	setBuild("1.2.0", "abc1234", "", "", "go1.26.0")

	about := About()
	if !strings.HasPrefix(about, "shellcmd 1.2.0-abc1234") {
		t.Errorf("expected name and version prefix, got %q", about)
	}
	if !strings.Contains(about, "go1.26.0") {
		t.Errorf("expected go version, got %q", about)
	}
	if info := GetVersionInfo(); !strings.Contains(about, info.Platform) {
		t.Errorf("expected platform %q in %q", info.Platform, about)
	}
}
