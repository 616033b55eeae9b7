// Package buildinfo reports which rankorder build is running.
//
// Release builds set the variables with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/rankorder/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/rankorder/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/rankorder/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Binaries built with `go install` carry no ldflags; [Get] then falls back to
// the module version and VCS stamp recorded by the toolchain.
package buildinfo

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

const (
	unsetVersion = "dev"
	unsetCommit  = "none"
	unsetDate    = "unknown"
)

var (
	Version = unsetVersion
	Commit  = unsetCommit
	Date    = unsetDate
)

// Info is the build description printed by --version and served by
// GET /healthz.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go"`
}

// Get returns the build description. Values set with ldflags win over the
// toolchain's build stamp.
func Get() Info {
	info := Info{Version: Version, Commit: Commit, Date: Date, GoVersion: runtime.Version()}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	return fill(info, bi)
}

func fill(info Info, bi *debug.BuildInfo) Info {
	if info.Version == unsetVersion && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch {
		case s.Key == "vcs.revision" && info.Commit == unsetCommit:
			info.Commit = s.Value
		case s.Key == "vcs.time" && info.Date == unsetDate:
			info.Date = s.Value
		}
	}
	return info
}

// ShortCommit returns the commit abbreviated to 7 characters.
func (i Info) ShortCommit() string {
	if len(i.Commit) > 7 {
		return i.Commit[:7]
	}
	return i.Commit
}

// Template returns the cobra version template, e.g.
// "rankorder v1.2.0 (3f9c2ab, built 2025-01-02T10:00:00Z, go1.24.0)".
func Template() string {
	i := Get()
	return fmt.Sprintf("{{.Name}} %s (%s, built %s, %s)\n", i.Version, i.ShortCommit(), i.Date, i.GoVersion)
}
