package handler

import (
	"net/http"
	"os"
	"runtime"
	"runtime/debug"
)

// VersionInfo contains version and build information
type VersionInfo struct {
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	BuildTime string `json:"build_time,omitempty"`
	GitCommit string `json:"git_commit,omitempty"`
}

// Build-time variables (injected via ldflags)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unset"
)

// HandleVersion returns version information about the application
func HandleVersion() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, VersionInfo{
			Version:   versionString(),
			GoVersion: runtime.Version(),
			BuildTime: BuildTime,
			GitCommit: commitString(),
		})
	}
}

// versionString prefers the ldflags value, then $VERSION
func versionString() string {
	if Version != "dev" && Version != "" {
		return Version
	}
	if env := os.Getenv("VERSION"); env != "" {
		return env
	}
	return "dev"
}

// commitString falls back to the VCS revision stamped by the go tool
func commitString() string {
	if GitCommit != "unset" && GitCommit != "" {
		return GitCommit
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return GitCommit
}
