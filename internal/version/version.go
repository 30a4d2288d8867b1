package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	// Version is the semantic version of the build.
	Version = "0.1.0"
	// Commit is the git revision the binary was built from.
	Commit = "none"
	// BuildTime is the UTC build timestamp.
	BuildTime = "unknown"
)

// Short returns only the semantic version string.
func Short() string {
	return Version
}

// Full returns version, commit, build time and Go runtime in one line.
func Full() string {
	commit, builtAt := Commit, BuildTime

	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			switch {
			case setting.Key == "vcs.revision" && commit == "none":
				commit = setting.Value
			case setting.Key == "vcs.time" && builtAt == "unknown":
				builtAt = setting.Value
			}
		}
	}

	return fmt.Sprintf("version: %s, commit: %s, built at: %s, go: %s", Version, commit, builtAt, runtime.Version())
}
