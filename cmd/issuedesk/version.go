package main

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version information - injected at build time via ldflags
var (
	Version   = "dev"
	Build     = "unknown"
	BuildTime = ""
)

// buildVersion returns the version line shown by --version. Development
// builds fall back to the VCS revision recorded by the Go toolchain.
func buildVersion() string {
	v := Version
	if Build != "unknown" && Build != "" {
		v += fmt.Sprintf(" (build: %s)", Build)
	} else if Version == "dev" {
		if rev := vcsRevision(); rev != "" {
			v += fmt.Sprintf(" (commit: %s)", rev)
		}
	}
	if BuildTime != "" {
		v += fmt.Sprintf(" [%s]", BuildTime)
	}
	return fmt.Sprintf("%s %s/%s %s", v, runtime.GOOS, runtime.GOARCH, runtime.Version())
}

func vcsRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" && len(setting.Value) > 7 {
			return setting.Value[:7]
		}
	}
	return ""
}
