// Package misc keeps program identity: name, version and source revision.
package misc

import (
	"runtime/debug"
)

// Set with -ldflags "-X cssb/misc.version=... -X cssb/misc.gitHash=..."
var (
	version = ""
	gitHash = ""
	appName = "cssb"
)

// GetAppName returns program name without extension.
func GetAppName() string {
	return appName
}

// GetVersion returns program version, module version from build info when not
// set at link time.
func GetVersion() string {
	if version != "" {
		return version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" {
		return bi.Main.Version
	}
	return "(devel)"
}

// GetGitHash returns source revision the program was built from.
func GetGitHash() string {
	if gitHash != "" {
		return gitHash
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
