// Package misc provides build identity helpers.
package misc

import "runtime/debug"

// set by the linker during release builds
var appVersion = "development"

// GetAppName returns program name to be used in logs and messages.
func GetAppName() string {
	return "wyvern"
}

// GetVersion returns program version.
func GetVersion() string {
	if appVersion != "development" {
		return appVersion
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}
	return appVersion
}

// GetGitHash returns VCS revision recorded in build info, if any.
func GetGitHash() string {
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
