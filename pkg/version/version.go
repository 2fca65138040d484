// Package version reports the build version of stocktrack.
package version

import "runtime/debug"

// version is overridden at link time: -ldflags "-X stocktrack/pkg/version.version=v1.2.3".
var version = ""

// Version returns the linked version, the module version for `go install` builds, or "dev".
func Version() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}
