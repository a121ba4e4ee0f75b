// Package version exposes the build version of reactpage.
package version

// Version is the build version, overridden at link time via
// -ldflags "-X github.com/rshade/reactpage/pkg/version.Version=v1.2.3".
//
//nolint:gochecknoglobals // Set by the linker at build time.
var Version = "dev"

// GetVersion returns the current build version string.
func GetVersion() string {
	return Version
}
