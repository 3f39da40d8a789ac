// Package version provides build-time metadata for the agent. Version is
// sent to the server as endpoint_agent_version.
//
// All variables have sensible defaults and can be overridden at build time
// using -ldflags:
//
//	go build -ldflags "\
//	  -X 'github.com/slashdevops/endpointreg/internal/version.Version=1.0.0' \
//	  -X 'github.com/slashdevops/endpointreg/internal/version.BuildDate=$(date -u +%Y-%m-%dT%H:%M:%SZ)'"
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// devVersion is the value of Version when no -ldflags override was given.
const devVersion = "0.0.0"

var (
	// Version is the current version of the application
	Version = devVersion

	// BuildDate is the date the application was built
	BuildDate = "1970-01-01T00:00:00Z"

	// GitCommit is the commit hash the application was built from
	GitCommit = ""

	// GitBranch is the branch the application was built from
	GitBranch = ""

	// BuildUser is the user that built the application
	BuildUser = ""

	// GoVersion is the version of Go used to build the application
	GoVersion = runtime.Version()
)

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

// Effective returns the version this build reports everywhere: the ldflags
// value for release builds, otherwise the module version recorded by
// go install, otherwise the placeholder.
func Effective() string {
	if Version == devVersion {
		if v := moduleVersion(); v != "" {
			return v
		}
	}

	return Version
}

func moduleVersion() string {
	info, ok := readBuildInfo()
	if !ok || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return ""
	}

	return info.Main.Version
}

// Short returns "<app> version: <version>". Development builds installed with
// go install report the module version instead of the placeholder.
func Short(app string) string {
	return fmt.Sprintf("%s version: %s", app, Effective())
}

// Long returns the version line followed by build metadata.
func Long(app string) string {
	var sb strings.Builder

	if Version == devVersion && moduleVersion() != "" {
		if info, ok := readBuildInfo(); ok {
			fmt.Fprintf(&sb, "%s version: %s, ", app, info.Main.Version)
			fmt.Fprintf(&sb, "Git commit: %s, ", info.Main.Sum)
			fmt.Fprintf(&sb, "Go version: %s", info.GoVersion)

			return sb.String()
		}
	}

	fmt.Fprintf(&sb, "%s version: %s, ", app, Version)
	fmt.Fprintf(&sb, "Build date: %s, ", BuildDate)
	fmt.Fprintf(&sb, "Build user: %s, ", BuildUser)
	fmt.Fprintf(&sb, "Git commit: %s, ", GitCommit)
	fmt.Fprintf(&sb, "Git branch: %s, ", GitBranch)
	fmt.Fprintf(&sb, "Go version: %s", GoVersion)

	return sb.String()
}
