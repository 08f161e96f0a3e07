package version

import (
	"fmt"
	"runtime"
)

// Name is the binary name shown in version output
const Name = "iamaudit"

// Set with -ldflags "-X github.com/younsl/iamaudit/internal/version.version=..."
var (
	version   = "dev"
	buildDate = "unknown"
	gitCommit = "unknown"
)

// BuildInfo identifies the running binary
type BuildInfo struct {
	Version   string `json:"version"`
	BuildDate string `json:"buildDate"`
	GitCommit string `json:"gitCommit"`
	GoVersion string `json:"goVersion"`
}

// Get returns the build information of the running binary
func Get() BuildInfo {
	return BuildInfo{
		Version:   version,
		BuildDate: buildDate,
		GitCommit: gitCommit,
		GoVersion: runtime.Version(),
	}
}

// String formats the build information for --version output
func (b BuildInfo) String() string {
	return fmt.Sprintf("%s version %s (commit: %s, built: %s, %s)",
		Name, b.Version, b.GitCommit, b.BuildDate, b.GoVersion)
}
