// Package version exposes build-time and runtime information for the
// unifmt binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

var (
	// These variables are set during build time
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// BuildInfo contains build and runtime information
type BuildInfo struct {
	Version   string `json:"version"`
	BuildDate string `json:"build_date"`
	GitCommit string `json:"git_commit"`

	GoVersion string `json:"go_version"`
	Compiler  string `json:"compiler"`
	Platform  string `json:"platform"`

	NumCPU     int `json:"num_cpu"`
	GOMAXPROCS int `json:"gomaxprocs"`

	BuildDeps []Module `json:"build_deps"`
}

// Module represents a Go module dependency
type Module struct {
	Path    string `json:"path"`
	Version string `json:"version"`
}

// GetBuildInfo returns build information for the running binary
func GetBuildInfo() BuildInfo {
	var buildDeps []Module
	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		for _, dep := range buildInfo.Deps {
			buildDeps = append(buildDeps, Module{
				Path:    dep.Path,
				Version: dep.Version,
			})
		}
	}

	return BuildInfo{
		Version:    Version,
		BuildDate:  BuildDate,
		GitCommit:  GitCommit,
		GoVersion:  runtime.Version(),
		Compiler:   runtime.Compiler,
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		NumCPU:     runtime.NumCPU(),
		GOMAXPROCS: runtime.GOMAXPROCS(0),
		BuildDeps:  buildDeps,
	}
}

// Short returns the one-line version string
func Short() string {
	return fmt.Sprintf("unifmt %s (%s)", Version, GitCommit)
}

// FullVersion returns a formatted string with complete version information
func FullVersion() string {
	info := GetBuildInfo()

	var b strings.Builder
	b.WriteString(fmt.Sprintf("unifmt %s\n\n", info.Version))

	b.WriteString("Build Information:\n")
	b.WriteString(fmt.Sprintf("  Build Date:   %s\n", info.BuildDate))
	b.WriteString(fmt.Sprintf("  Git Commit:   %s\n", info.GitCommit))
	b.WriteString(fmt.Sprintf("  Go Version:   %s\n", info.GoVersion))
	b.WriteString(fmt.Sprintf("  Compiler:     %s\n", info.Compiler))
	b.WriteString(fmt.Sprintf("  Platform:     %s\n", info.Platform))
	b.WriteString("\n")

	b.WriteString("Runtime Information:\n")
	b.WriteString(fmt.Sprintf("  CPUs:         %d\n", info.NumCPU))
	b.WriteString(fmt.Sprintf("  GOMAXPROCS:   %d\n", info.GOMAXPROCS))

	if len(info.BuildDeps) > 0 {
		b.WriteString("\nDependencies:\n")
		shown := info.BuildDeps
		if len(shown) > 5 {
			shown = shown[:5]
		}
		for _, dep := range shown {
			b.WriteString(fmt.Sprintf("  - %s@%s\n", dep.Path, dep.Version))
		}
		if len(info.BuildDeps) > 5 {
			b.WriteString("  ... and more\n")
		}
	}

	return b.String()
}
