// Package version reports build metadata for the invconv binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

var (
	// Version is the application version, set via ldflags.
	Version string
	// Branch is the git branch, set via ldflags.
	Branch string
	// BuildUser is the user who built the binary, set via ldflags.
	BuildUser string
	// BuildDate is when the binary was built, set via ldflags.
	BuildDate string
)

// Info describes one build of the binary.
type Info struct {
	Version   string `json:"version"`
	Revision  string `json:"revision"`
	Branch    string `json:"branch,omitempty"`
	BuildUser string `json:"buildUser,omitempty"`
	BuildDate string `json:"buildDate,omitempty"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

// Get returns the [Info] of the running binary.
func Get() Info {
	info := Info{
		Version:   Version,
		Branch:    Branch,
		BuildUser: BuildUser,
		BuildDate: BuildDate,
		Revision:  "unknown",
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		if info.Version == "" && bi.Main.Version != "" {
			info.Version = bi.Main.Version
		}

		info.Revision = revision(bi.Settings)
	}

	if info.Version == "" {
		info.Version = "devel"
	}

	return info
}

// String formats i on a single line.
func (i Info) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s (revision %s", i.Version, i.Revision)

	if i.Branch != "" {
		fmt.Fprintf(&sb, ", branch %s", i.Branch)
	}

	if i.BuildDate != "" {
		fmt.Fprintf(&sb, ", built %s", i.BuildDate)

		if i.BuildUser != "" {
			fmt.Fprintf(&sb, " by %s", i.BuildUser)
		}
	}

	fmt.Fprintf(&sb, ", %s %s)", i.GoVersion, i.Platform)

	return sb.String()
}

// revision reads the VCS revision from build settings, marking builds from a
// modified tree as dirty.
func revision(settings []debug.BuildSetting) string {
	rev, dirty := "unknown", false

	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}

	if dirty {
		return rev + "-dirty"
	}

	return rev
}
