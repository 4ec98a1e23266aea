package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// Build identity. Release builds stamp these via ldflags; dev builds fall
// back to the VCS metadata Go embeds in the binary.
var (
	AppName  = "Harborline"
	Version  = "0.3.0-dev"
	Revision = "HEAD"
)

const devVersion = "0.3.0-dev"

// fromBuildInfo fills in whatever the linker left at its defaults.
func fromBuildInfo(moduleVersion string, vcs map[string]string) {
	if Version == devVersion || Version == "" {
		if moduleVersion != "" && moduleVersion != "(devel)" {
			Version = strings.TrimPrefix(moduleVersion, "v")
		}
	}
	if Revision == "HEAD" || Revision == "" {
		if r := vcs["vcs.revision"]; r != "" {
			if vcs["vcs.modified"] == "true" {
				r += "-dirty"
			}
			Revision = r
		}
	}
}

func shortRev() string {
	rev, dirty := strings.CutSuffix(Revision, "-dirty")
	if len(rev) > 7 {
		rev = rev[:7]
	}
	if dirty {
		rev += "-dirty"
	}
	return rev
}

// Short reports the bare version and revision, e.g. "0.3.0 (5e23a4f)".
func Short() string {
	return fmt.Sprintf("%s (%s)", Version, shortRev())
}

// Banner reports the application name with version and build environment,
// e.g. "Harborline 0.3.0 (5e23a4f, go1.23.6, linux/amd64)". Served from the
// index route and printed by the version flag.
func Banner() string {
	return fmt.Sprintf("%s %s (%s, %s, %s/%s)",
		AppName, Version, shortRev(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return
	}
	vcs := make(map[string]string, len(info.Settings))
	for _, s := range info.Settings {
		vcs[s.Key] = s.Value
	}
	fromBuildInfo(info.Main.Version, vcs)
}
