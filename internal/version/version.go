package version

import (
	"runtime/debug"
)

// String reports the version of the running binary: the module version for
// released builds, or "(devel)" plus the VCS revision for source builds.
func String() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "(devel)"
	}

	version := info.Main.Version
	if version != "" && version != "(devel)" {
		return version
	}
	if rev := revision(info); rev != "" {
		return "(devel " + rev + ")"
	}
	return "(devel)"
}

func revision(info *debug.BuildInfo) string {
	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" && len(setting.Value) >= 12 {
			return setting.Value[:12]
		}
	}
	return ""
}
