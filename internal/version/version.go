package version

import "runtime/debug"

// Version is the release tag, overridable at build time:
// go build -ldflags "-X github.com/Abdullah20019/whale-tracker-bot/internal/version.Version=v1.2.3"
var Version = "dev"

// GetVersion returns the release tag, falling back to the module version
// embedded by the toolchain.
func GetVersion() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	return "dev"
}

// GetBuildInfo returns the version plus the VCS revision and commit time
// the toolchain embedded, when available.
func GetBuildInfo() map[string]string {
	out := map[string]string{
		"version": GetVersion(),
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return out
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			out["git_commit"] = setting.Value
		case "vcs.time":
			out["build_time"] = setting.Value
		}
	}

	return out
}
