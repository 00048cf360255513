package arch

import (
	"runtime"
	"strings"

	"github.com/composeops/compose-buildx/pkg/errors"
)

// Platform is an OS/architecture pair in the form the docker CLI expects,
// e.g. "linux/amd64".
type Platform string

const (
	LinuxAMD64 Platform = "linux/amd64"
	LinuxARM64 Platform = "linux/arm64"
)

// All returns the platforms built when every architecture is requested.
// amd64 comes first so that build output is ordered consistently.
func All() []Platform {
	return []Platform{LinuxAMD64, LinuxARM64}
}

// Host returns the platform of the local Docker daemon. The OS is always
// linux, even on macOS and Windows, since that's what the daemon runs.
func Host() Platform {
	return Platform("linux/" + runtime.GOARCH)
}

func (p Platform) String() string {
	return string(p)
}

// Arch returns the architecture half of the platform.
func (p Platform) Arch() string {
	parts := strings.SplitN(string(p), "/", 2)
	if len(parts) == 2 {
		return parts[1]
	}
	return parts[0]
}

// IsHost returns whether images built for the platform can be loaded
// straight into the local daemon.
func (p Platform) IsHost() bool {
	return p.Arch() == runtime.GOARCH
}

// Parse validates a user supplied platform string. Anything of the form
// os/arch or os/arch/variant is accepted since it's ultimately the build
// tool that decides what it can cross-compile for.
func Parse(str string) (Platform, error) {
	parts := strings.Split(strings.TrimSpace(str), "/")
	if len(parts) < 2 || len(parts) > 3 {
		return "", errors.NewFriendlyError(
			"Unrecognized platform %q. Platforms look like os/arch, e.g. linux/arm64.", str)
	}

	for _, part := range parts {
		if part == "" {
			return "", errors.NewFriendlyError(
				"Unrecognized platform %q. Platforms look like os/arch, e.g. linux/arm64.", str)
		}
	}
	return Platform(strings.Join(parts, "/")), nil
}

// Resolve turns the CLI platform flags into the list of platforms to build.
// Explicit --platform flags win over --all-arch, and with neither the host
// platform is built.
func Resolve(flags []string, allArch bool) ([]Platform, error) {
	if len(flags) == 0 {
		if allArch {
			return All(), nil
		}
		return []Platform{Host()}, nil
	}

	var platforms []Platform
	seen := map[Platform]struct{}{}
	for _, flag := range flags {
		platform, err := Parse(flag)
		if err != nil {
			return nil, err
		}

		if _, ok := seen[platform]; ok {
			continue
		}
		seen[platform] = struct{}{}
		platforms = append(platforms, platform)
	}
	return platforms, nil
}
