package buildx

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver"
	"github.com/docker/cli/cli/config"
	homedir "github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"

	"github.com/composeops/compose-buildx/pkg/errors"
)

// minVersion is the oldest buildx release known to support every flag we
// forward (--ssh and --load in particular).
const minVersion = "0.8.0"

// Preflight verifies that the docker CLI can run buildx before any builds
// are started. Builds with a stale buildx are allowed through with a
// warning, since the version check is only advisory.
func Preflight(ctx context.Context, docker string) error {
	out, err := commandContext(ctx, docker, "buildx", "version").Output()
	if err != nil {
		return errors.NewFriendlyError(
			"`%s buildx version` failed (%s).\n\n%s", docker, err, installHint())
	}

	version, ok := parseBuildxVersion(string(out))
	if !ok {
		log.Debugf("Unrecognized buildx version output: %q", strings.TrimSpace(string(out)))
		return nil
	}

	constraint, err := semver.NewConstraint(">= " + minVersion)
	if err != nil {
		log.WithError(err).Warn("Failed to create version constraint")
		return nil
	}

	if !constraint.Check(version) {
		log.Warnf("buildx %s is older than the oldest supported release (%s). "+
			"Builds may fail in surprising ways. Consider upgrading buildx.",
			version, minVersion)
	}
	return nil
}

// parseBuildxVersion extracts the release from `docker buildx version`
// output, which looks like "github.com/docker/buildx v0.12.1 30feaa1".
func parseBuildxVersion(out string) (*semver.Version, bool) {
	fields := strings.Fields(out)
	if len(fields) < 2 {
		return nil, false
	}

	version, err := semver.NewVersion(strings.TrimPrefix(fields[1], "v"))
	if err != nil {
		return nil, false
	}
	return version, true
}

// installHint explains where the docker CLI looks for the buildx plugin. If
// a plugin binary is already in place, the problem is elsewhere and the hint
// says so.
func installHint() string {
	dirs := pluginDirs()
	for _, dir := range dirs {
		path := filepath.Join(dir, "docker-buildx")
		if _, err := fs.Stat(path); err == nil {
			return fmt.Sprintf(
				"A buildx plugin is installed at %s, but the docker CLI failed to run it.\n"+
					"Check `docker info` for plugin errors.", path)
		}
	}

	return "buildx doesn't seem to be installed. Install the plugin into one of:\n  " +
		strings.Join(dirs, "\n  ") + "\n" +
		"See https://docs.docker.com/go/buildx/ for instructions."
}

// pluginDirs mirrors the docker CLI's plugin search order: the user's config
// directory first, then the system-wide locations.
func pluginDirs() []string {
	dirs := []string{filepath.Join(config.Dir(), "cli-plugins")}
	if userDir, err := homedir.Expand("~/.local/lib/docker/cli-plugins"); err == nil {
		dirs = append(dirs, userDir)
	}
	return append(dirs,
		"/usr/local/lib/docker/cli-plugins",
		"/usr/local/libexec/docker/cli-plugins",
		"/usr/lib/docker/cli-plugins",
		"/usr/libexec/docker/cli-plugins",
	)
}
