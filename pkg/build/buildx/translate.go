package buildx

import (
	"path/filepath"
	"sort"

	composeTypes "github.com/compose-spec/compose-go/v2/types"

	"github.com/composeops/compose-buildx/pkg/build"
	"github.com/composeops/compose-buildx/pkg/errors"
)

// Translate maps a build spec to the arguments for a `docker buildx build`
// invocation. Map-valued config is emitted in sorted key order so that the
// same spec always produces the same command.
func Translate(spec build.Spec) ([]string, error) {
	args := []string{"buildx", "build", "--platform", spec.Platform.String()}

	if spec.Load {
		args = append(args, "--load")
	}
	if spec.Push {
		args = append(args, "--push")
	}

	argKeys := make([]string, 0, len(spec.Args))
	for key := range spec.Args {
		argKeys = append(argKeys, key)
	}
	sort.Strings(argKeys)
	for _, key := range argKeys {
		if value := spec.Args[key]; value != nil {
			args = append(args, "--build-arg", key+"="+*value)
		} else {
			// A bare key tells the build tool to take the value from its own
			// environment.
			args = append(args, "--build-arg", key)
		}
	}

	for _, tag := range spec.ImageTags {
		args = append(args, "--tag", tag)
	}
	if spec.Target != "" {
		args = append(args, "--target", spec.Target)
	}

	labelKeys := make([]string, 0, len(spec.Labels))
	for key := range spec.Labels {
		labelKeys = append(labelKeys, key)
	}
	sort.Strings(labelKeys)
	for _, key := range labelKeys {
		args = append(args, "--label", key+"="+spec.Labels[key])
	}

	for _, cacheFrom := range spec.CacheFrom {
		args = append(args, "--cache-from", cacheFrom)
	}
	for _, ssh := range spec.SSH {
		args = append(args, "--ssh", formatSSH(ssh))
	}
	if spec.Pull {
		args = append(args, "--pull")
	}
	if spec.NoCache {
		args = append(args, "--no-cache")
	}

	// The context and Dockerfile paths are absolutized so that the command
	// doesn't depend on the directory it's run from.
	context := spec.Context
	if context == "" {
		context = "."
	}
	context, err := filepath.Abs(context)
	if err != nil {
		return nil, errors.WithContext("resolve build context", err)
	}

	dockerfile := spec.Dockerfile
	if dockerfile == "" {
		dockerfile = "Dockerfile"
	}
	if !filepath.IsAbs(dockerfile) {
		dockerfile = filepath.Join(context, dockerfile)
	}

	return append(args, "--file", dockerfile, context), nil
}

func formatSSH(key composeTypes.SSHKey) string {
	if key.Path == "" {
		return key.ID
	}
	return key.ID + "=" + key.Path
}
