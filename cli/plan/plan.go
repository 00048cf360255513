package plan

import (
	"fmt"
	"os"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/moby/buildkit/util/appcontext"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/composeops/compose-buildx/pkg/arch"
	"github.com/composeops/compose-buildx/pkg/build"
	"github.com/composeops/compose-buildx/pkg/build/buildx"
	"github.com/composeops/compose-buildx/pkg/dockercompose"
	"github.com/composeops/compose-buildx/pkg/errors"
)

// entry is one build invocation, in the order it would run.
type entry struct {
	Service  string   `json:"service"`
	Platform string   `json:"platform"`
	Tags     []string `json:"tags,omitempty"`
	Command  string   `json:"command"`
}

func New() *cobra.Command {
	var composePaths []string
	var platformFlags []string
	var allArch bool
	var tag string
	var target string
	var noCache bool
	var pull bool
	var push bool
	var load bool

	cobraCmd := &cobra.Command{
		Use:   "plan [OPTIONS] [SERVICE...]",
		Short: "Print the build commands that would run, without running them",
		Run: func(_ *cobra.Command, services []string) {
			ctx := appcontext.Context()

			composePath, overridePaths, err := dockercompose.GetPaths(composePaths)
			if err != nil {
				if os.IsNotExist(err) {
					log.Fatal("Docker Compose file not found.")
				}
				log.WithError(err).Fatal("Failed to get absolute path to Compose file")
			}

			project, err := dockercompose.Load(ctx, composePath, overridePaths)
			if err != nil {
				errors.HandleFatalError(err)
			}

			selected, err := dockercompose.SelectServices(project, services)
			if err != nil {
				errors.HandleFatalError(err)
			}

			platforms, err := arch.Resolve(platformFlags, allArch)
			if err != nil {
				errors.HandleFatalError(err)
			}

			specs, err := build.Plan(selected, build.Options{
				Platforms: platforms,
				Tag:       tag,
				Target:    target,
				NoCache:   noCache,
				Pull:      pull,
				Push:      push,
				Load:      load,
			})
			if err != nil {
				errors.HandleFatalError(err)
			}

			out, err := marshalPlan(specs)
			if err != nil {
				errors.HandleFatalError(err)
			}
			fmt.Print(string(out))
		},
	}

	cobraCmd.Flags().StringSliceVarP(&composePaths, "file", "f", nil,
		"Specify an alternate compose file\nDefaults to compose.yaml or docker-compose.yml in the working directory")
	cobraCmd.Flags().BoolVarP(&allArch, "all-arch", "a", false,
		"Plan for linux/amd64 and linux/arm64 instead of just the host architecture")
	cobraCmd.Flags().StringSliceVarP(&platformFlags, "platform", "", nil,
		"Plan for an explicit platform, e.g. linux/arm64. May be repeated")
	cobraCmd.Flags().StringVarP(&tag, "tag", "t", "",
		"Tag the built images with this reference instead of the Compose image field")
	cobraCmd.Flags().StringVarP(&target, "target", "", "",
		"Build this Dockerfile stage instead of the Compose target field")
	cobraCmd.Flags().BoolVarP(&noCache, "no-cache", "", false,
		"Do not use cache when building the image")
	cobraCmd.Flags().BoolVarP(&pull, "pull", "", false,
		"Always attempt to pull newer versions of base images")
	cobraCmd.Flags().BoolVarP(&push, "push", "", false,
		"Push the built images to their registries")
	cobraCmd.Flags().BoolVarP(&load, "load", "", false,
		"Load images into the local daemon even when built for a foreign architecture")

	return cobraCmd
}

func marshalPlan(specs []build.Spec) ([]byte, error) {
	docker := buildx.DefaultDocker()
	entries := make([]entry, 0, len(specs))
	for _, spec := range specs {
		args, err := buildx.Translate(spec)
		if err != nil {
			return nil, err
		}

		entries = append(entries, entry{
			Service:  spec.Service,
			Platform: spec.Platform.String(),
			Tags:     spec.ImageTags,
			Command:  docker + " " + strings.Join(args, " "),
		})
	}
	return yaml.Marshal(entries)
}
