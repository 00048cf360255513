package build

import (
	"fmt"
	"os"

	"github.com/lithammer/dedent"
	"github.com/moby/buildkit/util/appcontext"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/composeops/compose-buildx/pkg/arch"
	"github.com/composeops/compose-buildx/pkg/build"
	"github.com/composeops/compose-buildx/pkg/build/buildx"
	"github.com/composeops/compose-buildx/pkg/dockercompose"
	"github.com/composeops/compose-buildx/pkg/errors"
)

// New returns the root command. Building is the tool's whole job, so the
// build flags live directly on the root rather than behind a subcommand.
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
	var ignoreErrors bool
	var parallel int
	var dryRun bool
	var progress string
	var verbose bool

	cobraCmd := &cobra.Command{
		Use:   "compose-buildx [OPTIONS] [SERVICE...]",
		Short: "Build multi-architecture images for Compose services.",
		Long: dedent.Dedent(`
			compose-buildx reads the build configuration of each service in a
			Compose file and shells out to ` + "`docker buildx build`" + ` once per
			service and architecture. By default only the host architecture is
			built. Pass --all-arch to build linux/amd64 and linux/arm64.

			Images built for the host architecture are loaded into the local
			Docker daemon. Foreign architectures stay in the buildx cache
			unless --load or --push says otherwise.`),
		Example: dedent.Dedent(`
			  # Build every service for the host architecture.
			  compose-buildx

			  # Build two services for amd64 and arm64.
			  compose-buildx --all-arch api worker

			  # Build and push a release image.
			  compose-buildx --all-arch --push --tag registry.example.com/api:v1.2.3 api`),

		// The call to Execute prints the error, so we silence errors here to
		// avoid double printing.
		SilenceErrors: true,

		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if verbose {
				log.SetLevel(log.DebugLevel)
			}
		},

		Run: func(_ *cobra.Command, services []string) {
			ctx := appcontext.Context()

			if push && load {
				errors.HandleFatalError(errors.NewFriendlyError(
					"--push and --load can't be combined.\n" +
						"An image is either pushed to its registry or loaded into the local daemon."))
			}

			composePath, overridePaths, err := dockercompose.GetPaths(composePaths)
			if err != nil {
				if os.IsNotExist(err) {
					log.Fatal("Docker Compose file not found.\n" +
						"Run compose-buildx from the directory containing the Compose file, " +
						"or point at one with --file.")
				}
				log.WithError(err).Fatal("Failed to get absolute path to Compose file")
			}
			log.WithField("path", composePath).Debug("Using Compose file")

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

			if len(specs) == 0 {
				fmt.Println("Nothing to build.")
				return
			}

			if !dryRun {
				if err := buildx.Preflight(ctx, buildx.DefaultDocker()); err != nil {
					errors.HandleFatalError(err)
				}
			}

			builder := buildx.New(buildx.Options{
				Progress:     progress,
				IgnoreErrors: ignoreErrors,
				Parallelism:  parallel,
				DryRun:       dryRun,
			})
			if err := builder.Build(ctx, specs); err != nil {
				errors.HandleFatalError(err)
			}
		},
	}

	cobraCmd.Flags().StringSliceVarP(&composePaths, "file", "f", nil,
		"Specify an alternate compose file\nDefaults to compose.yaml or docker-compose.yml in the working directory")
	cobraCmd.Flags().BoolVarP(&allArch, "all-arch", "a", false,
		"Build for linux/amd64 and linux/arm64 instead of just the host architecture")
	cobraCmd.Flags().StringSliceVarP(&platformFlags, "platform", "", nil,
		"Build for an explicit platform, e.g. linux/arm64. May be repeated")
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
	cobraCmd.Flags().BoolVarP(&ignoreErrors, "ignore-errors", "", false,
		"Keep building the remaining images when a build fails")
	cobraCmd.Flags().IntVarP(&parallel, "parallel", "", 1,
		"Number of builds to run at once. Output is interleaved when above 1")
	cobraCmd.Flags().BoolVarP(&dryRun, "dry-run", "", false,
		"Print the build commands without running them")
	cobraCmd.Flags().StringVarP(&progress, "progress", "", "",
		"Progress output style passed to the build tool (auto, plain, or tty)")
	cobraCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Log the exact build commands and other debugging output")

	return cobraCmd
}
