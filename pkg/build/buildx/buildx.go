package buildx

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/composeops/compose-buildx/pkg/build"
	"github.com/composeops/compose-buildx/pkg/errors"
)

// dockerEnv overrides the docker binary that builds are shelled out to.
const dockerEnv = "COMPOSE_BUILDX_DOCKER"

// commandContext and fs are swapped out in tests.
var (
	commandContext = exec.CommandContext
	fs             = afero.NewOsFs()
)

type client struct {
	docker       string
	progress     string
	ignoreErrors bool
	parallelism  int
	dryRun       bool
}

type Options struct {
	// Docker is the docker binary to invoke. Defaults to DefaultDocker().
	Docker string

	// Progress is the --progress mode forwarded to the build tool. Defaults
	// to "auto" on a terminal and "plain" otherwise.
	Progress string

	// IgnoreErrors makes Build report individual failures and keep going.
	IgnoreErrors bool

	// Parallelism is the number of builds to run at once.
	Parallelism int

	// DryRun prints the commands instead of running them.
	DryRun bool
}

// New returns a builder that shells out to `docker buildx build` for each
// spec in the plan.
func New(opts Options) build.Interface {
	if opts.Docker == "" {
		opts.Docker = DefaultDocker()
	}
	if opts.Progress == "" {
		opts.Progress = defaultProgress()
	}
	if opts.Parallelism < 1 {
		opts.Parallelism = 1
	}

	return client{
		docker:       opts.Docker,
		progress:     opts.Progress,
		ignoreErrors: opts.IgnoreErrors,
		parallelism:  opts.Parallelism,
		dryRun:       opts.DryRun,
	}
}

// DefaultDocker returns the docker binary to invoke, honoring the
// COMPOSE_BUILDX_DOCKER environment variable.
func DefaultDocker() string {
	if docker := os.Getenv(dockerEnv); docker != "" {
		return docker
	}
	return "docker"
}

func defaultProgress() string {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return "auto"
	}
	return "plain"
}

func (c client) Build(ctx context.Context, specs []build.Spec) error {
	if c.parallelism > 1 && !c.dryRun {
		return c.buildParallel(ctx, specs)
	}

	for _, spec := range specs {
		if err := c.buildOne(ctx, spec); err != nil {
			if c.ignoreErrors {
				log.WithError(err).WithField("service", spec.Service).
					Error("Build failed, continuing because of --ignore-errors")
				continue
			}
			return err
		}
	}
	return nil
}

// buildParallel runs the builds through a worker pool. The builds' output is
// interleaved, so this is only done when the user explicitly opts in.
func (c client) buildParallel(ctx context.Context, specs []build.Spec) error {
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(c.parallelism)
	for _, spec := range specs {
		spec := spec
		group.Go(func() error {
			err := c.buildOne(groupCtx, spec)
			if err != nil && c.ignoreErrors {
				log.WithError(err).WithField("service", spec.Service).
					Error("Build failed, continuing because of --ignore-errors")
				return nil
			}
			return err
		})
	}
	return group.Wait()
}

func (c client) buildOne(ctx context.Context, spec build.Spec) error {
	args, err := Translate(spec)
	if err != nil {
		return err
	}
	args = append(args, "--progress", c.progress)

	printHeading(fmt.Sprintf("Building %s for %s", spec.Service, spec.Platform))

	if c.dryRun {
		fmt.Printf("%s %s\n", c.docker, strings.Join(args, " "))
		return nil
	}

	log.WithField("service", spec.Service).Debugf("Running %s %s", c.docker, strings.Join(args, " "))
	cmd := commandContext(ctx, c.docker, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		// Carry the tool's own exit code so that scripts driving us see the
		// same code they'd see from running it directly. Signal deaths
		// report -1 and fall through to a plain error.
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() > 0 {
			return errors.WithExitStatus(errors.NewFriendlyError(
				"Build of %s for %s failed (%s).\n"+
					"The build tool's output above has the details.",
				spec.Service, spec.Platform, err), exitErr.ExitCode())
		}
		return errors.WithContext(fmt.Sprintf("run %s", c.docker), err)
	}

	if spec.Load && len(spec.ImageTags) > 0 {
		reportLoadedImage(ctx, spec)
	}
	return nil
}

// printHeading frames a message between rules of = characters so the start
// of each build is easy to find in a long scrollback.
func printHeading(msg string) {
	rule := strings.Repeat("=", len(msg))
	fmt.Println(rule)
	fmt.Println(msg)
	fmt.Println(rule)
}
