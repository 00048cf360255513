package build

import (
	"context"

	composeTypes "github.com/compose-spec/compose-go/v2/types"

	"github.com/composeops/compose-buildx/pkg/arch"
)

// Interface is anything that can execute a build plan.
type Interface interface {
	// Build runs every build in the plan, in order, and returns the first
	// error. Implementations configured to ignore errors report failures
	// some other way and keep going.
	Build(ctx context.Context, specs []Spec) error
}

// Spec describes a single invocation of the underlying build tool: one
// service built for one platform.
type Spec struct {
	composeTypes.BuildConfig

	// Service is the name of the Compose service the spec was derived from.
	Service string

	// Platform is the platform this invocation builds for.
	Platform arch.Platform

	// ImageTags are the resolved references to tag the image with. May be
	// empty, in which case the image is built untagged.
	ImageTags []string

	// Load imports the built image into the local daemon.
	Load bool

	// Push pushes the built image to its registry.
	Push bool
}
