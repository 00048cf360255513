package build

import (
	composeTypes "github.com/compose-spec/compose-go/v2/types"
	log "github.com/sirupsen/logrus"

	"github.com/composeops/compose-buildx/pkg/arch"
)

// Options are the command line knobs that shape a build plan.
type Options struct {
	// Platforms to build each service for.
	Platforms []arch.Platform

	// Tag overrides the image reference from the Compose file's image field.
	Tag string

	// Target overrides the Dockerfile stage from the Compose file.
	Target string

	NoCache bool
	Pull    bool

	// Push pushes images to their registry instead of loading them into the
	// local daemon.
	Push bool

	// Load imports images into the local daemon even when they were built
	// for a foreign platform.
	Load bool
}

// Plan expands the services into one build spec per service and platform
// pair. Services that don't have a build section are skipped. The specs come
// back in a deterministic order: services in the order given, and each
// service's platforms in the order given.
func Plan(services []composeTypes.ServiceConfig, opts Options) ([]Spec, error) {
	var specs []Spec
	numBuildable := 0
	for _, service := range services {
		if service.Build == nil {
			log.Infof("%s uses an image, skipping", service.Name)
			continue
		}
		numBuildable++

		tags, err := resolveTags(service, opts.Tag)
		if err != nil {
			return nil, err
		}

		cfg := *service.Build
		cfg.NoCache = cfg.NoCache || opts.NoCache
		cfg.Pull = cfg.Pull || opts.Pull
		if opts.Target != "" {
			cfg.Target = opts.Target
		}

		for _, platform := range opts.Platforms {
			specs = append(specs, Spec{
				BuildConfig: cfg,
				Service:     service.Name,
				Platform:    platform,
				ImageTags:   tags,
				Load:        !opts.Push && (opts.Load || platform.IsHost()),
				Push:        opts.Push,
			})
		}
	}

	if numBuildable > 1 && (opts.Tag != "" || opts.Target != "") {
		log.Warn("--tag and --target apply to every service being built. " +
			"They're usually only meaningful when building a single service.")
	}
	return specs, nil
}
