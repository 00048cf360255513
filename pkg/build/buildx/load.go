package buildx

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/filters"
	docker "github.com/docker/docker/client"
	log "github.com/sirupsen/logrus"

	"github.com/composeops/compose-buildx/pkg/build"
)

// reportLoadedImage prints the ID the daemon assigned to a freshly loaded
// image. It's purely informational, so failures are logged at debug level
// and otherwise ignored.
func reportLoadedImage(ctx context.Context, spec build.Spec) {
	dockerClient, err := docker.NewClientWithOpts(docker.FromEnv, docker.WithAPIVersionNegotiation())
	if err != nil {
		log.WithError(err).Debug("Failed to create docker client")
		return
	}
	defer dockerClient.Close()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	reference := spec.ImageTags[0]
	images, err := dockerClient.ImageList(ctx, types.ImageListOptions{
		Filters: filters.NewArgs(filters.KeyValuePair{
			Key:   "reference",
			Value: reference,
		}),
	})
	if err != nil {
		log.WithError(err).Debug("Failed to list images")
		return
	}
	if len(images) != 1 {
		log.WithField("reference", reference).Debugf("Expected one image, got %d", len(images))
		return
	}

	fmt.Printf("Loaded %s as %s\n", reference, images[0].ID)
}
