package build

import (
	composeTypes "github.com/compose-spec/compose-go/v2/types"
	"github.com/google/go-containerregistry/pkg/name"

	"github.com/composeops/compose-buildx/pkg/errors"
)

// resolveTags returns the references to tag the service's image with. The
// --tag flag wins over the Compose image field, and any additional tags from
// the build section are kept in either case. Bad references are rejected
// here rather than after some of the builds have already run.
func resolveTags(service composeTypes.ServiceConfig, tagFlag string) ([]string, error) {
	primary := tagFlag
	if primary == "" {
		primary = service.Image
	}

	var tags []string
	seen := map[string]struct{}{}
	addTag := func(tag string) error {
		if _, ok := seen[tag]; ok {
			return nil
		}

		if _, err := name.ParseReference(tag); err != nil {
			return errors.NewFriendlyError(
				"Invalid image reference %q for service %s.\n"+
					"Error: %s", tag, service.Name, err)
		}

		seen[tag] = struct{}{}
		tags = append(tags, tag)
		return nil
	}

	if primary != "" {
		if err := addTag(primary); err != nil {
			return nil, err
		}
	}
	for _, tag := range service.Build.Tags {
		if err := addTag(tag); err != nil {
			return nil, err
		}
	}
	return tags, nil
}
