package dockercompose

import (
	"context"
	"sort"
	"strings"

	"github.com/compose-spec/compose-go/v2/cli"
	composeTypes "github.com/compose-spec/compose-go/v2/types"

	"github.com/composeops/compose-buildx/pkg/errors"
)

// Load parses the given Compose file, merges any override files into it, and
// resolves it into a full project: environment variables are interpolated
// from the OS environment and any .env file next to the Compose file, and
// relative paths (such as build contexts) are resolved against the Compose
// file's directory.
func Load(ctx context.Context, composePath string, overridePaths []string) (*composeTypes.Project, error) {
	opts, err := cli.NewProjectOptions(
		append([]string{composePath}, overridePaths...),
		cli.WithOsEnv,
		cli.WithDotEnv,
		cli.WithInterpolation(true),
		cli.WithResolvedPaths(true),
	)
	if err != nil {
		return nil, errors.WithContext("create project options", err)
	}

	project, err := cli.ProjectFromOptions(ctx, opts)
	if err != nil {
		return nil, errors.NewFriendlyError(
			"Failed to parse Compose file (%s).\n"+
				"Error: %s", composePath, err)
	}
	return project, nil
}

// ServiceNames returns the names of the project's services, sorted.
func ServiceNames(project *composeTypes.Project) []string {
	var names []string
	for name := range project.Services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SelectServices resolves the requested service names against the project,
// in the order they were requested. Every name is checked before anything is
// returned so that a typo never triggers a partial build. If no services are
// requested, all of them are selected, sorted by name.
func SelectServices(project *composeTypes.Project, requested []string) ([]composeTypes.ServiceConfig, error) {
	var services []composeTypes.ServiceConfig
	if len(requested) == 0 {
		for _, name := range ServiceNames(project) {
			services = append(services, project.Services[name])
		}
		return services, nil
	}

	for _, name := range requested {
		service, err := project.GetService(name)
		if err != nil {
			return nil, errors.NewFriendlyError(
				"No such service: %s\n"+
					"The services in this Compose file are: %s",
				name, strings.Join(ServiceNames(project), ", "))
		}
		services = append(services, service)
	}
	return services, nil
}
