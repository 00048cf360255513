package ls

import (
	"fmt"
	"os"
	"text/tabwriter"

	composeTypes "github.com/compose-spec/compose-go/v2/types"
	"github.com/moby/buildkit/util/appcontext"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/composeops/compose-buildx/pkg/dockercompose"
	"github.com/composeops/compose-buildx/pkg/errors"
)

func New() *cobra.Command {
	var composePaths []string
	cobraCmd := &cobra.Command{
		Use:   "ls",
		Short: "List the services in the Compose file and their build configuration",
		Run: func(_ *cobra.Command, _ []string) {
			composePath, overridePaths, err := dockercompose.GetPaths(composePaths)
			if err != nil {
				if os.IsNotExist(err) {
					log.Fatal("Docker Compose file not found.")
				}
				log.WithError(err).Fatal("Failed to get absolute path to Compose file")
			}

			project, err := dockercompose.Load(appcontext.Context(), composePath, overridePaths)
			if err != nil {
				errors.HandleFatalError(err)
			}

			printServices(project)
		},
	}
	cobraCmd.Flags().StringSliceVarP(&composePaths, "file", "f", nil,
		"Specify an alternate compose file\nDefaults to compose.yaml or docker-compose.yml in the working directory")
	return cobraCmd
}

func printServices(project *composeTypes.Project) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 4, ' ', 0)
	defer w.Flush()
	fmt.Fprintln(w, "SERVICE\tCONTEXT\tDOCKERFILE\tIMAGE")

	for _, name := range dockercompose.ServiceNames(project) {
		service := project.Services[name]

		context, dockerfile := "-", "-"
		if service.Build != nil {
			context = service.Build.Context
			if context == "" {
				context = "."
			}
			dockerfile = service.Build.Dockerfile
			if dockerfile == "" {
				dockerfile = "Dockerfile"
			}
		}

		image := service.Image
		if image == "" {
			image = "-"
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, context, dockerfile, image)
	}
}
