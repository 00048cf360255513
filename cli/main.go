package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/composeops/compose-buildx/cli/build"
	"github.com/composeops/compose-buildx/cli/ls"
	"github.com/composeops/compose-buildx/cli/plan"
	"github.com/composeops/compose-buildx/pkg/version"
)

func main() {
	rootCmd := build.New()
	rootCmd.AddCommand(
		ls.New(),
		plan.New(),
		versionCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the compose-buildx version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(version.Version)
		},
	}
}
