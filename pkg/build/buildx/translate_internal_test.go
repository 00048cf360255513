// This is not in buildx_test so that tests can override the commandContext
// and fs variables.
package buildx

import (
	"path/filepath"
	"testing"

	composeTypes "github.com/compose-spec/compose-go/v2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/composeops/compose-buildx/pkg/arch"
	"github.com/composeops/compose-buildx/pkg/build"
)

func TestTranslate(t *testing.T) {
	buildArg := "abc123"
	cwd, err := filepath.Abs(".")
	require.NoError(t, err)

	tests := []struct {
		name string
		spec build.Spec
		exp  []string
	}{
		{
			name: "kitchen sink",
			spec: build.Spec{
				BuildConfig: composeTypes.BuildConfig{
					Context:    "/proj/api",
					Dockerfile: "docker/Dockerfile",
					Args: composeTypes.MappingWithEquals{
						"GIT_SHA":  &buildArg,
						"FROM_ENV": nil,
					},
					Labels:    composeTypes.Labels{"com.example.team": "infra"},
					CacheFrom: composeTypes.StringList{"registry.example.com/api:cache"},
					SSH: composeTypes.SSHConfig{
						{ID: "default"},
						{ID: "corp", Path: "/home/dev/.ssh/corp"},
					},
					Target:  "runtime",
					Pull:    true,
					NoCache: true,
				},
				Service:  "api",
				Platform: arch.LinuxARM64,
				ImageTags: []string{
					"registry.example.com/api:latest",
					"registry.example.com/api:ci",
				},
				Load: true,
			},
			exp: []string{
				"buildx", "build",
				"--platform", "linux/arm64",
				"--load",
				"--build-arg", "FROM_ENV",
				"--build-arg", "GIT_SHA=abc123",
				"--tag", "registry.example.com/api:latest",
				"--tag", "registry.example.com/api:ci",
				"--target", "runtime",
				"--label", "com.example.team=infra",
				"--cache-from", "registry.example.com/api:cache",
				"--ssh", "default",
				"--ssh", "corp=/home/dev/.ssh/corp",
				"--pull",
				"--no-cache",
				"--file", "/proj/api/docker/Dockerfile",
				"/proj/api",
			},
		},
		{
			name: "defaults",
			spec: build.Spec{
				Service:  "api",
				Platform: arch.LinuxAMD64,
			},
			exp: []string{
				"buildx", "build",
				"--platform", "linux/amd64",
				"--file", filepath.Join(cwd, "Dockerfile"),
				cwd,
			},
		},
		{
			name: "push",
			spec: build.Spec{
				BuildConfig: composeTypes.BuildConfig{Context: "/proj/api"},
				Service:     "api",
				Platform:    arch.LinuxAMD64,
				ImageTags:   []string{"registry.example.com/api:latest"},
				Push:        true,
			},
			exp: []string{
				"buildx", "build",
				"--platform", "linux/amd64",
				"--push",
				"--tag", "registry.example.com/api:latest",
				"--file", "/proj/api/Dockerfile",
				"/proj/api",
			},
		},
		{
			name: "absolute dockerfile kept",
			spec: build.Spec{
				BuildConfig: composeTypes.BuildConfig{
					Context:    "/proj/api",
					Dockerfile: "/dockerfiles/api.Dockerfile",
				},
				Service:  "api",
				Platform: arch.LinuxAMD64,
			},
			exp: []string{
				"buildx", "build",
				"--platform", "linux/amd64",
				"--file", "/dockerfiles/api.Dockerfile",
				"/proj/api",
			},
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			args, err := Translate(test.spec)
			require.NoError(t, err)
			assert.Equal(t, test.exp, args)
		})
	}
}
