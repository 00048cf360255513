package arch_test

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/composeops/compose-buildx/pkg/arch"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		str      string
		exp      arch.Platform
		expError bool
	}{
		{
			name: "os and arch",
			str:  "linux/amd64",
			exp:  arch.LinuxAMD64,
		},
		{
			name: "variant",
			str:  "linux/arm/v7",
			exp:  arch.Platform("linux/arm/v7"),
		},
		{
			name: "whitespace",
			str:  " linux/arm64 ",
			exp:  arch.LinuxARM64,
		},
		{
			name:     "missing arch",
			str:      "linux",
			expError: true,
		},
		{
			name:     "empty segment",
			str:      "linux/",
			expError: true,
		},
		{
			name:     "too many segments",
			str:      "linux/arm/v7/extra",
			expError: true,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			platform, err := arch.Parse(test.str)
			if test.expError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, test.exp, platform)
		})
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		flags   []string
		allArch bool
		exp     []arch.Platform
	}{
		{
			name: "default",
			exp:  []arch.Platform{arch.Host()},
		},
		{
			name:    "all arch",
			allArch: true,
			exp:     []arch.Platform{arch.LinuxAMD64, arch.LinuxARM64},
		},
		{
			name:  "explicit flags",
			flags: []string{"linux/arm64", "linux/amd64"},
			exp:   []arch.Platform{arch.LinuxARM64, arch.LinuxAMD64},
		},
		{
			name:    "flags win over all arch",
			flags:   []string{"linux/arm64"},
			allArch: true,
			exp:     []arch.Platform{arch.LinuxARM64},
		},
		{
			name:  "deduped",
			flags: []string{"linux/arm64", "linux/arm64"},
			exp:   []arch.Platform{arch.LinuxARM64},
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			platforms, err := arch.Resolve(test.flags, test.allArch)
			assert.NoError(t, err)
			assert.Equal(t, test.exp, platforms)
		})
	}
}

func TestHost(t *testing.T) {
	host := arch.Host()
	assert.Equal(t, runtime.GOARCH, host.Arch())
	assert.True(t, host.IsHost())
	assert.False(t, arch.Platform("linux/riscv64").IsHost())
}
