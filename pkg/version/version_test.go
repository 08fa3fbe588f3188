package version_test

import (
	"runtime/debug"
	"testing"

	"github.com/lineCode/import-weapp-component/pkg/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setVars(t *testing.T, v, b, c string) {
	t.Helper()
	origV, origB, origC := version.Version, version.BuildTime, version.Commit
	t.Cleanup(func() { version.Version, version.BuildTime, version.Commit = origV, origB, origC })
	version.Version, version.BuildTime, version.Commit = v, b, c
}

func TestGet_String_Short_Full(t *testing.T) {
	setVars(t, "1.2.3", "2025-12-22T00:00:00Z", "deadbeef")

	info := version.Get()
	require.Equal(t, "1.2.3", info.Version)
	require.Equal(t, "2025-12-22T00:00:00Z", info.BuildTime)
	require.Equal(t, "deadbeef", info.Commit)

	// Runtime fields should be non-empty
	require.NotEmpty(t, info.GoVersion)
	require.NotEmpty(t, info.OS)
	require.NotEmpty(t, info.Arch)

	assert.Equal(t, "1.2.3", version.Short())
	assert.Contains(t, version.Full(), "wxcomp 1.2.3")
	assert.Contains(t, info.String(), "wxcomp 1.2.3 (commit: deadbeef, built: 2025-12-22T00:00:00Z")
}

func TestGet_FromBuildInfo(t *testing.T) {
	setVars(t, "dev", "unknown", "unknown")
	restore := version.SetBuildInfoReader(func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{
			Main: debug.Module{Version: "v0.4.0"},
			Settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "0123456789abcdef"},
				{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
			},
		}, true
	})
	defer restore()

	info := version.Get()
	assert.Equal(t, "v0.4.0", info.Version)
	assert.Equal(t, "0123456", info.Commit)
	assert.Equal(t, "2026-01-02T03:04:05Z", info.BuildTime)
}

func TestGet_LdflagsWin(t *testing.T) {
	setVars(t, "1.0.0", "unknown", "cafe")
	restore := version.SetBuildInfoReader(func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Main: debug.Module{Version: "v9.9.9"}}, true
	})
	defer restore()

	info := version.Get()
	assert.Equal(t, "1.0.0", info.Version)
	assert.Equal(t, "cafe", info.Commit)
}

func TestGet_DevelBuild(t *testing.T) {
	setVars(t, "dev", "unknown", "unknown")
	restore := version.SetBuildInfoReader(func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, true
	})
	defer restore()

	assert.Equal(t, "dev", version.Short())
}
