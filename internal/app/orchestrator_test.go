package app

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"testing"

	"github.com/lineCode/import-weapp-component/internal/config"
	"github.com/lineCode/import-weapp-component/internal/domain"
	"github.com/lineCode/import-weapp-component/internal/mocks"
	"github.com/lineCode/import-weapp-component/internal/output"
	"github.com/lineCode/import-weapp-component/internal/utils"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{
		Project: config.ProjectConfig{Context: "/proj"},
		Output:  config.OutputConfig{Directory: "/out"},
		Logging: config.LoggingConfig{Level: "error"},
	}
	require.NoError(t, cfg.Validate())
	return cfg
}

// testProject is a mini-program with one page using a single-file component,
// an absolute directory component and a directory missing its index.json
func testProject(t *testing.T) afero.Fs {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/proj/src/app.json", `{"pages": ["pages/home/home"]}`)
	writeFile(t, fs, "/proj/src/pages/home/home.json", `{"usingComponents": {
		"btn": "../../components/button",
		"card": "/components/card",
		"broken": "../../components/broken"
	}}`)
	writeFile(t, fs, "/proj/src/components/button.js", `Component({})`)
	writeFile(t, fs, "/proj/src/components/button.json", `{}`)
	writeFile(t, fs, "/proj/src/components/button.wxml", `<view/>`)
	writeFile(t, fs, "/proj/components/card/index.json", `{}`)
	writeFile(t, fs, "/proj/components/card/index.wxss", `.card{}`)
	require.NoError(t, fs.MkdirAll("/proj/src/components/broken", 0755))
	return fs
}

func newTestOrchestrator(t *testing.T, fs afero.Fs, cfg *config.Config, opts OrchestratorOptions) *Orchestrator {
	t.Helper()
	opts.Config = cfg
	opts.Fs = fs
	opts.LogOutput = io.Discard
	o, err := NewOrchestrator(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = o.Close() })
	return o
}

func TestNewOrchestrator_RequiresConfig(t *testing.T) {
	_, err := NewOrchestrator(OrchestratorOptions{})
	assert.Error(t, err)
}

func TestOrchestrator_Resolve(t *testing.T) {
	fs := testProject(t)
	o := newTestOrchestrator(t, fs, testConfig(t), OrchestratorOptions{})

	result, err := o.Resolve(context.Background(), "/proj/src", nil)
	require.NoError(t, err)

	assert.Equal(t, "/proj/src", result.SourceDir)
	assert.Equal(t, "/proj", result.Context)
	require.Len(t, result.Resolutions, 3)

	patterns := result.Patterns()
	assert.Equal(t, "components", patterns[0].To)
	assert.Equal(t, "/proj/components/card", patterns[1].From)
	assert.Equal(t, "components/card", patterns[1].To)
	assert.Equal(t, "components/broken", patterns[2].To)

	require.Len(t, result.Errors, 1)
	assert.True(t, domain.IsComponentNotExist(result.Errors[0]))
}

func TestOrchestrator_Resolve_DetectsSourceDir(t *testing.T) {
	fs := testProject(t)
	cfg := testConfig(t)
	cfg.Project.SourceDir = "/proj"
	o := newTestOrchestrator(t, fs, cfg, OrchestratorOptions{})

	result, err := o.Resolve(context.Background(), "", nil)
	require.NoError(t, err)
	assert.Equal(t, "/proj/src", result.SourceDir)
	assert.Len(t, result.Resolutions, 3)
}

func TestOrchestrator_Resolve_ExplicitEntries(t *testing.T) {
	fs := testProject(t)
	writeFile(t, fs, "/proj/src/pages/other/other.json", `{"usingComponents": {"btn": "../../components/button"}}`)
	o := newTestOrchestrator(t, fs, testConfig(t), OrchestratorOptions{})

	result, err := o.Resolve(context.Background(), "/proj/src", []string{"pages/other/other"})
	require.NoError(t, err)
	require.Len(t, result.Resolutions, 1)
	assert.Equal(t, "pages/other/other.json", result.Resolutions[0].Entry)
	assert.Empty(t, result.Errors)
}

func TestOrchestrator_Resolve_ExplicitEntriesDetectSourceDir(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/proj/miniprogram/app.json", `{"pages": []}`)
	writeFile(t, fs, "/proj/miniprogram/pages/x/x.json", `{"usingComponents": {"btn": "../../components/button"}}`)
	writeFile(t, fs, "/proj/miniprogram/components/button.js", `Component({})`)
	writeFile(t, fs, "/proj/miniprogram/components/button.json", `{}`)
	o := newTestOrchestrator(t, fs, testConfig(t), OrchestratorOptions{})

	result, err := o.Resolve(context.Background(), "/proj", []string{"pages/x/x"})
	require.NoError(t, err)
	assert.Equal(t, "/proj/miniprogram", result.SourceDir)
	require.Len(t, result.Resolutions, 1)
	assert.Equal(t, "pages/x/x.json", result.Resolutions[0].Entry)
	assert.Empty(t, result.Errors)
}

func TestOrchestrator_Resolve_Errors(t *testing.T) {
	o := newTestOrchestrator(t, afero.NewMemMapFs(), testConfig(t), OrchestratorOptions{})

	_, err := o.Resolve(context.Background(), "/missing", nil)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = o.Resolve(ctx, "/missing", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOrchestrator_Copy(t *testing.T) {
	fs := testProject(t)
	o := newTestOrchestrator(t, fs, testConfig(t), OrchestratorOptions{})
	ctx := context.Background()

	result, err := o.Resolve(ctx, "/proj/src", nil)
	require.NoError(t, err)

	stats, err := o.Copy(ctx, result)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Planned)
	assert.Equal(t, 5, stats.Copied)

	assert.True(t, utils.IsFile(fs, "/out/components/button.js"))
	assert.True(t, utils.IsFile(fs, "/out/components/button.wxml"))
	assert.True(t, utils.IsFile(fs, "/out/components/card/index.wxss"))
	assert.False(t, utils.IsFile(fs, "/out/"+output.DefaultIndexFilename))

	stats, err = o.Copy(ctx, result)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Skipped)
}

func TestOrchestrator_Copy_DryRun(t *testing.T) {
	fs := testProject(t)
	o := newTestOrchestrator(t, fs, testConfig(t), OrchestratorOptions{DryRun: true})
	ctx := context.Background()

	result, err := o.Resolve(ctx, "/proj/src", nil)
	require.NoError(t, err)

	stats, err := o.Copy(ctx, result)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Planned)
	assert.Equal(t, 0, stats.Copied)

	exists, err := afero.DirExists(fs, "/out")
	require.NoError(t, err)
	assert.False(t, exists)

	count, err := o.Archive("/archive.tar.zst")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestOrchestrator_Copy_IndexAndArchive(t *testing.T) {
	fs := testProject(t)
	cfg := testConfig(t)
	cfg.Output.Index = true
	o := newTestOrchestrator(t, fs, cfg, OrchestratorOptions{})
	ctx := context.Background()

	result, err := o.Resolve(ctx, "/proj/src", nil)
	require.NoError(t, err)
	_, err = o.Copy(ctx, result)
	require.NoError(t, err)

	assert.True(t, utils.IsFile(fs, "/out/"+output.DefaultIndexFilename))

	count, err := o.Archive("/dist/components.tar.zst")
	require.NoError(t, err)
	assert.Equal(t, 6, count)
	assert.True(t, utils.IsFile(fs, "/dist/components.tar.zst"))
}

// unreadableFs refuses to open a single file
type unreadableFs struct {
	afero.Fs
	path string
}

func (f unreadableFs) Open(name string) (afero.File, error) {
	if name == f.path {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
	}
	return f.Fs.Open(name)
}

func TestOrchestrator_Copy_IndexWrittenOnFailure(t *testing.T) {
	fs := unreadableFs{Fs: testProject(t), path: "/proj/components/card/index.wxss"}
	cfg := testConfig(t)
	cfg.Output.Index = true
	o := newTestOrchestrator(t, fs, cfg, OrchestratorOptions{})
	ctx := context.Background()

	result, err := o.Resolve(ctx, "/proj/src", nil)
	require.NoError(t, err)

	stats, err := o.Copy(ctx, result)
	require.Error(t, err)
	assert.Equal(t, 4, stats.Copied)
	assert.Equal(t, 1, stats.Failed)

	data, err := afero.ReadFile(fs, "/out/"+output.DefaultIndexFilename)
	require.NoError(t, err)

	var index output.CopyIndex
	require.NoError(t, json.Unmarshal(data, &index))
	assert.Equal(t, 4, index.TotalFiles)
	for _, f := range index.Files {
		assert.NotEqual(t, "components/card/index.wxss", f.Path)
	}
}

func TestOrchestrator_Copy_NilResult(t *testing.T) {
	o := newTestOrchestrator(t, afero.NewMemMapFs(), testConfig(t), OrchestratorOptions{})

	_, err := o.Copy(context.Background(), nil)
	assert.Error(t, err)
}

func TestOrchestrator_InjectedCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCache := mocks.NewMockCache(ctrl)
	mockCache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(5)

	fs := testProject(t)
	cfg := testConfig(t)
	cfg.Cache.Enabled = true
	o := newTestOrchestrator(t, fs, cfg, OrchestratorOptions{Cache: mockCache})
	ctx := context.Background()

	result, err := o.Resolve(ctx, "/proj/src", nil)
	require.NoError(t, err)

	stats, err := o.Copy(ctx, result)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Copied)

	// Injected caches belong to the caller
	assert.NoError(t, o.Close())
}
