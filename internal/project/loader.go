// Package project turns a mini-program source tree into a compilation: one
// entry per page, plus one for components declared app-wide.
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/lineCode/import-weapp-component/internal/domain"
	"github.com/lineCode/import-weapp-component/internal/git"
	"github.com/lineCode/import-weapp-component/internal/manifest"
	"github.com/lineCode/import-weapp-component/internal/utils"
	"github.com/spf13/afero"
)

// AppEntryAsset names the asset of the app-level entry
const AppEntryAsset = "./app.json"

var (
	// ErrAppManifestNotFound indicates the source directory has no app manifest
	ErrAppManifestNotFound = errors.New("app manifest not found")

	// ErrEntryNotFound indicates an explicitly requested entry has no manifest
	ErrEntryNotFound = errors.New("entry manifest not found")
)

// appManifest is the part of app.json the loader reads
type appManifest struct {
	Pages       []string     `json:"pages"`
	Subpackages []subpackage `json:"subpackages"`
	SubPackages []subpackage `json:"subPackages"`
}

type subpackage struct {
	Root  string   `json:"root"`
	Pages []string `json:"pages"`
}

// Loader builds compilations from source directories
type Loader struct {
	fs            afero.Fs
	git           git.Client
	logger        *utils.Logger
	appManifest   string
	context       string
	detectGitRoot bool
}

// LoaderOptions contains options for creating a Loader
type LoaderOptions struct {
	// Fs defaults to the OS filesystem
	Fs  afero.Fs
	Git git.Client
	// AppManifest is the app manifest file name, app.json by default
	AppManifest string
	// Context anchors absolute references; empty detects it
	Context       string
	DetectGitRoot bool
	Logger        *utils.Logger
}

// NewLoader creates a Loader
func NewLoader(opts LoaderOptions) *Loader {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Git == nil {
		opts.Git = git.NewClient()
	}
	if opts.AppManifest == "" {
		opts.AppManifest = "app.json"
	}
	if opts.Logger == nil {
		opts.Logger = utils.NewNopLogger()
	}

	return &Loader{
		fs:            opts.Fs,
		git:           opts.Git,
		logger:        opts.Logger.WithComponent("project"),
		appManifest:   opts.AppManifest,
		context:       opts.Context,
		detectGitRoot: opts.DetectGitRoot,
	}
}

// Load builds the compilation of srcDir. Explicit entries are page paths
// relative to srcDir, with or without the .json suffix; without them the
// pages of the app manifest are used.
func (l *Loader) Load(srcDir string, entries []string) (*domain.Compilation, error) {
	srcDir, err := filepath.Abs(srcDir)
	if err != nil {
		return nil, fmt.Errorf("invalid source directory: %w", err)
	}
	if !utils.IsDir(l.fs, srcDir) {
		return nil, fmt.Errorf("source directory %s does not exist", srcDir)
	}

	projectContext := l.ResolveContext(srcDir)
	c := domain.NewCompilation(projectContext)

	if len(entries) > 0 {
		for _, page := range entries {
			entry, ok := l.pageEntry(srcDir, page)
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, page)
			}
			c.Entries = append(c.Entries, entry)
		}
		return c, nil
	}

	appPath := filepath.Join(srcDir, l.appManifest)
	data, err := afero.ReadFile(l.fs, appPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrAppManifestNotFound, appPath, err)
	}

	normalized, err := manifest.Normalize(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", appPath, manifest.ErrInvalidFormat, err)
	}
	var app appManifest
	if err := json.Unmarshal(normalized, &app); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", appPath, manifest.ErrInvalidFormat, err)
	}

	// Components declared app-wide are usable on every page
	if m, err := manifest.Parse(data); err == nil && len(m.UsingComponents) > 0 {
		entry := domain.Entry{Context: srcDir}
		entry.AddAsset(AppEntryAsset, NewFileAsset(l.fs, appPath))
		c.Entries = append(c.Entries, entry)
	}

	seen := make(map[string]struct{})
	for _, page := range appPages(app) {
		if _, dup := seen[page]; dup {
			continue
		}
		seen[page] = struct{}{}

		entry, ok := l.pageEntry(srcDir, page)
		if !ok {
			l.logger.Debug().Str("page", page).Msg("Page has no JSON manifest, skipping")
			continue
		}
		c.Entries = append(c.Entries, entry)
	}

	l.logger.Debug().
		Str("source", srcDir).
		Str("context", projectContext).
		Int("entries", len(c.Entries)).
		Msg("Project loaded")

	return c, nil
}

// ResolveContext picks the directory absolute references are anchored at: the
// configured context, else the enclosing git work tree when enabled, else srcDir
func (l *Loader) ResolveContext(srcDir string) string {
	if l.context != "" {
		if abs, err := filepath.Abs(l.context); err == nil {
			return abs
		}
		return l.context
	}

	if l.detectGitRoot {
		root, err := git.WorktreeRoot(l.git, srcDir)
		if err == nil {
			return root
		}
		l.logger.Debug().Err(err).Str("source", srcDir).Msg("No git work tree, using source directory")
	}

	return srcDir
}

// pageEntry builds the entry of one page. ok is false when the page has no
// manifest file.
func (l *Loader) pageEntry(srcDir, page string) (domain.Entry, bool) {
	page = strings.TrimSuffix(path.Clean(filepath.ToSlash(page)), ".json")
	page = strings.TrimPrefix(page, "/")

	manifestPath := filepath.Join(srcDir, filepath.FromSlash(page)+".json")
	if !utils.IsFile(l.fs, manifestPath) {
		return domain.Entry{}, false
	}

	name := page + ".json"
	if !strings.Contains(name, "/") {
		name = "./" + name
	}

	entry := domain.Entry{Context: filepath.Join(srcDir, filepath.FromSlash(path.Dir(page)))}
	entry.AddAsset(name, NewFileAsset(l.fs, manifestPath))
	return entry, true
}

// appPages lists main package pages followed by sub-package pages
func appPages(app appManifest) []string {
	pages := append([]string(nil), app.Pages...)
	for _, groups := range [][]subpackage{app.Subpackages, app.SubPackages} {
		for _, sp := range groups {
			for _, p := range sp.Pages {
				pages = append(pages, path.Join(sp.Root, p))
			}
		}
	}
	return pages
}
