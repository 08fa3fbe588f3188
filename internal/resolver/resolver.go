// Package resolver discovers every component an entry uses, transitively, and
// turns each one into a copy pattern placing it beside the entry's output.
package resolver

import (
	"fmt"
	"regexp"

	"github.com/lineCode/import-weapp-component/internal/domain"
	"github.com/lineCode/import-weapp-component/internal/manifest"
	"github.com/lineCode/import-weapp-component/internal/pathutil"
	"github.com/lineCode/import-weapp-component/internal/utils"
	"github.com/spf13/afero"
)

// DefaultMaxReferences bounds the references resolved for a single entry
const DefaultMaxReferences = 10000

// entryManifestRE selects the entry's own manifest among its assets
var entryManifestRE = regexp.MustCompile(`/.+\.json$`)

// Options contains options for creating a Resolver
type Options struct {
	// Fs is the source filesystem; nil uses the OS filesystem
	Fs     afero.Fs
	Logger *utils.Logger
	// Extensions make up a single-file component; empty uses domain.DefaultExtensions
	Extensions []string
	// MaxReferences stops an entry after this many references; 0 uses the default, <0 disables
	MaxReferences int
}

// Resolver turns compilations into copy patterns. It keeps no state between
// calls; errors go to the compilation's sink.
type Resolver struct {
	fs         afero.Fs
	reader     *manifest.Reader
	logger     *utils.Logger
	extensions []string
	maxRefs    int
}

// New creates a Resolver
func New(opts Options) *Resolver {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Logger == nil {
		opts.Logger = utils.NewNopLogger()
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = domain.DefaultExtensions
	}
	if opts.MaxReferences == 0 {
		opts.MaxReferences = DefaultMaxReferences
	}

	return &Resolver{
		fs:         opts.Fs,
		reader:     manifest.NewReader(opts.Fs, opts.Logger),
		logger:     opts.Logger.WithComponent("resolver"),
		extensions: opts.Extensions,
		maxRefs:    opts.MaxReferences,
	}
}

// Extract resolves c with a default Resolver on the OS filesystem
func Extract(c *domain.Compilation) []domain.Pattern {
	return New(Options{}).Extract(c)
}

// Extract returns the copy patterns of every entry in c, in entry order. It
// never fails: problems are reported to c.Errors and the result may be partial.
func (r *Resolver) Extract(c *domain.Compilation) []domain.Pattern {
	return domain.Patterns(r.Resolve(c))
}

// Resolve is Extract keeping the provenance of each pattern
func (r *Resolver) Resolve(c *domain.Compilation) []domain.Resolution {
	resolutions := []domain.Resolution{}
	if c == nil || len(c.Entries) == 0 || c.Options.Context == "" {
		return resolutions
	}

	sink := c.Sink()
	for _, entry := range c.Entries {
		resolutions = append(resolutions, r.resolveEntry(entry, c.Options.Context, sink)...)
	}
	return resolutions
}

func (r *Resolver) resolveEntry(entry domain.Entry, projectContext string, sink domain.ErrorSink) []domain.Resolution {
	asset, ok := findEntryManifest(entry.Assets)
	if !ok {
		r.logger.Debug().Str("context", entry.Context).Msg("Entry has no JSON manifest, skipping")
		return nil
	}
	logger := r.logger.WithEntry(asset.Name)

	source, err := asset.Asset.Source()
	if err != nil {
		sink.Report(fmt.Errorf("%s: %w: %v", asset.Name, domain.ErrAssetRead, err))
		return nil
	}

	queue := NewQueue()
	for _, ref := range CollectReferences(r.reader.ReadUsingComponents(source, asset.Name, sink), "") {
		queue.Push(PendingRef{Path: ref})
	}

	assetDir := pathutil.FileDir(asset.Name)
	seen := make(map[[2]string]struct{})
	var resolutions []domain.Resolution
	processed := 0

	for {
		ref, ok := queue.Pop()
		if !ok {
			break
		}
		if ref.Path == "" {
			continue
		}

		processed++
		if r.maxRefs > 0 && processed > r.maxRefs {
			sink.Report(fmt.Errorf("%s: %w (limit %d)", asset.Name, domain.ErrTooManyReferences, r.maxRefs))
			break
		}

		sourcePath, destPath := projectReference(entry.Context, projectContext, assetDir, ref.Path)

		// A component reachable through several manifests, or through a
		// cycle, is resolved once.
		key := [2]string{sourcePath, destPath}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		pattern := r.ResolveReference(sourcePath, destPath, queue, ref.Path, sink)
		if pattern == nil {
			logger.Debug().Str("ref", ref.Path).Str("source", sourcePath).Msg("Not a component, skipping")
			continue
		}

		logger.Debug().
			Str("ref", ref.Path).
			Str("from", pattern.From).
			Str("to", pattern.To).
			Bool("dir", pattern.IsDir()).
			Msg("Component resolved")

		resolutions = append(resolutions, domain.Resolution{
			Entry:     asset.Name,
			Reference: ref.Path,
			Parent:    ref.Parent,
			Pattern:   *pattern,
		})
	}

	return resolutions
}

// projectReference computes where a reference lives on disk and where it goes
// in the output. Rooted refs are anchored at the project context (source) and
// at the output root (destination); relative refs resolve against the entry's
// context (source) and the entry manifest's directory (destination).
func projectReference(entryContext, projectContext, assetDir, ref string) (sourcePath, destPath string) {
	if pathutil.IsAbs(ref) {
		sourcePath = pathutil.ProjectJoin(projectContext, ref)
	} else {
		sourcePath = pathutil.Resolve(entryContext, ref)
	}
	destPath = pathutil.Project(assetDir, ref)
	return sourcePath, destPath
}

// findEntryManifest returns the first asset whose name looks like a JSON file
// below some directory
func findEntryManifest(assets []domain.NamedAsset) (domain.NamedAsset, bool) {
	for _, a := range assets {
		if entryManifestRE.MatchString(a.Name) {
			return a, true
		}
	}
	return domain.NamedAsset{}, false
}
