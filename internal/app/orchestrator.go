// Package app wires configuration, project loading, component resolution and
// copying into the operations the command line exposes.
package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/lineCode/import-weapp-component/internal/cache"
	"github.com/lineCode/import-weapp-component/internal/config"
	"github.com/lineCode/import-weapp-component/internal/domain"
	"github.com/lineCode/import-weapp-component/internal/git"
	"github.com/lineCode/import-weapp-component/internal/output"
	"github.com/lineCode/import-weapp-component/internal/project"
	"github.com/lineCode/import-weapp-component/internal/resolver"
	"github.com/lineCode/import-weapp-component/internal/utils"
	"github.com/spf13/afero"
)

// Orchestrator coordinates loading, resolving and copying components
type Orchestrator struct {
	config   *config.Config
	fs       afero.Fs
	logger   *utils.Logger
	loader   *project.Loader
	resolver *resolver.Resolver
	cache    domain.Cache
	ownCache bool
	retrier  *utils.Retrier
	progress io.Writer
	dryRun   bool
	force    bool
}

// OrchestratorOptions contains options for creating an orchestrator
type OrchestratorOptions struct {
	Config  *config.Config
	Verbose bool
	DryRun  bool
	Force   bool
	NoCache bool
	// Fs defaults to the OS filesystem
	Fs afero.Fs
	// Cache replaces the badger cache the configuration would open
	Cache domain.Cache
	// Git defaults to go-git on the OS filesystem
	Git git.Client
	// LogOutput defaults to stderr
	LogOutput io.Writer
	// Progress receives the copy progress bar; nil disables it
	Progress io.Writer
}

// Result is the outcome of resolving one source directory
type Result struct {
	SourceDir   string
	Context     string
	Compilation *domain.Compilation
	Resolutions []domain.Resolution
	Errors      []error
}

// Patterns returns the copy patterns in resolution order
func (r *Result) Patterns() []domain.Pattern {
	return domain.Patterns(r.Resolutions)
}

// NewOrchestrator creates a new orchestrator with the given configuration
func NewOrchestrator(opts OrchestratorOptions) (*Orchestrator, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logLevel := "info"
	logFormat := "pretty"
	if cfg.Logging.Level != "" {
		logLevel = cfg.Logging.Level
	}
	if cfg.Logging.Format != "" {
		logFormat = cfg.Logging.Format
	}

	logger := utils.NewLogger(utils.LoggerOptions{
		Level:   logLevel,
		Format:  logFormat,
		Output:  opts.LogOutput,
		Verbose: opts.Verbose,
	})

	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	o := &Orchestrator{
		config: cfg,
		fs:     fs,
		logger: logger,
		loader: project.NewLoader(project.LoaderOptions{
			Fs:            fs,
			Git:           opts.Git,
			AppManifest:   cfg.Project.AppManifest,
			Context:       cfg.Project.Context,
			DetectGitRoot: cfg.Project.DetectGitRoot,
			Logger:        logger,
		}),
		resolver: resolver.New(resolver.Options{
			Fs:            fs,
			Logger:        logger,
			Extensions:    cfg.Components.Extensions,
			MaxReferences: cfg.Components.MaxReferences,
		}),
		cache: opts.Cache,
		retrier: utils.NewRetrier(utils.RetrierOptions{
			MaxRetries:      cfg.Retry.MaxRetries,
			InitialInterval: cfg.Retry.InitialInterval,
			MaxInterval:     cfg.Retry.MaxInterval,
			Multiplier:      cfg.Retry.Multiplier,
		}),
		progress: opts.Progress,
		dryRun:   opts.DryRun,
		force:    opts.Force || cfg.Output.Overwrite,
	}

	if o.cache == nil && cfg.Cache.Enabled && !opts.NoCache && !opts.DryRun {
		c, err := cache.NewBadgerCache(cache.Options{Directory: utils.ExpandPath(cfg.Cache.Directory)})
		if err != nil {
			logger.Warn().Err(err).Msg("Fingerprint cache unavailable, comparing file contents instead")
		} else {
			o.cache = c
			o.ownCache = true
		}
	}

	return o, nil
}

// Resolve loads srcDir and resolves the components of its entries. The
// mini-program root inside srcDir is detected first. Explicit entries replace
// the pages listed in the app manifest. Resolution problems
// are logged as warnings and returned in the result.
func (o *Orchestrator) Resolve(ctx context.Context, srcDir string, entries []string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if srcDir == "" {
		srcDir = o.config.Project.SourceDir
	}
	if srcDir == "" {
		srcDir = "."
	}
	srcDir = utils.ExpandPath(srcDir)

	detected, layout := DetectSourceDir(o.fs, srcDir, o.config.Project.AppManifest)
	o.logger.Debug().Str("source", detected).Str("layout", string(layout)).Msg("Detected source layout")
	srcDir = detected

	compilation, err := o.loader.Load(srcDir, entries)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}

	startTime := time.Now()
	o.logger.Info().
		Str("source", srcDir).
		Str("context", compilation.Options.Context).
		Int("entries", len(compilation.Entries)).
		Msg("Resolving components")

	resolutions := o.resolver.Resolve(compilation)
	errs := compilation.Errors.Errors()

	for _, err := range errs {
		o.logger.Warn().Err(err).Msg("Component resolution warning")
	}

	o.logger.Info().
		Int("components", len(resolutions)).
		Int("warnings", len(errs)).
		Dur("duration", time.Since(startTime)).
		Msg("Components resolved")

	return &Result{
		SourceDir:   srcDir,
		Context:     compilation.Options.Context,
		Compilation: compilation,
		Resolutions: resolutions,
		Errors:      errs,
	}, nil
}

// Copy materialises the resolved patterns in the configured output directory
func (o *Orchestrator) Copy(ctx context.Context, result *Result) (*output.CopyStats, error) {
	if result == nil {
		return nil, fmt.Errorf("result is required")
	}

	if timeout := o.config.Concurrency.Timeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var collector *output.CopyCollector
	if o.config.Output.Index && !o.dryRun {
		collector = output.NewCopyCollector(output.CollectorOptions{
			Fs:        o.fs,
			BaseDir:   o.config.Output.Directory,
			SourceDir: result.SourceDir,
		})
	}

	copier := output.NewCopier(output.CopierOptions{
		BaseDir:   o.config.Output.Directory,
		SrcFs:     o.fs,
		DestFs:    o.fs,
		Cache:     o.cache,
		CacheTTL:  o.config.Cache.TTL,
		Retrier:   o.retrier,
		Logger:    o.logger,
		Progress:  o.progress,
		Workers:   o.config.Concurrency.Workers,
		Force:     o.force,
		DryRun:    o.dryRun,
		Collector: collector,
	})

	stats, err := copier.Copy(ctx, result.Patterns())

	// Files copied before a failure are still listed in the index
	if collector != nil {
		if flushErr := collector.Flush(); flushErr != nil {
			o.logger.Warn().Err(flushErr).Msg("Failed to write copy index")
		}
	}

	if err != nil {
		if ctx.Err() != nil {
			o.logger.Warn().Msg("Copy cancelled")
			return stats, ctx.Err()
		}
		return stats, fmt.Errorf("copy failed: %w", err)
	}
	return stats, nil
}

// Archive packs the output directory into a zstd compressed tar at path
func (o *Orchestrator) Archive(path string) (int, error) {
	if o.dryRun {
		return 0, nil
	}
	count, err := output.WriteArchiveFile(o.fs, o.config.Output.Directory, path)
	if err != nil {
		return count, fmt.Errorf("failed to write archive: %w", err)
	}
	o.logger.Info().Str("archive", path).Int("files", count).Msg("Archive written")
	return count, nil
}

// Close releases all resources held by the orchestrator
func (o *Orchestrator) Close() error {
	if o.ownCache && o.cache != nil {
		return o.cache.Close()
	}
	return nil
}
