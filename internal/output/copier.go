package output

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/lineCode/import-weapp-component/internal/cache"
	"github.com/lineCode/import-weapp-component/internal/domain"
	"github.com/lineCode/import-weapp-component/internal/utils"
	"github.com/spf13/afero"
)

// CopyJob copies one source file to one destination file
type CopyJob struct {
	Source string
	Dest   string
}

// CopyStats summarises a copy run
type CopyStats struct {
	Planned int
	Copied  int
	Skipped int
	Failed  int
	Bytes   int64
	Errors  []error
}

// copyOutcome is what happened to a single job
type copyOutcome struct {
	skipped bool
	bytes   int64
}

// Copier materialises copy patterns below an output directory
type Copier struct {
	baseDir  string
	srcFs    afero.Fs
	destFs   afero.Fs
	cache    domain.Cache
	cacheTTL time.Duration
	retrier  *utils.Retrier
	logger   *utils.Logger
	progress io.Writer
	workers  int
	force    bool
	dryRun   bool
	collect  *CopyCollector
}

// CopierOptions contains options for the copier
type CopierOptions struct {
	BaseDir string
	// SrcFs and DestFs default to the OS filesystem
	SrcFs  afero.Fs
	DestFs afero.Fs
	// Cache stores destination fingerprints; nil compares against the destination file
	Cache domain.Cache
	// CacheTTL expires fingerprints; zero keeps them forever
	CacheTTL time.Duration
	Retrier  *utils.Retrier
	Logger   *utils.Logger
	// Progress receives a progress bar; nil disables it
	Progress io.Writer
	Workers  int
	Force    bool
	DryRun   bool
	// Collector records every copied file; nil disables the index
	Collector *CopyCollector
}

// NewCopier creates a new copier
func NewCopier(opts CopierOptions) *Copier {
	if opts.BaseDir == "" {
		opts.BaseDir = "./dist"
	}
	if opts.SrcFs == nil {
		opts.SrcFs = afero.NewOsFs()
	}
	if opts.DestFs == nil {
		opts.DestFs = opts.SrcFs
	}
	if opts.Retrier == nil {
		opts.Retrier = utils.NewRetrier(utils.DefaultRetrierOptions())
	}
	if opts.Logger == nil {
		opts.Logger = utils.NewNopLogger()
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}

	return &Copier{
		baseDir:  opts.BaseDir,
		srcFs:    opts.SrcFs,
		destFs:   opts.DestFs,
		cache:    opts.Cache,
		cacheTTL: opts.CacheTTL,
		retrier:  opts.Retrier,
		logger:   opts.Logger.WithComponent("copier"),
		progress: opts.Progress,
		workers:  opts.Workers,
		force:    opts.Force,
		dryRun:   opts.DryRun,
		collect:  opts.Collector,
	}
}

// BaseDir returns the output root
func (c *Copier) BaseDir() string {
	return c.baseDir
}

// Plan expands patterns into file copies. Directory patterns copy their whole
// subtree; file-group patterns copy the matching files directly inside From.
// When two jobs target the same destination the first one wins.
func (c *Copier) Plan(patterns []domain.Pattern) ([]CopyJob, error) {
	var jobs []CopyJob
	seen := make(map[string]struct{})

	add := func(source, dest string) {
		if _, dup := seen[dest]; dup {
			c.logger.Debug().Str("source", source).Str("dest", dest).Msg("Destination already planned, dropping")
			return
		}
		seen[dest] = struct{}{}
		jobs = append(jobs, CopyJob{Source: source, Dest: dest})
	}

	for _, p := range patterns {
		destDir := filepath.Join(c.baseDir, filepath.FromSlash(p.To))

		if p.IsDir() {
			err := afero.Walk(c.srcFs, p.From, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if info.IsDir() {
					return nil
				}
				rel, err := filepath.Rel(p.From, path)
				if err != nil {
					return err
				}
				add(path, filepath.Join(destDir, rel))
				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("failed to walk %s: %w", p.From, err)
			}
			continue
		}

		infos, err := afero.ReadDir(c.srcFs, p.From)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", p.From, err)
		}
		for _, info := range infos {
			if info.IsDir() || !p.Matches(info.Name()) {
				continue
			}
			add(filepath.Join(p.From, info.Name()), filepath.Join(destDir, info.Name()))
		}
	}

	return jobs, nil
}

// Copy plans and executes patterns. Failed files do not stop the run; their
// errors are collected in the stats and joined into the returned error.
func (c *Copier) Copy(ctx context.Context, patterns []domain.Pattern) (*CopyStats, error) {
	jobs, err := c.Plan(patterns)
	if err != nil {
		return nil, err
	}

	stats := &CopyStats{Planned: len(jobs)}

	if c.dryRun {
		for _, job := range jobs {
			c.logger.Info().Str("source", job.Source).Str("dest", job.Dest).Msg("Would copy")
		}
		return stats, nil
	}

	var bar interface{ Add(int) error }
	if c.progress != nil {
		pb := utils.NewProgressBar(c.progress, len(jobs), utils.DescCopying)
		defer pb.Finish()
		bar = pb
	}

	results, ctxErr := utils.Map(ctx, jobs, c.workers, func(ctx context.Context, job CopyJob) (copyOutcome, error) {
		outcome, err := c.copyFile(ctx, job)
		if bar != nil {
			_ = bar.Add(1)
		}
		return outcome, err
	})

	for _, r := range results {
		if r.Err != nil {
			stats.Failed++
			stats.Errors = append(stats.Errors, fmt.Errorf("copy %s: %w", r.Item.Source, r.Err))
			continue
		}
		if r.Value.skipped {
			stats.Skipped++
			continue
		}
		stats.Copied++
		stats.Bytes += r.Value.bytes
	}

	c.logger.Info().
		Int("planned", stats.Planned).
		Int("copied", stats.Copied).
		Int("skipped", stats.Skipped).
		Int("failed", stats.Failed).
		Msg("Copy finished")

	if ctxErr != nil {
		return stats, ctxErr
	}
	return stats, errors.Join(stats.Errors...)
}

// copyFile copies one file unless the destination already holds the same content
func (c *Copier) copyFile(ctx context.Context, job CopyJob) (copyOutcome, error) {
	var data []byte
	err := c.retrier.Retry(ctx, func() error {
		var err error
		data, err = afero.ReadFile(c.srcFs, job.Source)
		return err
	})
	if err != nil {
		return copyOutcome{}, err
	}

	fingerprint := utils.ContentHash(data)
	key := cache.CopyKey(job.Dest)

	if !c.force && c.upToDate(ctx, job.Dest, key, fingerprint) {
		c.logger.Debug().Str("dest", job.Dest).Msg("Unchanged, skipping")
		if c.collect != nil {
			c.collect.Add(job, fingerprint, int64(len(data)))
		}
		return copyOutcome{skipped: true}, nil
	}

	err = c.retrier.Retry(ctx, func() error {
		if err := utils.EnsureDir(c.destFs, job.Dest); err != nil {
			return err
		}
		return afero.WriteFile(c.destFs, job.Dest, data, 0644)
	})
	if err != nil {
		return copyOutcome{}, err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, []byte(fingerprint), c.cacheTTL); err != nil {
			c.logger.Warn().Err(err).Str("dest", job.Dest).Msg("Failed to record fingerprint")
		}
	}
	if c.collect != nil {
		c.collect.Add(job, fingerprint, int64(len(data)))
	}

	c.logger.Debug().Str("source", job.Source).Str("dest", job.Dest).Msg("Copied")
	return copyOutcome{bytes: int64(len(data))}, nil
}

// upToDate reports whether dest exists and already holds fingerprint
func (c *Copier) upToDate(ctx context.Context, dest, key, fingerprint string) bool {
	if !utils.IsFile(c.destFs, dest) {
		return false
	}

	if c.cache != nil {
		cached, err := c.cache.Get(ctx, key)
		return err == nil && bytes.Equal(cached, []byte(fingerprint))
	}

	existing, err := afero.ReadFile(c.destFs, dest)
	if err != nil {
		return false
	}
	return utils.ContentHash(existing) == fingerprint
}
