package output

import (
	"encoding/json"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/spf13/afero"
)

// DefaultIndexFilename is the index written at the output root
const DefaultIndexFilename = "wxcomp-index.json"

// CopiedFile describes one file placed in the output tree
type CopiedFile struct {
	Path        string `json:"path"`
	Source      string `json:"source"`
	Fingerprint string `json:"sha256"`
	Size        int64  `json:"size"`
}

// CopyIndex is the document written by CopyCollector.Flush
type CopyIndex struct {
	GeneratedAt time.Time    `json:"generated_at"`
	SourceDir   string       `json:"source_dir,omitempty"`
	TotalFiles  int          `json:"total_files"`
	Files       []CopiedFile `json:"files"`
}

// CopyCollector accumulates the files of a copy run and writes an index of
// them next to the output
type CopyCollector struct {
	mu        sync.RWMutex
	files     []CopiedFile
	fs        afero.Fs
	baseDir   string
	filename  string
	sourceDir string
}

// CollectorOptions contains options for the collector
type CollectorOptions struct {
	Fs        afero.Fs
	BaseDir   string
	Filename  string
	SourceDir string
}

// NewCopyCollector creates a new collector
func NewCopyCollector(opts CollectorOptions) *CopyCollector {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	filename := opts.Filename
	if filename == "" {
		filename = DefaultIndexFilename
	}
	return &CopyCollector{
		files:     make([]CopiedFile, 0),
		fs:        opts.Fs,
		baseDir:   opts.BaseDir,
		filename:  filename,
		sourceDir: opts.SourceDir,
	}
}

// Add records a copied or already up-to-date file
func (c *CopyCollector) Add(job CopyJob, fingerprint string, size int64) {
	relPath, err := filepath.Rel(c.baseDir, job.Dest)
	if err != nil {
		relPath = job.Dest
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.files = append(c.files, CopiedFile{
		Path:        filepath.ToSlash(relPath),
		Source:      job.Source,
		Fingerprint: fingerprint,
		Size:        size,
	})
}

// Flush writes the index. Nothing is written when no file was recorded.
func (c *CopyCollector) Flush() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.files) == 0 {
		return nil
	}

	data, err := json.MarshalIndent(c.buildIndex(), "", "  ")
	if err != nil {
		return err
	}

	if err := c.fs.MkdirAll(c.baseDir, 0755); err != nil {
		return err
	}
	return afero.WriteFile(c.fs, filepath.Join(c.baseDir, c.filename), data, 0644)
}

// buildIndex sorts files by path; workers finish in any order
func (c *CopyCollector) buildIndex() *CopyIndex {
	files := make([]CopiedFile, len(c.files))
	copy(files, c.files)
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	return &CopyIndex{
		GeneratedAt: time.Now(),
		SourceDir:   c.sourceDir,
		TotalFiles:  len(files),
		Files:       files,
	}
}

// Count returns the number of recorded files
func (c *CopyCollector) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.files)
}

// GetIndex returns the index as Flush would write it
func (c *CopyCollector) GetIndex() *CopyIndex {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.buildIndex()
}
