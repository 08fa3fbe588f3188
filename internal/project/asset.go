package project

import (
	"github.com/lineCode/import-weapp-component/internal/domain"
	"github.com/spf13/afero"
)

// FileAsset is an entry asset read from disk when its source is requested
type FileAsset struct {
	fs   afero.Fs
	path string
}

var _ domain.Asset = (*FileAsset)(nil)

// NewFileAsset creates a FileAsset for path on fs
func NewFileAsset(fs afero.Fs, path string) *FileAsset {
	return &FileAsset{fs: fs, path: path}
}

// Path returns the file the asset reads
func (a *FileAsset) Path() string {
	return a.path
}

// Source reads the file
func (a *FileAsset) Source() ([]byte, error) {
	return afero.ReadFile(a.fs, a.path)
}
