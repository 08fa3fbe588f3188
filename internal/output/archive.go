package output

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/afero"
)

// WriteArchive writes the tree below dir to w as a zstd compressed tar.
// Entry names are slash separated and relative to dir.
func WriteArchive(fs afero.Fs, dir string, w io.Writer) (int, error) {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return 0, fmt.Errorf("failed to create zstd encoder: %w", err)
	}

	tw := tar.NewWriter(enc)
	count := 0

	walkErr := afero.Walk(fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)
		if info.IsDir() {
			header.Name += "/"
		}
		if err := tw.WriteHeader(header); err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		f, err := fs.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		if _, err := io.Copy(tw, f); err != nil {
			return err
		}
		count++
		return nil
	})
	if walkErr != nil {
		_ = tw.Close()
		_ = enc.Close()
		return count, fmt.Errorf("failed to archive %s: %w", dir, walkErr)
	}

	if err := tw.Close(); err != nil {
		_ = enc.Close()
		return count, fmt.Errorf("failed to finish tar stream: %w", err)
	}
	if err := enc.Close(); err != nil {
		return count, fmt.Errorf("failed to finish zstd stream: %w", err)
	}
	return count, nil
}

// WriteArchiveFile writes the archive of dir to path. The archive must not
// live inside dir.
func WriteArchiveFile(fs afero.Fs, dir, path string) (int, error) {
	if rel, err := filepath.Rel(dir, path); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return 0, fmt.Errorf("archive %s must be outside %s", path, dir)
	}
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, err
	}
	f, err := fs.Create(path)
	if err != nil {
		return 0, err
	}

	count, err := WriteArchive(fs, dir, f)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	return count, err
}
