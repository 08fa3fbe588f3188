// Package git locates the repository a mini-program lives in.
package git

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v5"
)

// ErrNotRepository indicates no repository encloses the directory
var ErrNotRepository = errors.New("not inside a git repository")

// RealClient implements Client using go-git
type RealClient struct{}

// NewClient creates a new RealClient
func NewClient() *RealClient {
	return &RealClient{}
}

// PlainOpenWithOptions calls git.PlainOpenWithOptions
func (c *RealClient) PlainOpenWithOptions(path string, o *git.PlainOpenOptions) (*git.Repository, error) {
	return git.PlainOpenWithOptions(path, o)
}

// WorktreeRoot returns the top directory of the work tree enclosing dir,
// searching parent directories for .git
func WorktreeRoot(c Client, dir string) (string, error) {
	if c == nil {
		c = NewClient()
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	repo, err := c.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return "", fmt.Errorf("%w: %s", ErrNotRepository, abs)
		}
		return "", fmt.Errorf("failed to open repository at %s: %w", abs, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("repository at %s has no work tree: %w", abs, err)
	}
	return wt.Filesystem.Root(), nil
}
