package app

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/lineCode/import-weapp-component/internal/manifest"
	"github.com/lineCode/import-weapp-component/internal/utils"
	"github.com/spf13/afero"
)

// projectConfigFile is the developer tools project file naming the mini-program root
const projectConfigFile = "project.config.json"

// candidateDirs are conventional mini-program roots inside a repository
var candidateDirs = []string{"miniprogram", "src"}

// SourceLayout describes where a mini-program was found
type SourceLayout string

const (
	LayoutDirect        SourceLayout = "direct"
	LayoutProjectConfig SourceLayout = "project-config"
	LayoutConventional  SourceLayout = "conventional"
	LayoutUnknown       SourceLayout = "unknown"
)

// DetectSourceDir finds the directory holding the app manifest: dir itself,
// the miniprogramRoot named by project.config.json, or a conventional
// subdirectory. Unknown layouts return dir unchanged.
func DetectSourceDir(fs afero.Fs, dir, appManifest string) (string, SourceLayout) {
	if appManifest == "" {
		appManifest = "app.json"
	}

	if utils.IsFile(fs, filepath.Join(dir, appManifest)) {
		return dir, LayoutDirect
	}

	if root, err := miniprogramRoot(fs, dir); err == nil && root != "" {
		candidate := filepath.Join(dir, filepath.FromSlash(root))
		if utils.IsFile(fs, filepath.Join(candidate, appManifest)) {
			return candidate, LayoutProjectConfig
		}
	}

	for _, name := range candidateDirs {
		candidate := filepath.Join(dir, name)
		if utils.IsFile(fs, filepath.Join(candidate, appManifest)) {
			return candidate, LayoutConventional
		}
	}

	return dir, LayoutUnknown
}

// miniprogramRoot reads the miniprogramRoot field of project.config.json
func miniprogramRoot(fs afero.Fs, dir string) (string, error) {
	data, err := afero.ReadFile(fs, filepath.Join(dir, projectConfigFile))
	if err != nil {
		return "", err
	}

	data, err = manifest.Normalize(data)
	if err != nil {
		return "", fmt.Errorf("invalid %s: %w", projectConfigFile, err)
	}

	var cfg struct {
		MiniprogramRoot string `json:"miniprogramRoot"`
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return "", fmt.Errorf("invalid %s: %w", projectConfigFile, err)
	}
	return cfg.MiniprogramRoot, nil
}
