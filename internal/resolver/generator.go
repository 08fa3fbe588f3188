package resolver

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/lineCode/import-weapp-component/internal/domain"
	"github.com/lineCode/import-weapp-component/internal/pathutil"
	"github.com/lineCode/import-weapp-component/internal/utils"
)

const (
	dirManifest = "index.json"
	scriptExt   = ".js"
	manifestExt = ".json"
)

// ResolveReference classifies the component at sourcePath and returns its copy
// pattern, or nil when sourcePath is neither a directory nor has a .js sibling.
//
// The component's own manifest (index.json for directory components,
// <name>.json for single-file ones) is read and its references are pushed on
// queue, prefixed with the directory of ref.
func (r *Resolver) ResolveReference(sourcePath, destPath string, queue *Queue, ref string, sink domain.ErrorSink) *domain.Pattern {
	switch {
	case utils.IsDir(r.fs, sourcePath):
		r.enqueueNested(filepath.Join(sourcePath, dirManifest), ref, queue, sink)
		return &domain.Pattern{
			From:     sourcePath,
			To:       destPath,
			FromType: domain.FromTypeDir,
		}

	case utils.IsFile(r.fs, sourcePath+scriptExt):
		r.enqueueNested(sourcePath+manifestExt, ref, queue, sink)
		return &domain.Pattern{
			From: filepath.Dir(sourcePath),
			To:   pathutil.FileDir(destPath),
			Test: r.componentTest(filepath.Base(sourcePath)),
		}
	}

	return nil
}

func (r *Resolver) enqueueNested(manifestPath, ref string, queue *Queue, sink domain.ErrorSink) {
	components := r.reader.ReadUsingComponentsFromFile(manifestPath, sink)
	for _, nested := range CollectReferences(components, pathutil.FileDir(ref)) {
		queue.Push(PendingRef{Path: nested, Parent: ref})
	}
}

// componentTest matches the file group of a single-file component:
// <name>.(json|js|wxml|wxss)$ with the configured extensions.
func (r *Resolver) componentTest(name string) *regexp.Regexp {
	return ComponentTest(name, r.extensions)
}

// ComponentTest builds the file name pattern of a single-file component
func ComponentTest(name string, extensions []string) *regexp.Regexp {
	if len(extensions) == 0 {
		extensions = domain.DefaultExtensions
	}
	quoted := make([]string, len(extensions))
	for i, ext := range extensions {
		quoted[i] = regexp.QuoteMeta(strings.TrimPrefix(ext, "."))
	}
	return regexp.MustCompile(regexp.QuoteMeta(name) + ".(" + strings.Join(quoted, "|") + ")$")
}
