package resolver

import (
	"github.com/lineCode/import-weapp-component/internal/manifest"
	"github.com/lineCode/import-weapp-component/internal/pathutil"
)

// CollectReferences turns declared components into reference paths, in
// declaration order. A non-empty parentDir prefixes every value.
func CollectReferences(components manifest.Components, parentDir string) []string {
	refs := make([]string, 0, len(components))
	for _, comp := range components {
		refs = append(refs, pathutil.Join(parentDir, comp.Path))
	}
	return refs
}
