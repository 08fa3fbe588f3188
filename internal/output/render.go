package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/disiqueira/gotree/v3"
	"github.com/lineCode/import-weapp-component/internal/domain"
	"gopkg.in/yaml.v3"
)

// Render formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTree = "tree"
)

// Formats lists the accepted render formats
var Formats = []string{FormatJSON, FormatYAML, FormatTree}

// Render writes resolutions to w in the given format
func Render(w io.Writer, format string, resolutions []domain.Resolution) error {
	if resolutions == nil {
		resolutions = []domain.Resolution{}
	}

	switch strings.ToLower(format) {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resolutions)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(resolutions); err != nil {
			return err
		}
		return enc.Close()
	case FormatTree:
		_, err := io.WriteString(w, RenderTree("components", resolutions))
		return err
	default:
		return fmt.Errorf("unsupported format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

// RenderTree draws the component hierarchy: entries at the first level and
// every component below the manifest that declared it
func RenderTree(rootLabel string, resolutions []domain.Resolution) string {
	root := gotree.New(rootLabel)
	entries := make(map[string]gotree.Tree)
	nodes := make(map[string]gotree.Tree)

	for _, r := range resolutions {
		entry, ok := entries[r.Entry]
		if !ok {
			entry = root.Add(r.Entry)
			entries[r.Entry] = entry
		}

		parent := entry
		if r.Parent != "" {
			if node, ok := nodes[r.Entry+"\x00"+r.Parent]; ok {
				parent = node
			}
		}

		node := parent.Add(treeLabel(r))
		nodes[r.Entry+"\x00"+r.Reference] = node
	}

	return root.Print()
}

func treeLabel(r domain.Resolution) string {
	to := r.Pattern.To
	if to == "" {
		to = "."
	}
	if r.Pattern.IsDir() {
		return fmt.Sprintf("%s -> %s/", r.Reference, to)
	}
	test := ""
	if r.Pattern.Test != nil {
		test = r.Pattern.Test.String()
	}
	return fmt.Sprintf("%s -> %s [%s]", r.Reference, to, test)
}
