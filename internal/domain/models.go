package domain

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// FromType marks how a pattern's source should be copied
type FromType string

const (
	// FromTypeDir copies the whole subtree rooted at From
	FromTypeDir FromType = "dir"
)

// DefaultExtensions are the file extensions making up a single-file component
var DefaultExtensions = []string{"json", "js", "wxml", "wxss"}

// Pattern is one copy instruction. Exactly one of FromType and Test is set.
type Pattern struct {
	// From is the absolute source directory
	From string
	// To is the destination directory, relative to the output root
	To string
	// FromType is FromTypeDir for directory components
	FromType FromType
	// Test selects file names inside From for single-file components
	Test *regexp.Regexp
}

// IsDir reports whether the pattern copies a whole directory
func (p Pattern) IsDir() bool {
	return p.FromType == FromTypeDir
}

// Matches reports whether a file name inside From is covered by the pattern
func (p Pattern) Matches(name string) bool {
	if p.IsDir() {
		return true
	}
	return p.Test != nil && p.Test.MatchString(name)
}

// String returns a compact human readable form
func (p Pattern) String() string {
	if p.IsDir() {
		return fmt.Sprintf("%s -> %s [dir]", p.From, p.To)
	}
	test := ""
	if p.Test != nil {
		test = p.Test.String()
	}
	return fmt.Sprintf("%s -> %s [%s]", p.From, p.To, test)
}

// patternDoc is the serialized form shared by JSON and YAML output
type patternDoc struct {
	From     string   `json:"from" yaml:"from"`
	To       string   `json:"to" yaml:"to"`
	FromType FromType `json:"fromType,omitempty" yaml:"fromType,omitempty"`
	Test     string   `json:"test,omitempty" yaml:"test,omitempty"`
}

func (p Pattern) doc() patternDoc {
	d := patternDoc{From: p.From, To: p.To, FromType: p.FromType}
	if p.Test != nil {
		d.Test = p.Test.String()
	}
	return d
}

// MarshalJSON implements json.Marshaler
func (p Pattern) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.doc())
}

// UnmarshalJSON implements json.Unmarshaler
func (p *Pattern) UnmarshalJSON(data []byte) error {
	var d patternDoc
	if err := json.Unmarshal(data, &d); err != nil {
		return err
	}
	p.From, p.To, p.FromType, p.Test = d.From, d.To, d.FromType, nil
	if d.Test != "" {
		re, err := regexp.Compile(d.Test)
		if err != nil {
			return fmt.Errorf("invalid pattern test %q: %w", d.Test, err)
		}
		p.Test = re
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (p Pattern) MarshalYAML() (interface{}, error) {
	return p.doc(), nil
}

// Resolution is a pattern together with the reference that produced it
type Resolution struct {
	// Entry is the name of the entry JSON asset
	Entry string `json:"entry" yaml:"entry"`
	// Reference is the reference string as queued
	Reference string `json:"reference" yaml:"reference"`
	// Parent is the reference whose manifest declared this one, empty at entry level
	Parent  string  `json:"parent,omitempty" yaml:"parent,omitempty"`
	Pattern Pattern `json:"pattern" yaml:"pattern"`
}

// Patterns extracts the patterns of a list of resolutions, preserving order
func Patterns(resolutions []Resolution) []Pattern {
	out := make([]Pattern, 0, len(resolutions))
	for _, r := range resolutions {
		out = append(out, r.Pattern)
	}
	return out
}

// NamedAsset is one produced asset of an entry
type NamedAsset struct {
	Name  string
	Asset Asset
}

// Entry is one compiled entry (typically a page)
type Entry struct {
	// Context is the entry's source directory
	Context string
	// Assets keeps the produced assets in production order
	Assets []NamedAsset
}

// AddAsset appends an asset to the entry
func (e *Entry) AddAsset(name string, asset Asset) {
	e.Assets = append(e.Assets, NamedAsset{Name: name, Asset: asset})
}

// CompilationOptions holds build wide settings
type CompilationOptions struct {
	// Context is the project root absolute references are anchored at
	Context string
}

// Compilation is the build context handed to the resolver
type Compilation struct {
	Entries []Entry
	Options CompilationOptions
	// Errors collects non-fatal problems; owned by the caller
	Errors *ErrorList
}

// NewCompilation creates a compilation with an empty error list
func NewCompilation(projectContext string, entries ...Entry) *Compilation {
	return &Compilation{
		Entries: entries,
		Options: CompilationOptions{Context: projectContext},
		Errors:  NewErrorList(),
	}
}

// Sink returns the compilation's error sink, creating the list on first use
func (c *Compilation) Sink() ErrorSink {
	if c.Errors == nil {
		c.Errors = NewErrorList()
	}
	return c.Errors
}
