package manifest

// UsingComponentsKey is the manifest key declaring component references
const UsingComponentsKey = "usingComponents"

// Component is one usingComponents declaration
type Component struct {
	Name string
	Path string
}

// Components is an ordered usingComponents mapping
type Components []Component

// Get returns the reference declared for name
func (c Components) Get(name string) (string, bool) {
	for _, comp := range c {
		if comp.Name == name {
			return comp.Path, true
		}
	}
	return "", false
}

// Names returns the component names in declaration order
func (c Components) Names() []string {
	names := make([]string, len(c))
	for i, comp := range c {
		names[i] = comp.Name
	}
	return names
}

// Paths returns the reference paths in declaration order
func (c Components) Paths() []string {
	paths := make([]string, len(c))
	for i, comp := range c {
		paths[i] = comp.Path
	}
	return paths
}

// set adds or replaces a declaration. A repeated name keeps its first position.
func (c *Components) set(name, path string) {
	for i := range *c {
		if (*c)[i].Name == name {
			(*c)[i].Path = path
			return
		}
	}
	*c = append(*c, Component{Name: name, Path: path})
}

// Manifest is a parsed page or component manifest
type Manifest struct {
	UsingComponents Components
}
