package registry

import "encoding/json"

// Registry is the parsed registry.json manifest.
type Registry struct {
	Name        string                  `json:"name"`
	Description string                  `json:"description,omitempty"`
	Version     string                  `json:"version"`
	Components  map[string]Component    `json:"components"`
	Categories  map[string]CategoryInfo `json:"categories"`

	// Requirements maps package names to semver ranges the host project
	// must satisfy before components can be installed.
	Requirements map[string]string `json:"requirements"`
}

// Component is one installable component as described by the registry.
// Components are immutable for the duration of a run once fetched.
type Component struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Files       []ComponentFile `json:"files"`

	// Dependencies and DevDependencies map npm package names to semver
	// ranges required by this component.
	Dependencies    map[string]string `json:"dependencies,omitempty"`
	DevDependencies map[string]string `json:"devDependencies,omitempty"`

	// InternalDependencies lists slugs of other registry components this
	// component needs installed alongside it.
	InternalDependencies []string `json:"internalDependencies,omitempty"`

	// Exports names the symbols the component's files export.
	Exports []string `json:"exports,omitempty"`

	Props    map[string][]string `json:"props,omitempty"`
	Variants []string            `json:"variants,omitempty"`
	Sizes    []string            `json:"sizes,omitempty"`
}

// ComponentFile is one file belonging to a component.
type ComponentFile struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"`

	// Target optionally names the workspace the file should land in,
	// by package name, root path, or kind keyword.
	Target string `json:"target,omitempty"`
}

// UnmarshalJSON accepts "workspace" as a legacy alias for "target".
func (f *ComponentFile) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name      string `json:"name"`
		Path      string `json:"path"`
		Type      string `json:"type"`
		Target    string `json:"target"`
		Workspace string `json:"workspace"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	target := raw.Target
	if target == "" {
		target = raw.Workspace
	}
	*f = ComponentFile{Name: raw.Name, Path: raw.Path, Type: raw.Type, Target: target}
	return nil
}

// CategoryInfo groups components for listing.
type CategoryInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Components  []string `json:"components"`
}

// Summary is the registry's identity without the component map.
type Summary struct {
	Name        string
	Version     string
	Description string
}

// ResolvedComponent pairs a slug with its registry entry.
type ResolvedComponent struct {
	Slug      string
	Component Component
}
