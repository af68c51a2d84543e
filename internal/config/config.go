package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/nocta-ui/cli/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "nocta.config.json"

	// DefaultSchemaURL is the JSON schema URL written into new configs.
	DefaultSchemaURL = "https://www.nocta-ui.com/registry/config-schema.json"
)

// Config represents the complete nocta.config.json document.
type Config struct {
	// Schema is the JSON schema URL ("$schema").
	Schema string `json:"$schema,omitempty"`

	// Style is the selected visual style.
	Style string `json:"style"`

	// Tailwind contains Tailwind CSS configuration.
	Tailwind TailwindConfig `json:"tailwind"`

	// Aliases contains the component and util alias paths.
	Aliases Aliases `json:"aliases"`

	// AliasPrefixes optionally overrides the import alias prefixes.
	AliasPrefixes *AliasPrefixes `json:"aliasPrefixes,omitempty"`

	// Exports optionally configures export barrel maintenance.
	Exports *ExportsConfig `json:"exports,omitempty"`

	// Workspace optionally describes the workspace this config belongs to.
	Workspace *WorkspaceConfig `json:"workspace,omitempty"`
}

// TailwindConfig contains Tailwind CSS settings.
type TailwindConfig struct {
	// CSS is the path to the project's main CSS file.
	CSS string `json:"css"`
}

// Aliases contains alias targets for generated imports.
type Aliases struct {
	Components AliasTarget `json:"components"`
	Utils      AliasTarget `json:"utils"`
}

// AliasPrefixes overrides the default "@" import prefix per alias.
type AliasPrefixes struct {
	Components string `json:"components,omitempty"`
	Utils      string `json:"utils,omitempty"`
}

// AliasTarget is either a bare path or a {filesystem, import} pair.
// The JSON form is untagged: a string, or an object.
type AliasTarget struct {
	// Filesystem is the directory path components are written to.
	Filesystem string

	// Import is an optional distinct import alias for the directory.
	Import string
}

// FilesystemPath returns the directory path for the alias.
func (a AliasTarget) FilesystemPath() string {
	return a.Filesystem
}

// ImportAlias returns the distinct import alias, if configured.
func (a AliasTarget) ImportAlias() (string, bool) {
	if a.Import == "" {
		return "", false
	}
	return a.Import, true
}

// UnmarshalJSON accepts both the bare-string and the object form.
func (a *AliasTarget) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var path string
		if err := json.Unmarshal(trimmed, &path); err != nil {
			return err
		}
		*a = AliasTarget{Filesystem: path}
		return nil
	}

	var obj struct {
		Filesystem string `json:"filesystem"`
		Import     string `json:"import"`
	}
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return err
	}
	*a = AliasTarget{Filesystem: obj.Filesystem, Import: obj.Import}
	return nil
}

// MarshalJSON writes the bare-string form unless an import alias is set.
func (a AliasTarget) MarshalJSON() ([]byte, error) {
	if a.Import == "" {
		return json.Marshal(a.Filesystem)
	}
	return json.Marshal(struct {
		Filesystem string `json:"filesystem"`
		Import     string `json:"import,omitempty"`
	}{Filesystem: a.Filesystem, Import: a.Import})
}

// ExportsConfig configures export barrel maintenance.
type ExportsConfig struct {
	Components *ExportsTargetConfig `json:"components,omitempty"`
}

// ExportsTargetConfig describes one maintained barrel file.
type ExportsTargetConfig struct {
	// Barrel is the workspace-relative path of the barrel file.
	Barrel string `json:"barrel"`

	// Strategy selects how exports are written. Only "named" is supported.
	Strategy ExportStrategy `json:"strategy,omitempty"`
}

// BarrelPath returns the workspace-relative barrel path.
func (e *ExportsTargetConfig) BarrelPath() string {
	return e.Barrel
}

// ExportStrategy selects how barrel exports are emitted.
type ExportStrategy string

const (
	// ExportNamed emits `export { a, b } from "module";` lines.
	ExportNamed ExportStrategy = "named"
)

// WorkspaceKind classifies an installable target.
type WorkspaceKind string

const (
	KindApp     WorkspaceKind = "app"
	KindUi      WorkspaceKind = "ui"
	KindLibrary WorkspaceKind = "library"
)

// Valid reports whether the kind is one of the known variants.
func (k WorkspaceKind) Valid() bool {
	switch k {
	case KindApp, KindUi, KindLibrary:
		return true
	}
	return false
}

// WorkspaceConfig describes the workspace a config file belongs to.
type WorkspaceConfig struct {
	Kind        WorkspaceKind `json:"kind"`
	PackageName string        `json:"packageName,omitempty"`
	Root        string        `json:"root,omitempty"`

	// LinkedWorkspaces lists other workspaces reachable from this one.
	LinkedWorkspaces []WorkspaceLink `json:"linkedWorkspaces,omitempty"`
}

// WorkspaceLink points at another workspace's root and config.
type WorkspaceLink struct {
	Kind        WorkspaceKind `json:"kind"`
	PackageName string        `json:"packageName,omitempty"`
	Root        string        `json:"root"`
	Config      string        `json:"config"`
}

// Read loads nocta.config.json from the working directory.
// It returns (nil, nil) when no config file exists.
func Read() (*Config, error) {
	return ReadFrom(ConfigFileName)
}

// ReadFrom loads a config document from the given path.
// Missing or blank files yield (nil, nil).
func ReadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.New(errors.ErrInvalidConfig).Wrap(err)
	}

	if strings.TrimSpace(string(data)) == "" {
		return nil, nil
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, errors.New(errors.ErrInvalidConfig).
			WithDetail("failed to parse " + path + ": " + err.Error()).
			WithSuggestion("Check that the file is valid JSON")
	}

	return &cfg, nil
}

// Write saves the config to nocta.config.json in the working directory.
func Write(cfg *Config) error {
	return WriteTo(ConfigFileName, cfg)
}

// WriteTo saves the config to the given path, filling in the schema URL
// when it is unset.
func WriteTo(path string, cfg *Config) error {
	if err := EnsureParentDir(path); err != nil {
		return errors.New(errors.ErrConfigWrite).Wrap(err)
	}

	doc := *cfg
	if doc.Schema == "" {
		doc.Schema = DefaultSchemaURL
	}

	data, err := json.MarshalIndent(&doc, "", "  ")
	if err != nil {
		return errors.New(errors.ErrConfigWrite).Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New(errors.ErrConfigWrite).Wrap(err)
	}
	return nil
}

// EnsureParentDir creates the parent directory of path if needed.
func EnsureParentDir(path string) error {
	parent := filepath.Dir(path)
	if parent == "" || parent == "." {
		return nil
	}
	return os.MkdirAll(parent, 0755)
}
