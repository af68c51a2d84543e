package workspace

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/nocta-ui/cli/internal/config"
	"github.com/nocta-ui/cli/internal/errors"
)

// ManifestFileName is the repo-level manifest listing known workspaces.
const ManifestFileName = "nocta.workspace.json"

// PackageManagerKind identifies the package manager managing the repo.
type PackageManagerKind string

const (
	Npm  PackageManagerKind = "npm"
	Pnpm PackageManagerKind = "pnpm"
	Yarn PackageManagerKind = "yarn"
	Bun  PackageManagerKind = "bun"
)

// ParsePackageManager maps a name to a known package manager.
func ParsePackageManager(name string) (PackageManagerKind, bool) {
	switch name {
	case "npm":
		return Npm, true
	case "pnpm":
		return Pnpm, true
	case "yarn":
		return Yarn, true
	case "bun":
		return Bun, true
	}
	return "", false
}

// ManifestEntry records one workspace known to the repo.
type ManifestEntry struct {
	Name        string               `json:"name"`
	Kind        config.WorkspaceKind `json:"kind"`
	PackageName string               `json:"packageName,omitempty"`
	Root        string               `json:"root"`
	Config      string               `json:"config"`
}

// Manifest is the nocta.workspace.json document at the repo root.
type Manifest struct {
	Workspaces     []ManifestEntry    `json:"workspaces,omitempty"`
	PackageManager PackageManagerKind `json:"packageManager,omitempty"`
	RepoRoot       string             `json:"repoRoot,omitempty"`
}

// EntryByPackage finds a workspace by package name or manifest name.
func (m *Manifest) EntryByPackage(packageName string) *ManifestEntry {
	for i := range m.Workspaces {
		entry := &m.Workspaces[i]
		if entry.PackageName == packageName || entry.Name == packageName {
			return entry
		}
	}
	return nil
}

// EntryByKind finds the first workspace of a kind.
func (m *Manifest) EntryByKind(kind config.WorkspaceKind) *ManifestEntry {
	for i := range m.Workspaces {
		if m.Workspaces[i].Kind == kind {
			return &m.Workspaces[i]
		}
	}
	return nil
}

// EntryByConfig finds a workspace by its config path.
func (m *Manifest) EntryByConfig(configPath string) *ManifestEntry {
	for i := range m.Workspaces {
		if m.Workspaces[i].Config == configPath {
			return &m.Workspaces[i]
		}
	}
	return nil
}

// LoadManifest reads the workspace manifest under root. Missing or
// blank files yield (nil, nil).
func LoadManifest(root string) (*Manifest, error) {
	path := filepath.Join(root, ManifestFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.New(errors.ErrInvalidWorkspaceManifest).Wrap(err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, nil
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, errors.New(errors.ErrInvalidWorkspaceManifest).
			WithDetail("failed to parse " + path + ": " + err.Error()).
			WithSuggestion("Check that the file is valid JSON")
	}
	return &manifest, nil
}

// WriteManifest saves the workspace manifest under root.
func WriteManifest(root string, manifest *Manifest) error {
	path := filepath.Join(root, ManifestFileName)
	if err := config.EnsureParentDir(path); err != nil {
		return errors.New(errors.ErrInvalidWorkspaceManifest).Wrap(err)
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return errors.New(errors.ErrInvalidWorkspaceManifest).Wrap(err)
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0644)
}

// FindRepoRoot walks upward from start looking for repo markers: a
// workspace manifest, pnpm-workspace.yaml, turbo.json, or a
// package.json declaring workspaces. The nearest directory holding a
// plain package.json is remembered as a fallback; failing that, start
// itself is returned.
func FindRepoRoot(start string) string {
	absolute, err := filepath.Abs(start)
	if err != nil {
		absolute = start
	}

	current := absolute
	fallback := ""
	for {
		if matchesRepoRoot(current) {
			return current
		}
		if fallback == "" {
			if _, err := os.Stat(filepath.Join(current, "package.json")); err == nil {
				fallback = current
			}
		}

		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}

	if fallback != "" {
		return fallback
	}
	return absolute
}

func matchesRepoRoot(dir string) bool {
	for _, marker := range []string{ManifestFileName, "pnpm-workspace.yaml", "turbo.json"} {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return true
		}
	}
	return packageJSONHasWorkspaces(dir)
}

// RepoIndicatesWorkspaces reports whether root looks like a monorepo.
func RepoIndicatesWorkspaces(root string) bool {
	return matchesRepoRoot(root)
}

func packageJSONHasWorkspaces(dir string) bool {
	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		return false
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return false
	}
	raw, ok := doc["workspaces"]
	if !ok {
		return false
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return len(list) > 0
	}
	var obj struct {
		Packages []string `json:"packages"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		// An object form without packages still signals workspaces.
		return obj.Packages == nil || len(obj.Packages) > 0
	}
	var single string
	return json.Unmarshal(raw, &single) == nil
}

// DetectPackageManager inspects lockfiles, then the packageManager
// field, to identify the repo's package manager.
func DetectPackageManager(root string) (PackageManagerKind, bool) {
	if _, err := os.Stat(filepath.Join(root, "pnpm-lock.yaml")); err == nil {
		return Pnpm, true
	}
	if _, err := os.Stat(filepath.Join(root, "yarn.lock")); err == nil {
		return Yarn, true
	}
	for _, lock := range []string{"bun.lockb", "bun.lock"} {
		if _, err := os.Stat(filepath.Join(root, lock)); err == nil {
			return Bun, true
		}
	}
	if _, err := os.Stat(filepath.Join(root, "package-lock.json")); err == nil {
		return Npm, true
	}

	data, err := os.ReadFile(filepath.Join(root, "package.json"))
	if err != nil {
		return "", false
	}
	var doc struct {
		PackageManager string `json:"packageManager"`
	}
	if err := json.Unmarshal(data, &doc); err != nil || doc.PackageManager == "" {
		return "", false
	}
	name, _, _ := strings.Cut(doc.PackageManager, "@")
	return ParsePackageManager(name)
}
