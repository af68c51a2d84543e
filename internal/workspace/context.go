package workspace

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/nocta-ui/cli/internal/config"
	"github.com/nocta-ui/cli/internal/errors"
	"github.com/nocta-ui/cli/internal/frameworks"
)

// PackageManagerContext carries everything an install plan needs to
// address one workspace: the repo root, the workspace it acts on, and
// the detected package manager.
type PackageManagerContext struct {
	RepoRoot         string
	WorkspaceRoot    string
	WorkspacePackage string
	Manager          PackageManagerKind
}

// Handle is one resolved installable target: a workspace root plus its
// config and import-alias settings.
type Handle struct {
	// ID is stable within a run: "primary" or "linked-<n>".
	ID    string
	Label string
	Kind  config.WorkspaceKind

	RootAbs string
	RootRel string

	Config *config.Config

	// AliasPrefix replaces the "@" marker when imports are rewritten.
	AliasPrefix string

	// ComponentImportAlias, when set, is the distinct alias for the
	// components directory (e.g. "@workspace/ui").
	ComponentImportAlias string

	PackageName string
	PM          PackageManagerContext
}

// Context is the set of workspaces reachable from the current config.
// The first handle is always the primary workspace.
type Context struct {
	CurrentDir string
	Handles    []Handle
}

// Primary returns the workspace the CLI was invoked in.
func (c *Context) Primary() *Handle {
	return &c.Handles[0]
}

// HandleByID finds a handle by its run-local id.
func (c *Context) HandleByID(id string) *Handle {
	for i := range c.Handles {
		if c.Handles[i].ID == id {
			return &c.Handles[i]
		}
	}
	return nil
}

// FirstByKind finds the first handle of a kind.
func (c *Context) FirstByKind(kind config.WorkspaceKind) *Handle {
	for i := range c.Handles {
		if c.Handles[i].Kind == kind {
			return &c.Handles[i]
		}
	}
	return nil
}

// resolveAliasPrefix picks the import prefix for a workspace: an
// explicit override from the config, "~" for React Router projects,
// otherwise "@".
func resolveAliasPrefix(cfg *config.Config, detection *frameworks.Detection) string {
	if cfg.AliasPrefixes != nil && cfg.AliasPrefixes.Components != "" {
		return cfg.AliasPrefixes.Components
	}
	if detection != nil && detection.Framework == frameworks.ReactRouter {
		return "~"
	}
	return "@"
}

func resolveComponentImportAlias(cfg *config.Config) string {
	alias, ok := cfg.Aliases.Components.ImportAlias()
	if !ok {
		return ""
	}
	return strings.TrimRight(alias, "/")
}

func canonicalize(p string) string {
	if resolved, err := filepath.EvalSymlinks(p); err == nil {
		return resolved
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// BuildContext assembles the workspace handles for one run: the primary
// workspace from cfg, plus one handle per linked workspace, each with
// its own config loaded from disk. Without a workspace descriptor the
// current directory becomes a single App-kind handle.
func BuildContext(cfg *config.Config, detection *frameworks.Detection, currentDir string) (*Context, error) {
	currentDir = canonicalize(currentDir)
	repoRoot := canonicalize(FindRepoRoot(currentDir))

	manifest, err := LoadManifest(repoRoot)
	if err != nil {
		return nil, err
	}

	manager := Npm
	if manifest != nil && manifest.PackageManager != "" {
		manager = manifest.PackageManager
	} else if detected, ok := DetectPackageManager(repoRoot); ok {
		manager = detected
	}

	ctx := &Context{CurrentDir: currentDir}

	if cfg.Workspace == nil {
		ctx.Handles = append(ctx.Handles, Handle{
			ID:                   "primary",
			Label:                ".",
			Kind:                 config.KindApp,
			RootAbs:              currentDir,
			RootRel:              ".",
			Config:               cfg,
			AliasPrefix:          resolveAliasPrefix(cfg, detection),
			ComponentImportAlias: resolveComponentImportAlias(cfg),
			PM: PackageManagerContext{
				RepoRoot:      repoRoot,
				WorkspaceRoot: currentDir,
				Manager:       manager,
			},
		})
		return ctx, nil
	}

	ws := cfg.Workspace
	rootRel := ws.Root
	if rootRel == "" {
		rootRel = "."
	}
	rootAbs := canonicalize(filepath.Join(repoRoot, filepath.FromSlash(ws.Root)))

	label := ws.PackageName
	if label == "" {
		label = rootRel
	}

	ctx.Handles = append(ctx.Handles, Handle{
		ID:                   "primary",
		Label:                label,
		Kind:                 ws.Kind,
		RootAbs:              rootAbs,
		RootRel:              rootRel,
		Config:               cfg,
		AliasPrefix:          resolveAliasPrefix(cfg, detection),
		ComponentImportAlias: resolveComponentImportAlias(cfg),
		PackageName:          ws.PackageName,
		PM: PackageManagerContext{
			RepoRoot:         repoRoot,
			WorkspaceRoot:    rootAbs,
			WorkspacePackage: ws.PackageName,
			Manager:          manager,
		},
	})

	for index, link := range ws.LinkedWorkspaces {
		linkRootAbs := canonicalize(filepath.Join(repoRoot, filepath.FromSlash(link.Root)))
		linkConfigPath := canonicalize(filepath.Join(rootAbs, filepath.FromSlash(link.Config)))

		linkConfig, err := config.ReadFrom(linkConfigPath)
		if err != nil {
			return nil, errors.New(errors.ErrLinkedConfigMissing).
				WithDetailf("failed to read linked workspace config %s: %v", link.Config, err)
		}
		if linkConfig == nil {
			return nil, errors.New(errors.ErrLinkedConfigMissing).
				WithDetailf("linked workspace config %s not found (expected for %s)", link.Config, link.Root).
				WithSuggestion("Run `nocta init` inside the linked workspace first")
		}

		linkLabel := link.PackageName
		if linkLabel == "" {
			linkLabel = link.Root
		}

		ctx.Handles = append(ctx.Handles, Handle{
			ID:                   fmt.Sprintf("linked-%d", index),
			Label:                linkLabel,
			Kind:                 link.Kind,
			RootAbs:              linkRootAbs,
			RootRel:              link.Root,
			Config:               linkConfig,
			AliasPrefix:          resolveAliasPrefix(linkConfig, nil),
			ComponentImportAlias: resolveComponentImportAlias(linkConfig),
			PackageName:          link.PackageName,
			PM: PackageManagerContext{
				RepoRoot:         repoRoot,
				WorkspaceRoot:    linkRootAbs,
				WorkspacePackage: link.PackageName,
				Manager:          manager,
			},
		})
	}

	return ctx, nil
}

// SelectHandle picks the workspace for a file. An explicit target is
// matched case-insensitively against package names, then root-relative
// paths, then kind keywords; no match is a hard error. Without a
// target, an App primary with a linked Ui workspace defers to the Ui
// workspace, since that is where shared component code belongs.
func (c *Context) SelectHandle(target string) (*Handle, error) {
	if target != "" {
		normalized := strings.ToLower(target)

		for i := range c.Handles {
			if strings.ToLower(c.Handles[i].PackageName) == normalized && c.Handles[i].PackageName != "" {
				return &c.Handles[i], nil
			}
		}
		for i := range c.Handles {
			if strings.ToLower(c.Handles[i].RootRel) == normalized {
				return &c.Handles[i], nil
			}
		}

		var byKind *Handle
		switch normalized {
		case "app":
			byKind = c.FirstByKind(config.KindApp)
		case "ui", "shared":
			byKind = c.FirstByKind(config.KindUi)
		case "library", "lib":
			byKind = c.FirstByKind(config.KindLibrary)
		}
		if byKind != nil {
			return byKind, nil
		}

		return nil, errors.New(errors.ErrWorkspaceNotLinked).
			WithDetailf("no workspace configured for target %q", target).
			WithSuggestion("Update nocta.config.json to link the workspace")
	}

	if c.Primary().Kind == config.KindApp {
		if ui := c.FirstByKind(config.KindUi); ui != nil {
			return ui, nil
		}
	}
	return c.Primary(), nil
}

// SelectDependencyTarget picks which workspace receives a component's
// package dependencies, out of the workspaces its files landed in.
// Shared dependencies belong with shared code, so Ui wins over Library,
// which wins over anything else.
func (c *Context) SelectDependencyTarget(workspaceIDs map[string]bool) string {
	if len(workspaceIDs) == 0 {
		return ""
	}

	for _, kind := range []config.WorkspaceKind{config.KindUi, config.KindLibrary} {
		for i := range c.Handles {
			if c.Handles[i].Kind == kind && workspaceIDs[c.Handles[i].ID] {
				return c.Handles[i].ID
			}
		}
	}
	for i := range c.Handles {
		if workspaceIDs[c.Handles[i].ID] {
			return c.Handles[i].ID
		}
	}
	return ""
}

// ResolveComponentPath places a registry file under the workspace's
// components alias directory. The registry's own "components/ui/" (or
// "components/") prefix is replaced by the alias path; any remaining
// structure is preserved.
func ResolveComponentPath(registryPath string, cfg *config.Config) string {
	normalized := strings.TrimLeft(strings.ReplaceAll(registryPath, `\`, "/"), "/")
	normalized = strings.TrimPrefix(normalized, "./")

	if rest, ok := strings.CutPrefix(normalized, "components/ui/"); ok {
		normalized = rest
	} else if rest, ok := strings.CutPrefix(normalized, "components/"); ok {
		normalized = rest
	}
	if normalized == "" {
		normalized = path.Base(registryPath)
	}
	return path.Join(cfg.Aliases.Components.FilesystemPath(), normalized)
}

// FlattenPathForSlug strips a redundant per-slug directory directly
// under the components alias path, so "components/ui/button/button.tsx"
// becomes "components/ui/button.tsx" for slug "button". It returns
// ("", false) when the path needs no flattening.
func FlattenPathForSlug(relativePath string, cfg *config.Config, slug string) (string, bool) {
	base := strings.Trim(cfg.Aliases.Components.FilesystemPath(), "/")
	normalized := strings.Trim(strings.ReplaceAll(relativePath, `\`, "/"), "/")

	if base == "" || !strings.HasPrefix(normalized, base+"/") {
		return "", false
	}
	rest := strings.TrimPrefix(normalized, base+"/")

	first, remainder, found := strings.Cut(rest, "/")
	if !found || first != slug || remainder == "" {
		return "", false
	}
	return path.Join(base, remainder), true
}
