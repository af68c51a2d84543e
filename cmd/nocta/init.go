package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nocta-ui/cli/internal/config"
	"github.com/nocta-ui/cli/internal/deps"
	"github.com/nocta-ui/cli/internal/frameworks"
	"github.com/nocta-ui/cli/internal/registry"
	"github.com/nocta-ui/cli/internal/workspace"
)

// Shared UI workspaces get the host-framework packages as peers so a
// consuming app brings its own React.
var (
	sharedUIPeerDependencies = []string{"react", "react-dom"}
	sharedUIDevDependencies  = []string{"@types/react"}
)

func initCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize Nocta UI in your project",
		Long: `Initialize Nocta UI in your project.

This detects your framework, creates nocta.config.json, installs the
registry's required dependencies, and scaffolds the shared utility and
icon files components depend on.

In a monorepo, run init inside each workspace you want to install
components into. Shared UI workspaces are linked automatically.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would change without writing anything")

	return cmd
}

type initRunner struct {
	client *registry.Client
	dryRun bool
	cwd    string

	createdPaths []string
}

func runInit(dryRun bool) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	runner := &initRunner{
		client: newRegistryClient(),
		dryRun: dryRun,
		cwd:    cwd,
	}
	if err := runner.execute(); err != nil {
		runner.rollback()
		return err
	}
	return nil
}

// rollback removes files created during a failed run, newest first.
func (r *initRunner) rollback() {
	if r.dryRun || len(r.createdPaths) == 0 {
		return
	}
	for i := len(r.createdPaths) - 1; i >= 0; i-- {
		os.Remove(r.createdPaths[i])
	}
	warn("Rolled back partial changes")
}

func (r *initRunner) execute() error {
	existing, err := config.ReadFrom(filepath.Join(r.cwd, config.ConfigFileName))
	if err != nil {
		return err
	}
	if existing != nil {
		warn("%s already exists!", config.ConfigFileName)
		info("%s", dimmed("Your project is already initialized."))
		return nil
	}

	ws, err := r.resolveWorkspace()
	if err != nil {
		return err
	}

	detection := frameworks.Detect(r.cwd)
	if ws.kind == config.KindApp && detection.Framework == frameworks.Unknown {
		printFrameworkUnknown(detection)
		return nil
	}

	ctx, cancel := commandContext()
	defer cancel()

	requirements, err := r.client.Requirements(ctx)
	if err != nil {
		return err
	}

	cfg := buildInitConfig(detection, r.cwd)
	prefix := aliasPrefixFor(detection)
	cfg.AliasPrefixes = &config.AliasPrefixes{Components: prefix, Utils: prefix}
	ensureDefaultExportsConfig(cfg, ws.kind)
	cfg.Workspace = &config.WorkspaceConfig{
		Kind:             ws.kind,
		PackageName:      ws.packageName,
		Root:             ws.rootRel,
		LinkedWorkspaces: ws.links,
	}

	manageHere := !(ws.kind == config.KindApp && len(ws.links) > 0)
	if manageHere {
		r.reportRequirementIssues(deps.Reconcile(ws.pm, requirements))
	} else {
		info("%s", dimmed("Detected linked shared UI workspace(s); dependencies are managed there."))
	}

	if err := r.writeConfig(cfg); err != nil {
		return err
	}
	if err := r.ensurePackageExports(ws, cfg); err != nil {
		return err
	}
	r.installRequirements(manageHere, ws, requirements)

	utilsPath, iconsPath, err := r.syncRegistryAssets(ctx, manageHere, cfg)
	if err != nil {
		return err
	}

	if err := r.persistManifest(ws); err != nil {
		return err
	}

	r.printSummary(ws, cfg, detection, requirements, manageHere, utilsPath, iconsPath)
	return nil
}

// initWorkspace is everything resolved about the directory init runs in.
type initWorkspace struct {
	repoRoot string
	rootAbs  string
	rootRel  string

	manifest        *workspace.Manifest
	manifestExisted bool

	kind        config.WorkspaceKind
	packageName string
	links       []config.WorkspaceLink
	monorepo    bool

	pm workspace.PackageManagerContext
}

func (r *initRunner) resolveWorkspace() (*initWorkspace, error) {
	repoRoot := workspace.FindRepoRoot(r.cwd)

	rootRel := "."
	if rel, err := filepath.Rel(repoRoot, r.cwd); err == nil && rel != "." {
		rootRel = filepath.ToSlash(rel)
	}

	manifestPath := filepath.Join(repoRoot, workspace.ManifestFileName)
	_, statErr := os.Stat(manifestPath)
	manifest, err := workspace.LoadManifest(repoRoot)
	if err != nil {
		return nil, err
	}
	if manifest == nil {
		manifest = &workspace.Manifest{}
	}

	monorepo := workspace.RepoIndicatesWorkspaces(repoRoot) ||
		rootRel != "." || len(manifest.Workspaces) > 1

	entryIndex := -1
	for i, entry := range manifest.Workspaces {
		if entry.Root == rootRel {
			entryIndex = i
			break
		}
	}

	kind := guessWorkspaceKind(rootRel)
	if entryIndex >= 0 {
		kind = manifest.Workspaces[entryIndex].Kind
	}

	packageName := ""
	if entryIndex >= 0 {
		packageName = manifest.Workspaces[entryIndex].PackageName
	}
	if packageName == "" {
		packageName = readPackageName(r.cwd)
	}
	if !monorepo {
		packageName = ""
	}

	var links []config.WorkspaceLink
	if kind == config.KindApp && monorepo {
		links = r.linkSharedWorkspaces(manifest, rootRel, repoRoot)
	}

	entryName := packageName
	if entryName == "" {
		entryName = rootRel
	}
	entry := workspace.ManifestEntry{
		Name:        entryName,
		Kind:        kind,
		PackageName: packageName,
		Root:        rootRel,
		Config:      joinRelative(rootRel, config.ConfigFileName),
	}
	if entryIndex >= 0 {
		manifest.Workspaces[entryIndex] = entry
	} else {
		manifest.Workspaces = append(manifest.Workspaces, entry)
	}
	sort.Slice(manifest.Workspaces, func(i, j int) bool {
		return manifest.Workspaces[i].Root < manifest.Workspaces[j].Root
	})

	if manifest.PackageManager == "" {
		if detected, ok := workspace.DetectPackageManager(repoRoot); ok {
			manifest.PackageManager = detected
		} else {
			manifest.PackageManager = workspace.Npm
		}
	}
	if manifest.RepoRoot == "" {
		manifest.RepoRoot = "."
	}

	return &initWorkspace{
		repoRoot:        repoRoot,
		rootAbs:         r.cwd,
		rootRel:         rootRel,
		manifest:        manifest,
		manifestExisted: statErr == nil,
		kind:            kind,
		packageName:     packageName,
		links:           links,
		monorepo:        monorepo,
		pm: workspace.PackageManagerContext{
			RepoRoot:         repoRoot,
			WorkspaceRoot:    r.cwd,
			WorkspacePackage: packageName,
			Manager:          manifest.PackageManager,
		},
	}, nil
}

// linkSharedWorkspaces links every shared UI workspace already recorded
// in the manifest to this app.
func (r *initRunner) linkSharedWorkspaces(manifest *workspace.Manifest, rootRel, repoRoot string) []config.WorkspaceLink {
	var links []config.WorkspaceLink
	for _, entry := range manifest.Workspaces {
		if entry.Kind != config.KindUi || entry.Root == rootRel {
			continue
		}

		configAbs := filepath.Join(repoRoot, filepath.FromSlash(entry.Config))
		configRel := entry.Config
		if rel, err := filepath.Rel(r.cwd, configAbs); err == nil {
			configRel = filepath.ToSlash(rel)
		}

		links = append(links, config.WorkspaceLink{
			Kind:        entry.Kind,
			PackageName: entry.PackageName,
			Root:        entry.Root,
			Config:      configRel,
		})

		label := entry.PackageName
		if label == "" {
			label = entry.Root
		}
		info("Linking shared UI workspace %s", dimmed(label))
	}
	return links
}

func guessWorkspaceKind(rootRel string) config.WorkspaceKind {
	lower := strings.ToLower(rootRel)
	switch {
	case strings.Contains(lower, "/ui") || strings.Contains(lower, "ui/") || strings.Contains(lower, "packages/ui"):
		return config.KindUi
	case strings.Contains(lower, "package") && strings.Contains(lower, "ui"):
		return config.KindUi
	case strings.Contains(lower, "lib") || strings.Contains(lower, "library"):
		return config.KindLibrary
	default:
		return config.KindApp
	}
}

func readPackageName(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		return ""
	}
	var pkg struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return ""
	}
	return pkg.Name
}

func joinRelative(base, child string) string {
	if base == "." || base == "" {
		return child
	}
	return strings.TrimRight(base, "/") + "/" + child
}

func aliasPrefixFor(detection frameworks.Detection) string {
	if detection.Framework == frameworks.ReactRouter {
		return "~"
	}
	return "@"
}

func firstExistingPath(dir string, candidates []string, fallback string) string {
	for _, candidate := range candidates {
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(candidate))); err == nil {
			return candidate
		}
	}
	return fallback
}

// buildInitConfig fills in the framework-appropriate default paths.
func buildInitConfig(detection frameworks.Detection, dir string) *config.Config {
	cfg := &config.Config{Style: "default"}

	switch detection.Framework {
	case frameworks.NextJS:
		css := "styles/globals.css"
		if detection.Details.AppStructure == frameworks.AppRouter {
			css = "app/globals.css"
		}
		cfg.Tailwind = config.TailwindConfig{CSS: css}
		cfg.Aliases = config.Aliases{
			Components: config.AliasTarget{Filesystem: "components/ui"},
			Utils:      config.AliasTarget{Filesystem: "lib/utils"},
		}

	case frameworks.ViteReact:
		cfg.Tailwind = config.TailwindConfig{CSS: "src/App.css"}
		cfg.Aliases = config.Aliases{
			Components: config.AliasTarget{Filesystem: "src/components/ui"},
			Utils:      config.AliasTarget{Filesystem: "src/lib/utils"},
		}

	case frameworks.ReactRouter:
		cfg.Tailwind = config.TailwindConfig{CSS: "app/app.css"}
		cfg.Aliases = config.Aliases{
			Components: config.AliasTarget{Filesystem: "app/components/ui"},
			Utils:      config.AliasTarget{Filesystem: "app/lib/utils"},
		}

	case frameworks.TanstackStart:
		css := firstExistingPath(dir, []string{
			"src/styles.css", "src/style.css", "src/global.css", "src/globals.css",
			"src/index.css", "src/app.css", "app/app.css", "app/styles.css",
			"app/globals.css", "app/global.css", "app/tailwind.css",
		}, "src/styles.css")
		cfg.Tailwind = config.TailwindConfig{CSS: css}
		cfg.Aliases = config.Aliases{
			Components: config.AliasTarget{Filesystem: "src/components/ui"},
			Utils:      config.AliasTarget{Filesystem: "src/lib/utils"},
		}

	default:
		// Shared UI or library workspaces need no host framework.
		css := firstExistingPath(dir, []string{
			"src/styles.css", "src/style.css", "src/global.css", "src/globals.css",
			"src/index.css", "src/app.css", "styles.css", "global.css", "index.css",
		}, "src/styles.css")
		cfg.Tailwind = config.TailwindConfig{CSS: css}
		cfg.Aliases = config.Aliases{
			Components: config.AliasTarget{Filesystem: "src/components/ui"},
			Utils:      config.AliasTarget{Filesystem: "src/lib/utils"},
		}
	}

	return cfg
}

// ensureDefaultExportsConfig gives shared UI workspaces a barrel file
// derived from the components path ("src/components/ui" → "src/index.ts").
func ensureDefaultExportsConfig(cfg *config.Config, kind config.WorkspaceKind) {
	if kind != config.KindUi {
		return
	}

	barrel := defaultComponentsBarrelPath(cfg.Aliases.Components.FilesystemPath())
	if cfg.Exports == nil {
		cfg.Exports = &config.ExportsConfig{}
	}
	if cfg.Exports.Components == nil {
		cfg.Exports.Components = &config.ExportsTargetConfig{Barrel: barrel}
	} else if strings.TrimSpace(cfg.Exports.Components.Barrel) == "" {
		cfg.Exports.Components.Barrel = barrel
	}
}

func defaultComponentsBarrelPath(componentsPath string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(componentsPath), "./")
	normalized = strings.TrimLeft(normalized, "/")
	if normalized == "" {
		return "index.ts"
	}
	for _, segment := range strings.Split(normalized, "/") {
		if segment != "" {
			return segment + "/index.ts"
		}
	}
	return "index.ts"
}

func (r *initRunner) reportRequirementIssues(issues []deps.RequirementIssue) {
	if len(issues) == 0 {
		return
	}

	warn("Project dependencies are missing or out of date.")
	if r.dryRun {
		info("%s", "[dry-run] They would be installed automatically:")
	} else {
		info("%s", "Installing required versions...")
	}
	for _, issue := range issues {
		warn("   %s: requires %s", issue.Name, issue.Required)
		if issue.Installed != "" {
			info("%s", dimmed("      installed: "+issue.Installed))
		} else {
			info("%s", dimmed("      installed: not found"))
		}
		if issue.Declared != "" {
			info("%s", dimmed("      declared: "+issue.Declared))
		}
		switch issue.Reason {
		case deps.ReasonOutdated:
			info("%s", dimmed("      will be updated to a compatible version"))
		case deps.ReasonUnknown:
			info("%s", dimmed("      unable to determine installed version, forcing install"))
		default:
			info("%s", dimmed("      will be installed"))
		}
	}
}

func (r *initRunner) writeConfig(cfg *config.Config) error {
	if r.dryRun {
		fmt.Println()
		info("%s", heading("[dry-run] Would create configuration:"))
		info("%s", dimmed("   "+config.ConfigFileName))
		return nil
	}

	path := filepath.Join(r.cwd, config.ConfigFileName)
	if err := config.WriteTo(path, cfg); err != nil {
		return err
	}
	r.createdPaths = append(r.createdPaths, path)
	return nil
}

// ensurePackageExports points a shared UI package's exports["."] at the
// barrel file so consuming apps can import it by package name. Complex
// export shapes are left untouched.
func (r *initRunner) ensurePackageExports(ws *initWorkspace, cfg *config.Config) error {
	if ws.kind != config.KindUi || cfg.Exports == nil || cfg.Exports.Components == nil {
		return nil
	}
	barrel := strings.TrimSpace(cfg.Exports.Components.Barrel)
	if barrel == "" {
		return nil
	}

	pkgPath := filepath.Join(ws.rootAbs, "package.json")
	data, err := os.ReadFile(pkgPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var pkg map[string]any
	if err := json.Unmarshal(data, &pkg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", pkgPath, err)
	}

	exportValue := sanitizeBarrelForExports(barrel)
	changed := false

	switch exports := pkg["exports"].(type) {
	case map[string]any:
		switch current := exports["."].(type) {
		case string:
			if current != exportValue {
				exports["."] = exportValue
				changed = true
			}
		case map[string]any, []any:
			return nil
		case nil:
			exports["."] = exportValue
			changed = true
		default:
			return nil
		}
	case string:
		if exports != exportValue {
			pkg["exports"] = exportValue
			changed = true
		}
	case nil:
		pkg["exports"] = map[string]any{".": exportValue}
		changed = true
	default:
		return nil
	}

	if !changed {
		return nil
	}

	if r.dryRun {
		fmt.Println()
		info(`[dry-run] Would set exports["."] = %q in package.json`, exportValue)
		return nil
	}

	updated, err := json.MarshalIndent(pkg, "", "  ")
	if err != nil {
		return err
	}
	updated = append(updated, '\n')
	if err := os.WriteFile(pkgPath, updated, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", pkgPath, err)
	}

	fmt.Println()
	success(`Configured exports["."] = %q in package.json`, exportValue)
	return nil
}

func sanitizeBarrelForExports(barrel string) string {
	normalized := strings.ReplaceAll(strings.TrimSpace(barrel), `\`, "/")
	normalized = strings.TrimPrefix(normalized, "./")
	if normalized == "" {
		return "./index.ts"
	}
	if strings.HasPrefix(normalized, ".") {
		return normalized
	}
	return "./" + normalized
}

// installRequirements installs the registry's required packages. Shared
// UI workspaces split them into peer/dev/regular scopes.
func (r *initRunner) installRequirements(manageHere bool, ws *initWorkspace, required map[string]string) {
	if !manageHere {
		if r.dryRun {
			info("%s", dimmed("[dry-run] Would skip dependency installation (managed via linked shared UI workspace)."))
		}
		return
	}
	if len(required) == 0 {
		return
	}

	byScope := map[deps.Scope]map[string]string{}
	addScoped := func(scope deps.Scope, name, version string) {
		if byScope[scope] == nil {
			byScope[scope] = map[string]string{}
		}
		byScope[scope][name] = version
	}

	if ws.kind == config.KindUi {
		for name, version := range required {
			switch {
			case slices.Contains(sharedUIPeerDependencies, name):
				addScoped(deps.ScopePeer, name, version)
			case slices.Contains(sharedUIDevDependencies, name):
				addScoped(deps.ScopeDev, name, version)
			default:
				addScoped(deps.ScopeRegular, name, version)
			}
		}
	} else {
		for name, version := range required {
			addScoped(deps.ScopeRegular, name, version)
		}
	}

	plan := deps.BuildPlan(ws.pm, byScope)
	if plan.IsEmpty() {
		return
	}

	if r.dryRun {
		fmt.Println()
		info("%s", heading("[dry-run] Would install dependencies:"))
		for _, step := range plan.Steps {
			info("%s", dimmed("   "+step.CommandLine()))
		}
		return
	}

	if err := plan.Execute(); err != nil {
		warn("Dependency installation failed; you can install them manually")
		for _, step := range plan.Steps {
			info("%s", dimmed("   Run: "+step.CommandLine()))
		}
		errorMsg("%s", err)
	}
}

// syncRegistryAssets scaffolds the shared utility, icon, and base
// stylesheet files from the registry. Existing files are left alone.
func (r *initRunner) syncRegistryAssets(ctx context.Context, manageHere bool, cfg *config.Config) (string, string, error) {
	if !manageHere {
		info("%s", dimmed("Linked shared UI workspace manages shared helpers; skipping utility and icon scaffolding."))
		return "", "", nil
	}

	utilsPath := cfg.Aliases.Utils.FilesystemPath() + ".ts"
	iconsPath := workspace.ResolveComponentPath("components/icons.ts", cfg)

	utilsCreated, err := r.ensureRegistryAsset(ctx, "lib/utils.ts", utilsPath, "Utility functions")
	if err != nil {
		return "", "", err
	}
	iconsCreated, err := r.ensureRegistryAsset(ctx, "icons/icons.ts", iconsPath, "Icons component")
	if err != nil {
		return "", "", err
	}
	if err := r.ensureStylesheet(ctx, cfg.Tailwind.CSS); err != nil {
		return "", "", err
	}

	if !utilsCreated {
		utilsPath = ""
	}
	if !iconsCreated {
		iconsPath = ""
	}
	return utilsPath, iconsPath, nil
}

// ensureStylesheet creates the configured CSS entry file from the
// registry's base stylesheet when the project does not have one yet.
func (r *initRunner) ensureStylesheet(ctx context.Context, cssPath string) error {
	if cssPath == "" {
		return nil
	}
	target := filepath.Join(r.cwd, filepath.FromSlash(cssPath))
	if _, err := os.Stat(target); err == nil {
		return nil
	}

	created, err := r.ensureRegistryAsset(ctx, registry.CSSBundlePath, cssPath, "Base stylesheet")
	if err != nil {
		return err
	}
	if created && !r.dryRun {
		info("%s", dimmed("   Created "+cssPath))
	}
	return nil
}

func (r *initRunner) ensureRegistryAsset(ctx context.Context, assetPath, targetRel, label string) (bool, error) {
	target := filepath.Join(r.cwd, filepath.FromSlash(targetRel))
	if _, err := os.Stat(target); err == nil {
		warn("%s already exists - skipping creation", targetRel)
		return false, nil
	}

	if r.dryRun {
		info("[dry-run] Would create %s:", label)
		info("%s", dimmed("   "+targetRel))
		return true, nil
	}

	asset, err := r.client.FetchRegistryAsset(ctx, assetPath)
	if err != nil {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return false, err
	}
	if err := os.WriteFile(target, []byte(asset), 0644); err != nil {
		return false, err
	}
	r.createdPaths = append(r.createdPaths, target)
	return true, nil
}

func (r *initRunner) persistManifest(ws *initWorkspace) error {
	if r.dryRun {
		return nil
	}

	if err := workspace.WriteManifest(ws.repoRoot, ws.manifest); err != nil {
		return err
	}
	if !ws.manifestExisted {
		r.createdPaths = append(r.createdPaths, filepath.Join(ws.repoRoot, workspace.ManifestFileName))
	}
	return nil
}

func (r *initRunner) printSummary(ws *initWorkspace, cfg *config.Config, detection frameworks.Detection,
	required map[string]string, manageHere bool, utilsPath, iconsPath string) {

	frameworkLabel := frameworkInfo(detection)
	if detection.Framework == frameworks.Unknown {
		frameworkLabel = "Custom (" + workspaceKindLabel(ws.kind) + ")"
	}

	mode := "single workspace"
	if ws.monorepo {
		mode = "monorepo"
	}

	fmt.Println()
	success("Configuration created:")
	info("%s", dimmed("   "+config.ConfigFileName+" ("+frameworkLabel+")"))
	info("%s", dimmed("   Workspace: "+workspaceKindLabel(ws.kind)+" (root: "+ws.rootRel+")"))
	info("%s", dimmed("   Mode: "+mode))
	if ws.packageName != "" {
		info("%s", dimmed("   Package: "+ws.packageName))
	}

	if len(ws.links) > 0 {
		fmt.Println()
		info("%s", heading("Linked workspaces:"))
		for _, link := range ws.links {
			label := link.PackageName
			if label == "" {
				label = link.Root
			}
			info("%s", dimmed("   "+label+" ("+link.Config+")"))
		}
	}

	manifestAction := "created"
	switch {
	case r.dryRun && ws.manifestExisted:
		manifestAction = "would update"
	case r.dryRun:
		manifestAction = "would create"
	case ws.manifestExisted:
		manifestAction = "updated"
	}
	info("%s", dimmed("   Manifest: "+workspace.ManifestFileName+" ("+manifestAction+")"))

	fmt.Println()
	if manageHere {
		if r.dryRun {
			info("%s", heading("[dry-run] Would install dependencies:"))
		} else {
			info("%s", heading("Dependencies installed:"))
		}
		for _, name := range sortedDependencyNames(required) {
			info("%s", dimmed("   "+name+"@"+required[name]))
		}
	} else {
		info("%s", heading("Dependencies managed via linked shared UI workspace(s)."))
		if len(required) > 0 {
			info("%s", dimmed("   Ensure the linked workspace includes:"))
			for _, name := range sortedDependencyNames(required) {
				info("%s", dimmed("   "+name+"@"+required[name]))
			}
		}
	}

	if utilsPath != "" {
		fmt.Println()
		success("Utility functions created:")
		info("%s", dimmed("   "+utilsPath))
		info("%s", dimmed("   • cn() function for className merging"))
	}
	if iconsPath != "" {
		fmt.Println()
		success("Icons component created:")
		info("%s", dimmed("   "+iconsPath))
		info("%s", dimmed("   • Base icon mapping"))
	}

	fmt.Println()
	if r.dryRun {
		info("%s", heading("[dry-run] You could then add components:"))
	} else {
		info("%s", heading("You can now add components:"))
	}
	info("%s", dimmed("   nocta add button"))
}

func frameworkInfo(detection frameworks.Detection) string {
	label := detection.Framework.Label()
	switch detection.Framework {
	case frameworks.NextJS:
		router := "Unknown Router"
		switch detection.Details.AppStructure {
		case frameworks.AppRouter:
			router = "App Router"
		case frameworks.PagesRouter:
			router = "Pages Router"
		}
		return strings.TrimSpace(label+" "+detection.Version) + " (" + router + ")"
	case frameworks.Unknown:
		return label
	default:
		return strings.TrimSpace(label + " " + detection.Version)
	}
}

func workspaceKindLabel(kind config.WorkspaceKind) string {
	switch kind {
	case config.KindUi:
		return "Shared UI"
	case config.KindLibrary:
		return "Library"
	default:
		return "Application"
	}
}

func printFrameworkUnknown(detection frameworks.Detection) {
	errorMsg("Unsupported project structure detected!")
	errorMsg("Could not detect a supported React framework")
	warn("nocta supports:")
	info("%s", dimmed("   • Next.js (App Router or Pages Router)"))
	info("%s", dimmed("   • Vite + React"))
	info("%s", dimmed("   • React Router 7 (Framework Mode)"))
	info("%s", dimmed("   • TanStack Start"))

	info("%s", heading("Detection details:"))
	info("%s", dimmed("   React dependency: "+checkmark(detection.Details.HasReactDependency)))
	info("%s", dimmed("   Framework config: "+checkmark(detection.Details.HasConfig)))
	configFiles := "none"
	if len(detection.Details.ConfigFiles) > 0 {
		configFiles = strings.Join(detection.Details.ConfigFiles, ", ")
	}
	info("%s", dimmed("   Config files found: "+configFiles))

	if !detection.Details.HasReactDependency {
		warn("Install React first:")
		info("%s", dimmed("   npm install react react-dom"))
		info("%s", dimmed("   npm install -D @types/react @types/react-dom"))
	} else {
		warn("Set up a supported framework:")
		info("%s", dimmed("   npx create-next-app@latest"))
		info("%s", dimmed("   npm create vite@latest . -- --template react-ts"))
		info("%s", dimmed("   npx create-react-router@latest"))
		info("%s", dimmed("   npm create tanstack@latest"))
	}
}

func checkmark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

func sortedDependencyNames(m map[string]string) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
