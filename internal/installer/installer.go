package installer

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/nocta-ui/cli/internal/config"
	"github.com/nocta-ui/cli/internal/deps"
	"github.com/nocta-ui/cli/internal/errors"
	"github.com/nocta-ui/cli/internal/registry"
	"github.com/nocta-ui/cli/internal/workspace"
)

// fileFetchConcurrency bounds the asset fetch pool. Fetches are
// independent read-only calls, so a small fixed pool is enough.
const fileFetchConcurrency = 6

// Outcome is the overall result of a run.
type Outcome int

const (
	// OutcomeCompleted: the run did (or in dry-run mode, simulated) work.
	OutcomeCompleted Outcome = iota

	// OutcomeNoOp: nothing needed doing, e.g. the user declined an
	// overwrite. Not an error.
	OutcomeNoOp
)

// InstalledFile is one component file resolved to its destination.
type InstalledFile struct {
	WorkspaceID   string
	AbsolutePath  string
	DisplayPath   string
	Content       string
	ComponentName string
	ComponentSlug string
	FileType      string
}

// ExportUpdate describes one barrel file the run created or updated.
type ExportUpdate struct {
	WorkspaceLabel string
	DisplayPath    string
	Statements     []string
	Created        bool
}

// DependencyReport summarizes dependency reconciliation for one
// workspace.
type DependencyReport struct {
	WorkspaceID    string
	WorkspaceLabel string

	// Satisfied lists requirements already met, as display strings.
	Satisfied []string

	// Incompatible lists human-readable details per scope.
	Incompatible map[deps.Scope][]string

	// ToInstall holds the packages each scope still needs.
	ToInstall map[deps.Scope]map[string]string

	// Plan is the install plan for ToInstall; empty when nothing is
	// needed. In dry-run mode the plan is never executed.
	Plan deps.Plan

	// InstallErr records a failed execution. Install failures are
	// non-fatal for the run.
	InstallErr error
}

// Result is everything a run produced, for the CLI layer to render.
type Result struct {
	Outcome      Outcome
	Requested    []registry.ResolvedComponent
	InternalDeps []registry.ResolvedComponent
	Files        []InstalledFile
	Conflicts    []string

	ExportUpdates []ExportUpdate
	DepReports    []DependencyReport
}

// Installer runs the add pipeline: resolve components, fetch and
// normalize their files, write them transactionally, maintain export
// barrels, and reconcile package dependencies.
type Installer struct {
	Client  *registry.Client
	Context *workspace.Context
	DryRun  bool

	// ConfirmOverwrite is consulted when planned files already exist on
	// disk. Nil declines, leaving the working tree untouched.
	ConfirmOverwrite func(paths []string) (bool, error)

	// Warn receives non-fatal notices (rollback problems, install
	// failures). Nil drops them.
	Warn func(message string)

	log ChangeLog
}

func (ins *Installer) warnf(message string) {
	if ins.Warn != nil {
		ins.Warn(message)
	}
}

// Run installs the named components. On any error after the first
// write, all writes made so far are rolled back before the error is
// returned; rollback failures are reported through Warn and never mask
// the original error.
func (ins *Installer) Run(ctx context.Context, names []string) (*Result, error) {
	result, err := ins.run(ctx, names)
	if err != nil && !ins.DryRun && ins.log.Len() > 0 {
		if rollbackErr := ins.log.Rollback(); rollbackErr != nil {
			ins.warnf("rollback incomplete: " + rollbackErr.Error())
		}
	}
	return result, err
}

func (ins *Installer) run(ctx context.Context, names []string) (*Result, error) {
	reg, err := ins.Client.FetchRegistry(ctx)
	if err != nil {
		return nil, err
	}

	slugs, err := resolveRequestedSlugs(reg, names)
	if err != nil {
		return nil, err
	}

	entries, err := ins.collectComponents(ctx, slugs)
	if err != nil {
		return nil, err
	}

	requestedSet := make(map[string]bool, len(slugs))
	for _, slug := range slugs {
		requestedSet[slug] = true
	}

	result := &Result{Outcome: OutcomeCompleted}
	for _, entry := range entries {
		if requestedSet[entry.Slug] {
			result.Requested = append(result.Requested, entry)
		} else {
			result.InternalDeps = append(result.InternalDeps, entry)
		}
	}

	files, depsByWorkspace, err := ins.gatherFiles(ctx, entries)
	if err != nil {
		return nil, err
	}
	result.Files = files

	for _, file := range files {
		if _, err := os.Stat(file.AbsolutePath); err == nil {
			result.Conflicts = append(result.Conflicts, file.DisplayPath)
		}
	}

	if len(result.Conflicts) > 0 && !ins.DryRun {
		overwrite := false
		if ins.ConfirmOverwrite != nil {
			overwrite, err = ins.ConfirmOverwrite(result.Conflicts)
			if err != nil {
				return nil, err
			}
		}
		if !overwrite {
			result.Outcome = OutcomeNoOp
			return result, nil
		}
	}

	if !ins.DryRun {
		for _, file := range files {
			if err := ins.log.Write(file.AbsolutePath, file.Content); err != nil {
				return nil, err
			}
		}
	}

	result.ExportUpdates, err = ins.syncExports(result.Requested, files)
	if err != nil {
		return nil, err
	}

	result.DepReports = ins.reconcileDependencies(depsByWorkspace)
	return result, nil
}

// Rollback undoes every write recorded so far.
func (ins *Installer) Rollback() error {
	return ins.log.Rollback()
}

// resolveRequestedSlugs maps user-supplied names onto registry slugs,
// matching slugs and display names case-insensitively.
func resolveRequestedSlugs(reg *registry.Registry, names []string) ([]string, error) {
	lookup := make(map[string]string, len(reg.Components)*2)
	for slug, component := range reg.Components {
		lookup[strings.ToLower(slug)] = slug
		lookup[strings.ToLower(component.Name)] = slug
	}

	slugs := make([]string, 0, len(names))
	for _, name := range names {
		slug, ok := lookup[strings.ToLower(name)]
		if !ok {
			return nil, errors.New(errors.ErrComponentNotFound).
				WithDetailf("component %q", name).
				WithSuggestion("Run `nocta list` to see available components")
		}
		slugs = append(slugs, slug)
	}
	return slugs, nil
}

// collectComponents resolves each requested slug with its transitive
// internal dependencies, deduplicated across requests in first-seen
// order.
func (ins *Installer) collectComponents(ctx context.Context, slugs []string) ([]registry.ResolvedComponent, error) {
	seen := make(map[string]bool)
	var entries []registry.ResolvedComponent

	for _, slug := range slugs {
		resolved, err := ins.Client.FetchComponentWithDependencies(ctx, slug)
		if err != nil {
			return nil, err
		}
		for _, entry := range resolved {
			if !seen[entry.Slug] {
				seen[entry.Slug] = true
				entries = append(entries, entry)
			}
		}
	}
	return entries, nil
}

type pendingFile struct {
	handle       *workspace.Handle
	registryPath string
	file         InstalledFile
}

// workspaceDeps aggregates package requirements per workspace, split by
// scope. First declaration wins on version conflicts.
type workspaceDeps map[string]map[deps.Scope]map[string]string

func (w workspaceDeps) add(workspaceID string, scope deps.Scope, packages map[string]string) {
	if len(packages) == 0 {
		return
	}
	byScope := w[workspaceID]
	if byScope == nil {
		byScope = make(map[deps.Scope]map[string]string)
		w[workspaceID] = byScope
	}
	scoped := byScope[scope]
	if scoped == nil {
		scoped = make(map[string]string)
		byScope[scope] = scoped
	}
	for name, version := range packages {
		if _, ok := scoped[name]; !ok {
			scoped[name] = version
		}
	}
}

func (ins *Installer) gatherFiles(ctx context.Context, entries []registry.ResolvedComponent) ([]InstalledFile, workspaceDeps, error) {
	var pending []pendingFile
	depsByWorkspace := make(workspaceDeps)

	for _, entry := range entries {
		workspaceIDs := make(map[string]bool)

		for _, file := range entry.Component.Files {
			handle, err := ins.Context.SelectHandle(file.Target)
			if err != nil {
				return nil, nil, err
			}

			relativePath := workspace.ResolveComponentPath(file.Path, handle.Config)
			if flattened, ok := workspace.FlattenPathForSlug(relativePath, handle.Config, entry.Slug); ok {
				relativePath = flattened
			}

			absolutePath := filepath.Join(handle.RootAbs, filepath.FromSlash(relativePath))
			displayPath := absolutePath
			if rel, err := filepath.Rel(ins.Context.CurrentDir, absolutePath); err == nil {
				displayPath = rel
			}

			pending = append(pending, pendingFile{
				handle:       handle,
				registryPath: file.Path,
				file: InstalledFile{
					WorkspaceID:   handle.ID,
					AbsolutePath:  absolutePath,
					DisplayPath:   displayPath,
					ComponentName: entry.Component.Name,
					ComponentSlug: entry.Slug,
					FileType:      file.Type,
				},
			})
			workspaceIDs[handle.ID] = true
		}

		if targetID := ins.Context.SelectDependencyTarget(workspaceIDs); targetID != "" {
			depsByWorkspace.add(targetID, deps.ScopeRegular, entry.Component.Dependencies)
			depsByWorkspace.add(targetID, deps.ScopeDev, entry.Component.DevDependencies)
		}
	}

	files := make([]InstalledFile, len(pending))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(fileFetchConcurrency)

	for i, item := range pending {
		i, item := i, item
		group.Go(func() error {
			content, err := ins.Client.FetchComponentFile(groupCtx, item.registryPath)
			if err != nil {
				return err
			}
			file := item.file
			file.Content = NormalizeContent(content, item.handle)
			files[i] = file
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, nil, err
	}

	return files, depsByWorkspace, nil
}

// syncExports updates the export barrel of every workspace configured
// for named exports, merging the requested components' export symbols.
func (ins *Installer) syncExports(requested []registry.ResolvedComponent, files []InstalledFile) ([]ExportUpdate, error) {
	if len(requested) == 0 {
		return nil, nil
	}

	exportsBySlug := make(map[string][]string, len(requested))
	for _, entry := range requested {
		if len(entry.Component.Exports) > 0 {
			exportsBySlug[entry.Slug] = entry.Component.Exports
		}
	}

	var updates []ExportUpdate
	for i := range ins.Context.Handles {
		handle := &ins.Context.Handles[i]
		exportsCfg := handle.Config.Exports
		if exportsCfg == nil || exportsCfg.Components == nil {
			continue
		}
		target := exportsCfg.Components
		if target.Strategy != "" && target.Strategy != config.ExportNamed {
			continue
		}

		barrelAbs := filepath.Join(handle.RootAbs, filepath.FromSlash(target.BarrelPath()))
		barrelDir := filepath.Dir(barrelAbs)

		newEntries := exportMap{}
		for _, file := range files {
			if file.WorkspaceID != handle.ID || file.FileType != "component" {
				continue
			}
			exports, ok := exportsBySlug[file.ComponentSlug]
			if !ok {
				continue
			}
			newEntries.add(modulePathFromBarrel(barrelDir, file.AbsolutePath), exports...)
		}
		if len(newEntries) == 0 {
			continue
		}

		existing, readErr := os.ReadFile(barrelAbs)
		if readErr != nil && !os.IsNotExist(readErr) {
			return nil, errors.New(errors.ErrFileWrite).
				WithDetailf("failed to read export barrel %s: %v", barrelAbs, readErr).Wrap(readErr)
		}

		content, merged, changed := mergeExportBlock(string(existing), newEntries)
		if !changed {
			continue
		}

		if !ins.DryRun {
			if err := ins.log.Write(barrelAbs, content); err != nil {
				return nil, err
			}
		}

		var statements []string
		for _, module := range merged.modules() {
			if _, touched := newEntries[module]; touched {
				statements = append(statements, formatExportLine(module, merged[module]))
			}
		}

		displayPath := barrelAbs
		if rel, err := filepath.Rel(ins.Context.CurrentDir, barrelAbs); err == nil {
			displayPath = rel
		}

		updates = append(updates, ExportUpdate{
			WorkspaceLabel: handle.Label,
			DisplayPath:    displayPath,
			Statements:     statements,
			Created:        readErr != nil,
		})
	}
	return updates, nil
}

// reconcileDependencies classifies and, outside dry-run mode, installs
// each workspace's required packages. Install failures are recorded on
// the report, not returned: partially failed installs never roll back
// written component files.
func (ins *Installer) reconcileDependencies(depsByWorkspace workspaceDeps) []DependencyReport {
	var reports []DependencyReport

	for i := range ins.Context.Handles {
		handle := &ins.Context.Handles[i]
		byScope := depsByWorkspace[handle.ID]
		if len(byScope) == 0 {
			continue
		}

		required := make(map[string]string)
		for _, scoped := range byScope {
			for name, version := range scoped {
				required[name] = version
			}
		}

		issues := deps.Reconcile(handle.PM, required)
		issueByName := make(map[string]deps.RequirementIssue, len(issues))
		for _, issue := range issues {
			issueByName[issue.Name] = issue
		}

		report := DependencyReport{
			WorkspaceID:    handle.ID,
			WorkspaceLabel: handle.Label,
			Incompatible:   make(map[deps.Scope][]string),
			ToInstall:      make(map[deps.Scope]map[string]string),
		}

		workspaceRoot := handle.PM.WorkspaceRoot
		if workspaceRoot == "" {
			workspaceRoot = handle.RootAbs
		}

		for _, scope := range []deps.Scope{deps.ScopeRegular, deps.ScopeDev} {
			for _, name := range sortedKeys(byScope[scope]) {
				version := byScope[scope][name]
				issue, unsatisfied := issueByName[name]
				if !unsatisfied {
					if installed := deps.InstalledVersion(name, workspaceRoot, handle.PM.RepoRoot); installed != "" {
						report.Satisfied = append(report.Satisfied, name+"@"+installed+" (satisfies "+version+")")
					}
					continue
				}

				if report.ToInstall[scope] == nil {
					report.ToInstall[scope] = make(map[string]string)
				}
				report.ToInstall[scope][name] = version

				detail := name + ": required " + version
				if issue.Reason != deps.ReasonMissing {
					installed := issue.Installed
					if installed == "" {
						installed = "unknown"
					}
					detail = name + ": installed " + installed + ", required " + version
				}
				report.Incompatible[scope] = append(report.Incompatible[scope], detail)
			}
		}

		report.Plan = deps.BuildPlan(handle.PM, report.ToInstall)
		if !ins.DryRun && !report.Plan.IsEmpty() {
			if err := report.Plan.Execute(); err != nil {
				report.InstallErr = err
				ins.warnf("dependency install failed for " + handle.Label + ": " + err.Error())
			}
		}

		reports = append(reports, report)
	}
	return reports
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
