package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nocta-ui/cli/internal/config"
	"github.com/nocta-ui/cli/internal/deps"
	"github.com/nocta-ui/cli/internal/errors"
	"github.com/nocta-ui/cli/internal/frameworks"
	"github.com/nocta-ui/cli/internal/installer"
	"github.com/nocta-ui/cli/internal/workspace"
)

func addCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "add <components...>",
		Short: "Add components to your project",
		Long: `Add Nocta UI components to your project.

Internal dependencies are resolved automatically and installed
alongside the requested components. Package dependencies are
reconciled against your project and installed with your package
manager when needed.

Examples:
  nocta add button
  nocta add button dialog card
  nocta add button --dry-run`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(args, dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would change without writing anything")

	return cmd
}

func runAdd(components []string, dryRun bool) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	cfg, err := config.Read()
	if err != nil {
		return err
	}
	if cfg == nil {
		return errors.New(errors.ErrNotInitialized).
			WithSuggestion("Run `nocta init` first")
	}

	detection := frameworks.Detect(cwd)
	wsCtx, err := workspace.BuildContext(cfg, &detection, cwd)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	if dryRun {
		info("%s", heading("[dry-run] Resolving components..."))
	} else {
		info("%s", heading("Resolving components..."))
	}
	fmt.Println()

	ins := &installer.Installer{
		Client:           newRegistryClient(),
		Context:          wsCtx,
		DryRun:           dryRun,
		ConfirmOverwrite: confirmOverwrite,
		Warn:             func(message string) { warn("%s", message) },
	}

	result, err := ins.Run(ctx, components)
	if err != nil {
		return err
	}

	if result.Outcome == installer.OutcomeNoOp {
		warn("Installation cancelled")
		return nil
	}

	printAddSummary(wsCtx, result, dryRun)
	return nil
}

// confirmOverwrite lists the conflicting files and asks for a y/N
// answer on stdin.
func confirmOverwrite(paths []string) (bool, error) {
	warn("The following files already exist:")
	for _, path := range paths {
		info("%s", dimmed(path))
	}
	fmt.Print("Overwrite them? [y/N] ")

	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false, nil
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}

func printAddSummary(wsCtx *workspace.Context, result *installer.Result, dryRun bool) {
	verb := "Installed"
	if dryRun {
		verb = "[dry-run] Would install"
	}

	for _, entry := range result.Requested {
		success("%s %s", verb, entry.Component.Name)
	}
	if len(result.InternalDeps) > 0 {
		slugs := make([]string, 0, len(result.InternalDeps))
		for _, entry := range result.InternalDeps {
			slugs = append(slugs, entry.Slug)
		}
		info("%s", dimmed("with internal dependencies: "+strings.Join(slugs, ", ")))
	}
	fmt.Println()

	fileVerb := "Created"
	if dryRun {
		fileVerb = "Would create"
	}
	for _, file := range result.Files {
		info("%s %s", fileVerb, dimmed(file.DisplayPath))
	}

	if dryRun && len(result.Conflicts) > 0 {
		fmt.Println()
		warn("The following files already exist:")
		for _, path := range result.Conflicts {
			info("%s", dimmed("   "+path))
		}
		info("%s", dimmed("[dry-run] Would overwrite the files above"))
	}

	for _, update := range result.ExportUpdates {
		fmt.Println()
		action := "Updated"
		if update.Created {
			action = "Created"
		}
		if dryRun {
			action = "Would update"
			if update.Created {
				action = "Would create"
			}
		}
		info("%s exports in %s", action, dimmed(update.DisplayPath))
		for _, statement := range update.Statements {
			info("%s", dimmed("   "+statement))
		}
	}

	printDependencyReports(result.DepReports, dryRun)
	printExampleImports(wsCtx, result)
}

func printDependencyReports(reports []installer.DependencyReport, dryRun bool) {
	for _, report := range reports {
		fmt.Println()
		info("%s", heading("Dependencies ("+report.WorkspaceLabel+"):"))

		for _, line := range report.Satisfied {
			info("%s", dimmed("   "+line+" ✓"))
		}
		for _, scope := range []deps.Scope{deps.ScopeRegular, deps.ScopeDev, deps.ScopePeer} {
			for _, line := range report.Incompatible[scope] {
				warn("   %s", line)
			}
		}

		switch {
		case report.Plan.IsEmpty():
			if len(report.Satisfied) == 0 {
				info("%s", dimmed("   nothing to install"))
			}
		case dryRun:
			info("%s", dimmed("   [dry-run] Would run:"))
			for _, step := range report.Plan.Steps {
				info("%s", dimmed("     "+step.CommandLine()))
			}
		case report.InstallErr != nil:
			warn("   Installation failed; you can install them manually:")
			for _, step := range report.Plan.Steps {
				info("%s", dimmed("     "+step.CommandLine()))
			}
		default:
			for _, step := range report.Plan.Steps {
				success("   %s", step.CommandLine())
			}
		}
	}
}

// printExampleImports shows one ready-to-paste import line per
// requested component.
func printExampleImports(wsCtx *workspace.Context, result *installer.Result) {
	var examples []string

	for _, entry := range result.Requested {
		if len(entry.Component.Exports) == 0 {
			continue
		}
		for _, file := range result.Files {
			if file.ComponentSlug != entry.Slug || file.FileType != "component" {
				continue
			}
			handle := wsCtx.HandleByID(file.WorkspaceID)
			if handle == nil {
				break
			}
			base := installer.ComponentImportBase(handle)
			module := strings.TrimSuffix(filepath.Base(file.AbsolutePath), filepath.Ext(file.AbsolutePath))
			examples = append(examples,
				fmt.Sprintf(`import { %s } from "%s/%s";`, entry.Component.Exports[0], base, module))
			break
		}
	}

	if len(examples) == 0 {
		return
	}

	fmt.Println()
	info("%s", heading("Import and use:"))
	for _, line := range examples {
		info("%s", dimmed("   "+line))
	}
}
