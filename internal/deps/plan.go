package deps

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nocta-ui/cli/internal/errors"
	"github.com/nocta-ui/cli/internal/workspace"
)

// InstallStep is one package-manager invocation. It is pure data until
// Execute runs it.
type InstallStep struct {
	Scope    Scope
	Command  string
	Args     []string
	Dir      string
	Env      []string
	Packages []string
}

// CommandLine renders the step the way a user would type it.
func (s InstallStep) CommandLine() string {
	return strings.Join(append([]string{s.Command}, s.Args...), " ")
}

// Plan is the ordered set of install steps for one workspace.
type Plan struct {
	Steps []InstallStep
}

// IsEmpty reports whether the plan has nothing to run.
func (p Plan) IsEmpty() bool {
	return len(p.Steps) == 0
}

func sortedSpecs(packages map[string]string) []string {
	specs := make([]string, 0, len(packages))
	for name, rng := range packages {
		specs = append(specs, name+"@"+rng)
	}
	sort.Strings(specs)
	return specs
}

// BuildPlan constructs one install step per non-empty scope, shaped for
// the workspace's package manager.
func BuildPlan(pm workspace.PackageManagerContext, byScope map[Scope]map[string]string) Plan {
	var plan Plan
	for _, scope := range []Scope{ScopeRegular, ScopeDev, ScopePeer} {
		packages := byScope[scope]
		if len(packages) == 0 {
			continue
		}
		plan.Steps = append(plan.Steps, buildStep(pm, scope, sortedSpecs(packages)))
	}
	return plan
}

func buildStep(pm workspace.PackageManagerContext, scope Scope, specs []string) InstallStep {
	workspaceRoot := pm.WorkspaceRoot
	if workspaceRoot == "" {
		workspaceRoot = pm.RepoRoot
	}

	step := InstallStep{Scope: scope, Packages: specs}

	switch pm.Manager {
	case workspace.Yarn:
		step.Command = "yarn"
		if pm.WorkspacePackage != "" {
			step.Args = []string{"workspace", pm.WorkspacePackage, "add"}
			step.Dir = pm.RepoRoot
		} else {
			step.Args = []string{"add"}
			step.Dir = workspaceRoot
		}
		switch scope {
		case ScopeDev:
			step.Args = append(step.Args, "--dev")
		case ScopePeer:
			step.Args = append(step.Args, "--peer")
		}
		step.Args = append(step.Args, specs...)

	case workspace.Pnpm:
		step.Command = "pnpm"
		if pm.WorkspacePackage != "" {
			step.Args = []string{"add", "--filter", pm.WorkspacePackage}
			step.Dir = pm.RepoRoot
		} else {
			step.Args = []string{"add"}
			step.Dir = workspaceRoot
		}
		switch scope {
		case ScopeDev:
			step.Args = append(step.Args, "--save-dev")
		case ScopePeer:
			step.Args = append(step.Args, "--save-peer")
		}
		step.Args = append(step.Args, specs...)

	case workspace.Bun:
		step.Command = "bun"
		step.Args = []string{"add"}
		switch scope {
		case ScopeDev:
			step.Args = append(step.Args, "--dev")
		case ScopePeer:
			step.Args = append(step.Args, "--peer")
		}
		step.Args = append(step.Args, specs...)
		step.Args = append(step.Args, "--cwd", workspaceRoot)
		step.Dir = pm.RepoRoot
		// Bun's linker mode decides where installs land; forward it so
		// a workspace-scoped add respects the repo's bunfig.
		if linker := bunLinker(workspaceRoot, pm.RepoRoot); linker != "" {
			step.Env = append(step.Env, "BUN_INSTALL_LINKER="+linker)
		}

	default: // npm
		step.Command = "npm"
		step.Args = []string{"install"}
		switch scope {
		case ScopeDev:
			step.Args = append(step.Args, "--save-dev")
		case ScopePeer:
			step.Args = append(step.Args, "--save-peer")
		}
		step.Args = append(step.Args, specs...)
		if pm.WorkspacePackage != "" {
			step.Args = append(step.Args, "--workspace", pm.WorkspacePackage)
			step.Dir = pm.RepoRoot
		} else {
			step.Dir = workspaceRoot
		}
	}

	return step
}

// bunLinker reads the [install] linker setting from the nearest bunfig.
func bunLinker(workspaceRoot, repoRoot string) string {
	for _, dir := range []string{workspaceRoot, repoRoot} {
		if dir == "" {
			continue
		}
		for _, name := range []string{"bunfig.toml", "bunfig.local.toml"} {
			if linker := parseBunfigLinker(filepath.Join(dir, name)); linker != "" {
				return linker
			}
		}
	}
	return ""
}

func parseBunfigLinker(path string) string {
	file, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer file.Close()

	inInstall := false
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			inInstall = line == "[install]"
			continue
		}
		if !inInstall {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found || strings.TrimSpace(key) != "linker" {
			continue
		}
		return strings.Trim(strings.TrimSpace(value), `"'`)
	}
	return ""
}

// Execute runs every step in order, streaming output to the caller's
// terminal. The first non-zero exit aborts with an error naming the
// command; callers treat that as non-fatal for the run and surface
// manual install instructions instead.
func (p Plan) Execute() error {
	for _, step := range p.Steps {
		cmd := exec.Command(step.Command, step.Args...)
		cmd.Dir = step.Dir
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if len(step.Env) > 0 {
			cmd.Env = append(os.Environ(), step.Env...)
		}

		if err := cmd.Run(); err != nil {
			detail := fmt.Sprintf("`%s` failed", step.CommandLine())
			if exitErr, ok := err.(*exec.ExitError); ok {
				detail = fmt.Sprintf("`%s` exited with status %d", step.CommandLine(), exitErr.ExitCode())
			}
			return errors.New(errors.ErrDependencyInstall).
				WithDetail(detail).
				WithSuggestion("Install the packages manually: " + strings.Join(step.Packages, " ")).
				Wrap(err)
		}
	}
	return nil
}
