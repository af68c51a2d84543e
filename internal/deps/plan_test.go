package deps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nocta-ui/cli/internal/workspace"
)

func TestBuildPlan_NpmSingleWorkspace(t *testing.T) {
	pm := workspace.PackageManagerContext{
		RepoRoot:      "/repo",
		WorkspaceRoot: "/repo",
		Manager:       workspace.Npm,
	}

	plan := BuildPlan(pm, map[Scope]map[string]string{
		ScopeRegular: {"clsx": "^2.0.0"},
	})
	require.Len(t, plan.Steps, 1)

	step := plan.Steps[0]
	assert.Equal(t, "npm install clsx@^2.0.0", step.CommandLine())
	assert.Equal(t, "/repo", step.Dir)
}

func TestBuildPlan_NpmWorkspaceFlag(t *testing.T) {
	pm := workspace.PackageManagerContext{
		RepoRoot:         "/repo",
		WorkspaceRoot:    "/repo/packages/ui",
		WorkspacePackage: "@acme/ui",
		Manager:          workspace.Npm,
	}

	plan := BuildPlan(pm, map[Scope]map[string]string{
		ScopeRegular: {"clsx": "^2.0.0", "tailwind-merge": "^2.5.0"},
	})
	require.Len(t, plan.Steps, 1)

	step := plan.Steps[0]
	assert.Equal(t, []string{"install", "clsx@^2.0.0", "tailwind-merge@^2.5.0", "--workspace", "@acme/ui"}, step.Args)
	assert.Equal(t, "/repo", step.Dir, "workspace-flagged npm installs run from the repo root")
}

func TestBuildPlan_YarnWorkspace(t *testing.T) {
	pm := workspace.PackageManagerContext{
		RepoRoot:         "/repo",
		WorkspaceRoot:    "/repo/packages/ui",
		WorkspacePackage: "@acme/ui",
		Manager:          workspace.Yarn,
	}

	plan := BuildPlan(pm, map[Scope]map[string]string{
		ScopeDev: {"@types/react": "^19.0.0"},
	})
	require.Len(t, plan.Steps, 1)

	step := plan.Steps[0]
	assert.Equal(t, "yarn", step.Command)
	assert.Equal(t, []string{"workspace", "@acme/ui", "add", "--dev", "@types/react@^19.0.0"}, step.Args)
}

func TestBuildPlan_YarnWithoutPackageName(t *testing.T) {
	pm := workspace.PackageManagerContext{
		RepoRoot:      "/repo",
		WorkspaceRoot: "/repo/apps/web",
		Manager:       workspace.Yarn,
	}

	plan := BuildPlan(pm, map[Scope]map[string]string{
		ScopeRegular: {"clsx": "^2.0.0"},
	})
	require.Len(t, plan.Steps, 1)

	step := plan.Steps[0]
	assert.Equal(t, []string{"add", "clsx@^2.0.0"}, step.Args)
	assert.Equal(t, "/repo/apps/web", step.Dir, "plain yarn add runs from the workspace root")
}

func TestBuildPlan_PnpmFilter(t *testing.T) {
	pm := workspace.PackageManagerContext{
		RepoRoot:         "/repo",
		WorkspaceRoot:    "/repo/packages/ui",
		WorkspacePackage: "@acme/ui",
		Manager:          workspace.Pnpm,
	}

	plan := BuildPlan(pm, map[Scope]map[string]string{
		ScopeRegular: {"clsx": "^2.0.0"},
	})
	require.Len(t, plan.Steps, 1)
	assert.Equal(t, "pnpm add --filter @acme/ui clsx@^2.0.0", plan.Steps[0].CommandLine())
}

func TestBuildPlan_BunWithLinker(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "bunfig.toml", "[install]\nlinker = \"isolated\"\n")

	pm := workspace.PackageManagerContext{
		RepoRoot:      root,
		WorkspaceRoot: root,
		Manager:       workspace.Bun,
	}

	plan := BuildPlan(pm, map[Scope]map[string]string{
		ScopeRegular: {"clsx": "^2.0.0"},
	})
	require.Len(t, plan.Steps, 1)

	step := plan.Steps[0]
	assert.Equal(t, "bun", step.Command)
	assert.Equal(t, []string{"add", "clsx@^2.0.0", "--cwd", root}, step.Args)
	assert.Contains(t, step.Env, "BUN_INSTALL_LINKER=isolated")
}

func TestBuildPlan_ScopeOrderAndEmptyScopes(t *testing.T) {
	pm := workspace.PackageManagerContext{RepoRoot: "/repo", WorkspaceRoot: "/repo", Manager: workspace.Npm}

	plan := BuildPlan(pm, map[Scope]map[string]string{
		ScopeDev:     {"@types/react": "^19.0.0"},
		ScopeRegular: {"clsx": "^2.0.0"},
		ScopePeer:    {},
	})
	require.Len(t, plan.Steps, 2)
	assert.Equal(t, ScopeRegular, plan.Steps[0].Scope)
	assert.Equal(t, ScopeDev, plan.Steps[1].Scope)
	assert.Equal(t, []string{"install", "--save-dev", "@types/react@^19.0.0"}, plan.Steps[1].Args)
}

func TestParseBunfigLinker(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bunfig.toml", "# comment\n[run]\nlinker = \"wrong-section\"\n\n[install]\nregistry = \"https://registry.npmjs.org\"\nlinker = 'hoisted'\n")

	assert.Equal(t, "hoisted", parseBunfigLinker(dir+"/bunfig.toml"))
	assert.Equal(t, "", parseBunfigLinker(dir+"/missing.toml"))
}

func TestPlanIsEmpty(t *testing.T) {
	pm := workspace.PackageManagerContext{RepoRoot: "/repo", Manager: workspace.Npm}
	plan := BuildPlan(pm, nil)
	assert.True(t, plan.IsEmpty())
}
