package workspace

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nocta-ui/cli/internal/config"
	noctaerr "github.com/nocta-ui/cli/internal/errors"
	"github.com/nocta-ui/cli/internal/frameworks"
)

func uiConfig() *config.Config {
	return &config.Config{
		Style:    "default",
		Tailwind: config.TailwindConfig{CSS: "src/index.css"},
		Aliases: config.Aliases{
			Components: config.AliasTarget{Filesystem: "src/components", Import: "@acme/ui"},
			Utils:      config.AliasTarget{Filesystem: "src/lib/utils"},
		},
		Workspace: &config.WorkspaceConfig{
			Kind:        config.KindUi,
			PackageName: "@acme/ui",
			Root:        "packages/ui",
		},
	}
}

// monorepo lays out a repo root with an app workspace linked to a UI
// workspace and returns (repoRoot, appDir, appConfig).
func monorepo(t *testing.T) (string, string, *config.Config) {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "pnpm-workspace.yaml", "packages:\n  - apps/*\n  - packages/*\n")
	writeFile(t, root, "pnpm-lock.yaml", "")

	require.NoError(t, config.WriteTo(filepath.Join(root, "packages", "ui", config.ConfigFileName), uiConfig()))

	appCfg := &config.Config{
		Style:    "default",
		Tailwind: config.TailwindConfig{CSS: "app/globals.css"},
		Aliases: config.Aliases{
			Components: config.AliasTarget{Filesystem: "components/ui"},
			Utils:      config.AliasTarget{Filesystem: "lib/utils"},
		},
		Workspace: &config.WorkspaceConfig{
			Kind:        config.KindApp,
			PackageName: "web",
			Root:        "apps/web",
			LinkedWorkspaces: []config.WorkspaceLink{
				{
					Kind:        config.KindUi,
					PackageName: "@acme/ui",
					Root:        "packages/ui",
					Config:      "../../packages/ui/" + config.ConfigFileName,
				},
			},
		},
	}
	appDir := filepath.Join(root, "apps", "web")
	require.NoError(t, config.WriteTo(filepath.Join(appDir, config.ConfigFileName), appCfg))
	return root, appDir, appCfg
}

func TestBuildContext_SingleWorkspace(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{"name": "solo"}`)
	cfg := &config.Config{
		Aliases: config.Aliases{
			Components: config.AliasTarget{Filesystem: "components/ui"},
			Utils:      config.AliasTarget{Filesystem: "lib/utils"},
		},
	}

	ctx, err := BuildContext(cfg, &frameworks.Detection{Framework: frameworks.NextJS}, dir)
	require.NoError(t, err)
	require.Len(t, ctx.Handles, 1)

	primary := ctx.Primary()
	assert.Equal(t, "primary", primary.ID)
	assert.Equal(t, config.KindApp, primary.Kind)
	assert.Equal(t, "@", primary.AliasPrefix)
	assert.Equal(t, Npm, primary.PM.Manager)
}

func TestBuildContext_LinkedWorkspaces(t *testing.T) {
	_, appDir, appCfg := monorepo(t)

	ctx, err := BuildContext(appCfg, &frameworks.Detection{Framework: frameworks.NextJS}, appDir)
	require.NoError(t, err)
	require.Len(t, ctx.Handles, 2)

	assert.Equal(t, "web", ctx.Primary().Label)
	assert.Equal(t, Pnpm, ctx.Primary().PM.Manager)

	linked := ctx.HandleByID("linked-0")
	require.NotNil(t, linked)
	assert.Equal(t, config.KindUi, linked.Kind)
	assert.Equal(t, "@acme/ui", linked.PackageName)
	assert.Equal(t, "@acme/ui", linked.ComponentImportAlias)
	assert.Equal(t, "packages/ui", linked.RootRel)
}

func TestBuildContext_MissingLinkedConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "turbo.json", "{}")
	cfg := &config.Config{
		Workspace: &config.WorkspaceConfig{
			Kind: config.KindApp,
			Root: "apps/web",
			LinkedWorkspaces: []config.WorkspaceLink{
				{Kind: config.KindUi, Root: "packages/ui", Config: "../../packages/ui/nocta.config.json"},
			},
		},
	}

	_, err := BuildContext(cfg, nil, filepath.Join(root, "apps", "web"))
	require.Error(t, err)

	var ne *noctaerr.NoctaError
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, noctaerr.ErrLinkedConfigMissing, ne.Code)
}

func TestSelectHandle(t *testing.T) {
	_, appDir, appCfg := monorepo(t)
	ctx, err := BuildContext(appCfg, nil, appDir)
	require.NoError(t, err)

	tests := []struct {
		name   string
		target string
		wantID string
	}{
		{name: "package name", target: "@acme/ui", wantID: "linked-0"},
		{name: "package name case-insensitive", target: "@ACME/UI", wantID: "linked-0"},
		{name: "root path", target: "apps/web", wantID: "primary"},
		{name: "kind keyword ui", target: "ui", wantID: "linked-0"},
		{name: "kind keyword shared", target: "shared", wantID: "linked-0"},
		{name: "kind keyword app", target: "app", wantID: "primary"},
		{name: "no target prefers linked ui", target: "", wantID: "linked-0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handle, err := ctx.SelectHandle(tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, handle.ID)
		})
	}
}

func TestSelectHandle_UnknownTarget(t *testing.T) {
	_, appDir, appCfg := monorepo(t)
	ctx, err := BuildContext(appCfg, nil, appDir)
	require.NoError(t, err)

	_, err = ctx.SelectHandle("@acme/docs")
	require.Error(t, err)

	var ne *noctaerr.NoctaError
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, noctaerr.ErrWorkspaceNotLinked, ne.Code)
}

func TestSelectHandle_NoTargetWithoutUi(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		Aliases: config.Aliases{Components: config.AliasTarget{Filesystem: "components/ui"}},
	}
	ctx, err := BuildContext(cfg, nil, dir)
	require.NoError(t, err)

	handle, err := ctx.SelectHandle("")
	require.NoError(t, err)
	assert.Equal(t, "primary", handle.ID)
}

func TestSelectDependencyTarget(t *testing.T) {
	_, appDir, appCfg := monorepo(t)
	ctx, err := BuildContext(appCfg, nil, appDir)
	require.NoError(t, err)

	assert.Equal(t, "linked-0", ctx.SelectDependencyTarget(map[string]bool{"primary": true, "linked-0": true}),
		"ui workspaces take shared dependencies")
	assert.Equal(t, "primary", ctx.SelectDependencyTarget(map[string]bool{"primary": true}))
	assert.Equal(t, "", ctx.SelectDependencyTarget(nil))
}

func TestResolveComponentPath(t *testing.T) {
	cfg := &config.Config{
		Aliases: config.Aliases{Components: config.AliasTarget{Filesystem: "src/components"}},
	}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "ui prefix", input: "components/ui/button.tsx", want: "src/components/button.tsx"},
		{name: "nested slug dir", input: "components/ui/button/button.tsx", want: "src/components/button/button.tsx"},
		{name: "plain components prefix", input: "components/icons.ts", want: "src/components/icons.ts"},
		{name: "no known prefix", input: "lib/utils.ts", want: "src/components/lib/utils.ts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveComponentPath(tt.input, cfg))
		})
	}
}

func TestFlattenPathForSlug(t *testing.T) {
	cfg := &config.Config{
		Aliases: config.Aliases{Components: config.AliasTarget{Filesystem: "src/components"}},
	}

	flattened, ok := FlattenPathForSlug("src/components/button/button.tsx", cfg, "button")
	require.True(t, ok)
	assert.Equal(t, "src/components/button.tsx", flattened)

	_, ok = FlattenPathForSlug("src/components/button.tsx", cfg, "button")
	assert.False(t, ok, "no slug segment, nothing to flatten")

	_, ok = FlattenPathForSlug("src/components/icon/icon.tsx", cfg, "button")
	assert.False(t, ok, "segment belongs to a different slug")

	_, ok = FlattenPathForSlug("other/button/button.tsx", cfg, "button")
	assert.False(t, ok, "outside the components alias path")
}
