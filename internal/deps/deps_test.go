package deps

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nocta-ui/cli/internal/workspace"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func installPackage(t *testing.T, root, name, version string) {
	t.Helper()
	writeFile(t, root, "node_modules/"+name+"/package.json", `{"name": "`+name+`", "version": "`+version+`"}`)
}

func singleWorkspace(root string) workspace.PackageManagerContext {
	return workspace.PackageManagerContext{
		RepoRoot:      root,
		WorkspaceRoot: root,
		Manager:       workspace.Npm,
	}
}

func TestInstalledVersion_HoistedLookup(t *testing.T) {
	root := t.TempDir()
	installPackage(t, root, "clsx", "2.1.0")
	nested := filepath.Join(root, "packages", "ui")
	require.NoError(t, os.MkdirAll(nested, 0755))

	assert.Equal(t, "2.1.0", InstalledVersion("clsx", nested, root))
	assert.Equal(t, "", InstalledVersion("missing", nested, root))
}

func TestInstalledVersion_ScopedPackage(t *testing.T) {
	root := t.TempDir()
	installPackage(t, root, "@radix-ui/react-slot", "1.1.0")

	assert.Equal(t, "1.1.0", InstalledVersion("@radix-ui/react-slot", root, root))
}

func TestInstalledVersion_NearestWins(t *testing.T) {
	root := t.TempDir()
	installPackage(t, root, "react", "18.3.1")
	ws := filepath.Join(root, "apps", "web")
	installPackage(t, ws, "react", "19.0.0")

	assert.Equal(t, "19.0.0", InstalledVersion("react", ws, root))
}

func TestReconcile_Satisfied(t *testing.T) {
	root := t.TempDir()
	installPackage(t, root, "clsx", "2.1.0")

	issues := Reconcile(singleWorkspace(root), map[string]string{"clsx": "^2.0.0"})
	assert.Empty(t, issues)
}

func TestReconcile_MajorGreaterThanPolicy(t *testing.T) {
	root := t.TempDir()
	installPackage(t, root, "clsx", "2.3.0")

	issues := Reconcile(singleWorkspace(root), map[string]string{"clsx": "^1.0.0"})
	assert.Empty(t, issues, "an installed major above the required major is satisfied by policy")
}

func TestReconcile_SameMajorIsNotGreater(t *testing.T) {
	root := t.TempDir()
	installPackage(t, root, "clsx", "2.0.0")

	issues := Reconcile(singleWorkspace(root), map[string]string{"clsx": "^2.1.0"})
	require.Len(t, issues, 1)
	assert.Equal(t, ReasonOutdated, issues[0].Reason)
	assert.Equal(t, "2.0.0", issues[0].Installed)
}

func TestReconcile_Missing(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "package.json", `{"dependencies": {}}`)

	issues := Reconcile(singleWorkspace(root), map[string]string{"clsx": "^2.0.0"})
	require.Len(t, issues, 1)
	assert.Equal(t, "clsx", issues[0].Name)
	assert.Equal(t, ReasonMissing, issues[0].Reason)
}

func TestReconcile_DeclaredFallback(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "package.json", `{"dependencies": {"clsx": "2.1.0"}}`)

	issues := Reconcile(singleWorkspace(root), map[string]string{"clsx": "^2.0.0"})
	assert.Empty(t, issues, "a pinned declared version inside the required range is satisfied")
}

func TestReconcile_UnknownForcesReinstall(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "package.json", `{"dependencies": {"clsx": "workspace:*"}}`)

	issues := Reconcile(singleWorkspace(root), map[string]string{"clsx": "^2.0.0"})
	require.Len(t, issues, 1)
	assert.Equal(t, ReasonUnknown, issues[0].Reason)
}

func TestReconcile_PnPDeclaredCompatible(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".yarnrc.yml", "nodeLinker: pnp\n")
	writeFile(t, root, "package.json", `{"dependencies": {"clsx": "^2.0.0"}}`)

	pm := workspace.PackageManagerContext{RepoRoot: root, WorkspaceRoot: root, Manager: workspace.Yarn}
	issues := Reconcile(pm, map[string]string{"clsx": "^2.0.0"})
	assert.Empty(t, issues, "under PnP a compatible declared range needs no node_modules entry")
}

func TestReconcile_PnPIncompatibleDeclared(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".pnp.cjs", "")
	writeFile(t, root, "package.json", `{"dependencies": {"clsx": "^1.0.0"}}`)

	pm := workspace.PackageManagerContext{RepoRoot: root, WorkspaceRoot: root, Manager: workspace.Yarn}
	issues := Reconcile(pm, map[string]string{"clsx": "^2.0.0"})
	require.Len(t, issues, 1)
	assert.Equal(t, ReasonOutdated, issues[0].Reason)
	assert.Equal(t, "^1.0.0", issues[0].Declared)
}

func TestUsesPnP(t *testing.T) {
	assert.False(t, UsesPnP(t.TempDir()))

	marker := t.TempDir()
	writeFile(t, marker, ".pnp.cjs", "")
	assert.True(t, UsesPnP(marker))

	linker := t.TempDir()
	writeFile(t, linker, ".yarnrc.yml", "nodeLinker: node-modules\n")
	assert.False(t, UsesPnP(linker))
}

func TestExtractMajor(t *testing.T) {
	tests := []struct {
		spec  string
		major uint64
		ok    bool
	}{
		{spec: "^2.0.0", major: 2, ok: true},
		{spec: "~1.4.2", major: 1, ok: true},
		{spec: ">=18.0.0", major: 18, ok: true},
		{spec: "v3.1.0", major: 3, ok: true},
		{spec: "12.0.0", major: 12, ok: true},
		{spec: "workspace:*", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			major, ok := extractMajor(tt.spec)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.major, major)
			}
		})
	}
}

func TestSatisfies(t *testing.T) {
	tests := []struct {
		name     string
		resolved string
		required string
		want     bool
	}{
		{name: "exact match", resolved: "2.1.0", required: "^2.0.0", want: true},
		{name: "below range", resolved: "1.9.0", required: "^2.0.0", want: false},
		{name: "major greater than", resolved: "3.0.0", required: "^2.0.0", want: true},
		{name: "major equal not greater", resolved: "2.0.0", required: "^2.1.0", want: false},
		{name: "unparseable", resolved: "workspace:*", required: "^2.0.0", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, satisfies(tt.resolved, tt.required))
		})
	}
}
