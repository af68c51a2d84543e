package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nocta-ui/cli/internal/config"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadManifest_Missing(t *testing.T) {
	m, err := LoadManifest(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestManifestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	manifest := &Manifest{
		Workspaces: []ManifestEntry{
			{Name: "web", Kind: config.KindApp, PackageName: "web", Root: "apps/web", Config: "apps/web/nocta.config.json"},
			{Name: "ui", Kind: config.KindUi, PackageName: "@acme/ui", Root: "packages/ui", Config: "packages/ui/nocta.config.json"},
		},
		PackageManager: Pnpm,
		RepoRoot:       ".",
	}
	require.NoError(t, WriteManifest(dir, manifest))

	back, err := LoadManifest(dir)
	require.NoError(t, err)
	require.NotNil(t, back)
	assert.Equal(t, Pnpm, back.PackageManager)
	require.Len(t, back.Workspaces, 2)

	assert.Equal(t, "apps/web", back.EntryByPackage("web").Root)
	assert.Equal(t, "packages/ui", back.EntryByKind(config.KindUi).Root)
	assert.Equal(t, "@acme/ui", back.EntryByConfig("packages/ui/nocta.config.json").PackageName)
	assert.Nil(t, back.EntryByPackage("missing"))
}

func TestLoadManifest_Invalid(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ManifestFileName, "{broken")

	_, err := LoadManifest(dir)
	require.Error(t, err)
}

func TestFindRepoRoot_Markers(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, root string)
	}{
		{
			name: "workspace manifest",
			setup: func(t *testing.T, root string) {
				writeFile(t, root, ManifestFileName, "{}")
			},
		},
		{
			name: "pnpm workspace",
			setup: func(t *testing.T, root string) {
				writeFile(t, root, "pnpm-workspace.yaml", "packages:\n  - packages/*\n")
			},
		},
		{
			name: "turbo",
			setup: func(t *testing.T, root string) {
				writeFile(t, root, "turbo.json", "{}")
			},
		},
		{
			name: "package.json workspaces array",
			setup: func(t *testing.T, root string) {
				writeFile(t, root, "package.json", `{"workspaces": ["packages/*"]}`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			tt.setup(t, root)
			nested := filepath.Join(root, "packages", "ui", "src")
			require.NoError(t, os.MkdirAll(nested, 0755))

			assert.Equal(t, root, FindRepoRoot(nested))
		})
	}
}

func TestFindRepoRoot_PackageJSONFallback(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app/package.json", `{"name": "app"}`)
	nested := filepath.Join(root, "app", "src", "components")
	require.NoError(t, os.MkdirAll(nested, 0755))

	assert.Equal(t, filepath.Join(root, "app"), FindRepoRoot(nested))
}

func TestFindRepoRoot_NoMarkers(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.MkdirAll(dir, 0755))
	assert.Equal(t, dir, FindRepoRoot(dir))
}

func TestDetectPackageManager(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, root string)
		want  PackageManagerKind
		found bool
	}{
		{
			name:  "pnpm lockfile",
			setup: func(t *testing.T, root string) { writeFile(t, root, "pnpm-lock.yaml", "") },
			want:  Pnpm, found: true,
		},
		{
			name:  "yarn lockfile",
			setup: func(t *testing.T, root string) { writeFile(t, root, "yarn.lock", "") },
			want:  Yarn, found: true,
		},
		{
			name:  "bun binary lockfile",
			setup: func(t *testing.T, root string) { writeFile(t, root, "bun.lockb", "") },
			want:  Bun, found: true,
		},
		{
			name:  "npm lockfile",
			setup: func(t *testing.T, root string) { writeFile(t, root, "package-lock.json", "{}") },
			want:  Npm, found: true,
		},
		{
			name: "packageManager field",
			setup: func(t *testing.T, root string) {
				writeFile(t, root, "package.json", `{"packageManager": "pnpm@9.12.0"}`)
			},
			want: Pnpm, found: true,
		},
		{
			name: "pnpm lockfile wins over field",
			setup: func(t *testing.T, root string) {
				writeFile(t, root, "pnpm-lock.yaml", "")
				writeFile(t, root, "package.json", `{"packageManager": "yarn@4.0.0"}`)
			},
			want: Pnpm, found: true,
		},
		{
			name:  "nothing",
			setup: func(t *testing.T, root string) {},
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			tt.setup(t, root)
			got, ok := DetectPackageManager(root)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestRepoIndicatesWorkspaces(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, RepoIndicatesWorkspaces(dir))

	writeFile(t, dir, "package.json", `{"workspaces": {"packages": ["apps/*"]}}`)
	assert.True(t, RepoIndicatesWorkspaces(dir))

	empty := t.TempDir()
	writeFile(t, empty, "package.json", `{"workspaces": []}`)
	assert.False(t, RepoIndicatesWorkspaces(empty))
}
