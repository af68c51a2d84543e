package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nocta-ui/cli/internal/config"
)

func TestGuessWorkspaceKind(t *testing.T) {
	tests := []struct {
		root string
		want config.WorkspaceKind
	}{
		{".", config.KindApp},
		{"apps/web", config.KindApp},
		{"packages/ui", config.KindUi},
		{"shared/ui-kit", config.KindUi},
		{"packages/lib", config.KindLibrary},
		{"tools/library", config.KindLibrary},
	}
	for _, tt := range tests {
		t.Run(tt.root, func(t *testing.T) {
			assert.Equal(t, tt.want, guessWorkspaceKind(tt.root))
		})
	}
}

func TestDefaultComponentsBarrelPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"src/components/ui", "src/index.ts"},
		{"./src/components/ui", "src/index.ts"},
		{"components/ui", "components/index.ts"},
		{"", "index.ts"},
		{"/", "index.ts"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, defaultComponentsBarrelPath(tt.path), "path %q", tt.path)
	}
}

func TestSanitizeBarrelForExports(t *testing.T) {
	tests := []struct {
		barrel string
		want   string
	}{
		{"src/index.ts", "./src/index.ts"},
		{"./src/index.ts", "./src/index.ts"},
		{"  src/index.ts  ", "./src/index.ts"},
		{`src\index.ts`, "./src/index.ts"},
		{"", "./index.ts"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeBarrelForExports(tt.barrel), "barrel %q", tt.barrel)
	}
}

func TestJoinRelative(t *testing.T) {
	assert.Equal(t, "nocta.config.json", joinRelative(".", "nocta.config.json"))
	assert.Equal(t, "nocta.config.json", joinRelative("", "nocta.config.json"))
	assert.Equal(t, "packages/ui/nocta.config.json", joinRelative("packages/ui", "nocta.config.json"))
	assert.Equal(t, "packages/ui/nocta.config.json", joinRelative("packages/ui/", "nocta.config.json"))
}
