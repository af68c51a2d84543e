package installer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nocta-ui/cli/internal/config"
	"github.com/nocta-ui/cli/internal/workspace"
)

func testHandle(componentsPath, importAlias, aliasPrefix string) *workspace.Handle {
	return &workspace.Handle{
		ID:    "primary",
		Label: ".",
		Config: &config.Config{
			Aliases: config.Aliases{
				Components: config.AliasTarget{Filesystem: componentsPath, Import: importAlias},
				Utils:      config.AliasTarget{Filesystem: "src/lib/utils"},
			},
		},
		AliasPrefix:          aliasPrefix,
		ComponentImportAlias: importAlias,
	}
}

func TestNormalizeContent_StripsAppAndSrcSegments(t *testing.T) {
	handle := testHandle("src/components/ui", "", "@")

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"app prefix", `import { cn } from "@/app/lib/utils";`, `import { cn } from "@/lib/utils";`},
		{"src prefix", `import { useThing } from "@/src/hooks/use-thing";`, `import { useThing } from "@/hooks/use-thing";`},
		{"already clean", `import { cn } from "@/lib/utils";`, `import { cn } from "@/lib/utils";`},
		{"single quotes", `import { cn } from '@/app/lib/utils';`, `import { cn } from '@/lib/utils';`},
		{"no alias imports", `import * as React from "react";`, `import * as React from "react";`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeContent(tt.content, handle))
		})
	}
}

func TestNormalizeContent_CustomAliasPrefix(t *testing.T) {
	handle := testHandle("app/components/ui", "", "~")

	got := NormalizeContent(`import { Button } from "@/components/ui/button";`, handle)
	assert.Equal(t, `import { Button } from "~/components/ui/button";`, got)
}

func TestNormalizeContent_ComponentImportAlias(t *testing.T) {
	handle := testHandle("src/components/ui", "@acme/ui", "@")

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			"component file",
			`import { Button } from "@/components/ui/button";`,
			`import { Button } from "@acme/ui/button";`,
		},
		{
			"components root",
			`import { Button } from "@/components/ui";`,
			`import { Button } from "@acme/ui";`,
		},
		{
			"non-component path uses the plain prefix",
			`import { cn } from "@/lib/utils";`,
			`import { cn } from "@/lib/utils";`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeContent(tt.content, handle))
		})
	}
}

func TestNormalizeContent_Idempotent(t *testing.T) {
	handle := testHandle("src/components/ui", "@acme/ui", "@")
	content := `import { Button } from "@/components/ui/button";
import { cn } from '@/app/lib/utils';
import * as React from "react";`

	once := NormalizeContent(content, handle)
	twice := NormalizeContent(once, handle)
	assert.Equal(t, once, twice)
}

func TestComponentImportBase(t *testing.T) {
	t.Run("distinct alias wins", func(t *testing.T) {
		handle := testHandle("src/components/ui", "@acme/ui", "@")
		assert.Equal(t, "@acme/ui", ComponentImportBase(handle))
	})

	t.Run("derived from filesystem path", func(t *testing.T) {
		handle := testHandle("src/components/ui", "", "@")
		assert.Equal(t, "@/components/ui", ComponentImportBase(handle))
	})

	t.Run("react router prefix", func(t *testing.T) {
		handle := testHandle("app/components/ui", "", "~")
		assert.Equal(t, "~/components/ui", ComponentImportBase(handle))
	})
}
