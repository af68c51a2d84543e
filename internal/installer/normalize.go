package installer

import (
	"regexp"
	"strings"

	"github.com/nocta-ui/cli/internal/workspace"
)

// importNormalizeRE matches quoted "@/..." import paths in fetched
// component sources. Already-rewritten imports no longer carry the
// "@/" marker, so normalization is idempotent.
var importNormalizeRE = regexp.MustCompile(`(['"])@/([^'"\n]+)(['"])`)

// NormalizeContent rewrites registry-relative imports for the
// destination workspace: "@/<rest>" becomes either the workspace's
// component import alias (when the path targets the components
// directory and a distinct alias is configured) or the workspace's
// alias prefix plus the stripped path.
func NormalizeContent(content string, handle *workspace.Handle) string {
	aliasPrefix := strings.TrimRight(handle.AliasPrefix, "/")
	componentAlias := strings.TrimRight(handle.ComponentImportAlias, "/")

	return importNormalizeRE.ReplaceAllStringFunc(content, func(match string) string {
		groups := importNormalizeRE.FindStringSubmatch(match)
		open, rest, closing := groups[1], groups[2], groups[3]
		path := normalizeImportPath(rest)

		if componentAlias != "" {
			if relative, ok := componentRelativePath(handle, path); ok {
				if relative == "" {
					return open + componentAlias + closing
				}
				return open + joinImportPath(componentAlias, relative) + closing
			}
		}

		return open + joinImportPath(aliasPrefix, path) + closing
	})
}

// normalizeImportPath strips the leading "./", "/", "app/", or "src/"
// segment a registry source may carry.
func normalizeImportPath(importPath string) string {
	path := strings.TrimPrefix(importPath, "./")
	path = strings.TrimPrefix(path, "/")
	if stripped, ok := strings.CutPrefix(path, "app/"); ok {
		return stripped
	}
	if stripped, ok := strings.CutPrefix(path, "src/"); ok {
		return stripped
	}
	return path
}

func joinImportPath(prefix, importPath string) string {
	sanitized := strings.TrimRight(prefix, "/")
	if importPath == "" {
		return sanitized
	}
	return sanitized + "/" + strings.TrimLeft(importPath, "/")
}

func normalizeAliasPath(path string) string {
	path = strings.TrimPrefix(path, "./")
	path = strings.TrimPrefix(path, "/")
	path = strings.TrimPrefix(path, "src/")
	return strings.TrimPrefix(path, "app/")
}

// componentRelativePath maps a normalized import path onto the
// workspace's components directory, returning the remainder relative to
// it. ok is false when the path does not target components at all.
func componentRelativePath(handle *workspace.Handle, path string) (string, bool) {
	normalized := strings.TrimPrefix(strings.TrimPrefix(path, "./"), "/")

	if normalized == "components" {
		return "", true
	}
	stripped, ok := strings.CutPrefix(normalized, "components/")
	if !ok {
		return "", false
	}

	aliasSuffix := normalizeAliasPath(handle.Config.Aliases.Components.FilesystemPath())
	suffix := strings.TrimPrefix(strings.TrimPrefix(aliasSuffix, "components/"), "/")

	relative := stripped
	if suffix != "" {
		if after, ok := strings.CutPrefix(relative, suffix); ok {
			relative = strings.TrimPrefix(after, "/")
		}
	}
	return relative, true
}

// ComponentImportBase is the import path users write for the
// workspace's components directory, used in post-install examples.
func ComponentImportBase(handle *workspace.Handle) string {
	if handle.ComponentImportAlias != "" {
		return strings.TrimRight(handle.ComponentImportAlias, "/")
	}

	normalized := normalizeAliasPath(handle.Config.Aliases.Components.FilesystemPath())
	prefix := strings.TrimRight(handle.AliasPrefix, "/")
	if normalized == "" {
		return prefix
	}
	return joinImportPath(prefix, normalized)
}
