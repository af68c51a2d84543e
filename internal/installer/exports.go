package installer

import (
	"path/filepath"
	"sort"
	"strings"
)

const (
	exportBlockStart   = "// @nocta-ui/cli: auto-exports:start"
	exportBlockEnd     = "// @nocta-ui/cli: auto-exports:end"
	exportBlockComment = "// This section is auto-generated by Nocta UI CLI. Do not edit manually."
)

// exportMap maps a module path to the set of names exported from it.
type exportMap map[string]map[string]bool

func (m exportMap) add(module string, names ...string) {
	set := m[module]
	if set == nil {
		set = make(map[string]bool)
		m[module] = set
	}
	for _, name := range names {
		set[name] = true
	}
}

func (m exportMap) clone() exportMap {
	out := make(exportMap, len(m))
	for module, names := range m {
		set := make(map[string]bool, len(names))
		for name := range names {
			set[name] = true
		}
		out[module] = set
	}
	return out
}

func (m exportMap) equal(other exportMap) bool {
	if len(m) != len(other) {
		return false
	}
	for module, names := range m {
		otherNames, ok := other[module]
		if !ok || len(names) != len(otherNames) {
			return false
		}
		for name := range names {
			if !otherNames[name] {
				return false
			}
		}
	}
	return true
}

func (m exportMap) modules() []string {
	modules := make([]string, 0, len(m))
	for module := range m {
		modules = append(modules, module)
	}
	sort.Strings(modules)
	return modules
}

func formatExportLine(module string, names map[string]bool) string {
	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)
	return "export { " + strings.Join(sorted, ", ") + " } from \"" + module + "\";"
}

// exportPartition splits a barrel file around its auto-generated block.
type exportPartition struct {
	before   string
	after    string
	existing exportMap
}

func parseExportBlock(content string) exportPartition {
	partition := exportPartition{existing: exportMap{}}
	if content == "" {
		return partition
	}

	startIdx := strings.Index(content, exportBlockStart)
	if startIdx < 0 {
		partition.before = content
		return partition
	}
	endRel := strings.Index(content[startIdx:], exportBlockEnd)
	if endRel < 0 {
		partition.before = content
		return partition
	}
	endIdx := startIdx + endRel

	partition.before = content[:startIdx]
	partition.after = content[endIdx+len(exportBlockEnd):]

	body := content[startIdx+len(exportBlockStart) : endIdx]
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") {
			continue
		}
		if module, names, ok := parseExportLine(trimmed); ok {
			partition.existing.add(module, names...)
		}
	}
	return partition
}

// parseExportLine parses `export { a, b } from "module";` lines.
func parseExportLine(line string) (string, []string, bool) {
	body, ok := strings.CutPrefix(line, "export")
	if !ok {
		return "", nil, false
	}
	body, ok = strings.CutPrefix(strings.TrimLeft(body, " \t"), "{")
	if !ok {
		return "", nil, false
	}

	braceEnd := strings.Index(body, "}")
	if braceEnd < 0 {
		return "", nil, false
	}
	namesPart := body[:braceEnd]

	fromPart, ok := strings.CutPrefix(strings.TrimLeft(body[braceEnd+1:], " \t"), "from")
	if !ok {
		return "", nil, false
	}
	fromPart = strings.TrimLeft(fromPart, " \t")
	if fromPart == "" {
		return "", nil, false
	}
	quote := fromPart[0]
	if quote != '"' && quote != '\'' {
		return "", nil, false
	}
	moduleEnd := strings.IndexByte(fromPart[1:], quote)
	if moduleEnd < 0 {
		return "", nil, false
	}
	module := fromPart[1 : 1+moduleEnd]

	var names []string
	for _, name := range strings.Split(namesPart, ",") {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	if len(names) == 0 {
		return "", nil, false
	}
	return module, names, true
}

func buildExportBlock(exports exportMap) string {
	var block strings.Builder
	block.WriteString(exportBlockStart)
	block.WriteByte('\n')
	block.WriteString(exportBlockComment)
	block.WriteByte('\n')
	for _, module := range exports.modules() {
		block.WriteString(formatExportLine(module, exports[module]))
		block.WriteByte('\n')
	}
	block.WriteString(exportBlockEnd)
	block.WriteByte('\n')
	return block.String()
}

// mergeExportBlock merges new exports into a barrel's auto-generated
// block, preserving everything outside the block verbatim. changed is
// false when the block already contains every new export.
func mergeExportBlock(existingContent string, newEntries exportMap) (content string, merged exportMap, changed bool) {
	partition := parseExportBlock(existingContent)

	merged = partition.existing.clone()
	for module, names := range newEntries {
		for name := range names {
			merged.add(module, name)
		}
	}
	if merged.equal(partition.existing) {
		return existingContent, merged, false
	}

	block := buildExportBlock(merged)

	var out strings.Builder
	out.WriteString(partition.before)
	if partition.before != "" && !strings.HasSuffix(partition.before, "\n") {
		out.WriteByte('\n')
	}
	out.WriteString(block)
	if partition.after != "" {
		if !strings.HasSuffix(out.String(), "\n") {
			out.WriteByte('\n')
		}
		out.WriteString(partition.after)
	}
	return out.String(), merged, true
}

// modulePathFromBarrel renders a file path as the relative module
// specifier the barrel should import it by, without its extension.
func modulePathFromBarrel(barrelDir, targetPath string) string {
	relative, err := filepath.Rel(barrelDir, targetPath)
	if err != nil {
		relative = targetPath
	}
	module := strings.ReplaceAll(relative, `\`, "/")
	if ext := filepath.Ext(module); ext != "" {
		module = strings.TrimSuffix(module, ext)
	}
	if strings.HasPrefix(module, "/") {
		return "." + module
	}
	if !strings.HasPrefix(module, ".") {
		return "./" + module
	}
	return module
}
