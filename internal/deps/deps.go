package deps

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/nocta-ui/cli/internal/workspace"
)

// Scope classifies where an installed package is recorded.
type Scope string

const (
	ScopeRegular Scope = "regular"
	ScopeDev     Scope = "dev"
	ScopePeer    Scope = "peer"
)

// IssueReason explains why a requirement is not satisfied.
type IssueReason string

const (
	// ReasonMissing: not installed and not declared.
	ReasonMissing IssueReason = "missing"

	// ReasonOutdated: a version resolved but fails the required range.
	ReasonOutdated IssueReason = "outdated"

	// ReasonUnknown: no version could be parsed at all. Treated as
	// needing a reinstall rather than blocking.
	ReasonUnknown IssueReason = "unknown"
)

// RequirementIssue records one unsatisfied dependency requirement.
type RequirementIssue struct {
	Name      string
	Required  string
	Installed string
	Declared  string
	Reason    IssueReason
}

type packageJSON struct {
	Dependencies     map[string]string `json:"dependencies"`
	DevDependencies  map[string]string `json:"devDependencies"`
	PeerDependencies map[string]string `json:"peerDependencies"`
}

func readPackageJSON(dir string) (packageJSON, bool) {
	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		return packageJSON{}, false
	}
	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return packageJSON{}, false
	}
	return pkg, true
}

// DeclaredDependencies merges the dependency maps declared in a
// directory's package.json.
func DeclaredDependencies(dir string) map[string]string {
	pkg, ok := readPackageJSON(dir)
	if !ok {
		return map[string]string{}
	}
	merged := make(map[string]string, len(pkg.Dependencies)+len(pkg.DevDependencies)+len(pkg.PeerDependencies))
	for name, rng := range pkg.PeerDependencies {
		merged[name] = rng
	}
	for name, rng := range pkg.DevDependencies {
		merged[name] = rng
	}
	for name, rng := range pkg.Dependencies {
		merged[name] = rng
	}
	return merged
}

// InstalledVersion resolves a package's on-disk version by checking
// node_modules in startDir and each parent up to and including stopDir,
// which is how hoisted monorepo installs are found.
func InstalledVersion(name, startDir, stopDir string) string {
	current := startDir
	for {
		path := filepath.Join(current, "node_modules", filepath.FromSlash(name), "package.json")
		if data, err := os.ReadFile(path); err == nil {
			var pkg struct {
				Version string `json:"version"`
			}
			if err := json.Unmarshal(data, &pkg); err == nil && pkg.Version != "" {
				return pkg.Version
			}
		}

		if current == stopDir {
			break
		}
		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}
	return ""
}

func parseVersion(raw string) *semver.Version {
	v, err := semver.NewVersion(strings.TrimPrefix(strings.TrimSpace(raw), "v"))
	if err != nil {
		return nil
	}
	return v
}

// extractMajor pulls the leading numeric component out of a version or
// range string ("^2.0.0" -> 2).
func extractMajor(spec string) (uint64, bool) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(spec), "v")
	var digits strings.Builder
	for _, ch := range trimmed {
		if ch >= '0' && ch <= '9' {
			digits.WriteRune(ch)
		} else if digits.Len() > 0 {
			break
		}
	}
	if digits.Len() == 0 {
		return 0, false
	}
	var major uint64
	for _, ch := range digits.String() {
		major = major*10 + uint64(ch-'0')
	}
	return major, true
}

func rangeSatisfied(version *semver.Version, requiredRange string) bool {
	if version == nil {
		return false
	}
	constraint, err := semver.NewConstraint(requiredRange)
	if err != nil {
		return false
	}
	return constraint.Check(version)
}

// satisfies applies the satisfaction policy: the resolved spec matches
// the required range, or its major component is strictly greater than
// the range's major. Newer majors are treated as forward-compatible so
// a registry that lags behind a major bump does not force reinstalls.
func satisfies(resolvedSpec, requiredRange string) bool {
	if rangeSatisfied(parseVersion(resolvedSpec), requiredRange) {
		return true
	}
	resolvedMajor, okResolved := extractMajor(resolvedSpec)
	requiredMajor, okRequired := extractMajor(requiredRange)
	return okResolved && okRequired && resolvedMajor > requiredMajor
}

// rangeBaseVersion extracts the first concrete version out of a range
// string so two ranges can be compared against each other.
func rangeBaseVersion(rng string) *semver.Version {
	trimmed := strings.TrimSpace(rng)
	trimmed = strings.TrimLeft(trimmed, "^~><=v ")
	if i := strings.IndexAny(trimmed, " |,"); i >= 0 {
		trimmed = trimmed[:i]
	}
	return parseVersion(trimmed)
}

// rangesCompatible is the symmetric check used under Yarn PnP, where no
// node_modules tree exists: either range's base version satisfying the
// other counts as compatible.
func rangesCompatible(declared, required string) bool {
	if rangeSatisfied(rangeBaseVersion(declared), required) {
		return true
	}
	return rangeSatisfied(rangeBaseVersion(required), declared)
}

type yarnRC struct {
	NodeLinker string `yaml:"nodeLinker"`
}

// UsesPnP reports whether the repo uses Yarn Plug'n'Play, detected via
// .pnp.* marker files or a nodeLinker: pnp setting in .yarnrc.yml.
func UsesPnP(root string) bool {
	for _, marker := range []string{".pnp.cjs", ".pnp.js", ".pnp.mjs", ".pnp.data.json", ".pnp.loader.mjs"} {
		if _, err := os.Stat(filepath.Join(root, marker)); err == nil {
			return true
		}
	}

	for _, rc := range []string{".yarnrc.yml", ".yarnrc.yaml"} {
		data, err := os.ReadFile(filepath.Join(root, rc))
		if err != nil {
			continue
		}
		var parsed yarnRC
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parsed.NodeLinker), "pnp") {
			return true
		}
	}
	return false
}

// Reconcile classifies each required dependency for a workspace as
// satisfied or as a RequirementIssue. Installed versions are preferred;
// declared package.json ranges are the fallback. Issues come back
// sorted by name.
func Reconcile(pm workspace.PackageManagerContext, required map[string]string) []RequirementIssue {
	workspaceRoot := pm.WorkspaceRoot
	if workspaceRoot == "" {
		workspaceRoot = pm.RepoRoot
	}
	declared := DeclaredDependencies(workspaceRoot)
	pnp := UsesPnP(pm.RepoRoot)

	var issues []RequirementIssue
	for name, requiredRange := range required {
		installed := InstalledVersion(name, workspaceRoot, pm.RepoRoot)
		declaredRange := declared[name]

		if installed == "" && pnp && declaredRange != "" {
			// Zero-install repos have no node_modules to inspect; a
			// declared range compatible with the requirement is enough.
			if rangesCompatible(declaredRange, requiredRange) {
				continue
			}
		}

		resolvedSpec := installed
		if resolvedSpec == "" {
			resolvedSpec = declaredRange
		}
		if resolvedSpec == "" {
			issues = append(issues, RequirementIssue{
				Name:     name,
				Required: requiredRange,
				Reason:   ReasonMissing,
			})
			continue
		}

		if satisfies(resolvedSpec, requiredRange) {
			continue
		}

		// A spec we can pull any concrete version out of is outdated;
		// one we cannot parse at all is unknown and forces a reinstall.
		reason := ReasonOutdated
		if rangeBaseVersion(resolvedSpec) == nil {
			reason = ReasonUnknown
		}
		issue := RequirementIssue{
			Name:     name,
			Required: requiredRange,
			Reason:   reason,
		}
		if installed != "" {
			issue.Installed = installed
		} else {
			issue.Declared = declaredRange
		}
		issues = append(issues, issue)
	}

	sort.Slice(issues, func(i, j int) bool { return issues[i].Name < issues[j].Name })
	return issues
}
