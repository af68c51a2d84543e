package frameworks

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// Kind identifies the host project's framework.
type Kind string

const (
	NextJS        Kind = "nextjs"
	ViteReact     Kind = "vite-react"
	ReactRouter   Kind = "react-router"
	TanstackStart Kind = "tanstack-start"
	Unknown       Kind = "unknown"
)

// Label returns the display name used in CLI output.
func (k Kind) Label() string {
	switch k {
	case NextJS:
		return "Next.js"
	case ViteReact:
		return "Vite + React"
	case ReactRouter:
		return "React Router"
	case TanstackStart:
		return "TanStack Start"
	default:
		return "Unknown"
	}
}

// AppStructure distinguishes Next.js routing layouts.
type AppStructure string

const (
	AppRouter           AppStructure = "app-router"
	PagesRouter         AppStructure = "pages-router"
	UnknownAppStructure AppStructure = "unknown"
)

// Details carries the evidence behind a detection.
type Details struct {
	HasConfig              bool
	HasReactDependency     bool
	HasFrameworkDependency bool
	AppStructure           AppStructure
	ConfigFiles            []string
}

// Detection is the result of probing a project directory.
type Detection struct {
	Framework Kind
	Version   string
	Details   Details
}

type packageJSON struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
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

func mergeDependencies(pkg packageJSON) map[string]string {
	merged := make(map[string]string, len(pkg.Dependencies)+len(pkg.DevDependencies))
	for name, version := range pkg.Dependencies {
		merged[name] = version
	}
	for name, version := range pkg.DevDependencies {
		merged[name] = version
	}
	return merged
}

func exists(dir, rel string) bool {
	_, err := os.Stat(filepath.Join(dir, filepath.FromSlash(rel)))
	return err == nil
}

func isDir(dir, rel string) bool {
	info, err := os.Stat(filepath.Join(dir, filepath.FromSlash(rel)))
	return err == nil && info.IsDir()
}

func anyExists(dir string, rels []string) bool {
	for _, rel := range rels {
		if exists(dir, rel) {
			return true
		}
	}
	return false
}

func existingFiles(dir string, rels []string) []string {
	var found []string
	for _, rel := range rels {
		if exists(dir, rel) {
			found = append(found, rel)
		}
	}
	return found
}

func firstVersion(deps map[string]string, names ...string) string {
	for _, name := range names {
		if version, ok := deps[name]; ok {
			return version
		}
	}
	return ""
}

func detectNextJS(dir string, deps map[string]string, hasReact bool) (Detection, bool) {
	configs := existingFiles(dir, []string{
		"next.config.js", "next.config.mjs", "next.config.ts", "next.config.cjs",
	})
	_, hasNext := deps["next"]
	if !hasNext && len(configs) == 0 {
		return Detection{}, false
	}

	appRouterPaths := []string{
		"app/layout.tsx", "app/layout.ts", "app/layout.jsx", "app/layout.js",
		"src/app/layout.tsx", "src/app/layout.ts", "src/app/layout.jsx", "src/app/layout.js",
	}
	pagesRouterPaths := []string{
		"pages/_app.tsx", "pages/_app.ts", "pages/_app.jsx", "pages/_app.js",
		"pages/index.tsx", "pages/index.ts", "pages/index.jsx", "pages/index.js",
		"src/pages/_app.tsx", "src/pages/_app.ts", "src/pages/_app.jsx", "src/pages/_app.js",
		"src/pages/index.tsx", "src/pages/index.ts", "src/pages/index.jsx", "src/pages/index.js",
	}

	structure := UnknownAppStructure
	if anyExists(dir, appRouterPaths) {
		structure = AppRouter
	} else if anyExists(dir, pagesRouterPaths) {
		structure = PagesRouter
	}

	return Detection{
		Framework: NextJS,
		Version:   deps["next"],
		Details: Details{
			HasConfig:              len(configs) > 0,
			HasReactDependency:     hasReact,
			HasFrameworkDependency: hasNext,
			AppStructure:           structure,
			ConfigFiles:            configs,
		},
	}, true
}

func detectReactRouter(dir string, deps map[string]string, hasReact bool) (Detection, bool) {
	configs := existingFiles(dir, []string{"react-router.config.ts", "react-router.config.js"})

	_, hasReactRouter := deps["react-router"]
	_, hasReactRouterDev := deps["@react-router/dev"]
	_, hasRemix := deps["@remix-run/react"]

	indicators := []string{
		"app/routes.ts", "app/routes.tsx", "app/routes.js", "app/routes.jsx",
		"app/root.tsx", "app/root.ts", "app/root.jsx", "app/root.js",
		"app/entry.client.tsx", "app/entry.client.ts", "app/entry.client.jsx", "app/entry.client.js",
		"app/entry.server.tsx", "app/entry.server.ts", "app/entry.server.jsx", "app/entry.server.js",
	}

	isFramework := anyExists(dir, indicators) || hasReactRouterDev || len(configs) > 0
	if hasRemix && !exists(dir, "remix.config.js") && !exists(dir, "remix.config.ts") {
		isFramework = true
	}

	if !isFramework || !hasReact {
		return Detection{}, false
	}

	return Detection{
		Framework: ReactRouter,
		Version:   firstVersion(deps, "react-router", "@react-router/dev", "@remix-run/react"),
		Details: Details{
			HasConfig:              len(configs) > 0,
			HasReactDependency:     hasReact,
			HasFrameworkDependency: hasReactRouter || hasReactRouterDev || hasRemix,
			ConfigFiles:            configs,
		},
	}, true
}

func detectTanstackStart(dir string, deps map[string]string, hasReact bool) (Detection, bool) {
	configs := existingFiles(dir, []string{
		"start.config.ts", "start.config.js", "start.config.mts", "start.config.mjs", "start.config.cjs",
	})

	startDeps := []string{
		"@tanstack/start", "@tanstack/start-client", "@tanstack/start-server",
		"@tanstack/start-router", "@tanstack/react-start",
	}
	routerDeps := []string{
		"@tanstack/react-router", "@tanstack/react-router-server", "@tanstack/react-router-devtools",
		"@tanstack/react-router-start", "@tanstack/router", "@tanstack/router-server",
		"@tanstack/router-devtools", "@tanstack/router-vite", "@tanstack/react-router-vite",
		"@tanstack/router-plugin", "@tanstack/react-router-ssr-query",
	}
	hasStartDep := containsAny(deps, startDeps)
	hasRouterDep := containsAny(deps, routerDeps)

	indicators := []string{
		"app/routes/__root.tsx", "app/routes/__root.ts", "app/routes/__root.jsx", "app/routes/__root.js",
		"app/entry-client.tsx", "app/entry-client.ts", "app/entry-server.tsx", "app/entry-server.ts",
		"src/routes/__root.tsx", "src/routes/__root.ts", "src/routes/__root.jsx", "src/routes/__root.js",
		"src/entry-client.tsx", "src/entry-client.ts", "src/entry-server.tsx", "src/entry-server.ts",
		"src/router.tsx", "src/router.ts",
	}
	hasStructure := len(configs) > 0 || anyExists(dir, indicators) ||
		isDir(dir, "app/routes") || isDir(dir, "src/routes")

	if !(hasStartDep || (hasStructure && hasRouterDep)) || !hasReact {
		return Detection{}, false
	}

	return Detection{
		Framework: TanstackStart,
		Version: firstVersion(deps,
			"@tanstack/start", "@tanstack/start-client", "@tanstack/start-server",
			"@tanstack/react-router", "@tanstack/react-start", "@tanstack/router"),
		Details: Details{
			HasConfig:              len(configs) > 0,
			HasReactDependency:     hasReact,
			HasFrameworkDependency: hasStartDep || hasRouterDep,
			ConfigFiles:            configs,
		},
	}, true
}

func containsAny(deps map[string]string, names []string) bool {
	for _, name := range names {
		if _, ok := deps[name]; ok {
			return true
		}
	}
	return false
}

func detectViteReact(dir string, deps map[string]string, hasReact bool) (Detection, bool) {
	configs := existingFiles(dir, []string{
		"vite.config.js", "vite.config.ts", "vite.config.mjs", "vite.config.cjs",
	})
	_, hasVite := deps["vite"]
	if !hasVite && len(configs) == 0 {
		return Detection{}, false
	}

	_, hasPluginReact := deps["@vitejs/plugin-react"]
	_, hasPluginReactSWC := deps["@vitejs/plugin-react-swc"]
	isReactProject := hasPluginReact || hasPluginReactSWC

	if !isReactProject {
		isReactProject = anyExists(dir, []string{
			"src/App.tsx", "src/App.jsx", "src/App.ts", "src/App.js",
			"src/main.tsx", "src/main.jsx", "src/main.ts", "src/main.js",
			"src/index.tsx", "src/index.jsx", "src/index.ts", "src/index.js",
		})
	}

	if !isReactProject && exists(dir, "index.html") {
		if content, err := os.ReadFile(filepath.Join(dir, "index.html")); err == nil {
			html := string(content)
			hasRoot := strings.Contains(html, `id="root"`) || strings.Contains(html, `id='root'`)
			hasViteScript := strings.Contains(html, "/src/main.") ||
				strings.Contains(html, "/src/index.") ||
				strings.Contains(html, `type="module"`)
			if hasRoot && hasViteScript {
				isReactProject = true
			}
		}
	}

	if !isReactProject || !hasReact {
		return Detection{}, false
	}

	return Detection{
		Framework: ViteReact,
		Version:   deps["vite"],
		Details: Details{
			HasConfig:              len(configs) > 0,
			HasReactDependency:     hasReact,
			HasFrameworkDependency: hasVite,
			ConfigFiles:            configs,
		},
	}, true
}

// Detect probes a project directory for a supported React framework.
// Detection order matters: Next.js config files also match generic
// bundler checks, so the most specific probes run first.
func Detect(dir string) Detection {
	pkg, ok := readPackageJSON(dir)
	if !ok {
		return Detection{Framework: Unknown}
	}

	deps := mergeDependencies(pkg)
	_, hasReact := deps["react"]

	if d, ok := detectNextJS(dir, deps, hasReact); ok {
		return d
	}
	if d, ok := detectReactRouter(dir, deps, hasReact); ok {
		return d
	}
	if d, ok := detectTanstackStart(dir, deps, hasReact); ok {
		return d
	}
	if d, ok := detectViteReact(dir, deps, hasReact); ok {
		return d
	}

	return Detection{
		Framework: Unknown,
		Details:   Details{HasReactDependency: hasReact},
	}
}

// IsTypeScriptProject reports whether the project uses TypeScript.
func IsTypeScriptProject(dir string) bool {
	if pkg, ok := readPackageJSON(dir); ok {
		deps := mergeDependencies(pkg)
		if _, ok := deps["typescript"]; ok {
			return true
		}
		if _, ok := deps["@types/node"]; ok {
			return true
		}
	}
	return exists(dir, "tsconfig.json")
}
