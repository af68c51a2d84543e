// Package workspace models installable targets in single-project and
// monorepo layouts.
//
// A Context holds one Handle per reachable workspace: the primary
// workspace the CLI runs in, plus any linked workspaces declared in its
// config. Handles carry the per-workspace config, import-alias
// settings, and the package-manager context install plans run against.
// The package also owns the repo-level nocta.workspace.json manifest,
// repo-root discovery, and package-manager detection.
package workspace
