// Package frameworks detects the host project's React framework from
// its package.json and the presence of well-known config and entry
// files. Detection drives the default import-alias prefix and the setup
// hints printed during project initialization.
package frameworks
