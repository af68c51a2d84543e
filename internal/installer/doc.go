// Package installer runs the component install pipeline: it resolves
// requested components against the registry, fetches and normalizes
// their source files, writes them under the selected workspaces with
// rollback on failure, keeps export barrels in sync, and reconciles
// the npm package dependencies each workspace needs.
package installer
