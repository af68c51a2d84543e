// Package cache provides the on-disk cache backing registry fetches.
//
// Entries are plain files under a base directory, each optionally paired
// with a ".meta" sidecar holding HTTP validators. Reads distinguish fresh
// (within a caller-supplied TTL) from stale (past the TTL but within the
// 30-day hard expiry); stale entries back the registry client's
// stale-on-error fallback.
//
// The base directory resolves from NOCTA_CACHE_DIR, the user cache dir,
// or the OS temp dir, in that order. All state hangs off an explicit
// Context value constructed per CLI invocation.
package cache
