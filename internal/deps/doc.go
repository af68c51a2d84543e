// Package deps reconciles a workspace's installed node packages against
// component requirements and plans the installs that close the gap.
//
// Version resolution prefers the on-disk node_modules tree, walking
// upward to the repo root to honor monorepo hoisting, and falls back to
// package.json declarations. Satisfaction is deliberately lenient: an
// installed major version strictly greater than the required range's
// major counts as satisfied. Install plans are pure data shaped per
// package manager (npm, pnpm, yarn, bun) until executed.
package deps
