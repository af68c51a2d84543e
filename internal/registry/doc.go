// Package registry is the HTTP client for the nocta component registry.
//
// The client fetches the registry manifest and component assets with an
// on-disk cache in front: fresh entries short-circuit the network,
// stale entries are revalidated with conditional GETs, and any network
// failure falls back to a stale entry when one exists. It also resolves
// a component's transitive internal dependencies into install order.
package registry
