package registry

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/nocta-ui/cli/internal/cache"
	"github.com/nocta-ui/cli/internal/errors"
)

const (
	// DefaultBaseURL is the endpoint used when no override is configured.
	DefaultBaseURL = "https://www.nocta-ui.com/registry"

	// BaseURLEnv overrides the registry endpoint.
	BaseURLEnv = "NOCTA_REGISTRY_URL"

	// ManifestName is the registry manifest served at the base URL.
	ManifestName = "registry.json"

	// ComponentsManifestName is the asset mapping file paths to encoded
	// file contents.
	ComponentsManifestName = "components.json"

	// CSSBundlePath is the stylesheet asset used during project setup.
	CSSBundlePath = "css/index.css"

	manifestCachePath = "registry/registry.json"

	// ManifestTTLEnv and AssetTTLEnv override the cache freshness
	// windows, in milliseconds.
	ManifestTTLEnv = "NOCTA_CACHE_TTL_MS"
	AssetTTLEnv    = "NOCTA_ASSET_CACHE_TTL_MS"

	defaultManifestTTL = 10 * time.Minute
	defaultAssetTTL    = 24 * time.Hour
)

func ttlFromEnv(env string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(env))
	if raw == "" {
		return fallback
	}
	ms, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}

// ManifestTTL returns the freshness window for the registry manifest.
func ManifestTTL() time.Duration {
	return ttlFromEnv(ManifestTTLEnv, defaultManifestTTL)
}

// AssetTTL returns the freshness window for registry assets.
func AssetTTL() time.Duration {
	return ttlFromEnv(AssetTTLEnv, defaultAssetTTL)
}

// BaseURL resolves the effective registry endpoint: the explicit
// override, then the environment, then the default.
func BaseURL(override string) string {
	if url := strings.TrimSpace(override); url != "" {
		return url
	}
	if url := strings.TrimSpace(os.Getenv(BaseURLEnv)); url != "" {
		return url
	}
	return DefaultBaseURL
}

// namespaceFor derives the cache namespace from the base URL so that
// entries for different registries never collide.
func namespaceFor(baseURL string) string {
	sum := crc32.ChecksumIEEE([]byte(strings.TrimSpace(baseURL)))
	return fmt.Sprintf("registry/%08x", sum)
}

// httpMetadata mirrors the validators stored in an entry's sidecar.
type httpMetadata struct {
	ETag         string `json:"etag,omitempty"`
	LastModified string `json:"lastModified,omitempty"`
}

// Client fetches registry data over HTTP, backed by the on-disk cache.
// It memoizes the parsed manifest and the components asset for the
// lifetime of one CLI invocation.
type Client struct {
	httpClient *http.Client
	baseURL    string
	namespace  string
	cache      *cache.Context

	// Warn receives non-fatal notices, such as a dependency cycle in
	// registry data. Nil means notices are dropped.
	Warn func(message string)

	mu           sync.Mutex
	registryBody string
	registry     *Registry
	manifest     *componentManifest
}

// NewClient builds a registry client for a base URL using the given
// cache context.
func NewClient(baseURL string, cacheCtx *cache.Context) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		namespace:  namespaceFor(baseURL),
		cache:      cacheCtx,
	}
}

func (c *Client) warnf(format string, args ...any) {
	if c.Warn != nil {
		c.Warn(fmt.Sprintf(format, args...))
	}
}

func (c *Client) manifestURL() string {
	return c.baseURL + "/" + ManifestName
}

func (c *Client) assetURL(asset string) string {
	return c.baseURL + "/" + strings.TrimLeft(asset, "/")
}

func (c *Client) namespacedPath(relPath string) string {
	return c.namespace + "/" + strings.TrimLeft(relPath, "/")
}

func (c *Client) readCache(cachePath string, ttl time.Duration, acceptStale bool) (string, bool) {
	body, ok, err := c.cache.ReadText(cachePath, ttl, acceptStale)
	if err != nil || !ok {
		return "", false
	}
	return body, true
}

func (c *Client) loadMetadata(cachePath string) httpMetadata {
	var meta httpMetadata
	data, err := c.cache.ReadMetadata(cachePath)
	if err != nil || data == nil {
		return meta
	}
	// A corrupt sidecar falls back to an unconditional request.
	_ = json.Unmarshal(data, &meta)
	return meta
}

func (c *Client) storeMetadata(cachePath string, meta httpMetadata) {
	if meta.ETag == "" && meta.LastModified == "" {
		_ = c.cache.RemoveMetadata(cachePath)
		return
	}
	if data, err := json.Marshal(meta); err == nil {
		_ = c.cache.WriteMetadata(cachePath, data)
	}
}

// fetchWithCache implements the cache protocol: serve fresh entries
// without a network call, revalidate stale ones with a conditional GET,
// and fall back to a stale entry on any network failure or non-success
// status.
func (c *Client) fetchWithCache(ctx context.Context, url, cacheRelative string, ttl time.Duration) (string, error) {
	cachePath := c.namespacedPath(cacheRelative)

	if body, ok := c.readCache(cachePath, ttl, false); ok {
		return body, nil
	}

	meta := c.loadMetadata(cachePath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errors.New(errors.ErrRegistryUnavailable).WithDetail(err.Error())
	}
	if meta.ETag != "" {
		req.Header.Set("If-None-Match", meta.ETag)
	}
	if meta.LastModified != "" {
		req.Header.Set("If-Modified-Since", meta.LastModified)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if body, ok := c.readCache(cachePath, ttl, true); ok {
			return body, nil
		}
		return "", errors.New(errors.ErrRegistryUnavailable).WithDetail(err.Error()).Wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		if body, ok := c.readCache(cachePath, ttl, true); ok {
			// The entry is revalidated, so restart its freshness window.
			_ = c.cache.Touch(cachePath)
			return body, nil
		}
		return "", errors.New(errors.ErrRegistryUnavailable).
			WithDetail("registry returned 304 but the cache entry is missing")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if body, ok := c.readCache(cachePath, ttl, true); ok {
			return body, nil
		}
		return "", errors.New(errors.ErrRegistryUnavailable).
			WithDetailf("registry request failed with status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if body, ok := c.readCache(cachePath, ttl, true); ok {
			return body, nil
		}
		return "", errors.New(errors.ErrRegistryUnavailable).WithDetail(err.Error()).Wrap(err)
	}

	body := string(raw)
	if err := c.cache.WriteText(cachePath, body); err == nil {
		c.storeMetadata(cachePath, httpMetadata{
			ETag:         resp.Header.Get("ETag"),
			LastModified: resp.Header.Get("Last-Modified"),
		})
	}
	return body, nil
}

// FetchRegistry returns the parsed registry manifest. The parse result
// is memoized per body so repeated calls in one run reuse it.
func (c *Client) FetchRegistry(ctx context.Context) (*Registry, error) {
	body, err := c.fetchWithCache(ctx, c.manifestURL(), manifestCachePath, ManifestTTL())
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.registry != nil && c.registryBody == body {
		return c.registry, nil
	}

	var reg Registry
	if err := json.Unmarshal([]byte(body), &reg); err != nil {
		return nil, errors.New(errors.ErrInvalidRegistryManifest).WithDetail(err.Error()).Wrap(err)
	}
	c.registryBody = body
	c.registry = &reg
	return &reg, nil
}

// FetchSummary returns the registry's identity fields.
func (c *Client) FetchSummary(ctx context.Context) (Summary, error) {
	reg, err := c.FetchRegistry(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summary{Name: reg.Name, Version: reg.Version, Description: reg.Description}, nil
}

// Requirements returns the registry's host-project version requirements.
func (c *Client) Requirements(ctx context.Context) (map[string]string, error) {
	reg, err := c.FetchRegistry(ctx)
	if err != nil {
		return nil, err
	}
	return reg.Requirements, nil
}

// FetchComponent returns a single registry entry by slug.
func (c *Client) FetchComponent(ctx context.Context, slug string) (Component, error) {
	reg, err := c.FetchRegistry(ctx)
	if err != nil {
		return Component{}, err
	}
	component, ok := reg.Components[slug]
	if !ok {
		return Component{}, errors.New(errors.ErrComponentNotFound).WithDetailf("component %q", slug)
	}
	return component, nil
}

// FetchComponentWithDependencies resolves a slug and its transitive
// internal dependencies into install order.
func (c *Client) FetchComponentWithDependencies(ctx context.Context, slug string) ([]ResolvedComponent, error) {
	reg, err := c.FetchRegistry(ctx)
	if err != nil {
		return nil, err
	}
	return ResolveDependencies(reg.Components, slug, c.Warn)
}

// ResolveDependencies walks a component's internal dependencies
// depth-first and returns dependencies before dependents, each slug
// exactly once. A slug re-encountered on the active path is a cycle:
// the back-edge is dropped and reported through warn. A slug absent
// from the map is a hard error.
func ResolveDependencies(components map[string]Component, slug string, warn func(string)) ([]ResolvedComponent, error) {
	var ordered []ResolvedComponent
	visiting := make(map[string]bool)
	visited := make(map[string]bool)

	var visit func(string) error
	visit = func(current string) error {
		if visited[current] {
			return nil
		}
		if visiting[current] {
			if warn != nil {
				warn(fmt.Sprintf("registry declares a dependency cycle involving %q; ignoring the back-edge", current))
			}
			return nil
		}
		visiting[current] = true

		component, ok := components[current]
		if !ok {
			return errors.New(errors.ErrComponentNotFound).WithDetailf("component %q", current)
		}
		for _, dep := range component.InternalDependencies {
			if err := visit(dep); err != nil {
				return err
			}
		}

		delete(visiting, current)
		visited[current] = true
		ordered = append(ordered, ResolvedComponent{Slug: current, Component: component})
		return nil
	}

	if err := visit(slug); err != nil {
		return nil, err
	}
	return ordered, nil
}

// FetchRegistryAsset fetches a raw asset relative to the base URL.
func (c *Client) FetchRegistryAsset(ctx context.Context, assetPath string) (string, error) {
	normalized := strings.TrimLeft(assetPath, "/")
	return c.fetchWithCache(ctx, c.assetURL(normalized), "assets/"+normalized, AssetTTL())
}

// componentManifest indexes the components.json asset by full path,
// with a filename-only fallback for flat registries.
type componentManifest struct {
	byPath     map[string]string
	byFilename map[string]string
}

func normalizeManifestKey(path string) string {
	key := strings.ReplaceAll(path, `\`, "/")
	key = strings.TrimPrefix(key, "./")
	return strings.TrimLeft(key, "/")
}

func newComponentManifest(entries map[string]string) *componentManifest {
	m := &componentManifest{
		byPath:     make(map[string]string),
		byFilename: make(map[string]string),
	}
	for key, value := range entries {
		normalized := normalizeManifestKey(key)
		if strings.Contains(normalized, "/") {
			m.byPath[normalized] = value
		} else {
			m.byFilename[normalized] = value
		}
	}
	return m
}

func (m *componentManifest) lookup(requestedPath string) (string, bool) {
	normalized := normalizeManifestKey(requestedPath)
	if value, ok := m.byPath[normalized]; ok {
		return value, true
	}
	parts := strings.Split(normalized, "/")
	value, ok := m.byFilename[parts[len(parts)-1]]
	return value, ok
}

func (c *Client) loadComponentsManifest(ctx context.Context) (*componentManifest, error) {
	c.mu.Lock()
	if c.manifest != nil {
		manifest := c.manifest
		c.mu.Unlock()
		return manifest, nil
	}
	c.mu.Unlock()

	text, err := c.FetchRegistryAsset(ctx, ComponentsManifestName)
	if err != nil {
		return nil, err
	}
	var entries map[string]string
	if err := json.Unmarshal([]byte(text), &entries); err != nil {
		return nil, errors.New(errors.ErrInvalidAsset).
			WithDetailf("%s: %v", ComponentsManifestName, err).Wrap(err)
	}

	manifest := newComponentManifest(entries)
	c.mu.Lock()
	c.manifest = manifest
	c.mu.Unlock()
	return manifest, nil
}

// FetchComponentFile returns the decoded text of one component file,
// looked up through the components manifest.
func (c *Client) FetchComponentFile(ctx context.Context, path string) (string, error) {
	manifest, err := c.loadComponentsManifest(ctx)
	if err != nil {
		return "", err
	}
	encoded, ok := manifest.lookup(path)
	if !ok {
		return "", errors.New(errors.ErrComponentNotFound).WithDetailf("file %q", path)
	}

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", errors.New(errors.ErrAssetDecode).WithDetailf("%s: %v", path, err).Wrap(err)
	}
	if !utf8.Valid(decoded) {
		return "", errors.New(errors.ErrAssetDecode).WithDetailf("%s: content is not valid UTF-8", path)
	}
	return string(decoded), nil
}
