package errors

// Stable error codes referenced across the CLI.
const (
	ErrRegistryUnavailable     = "E001"
	ErrInvalidRegistryManifest = "E002"
	ErrComponentNotFound       = "E003"
	ErrAssetDecode             = "E004"
	ErrInvalidAsset            = "E005"

	ErrInvalidConfig  = "E020"
	ErrNotInitialized = "E021"
	ErrConfigWrite    = "E022"

	ErrInvalidWorkspaceManifest = "E040"
	ErrWorkspaceNotLinked       = "E041"
	ErrLinkedConfigMissing      = "E042"

	ErrDependencyInstall = "E060"

	ErrFileWrite          = "E080"
	ErrFileSnapshot       = "E081"
	ErrRollbackIncomplete = "E082"

	ErrCancelled = "E100"
)

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Registry Errors (E001-E019)
	// ============================================

	"E001": {
		Category: CategoryRegistry,
		Message:  "Registry unavailable",
		DocURL:   "https://nocta-ui.com/docs/errors/E001",
	},
	"E002": {
		Category: CategoryRegistry,
		Message:  "Invalid registry manifest",
		DocURL:   "https://nocta-ui.com/docs/errors/E002",
	},
	"E003": {
		Category: CategoryRegistry,
		Message:  "Component not found",
		DocURL:   "https://nocta-ui.com/docs/errors/E003",
	},
	"E004": {
		Category: CategoryRegistry,
		Message:  "Failed to decode registry asset",
		DocURL:   "https://nocta-ui.com/docs/errors/E004",
	},
	"E005": {
		Category: CategoryRegistry,
		Message:  "Failed to parse registry asset",
		DocURL:   "https://nocta-ui.com/docs/errors/E005",
	},

	// ============================================
	// Configuration Errors (E020-E039)
	// ============================================

	"E020": {
		Category: CategoryConfig,
		Message:  "Invalid nocta.config.json",
		DocURL:   "https://nocta-ui.com/docs/errors/E020",
	},
	"E021": {
		Category: CategoryConfig,
		Message:  "Not a nocta project",
		DocURL:   "https://nocta-ui.com/docs/errors/E021",
	},
	"E022": {
		Category: CategoryConfig,
		Message:  "Failed to write nocta.config.json",
		DocURL:   "https://nocta-ui.com/docs/errors/E022",
	},

	// ============================================
	// Workspace Errors (E040-E059)
	// ============================================

	"E040": {
		Category: CategoryWorkspace,
		Message:  "Invalid workspace manifest",
		DocURL:   "https://nocta-ui.com/docs/errors/E040",
	},
	"E041": {
		Category: CategoryWorkspace,
		Message:  "Workspace target not linked",
		DocURL:   "https://nocta-ui.com/docs/errors/E041",
	},
	"E042": {
		Category: CategoryWorkspace,
		Message:  "Linked workspace config not found",
		DocURL:   "https://nocta-ui.com/docs/errors/E042",
	},

	// ============================================
	// Dependency Errors (E060-E079)
	// ============================================

	"E060": {
		Category: CategoryDeps,
		Message:  "Dependency install failed",
		DocURL:   "https://nocta-ui.com/docs/errors/E060",
	},

	// ============================================
	// Filesystem Errors (E080-E099)
	// ============================================

	"E080": {
		Category: CategoryFS,
		Message:  "Failed to write file",
		DocURL:   "https://nocta-ui.com/docs/errors/E080",
	},
	"E081": {
		Category: CategoryFS,
		Message:  "Failed to snapshot file",
		DocURL:   "https://nocta-ui.com/docs/errors/E081",
	},
	"E082": {
		Category: CategoryFS,
		Message:  "Rollback incomplete",
		DocURL:   "https://nocta-ui.com/docs/errors/E082",
	},

	// ============================================
	// CLI Errors (E100-E119)
	// ============================================

	"E100": {
		Category: CategoryCLI,
		Message:  "Installation cancelled",
		DocURL:   "https://nocta-ui.com/docs/errors/E100",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
