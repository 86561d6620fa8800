package errors

// ErrorTemplate is the static half of an error: everything known
// about a code before it occurs anywhere.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry holds every code the CLI can raise.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Configuration Errors (E100-E119)
	// ============================================

	"E100": {
		Category: CategoryConfig,
		Message:  "Not a routeutil project",
		Detail:   "No routeutil.json was found in this directory or any parent. Run this command from a project directory, or create one with `routeutil create`.",
		DocURL:   "https://github.com/andreasphil/routeutil/wiki/errors#e100",
	},
	"E101": {
		Category: CategoryConfig,
		Message:  "Invalid routeutil.json",
		Detail:   "The routeutil.json configuration file is malformed.",
		DocURL:   "https://github.com/andreasphil/routeutil/wiki/errors#e101",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Dev server port out of range",
		Detail:   "The dev server port must be between 1 and 65535.",
		DocURL:   "https://github.com/andreasphil/routeutil/wiki/errors#e102",
	},
	"E103": {
		Category: CategoryConfig,
		Message:  "Required configuration missing",
		Detail:   "A value the command needs is not set in routeutil.json.",
		DocURL:   "https://github.com/andreasphil/routeutil/wiki/errors#e103",
	},

	// ============================================
	// Scaffold Errors (E120-E139)
	// ============================================

	"E120": {
		Category: CategoryScaffold,
		Message:  "Target directory already exists",
		Detail:   "Something with this name is already in the way.",
		DocURL:   "https://github.com/andreasphil/routeutil/wiki/errors#e120",
	},
	"E121": {
		Category: CategoryScaffold,
		Message:  "Unknown template",
		Detail:   "No template with this name is built in.",
		DocURL:   "https://github.com/andreasphil/routeutil/wiki/errors#e121",
	},
	"E122": {
		Category: CategoryScaffold,
		Message:  "Unusable project name",
		Detail:   "The name has to work both as a directory and as a Go module path element.",
		DocURL:   "https://github.com/andreasphil/routeutil/wiki/errors#e122",
	},

	// ============================================
	// Build Errors (E140-E159)
	// ============================================

	"E140": {
		Category: CategoryBuild,
		Message:  "Go not found",
		Detail:   "Go is not installed or not in PATH. WebAssembly builds require the Go toolchain.",
		DocURL:   "https://github.com/andreasphil/routeutil/wiki/errors#e140",
	},
	"E141": {
		Category: CategoryBuild,
		Message:  "Build failed",
		Detail:   "The WebAssembly build failed. Check the output for compiler errors.",
		DocURL:   "https://github.com/andreasphil/routeutil/wiki/errors#e141",
	},
	"E142": {
		Category: CategoryBuild,
		Message:  "wasm_exec.js not found",
		Detail:   "The wasm_exec.js support file was not found under GOROOT. The Go installation may be incomplete.",
		DocURL:   "https://github.com/andreasphil/routeutil/wiki/errors#e142",
	},
	"E143": {
		Category: CategoryBuild,
		Message:  "Cannot write build output",
		Detail:   "The output directory could not be created or written to.",
		DocURL:   "https://github.com/andreasphil/routeutil/wiki/errors#e143",
	},

	// ============================================
	// Dev Server Errors (E160-E179)
	// ============================================

	"E160": {
		Category: CategoryDev,
		Message:  "Dev server failed to start",
		Detail:   "The dev server could not bind to the configured address. The port may already be in use.",
		DocURL:   "https://github.com/andreasphil/routeutil/wiki/errors#e160",
	},
	"E161": {
		Category: CategoryDev,
		Message:  "Watch path not found",
		Detail:   "A configured watch path does not exist.",
		DocURL:   "https://github.com/andreasphil/routeutil/wiki/errors#e161",
	},

	// ============================================
	// Deploy Errors (E180-E199)
	// ============================================

	"E180": {
		Category: CategoryDeploy,
		Message:  "Deploy bucket not configured",
		Detail:   "Deployment requires a bucket name in routeutil.json or via --bucket.",
		DocURL:   "https://github.com/andreasphil/routeutil/wiki/errors#e180",
	},
	"E181": {
		Category: CategoryDeploy,
		Message:  "Upload failed",
		Detail:   "One or more files could not be uploaded to the bucket.",
		DocURL:   "https://github.com/andreasphil/routeutil/wiki/errors#e181",
	},
	"E182": {
		Category: CategoryDeploy,
		Message:  "AWS configuration failed",
		Detail:   "AWS credentials or region could not be resolved. Configure them via the environment or shared config files.",
		DocURL:   "https://github.com/andreasphil/routeutil/wiki/errors#e182",
	},
	"E183": {
		Category: CategoryDeploy,
		Message:  "Remote listing failed",
		Detail:   "The current bucket contents could not be listed.",
		DocURL:   "https://github.com/andreasphil/routeutil/wiki/errors#e183",
	},
	"E184": {
		Category: CategoryDeploy,
		Message:  "Build output not found",
		Detail:   "The output directory does not exist. Run `routeutil build` before deploying.",
		DocURL:   "https://github.com/andreasphil/routeutil/wiki/errors#e184",
	},
	"E185": {
		Category: CategoryDeploy,
		Message:  "Remote cleanup failed",
		Detail:   "Stale objects could not be deleted from the bucket.",
		DocURL:   "https://github.com/andreasphil/routeutil/wiki/errors#e185",
	},
}

// GetAllCodes lists every registered code, in no particular order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate looks up the static definition of a code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a code at runtime, mainly so tests can fake one.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
