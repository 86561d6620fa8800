package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"github.com/andreasphil/routeutil/internal/errors"
)

// ConfigFileName marks a project root.
const ConfigFileName = "routeutil.json"

// Defaults applied to fields routeutil.json leaves out.
const (
	DefaultPort   = 3000
	DefaultHost   = "localhost"
	DefaultApp    = "app"
	DefaultPublic = "public"
	DefaultOutput = "dist"
)

// Config mirrors routeutil.json.
type Config struct {
	Name    string `json:"name,omitempty"`
	Version string `json:"version,omitempty"`

	// App holds the WebAssembly main package, Public the static files
	// served and copied next to it.
	App    string `json:"app,omitempty"`
	Public string `json:"public,omitempty"`

	Dev    DevConfig    `json:"dev,omitempty"`
	Build  BuildConfig  `json:"build,omitempty"`
	Deploy DeployConfig `json:"deploy,omitempty"`

	// path remembers where the config was loaded from so relative
	// entries can be resolved against the project root.
	path string
}

// DevConfig is the "dev" section: where the dev server listens and
// what it watches.
type DevConfig struct {
	Port   int      `json:"port,omitempty"`
	Host   string   `json:"host,omitempty"`
	Open   bool     `json:"open,omitempty"`
	Watch  []string `json:"watch,omitempty"`
	Ignore []string `json:"ignore,omitempty"`
}

// BuildConfig is the "build" section passed through to go build.
type BuildConfig struct {
	Output string `json:"output,omitempty"`

	// StripSymbols adds -ldflags="-s -w", which matters for wasm
	// binary size.
	StripSymbols bool     `json:"stripSymbols,omitempty"`
	LDFlags      string   `json:"ldflags,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}

// DeployConfig is the "deploy" section for S3 uploads.
type DeployConfig struct {
	Bucket string `json:"bucket,omitempty"`
	Prefix string `json:"prefix,omitempty"`
	Region string `json:"region,omitempty"`
}

// New returns a config populated with defaults, the same shape
// `routeutil create` writes.
func New() *Config {
	return &Config{
		Version: "0.1.0",
		App:     DefaultApp,
		Public:  DefaultPublic,
		Dev: DevConfig{
			Port:  DefaultPort,
			Host:  DefaultHost,
			Watch: []string{DefaultApp, DefaultPublic},
		},
		Build: BuildConfig{
			Output:       DefaultOutput,
			StripSymbols: true,
		},
	}
}

// Load reads routeutil.json from dir.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads a config file, fills defaults, and validates it.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.New("E100").
			WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path)).
			WithSuggestion("Run 'routeutil create' to start a new project")
	}
	if err != nil {
		return nil, errors.New("E101").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E101").
			WithDetail("Failed to parse " + ConfigFileName + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}

	cfg.path = path
	cfg.fillDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config back to the file it came from.
func (c *Config) Save() error {
	if c.path == "" {
		return errors.Newf(errors.CategoryConfig, "config has no file to save to")
	}
	return c.SaveTo(c.path)
}

// SaveTo writes the config as indented JSON with a trailing newline.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E101").Wrap(err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return errors.New("E101").Wrap(err)
	}

	c.path = path
	return nil
}

// Path reports where the config was loaded from.
func (c *Config) Path() string {
	return c.path
}

// Dir reports the project root, the directory holding the config file.
func (c *Config) Dir() string {
	if c.path == "" {
		return ""
	}
	return filepath.Dir(c.path)
}

// fillDefaults replaces zero values with the documented defaults.
// Watch falls back to the app and public directories, wherever those
// ended up.
func (c *Config) fillDefaults() {
	if c.App == "" {
		c.App = DefaultApp
	}
	if c.Public == "" {
		c.Public = DefaultPublic
	}
	if c.Dev.Port == 0 {
		c.Dev.Port = DefaultPort
	}
	if c.Dev.Host == "" {
		c.Dev.Host = DefaultHost
	}
	if c.Dev.Watch == nil {
		c.Dev.Watch = []string{c.App, c.Public}
	}
	if c.Build.Output == "" {
		c.Build.Output = DefaultOutput
	}
}

// Validate rejects configs the rest of the tool cannot work with.
func (c *Config) Validate() error {
	if c.Dev.Port < 1 || c.Dev.Port > 65535 {
		return errors.New("E102").
			WithDetail(fmt.Sprintf("Port %d is out of range", c.Dev.Port))
	}
	return nil
}

// DevAddress is the host:port the dev server binds to.
func (c *Config) DevAddress() string {
	return net.JoinHostPort(c.Dev.Host, strconv.Itoa(c.Dev.Port))
}

// DevURL is the address as a browsable URL.
func (c *Config) DevURL() string {
	return "http://" + c.DevAddress()
}

// AppPath resolves the wasm source directory against the project root.
func (c *Config) AppPath() string {
	return c.resolve(c.App, DefaultApp)
}

// PublicPath resolves the static assets directory.
func (c *Config) PublicPath() string {
	return c.resolve(c.Public, DefaultPublic)
}

// OutputPath resolves the build output directory.
func (c *Config) OutputPath() string {
	return c.resolve(c.Build.Output, DefaultOutput)
}

// WatchPaths resolves every watch entry against the project root.
func (c *Config) WatchPaths() []string {
	paths := make([]string, 0, len(c.Dev.Watch))
	for _, p := range c.Dev.Watch {
		paths = append(paths, c.resolve(p, p))
	}
	return paths
}

func (c *Config) resolve(path, fallback string) string {
	if path == "" {
		path = fallback
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// Exists reports whether dir holds a routeutil.json.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks from startDir toward the filesystem root and
// returns the first directory containing a routeutil.json.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", errors.New("E100").
		WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory").
		WithSuggestion("Run 'routeutil create' to start a new project")
}

// LoadFromWorkingDir finds the enclosing project and loads its config.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}
	return Load(root)
}
