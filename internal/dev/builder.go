package dev

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/andreasphil/routeutil/internal/config"
	"github.com/andreasphil/routeutil/internal/errors"
	"github.com/andreasphil/routeutil/pkg/telemetry"
)

const (
	// WasmBinaryName is the compiled module inside the output directory.
	WasmBinaryName = "app.wasm"

	// WasmExecName is the Go runtime support script served next to the binary.
	WasmExecName = "wasm_exec.js"
)

// BuilderConfig configures the WebAssembly builder.
type BuilderConfig struct {
	// Root is the project root. go build runs here.
	Root string

	// AppDir is the directory containing the main package.
	AppDir string

	// OutputDir is where the binary, runtime script, and assets land.
	OutputDir string

	// PublicDir contains static assets copied into the output.
	PublicDir string

	// StripSymbols strips debug symbols (-ldflags="-s -w").
	StripSymbols bool

	// LDFlags are additional linker flags.
	LDFlags string

	// Tags are build tags to pass to go build.
	Tags []string
}

// BuildResult contains the result of a build.
type BuildResult struct {
	// Success indicates if the build succeeded.
	Success bool

	// Duration is how long the build took.
	Duration time.Duration

	// Output is the compiler output.
	Output string

	// Error is the build error, if any.
	Error error
}

// Builder compiles the app to WebAssembly and stages the output directory.
type Builder struct {
	config BuilderConfig
}

// NewBuilder creates a new builder.
func NewBuilder(cfg BuilderConfig) *Builder {
	if cfg.AppDir == "" {
		cfg.AppDir = filepath.Join(cfg.Root, config.DefaultApp)
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = filepath.Join(cfg.Root, config.DefaultOutput)
	}
	if cfg.PublicDir == "" {
		cfg.PublicDir = filepath.Join(cfg.Root, config.DefaultPublic)
	}

	return &Builder{config: cfg}
}

// NewBuilderFromConfig creates a builder for a loaded project config.
func NewBuilderFromConfig(cfg *config.Config) *Builder {
	return NewBuilder(BuilderConfig{
		Root:         cfg.Dir(),
		AppDir:       cfg.AppPath(),
		OutputDir:    cfg.OutputPath(),
		PublicDir:    cfg.PublicPath(),
		StripSymbols: cfg.Build.StripSymbols,
		LDFlags:      cfg.Build.LDFlags,
		Tags:         cfg.Build.Tags,
	})
}

// WasmPath returns the path of the compiled WebAssembly binary.
func (b *Builder) WasmPath() string {
	return filepath.Join(b.config.OutputDir, WasmBinaryName)
}

// OutputDir returns the staged output directory.
func (b *Builder) OutputDir() string {
	return b.config.OutputDir
}

// Build compiles the app package for js/wasm and stages the output
// directory: binary, wasm_exec.js, and the public assets.
func (b *Builder) Build(ctx context.Context) BuildResult {
	start := time.Now()

	fail := func(output string, err error) BuildResult {
		duration := time.Since(start)
		telemetry.RecordBuild("error", duration)
		return BuildResult{Duration: duration, Output: output, Error: err}
	}

	if _, err := exec.LookPath("go"); err != nil {
		return fail("", errors.New("E140").Wrap(err))
	}

	if err := os.MkdirAll(b.config.OutputDir, 0755); err != nil {
		return fail("", errors.New("E143").Wrap(err))
	}

	args := []string{"build", "-o", b.WasmPath()}
	if len(b.config.Tags) > 0 {
		args = append(args, "-tags", strings.Join(b.config.Tags, ","))
	}
	if flags := b.ldflags(); flags != "" {
		args = append(args, "-ldflags", flags)
	}
	args = append(args, b.target())

	cmd := exec.CommandContext(ctx, "go", args...)
	cmd.Dir = b.config.Root
	cmd.Env = append(os.Environ(), "GOOS=js", "GOARCH=wasm")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	duration := time.Since(start)

	output := stderr.String()
	if output == "" {
		output = stdout.String()
	}

	if err != nil {
		return fail(output, errors.New("E141").WithDetail(output).Wrap(err))
	}

	if err := b.stageRuntime(); err != nil {
		return fail(output, err)
	}
	if err := b.SyncPublic(); err != nil {
		return fail(output, err)
	}

	telemetry.RecordBuild("success", time.Since(start))
	return BuildResult{
		Success:  true,
		Duration: time.Since(start),
		Output:   output,
	}
}

// SyncPublic copies the public assets into the output directory. A missing
// public directory is not an error.
func (b *Builder) SyncPublic() error {
	info, err := os.Stat(b.config.PublicDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.New("E143").Wrap(err)
	}
	if !info.IsDir() {
		return nil
	}

	if err := copyDir(b.config.PublicDir, b.config.OutputDir); err != nil {
		return errors.New("E143").Wrap(err)
	}
	return nil
}

// ldflags combines symbol stripping with user-configured linker flags.
func (b *Builder) ldflags() string {
	var parts []string
	if b.config.StripSymbols {
		parts = append(parts, "-s", "-w")
	}
	if b.config.LDFlags != "" {
		parts = append(parts, b.config.LDFlags)
	}
	return strings.Join(parts, " ")
}

// target returns the package argument for go build, relative to Root
// when possible.
func (b *Builder) target() string {
	rel, err := filepath.Rel(b.config.Root, b.config.AppDir)
	if err != nil || strings.HasPrefix(rel, "..") {
		return b.config.AppDir
	}
	return "./" + filepath.ToSlash(rel)
}

// stageRuntime copies wasm_exec.js from the Go installation into the
// output directory.
func (b *Builder) stageRuntime() error {
	src, err := wasmExecSource()
	if err != nil {
		return err
	}
	dst := filepath.Join(b.config.OutputDir, WasmExecName)
	if err := copyFile(src, dst); err != nil {
		return errors.New("E143").Wrap(err)
	}
	return nil
}

// wasmExecSource locates wasm_exec.js under GOROOT. Go 1.24 moved it
// from misc/wasm to lib/wasm, so both are tried.
func wasmExecSource() (string, error) {
	out, err := exec.Command("go", "env", "GOROOT").Output()
	if err != nil {
		return "", errors.New("E140").Wrap(err)
	}
	goroot := strings.TrimSpace(string(out))

	candidates := []string{
		filepath.Join(goroot, "lib", "wasm", WasmExecName),
		filepath.Join(goroot, "misc", "wasm", WasmExecName),
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", errors.New("E142").
		WithDetail("Looked under " + goroot + " in lib/wasm and misc/wasm")
}

// copyFile copies a single file, creating parent directories as needed.
func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// copyDir recursively copies the contents of src into dst.
func copyDir(src, dst string) error {
	return filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		return copyFile(p, target)
	})
}
