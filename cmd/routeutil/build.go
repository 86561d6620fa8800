package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/andreasphil/routeutil/internal/config"
	"github.com/andreasphil/routeutil/internal/dev"
)

func buildCmd() *cobra.Command {
	var (
		output string
		strip  bool
		clean  bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build for production",
		Long: `Compile the app to WebAssembly and assemble the build output.

This command:
  • Compiles the app with GOOS=js GOARCH=wasm
  • Stages the wasm_exec.js runtime shim
  • Copies static assets from the public directory

The output directory can be served by any static file host.

Examples:
  routeutil build
  routeutil build --output=dist
  routeutil build --clean`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, output, strip, clean)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output directory (overrides routeutil.json)")
	cmd.Flags().BoolVar(&strip, "strip", true, "Strip symbols from the binary")
	cmd.Flags().BoolVar(&clean, "clean", false, "Empty the output directory first")

	return cmd
}

func runBuild(cmd *cobra.Command, output string, strip, clean bool) error {
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return err
	}

	// Flags win over routeutil.json. --strip only counts when given
	// explicitly, since its default would otherwise clobber the config.
	if output != "" {
		cfg.Build.Output = output
	}
	if cmd.Flags().Changed("strip") {
		cfg.Build.StripSymbols = strip
	}

	fmt.Println("  Production build")
	fmt.Println()

	builder := dev.NewBuilderFromConfig(cfg)

	if clean {
		info("Emptying %s/", filepath.Base(builder.OutputDir()))
		if err := os.RemoveAll(builder.OutputDir()); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result := builder.Build(ctx)
	if !result.Success {
		if result.Output != "" {
			fmt.Println(result.Output)
		}
		return result.Error
	}

	fmt.Println()
	success("Build complete in %s", result.Duration.Round(time.Millisecond))
	fmt.Println()
	fmt.Println("  Output:")
	printOutputTree(builder.OutputDir())
	fmt.Println()

	return nil
}

// printOutputTree lists the build output with file sizes.
func printOutputTree(dir string) {
	type file struct {
		path string
		size int64
	}

	var files []file
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, file{path: filepath.ToSlash(rel), size: fi.Size()})
		return nil
	})
	sort.Slice(files, func(i, j int) bool { return files[i].path < files[j].path })

	fmt.Printf("    %s/\n", filepath.Base(dir))
	for _, f := range files {
		fmt.Printf("      %-24s %s\n", f.path, formatBytes(f.size))
	}
}

func formatBytes(n int64) string {
	size := float64(n)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if size < 1024 || unit == "GB" {
			if unit == "B" {
				return fmt.Sprintf("%d %s", n, unit)
			}
			return fmt.Sprintf("%.1f %s", size, unit)
		}
		size /= 1024
	}
	return ""
}
