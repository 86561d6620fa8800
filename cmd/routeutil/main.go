package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/andreasphil/routeutil/internal/errors"
)

// Overridden via -ldflags at release time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┬─┐┌─┐┬ ┬┌┬┐┌─┐┬ ┬┌┬┐┬┬
  ├┬┘│ ││ │ │ ├┤ │ │ │ ││
  ┴└─└─┘└─┘ ┴ └─┘└─┘ ┴ ┴┴─┘
`

func main() {
	if os.Getenv("NO_COLOR") != "" {
		errors.DisableColors()
		colors = false
	}

	rootCmd := &cobra.Command{
		Use:   "routeutil",
		Short: "Build tool for hash-routed WebAssembly apps",
		Long: `Routeutil builds and serves Go web apps that run entirely in the
browser. Pages are addressed by hash fragments, so the whole app
ships as one statically hosted index.html plus a WASM binary.

  • Scaffold a routed project in one command
  • Dev server with rebuild-on-change and live reload
  • One-shot production builds (GOOS=js GOARCH=wasm)
  • Deploy the build output to any S3 bucket`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		createCmd(),
		devCmd(),
		buildCmd(),
		deployCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr)
		errors.PrintError(err)
		os.Exit(1)
	}
}

// colors gates the ANSI escapes of the message helpers, separately
// from the errors package so both react to NO_COLOR.
var colors = true

func printBanner() {
	fmt.Print(banner)
}

// status prints a marked line, coloring the mark when allowed.
func status(mark, ansi, format string, args ...any) {
	if colors {
		mark = ansi + mark + "\033[0m"
	}
	fmt.Printf("%s %s\n", mark, fmt.Sprintf(format, args...))
}

func success(format string, args ...any) {
	status("✓", "\033[32m", format, args...)
}

func warn(format string, args ...any) {
	status("⚠", "\033[33m", format, args...)
}

func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
