package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/andreasphil/routeutil/internal/config"
	"github.com/andreasphil/routeutil/internal/dev"
	"github.com/andreasphil/routeutil/internal/errors"
)

func devCmd() *cobra.Command {
	var (
		port        int
		host        string
		openBrowser bool
		noReload    bool
	)

	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Run the dev server with live reload",
		Long: `Start the development server with live reload.

The dev server compiles the app to WebAssembly, serves the build
output, and watches for file changes. Connected browsers refresh
automatically; CSS changes swap stylesheets without a reload, and
build errors appear as an overlay.

Examples:
  routeutil dev
  routeutil dev --port=8080
  routeutil dev --host=0.0.0.0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDev(port, host, openBrowser, noReload)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (overrides routeutil.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (overrides routeutil.json)")
	cmd.Flags().BoolVarP(&openBrowser, "open", "o", false, "Open the browser once the server is up")
	cmd.Flags().BoolVar(&noReload, "no-reload", false, "Disable live reload")

	return cmd
}

func runDev(port int, host string, openBrowser, noReload bool) error {
	if _, err := exec.LookPath("go"); err != nil {
		return errors.New("E140").
			WithSuggestion("Install Go from https://go.dev/dl/")
	}

	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return err
	}

	// Flags win over routeutil.json.
	if port > 0 {
		cfg.Dev.Port = port
	}
	if host != "" {
		cfg.Dev.Host = host
	}
	if openBrowser {
		cfg.Dev.Open = true
	}

	printBanner()
	fmt.Println("  dev")
	fmt.Println()

	server := dev.NewServer(dev.Options{
		Config: cfg,
		Logger: slog.New(slog.NewTextHandler(os.Stderr, nil)),
		Reload: !noReload,
		OnBuildComplete: func(result dev.BuildResult) {
			if result.Success {
				success("Built in %s", result.Duration.Round(time.Millisecond))
			}
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		fmt.Println("\n\n  Stopping dev server...")
	}()

	info("Serving at %s", cfg.DevURL())
	if noReload {
		warn("Live reload disabled, refresh manually after changes")
	}

	if cfg.Dev.Open {
		go func() {
			// Give the listener a moment to come up
			time.Sleep(300 * time.Millisecond)
			openURL(cfg.DevURL())
		}()
	}

	return server.Start(ctx)
}

// openURL hands the URL to the platform's opener. Failures are not
// worth surfacing; the address is printed anyway.
func openURL(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	cmd.Start()
}
