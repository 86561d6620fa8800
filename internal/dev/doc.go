// Package dev provides the development server and live reload functionality.
//
// This package implements:
//   - File watching for Go, CSS, HTML, and asset changes
//   - WebAssembly builds (GOOS=js GOARCH=wasm) into the output directory
//   - Static serving of the built app with the reload script injected
//   - WebSocket-based browser refresh with a build error overlay
//
// # Architecture
//
// The development server consists of several components:
//
//   - Watcher: Monitors the file system for changes
//   - Builder: Compiles the app to WebAssembly and stages assets
//   - Server: Serves the output directory over HTTP
//   - ReloadServer: Notifies browsers of changes via WebSocket
//
// # Usage
//
//	srv := dev.NewServer(dev.Options{
//	    Config: cfg,
//	    Reload: true,
//	})
//
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//
//	if err := srv.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Live Reload Protocol
//
// The browser connects to /_routeutil/reload via WebSocket.
// Messages are JSON-encoded:
//
//	{"type": "reload"}                     // Triggers full page reload
//	{"type": "css"}                        // Triggers CSS-only reload
//	{"type": "buildstart"}                 // A rebuild started, clears the error overlay
//	{"type": "builderror", "error": "..."} // Shows the build error overlay
package dev
