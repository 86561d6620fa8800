package dev

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/andreasphil/routeutil/internal/config"
	"github.com/andreasphil/routeutil/pkg/telemetry"
)

// Options configures the development server.
type Options struct {
	// Config is the loaded project configuration.
	Config *config.Config

	// Logger receives server output. Defaults to slog.Default().
	Logger *slog.Logger

	// Reload enables the live reload endpoint and script injection.
	Reload bool

	// OnBuildStart is called when a rebuild starts.
	OnBuildStart func()

	// OnBuildComplete is called when a rebuild finishes.
	OnBuildComplete func(result BuildResult)
}

// Server is the development server. It builds the app, watches for
// changes, and serves the output directory.
type Server struct {
	cfg     *config.Config
	logger  *slog.Logger
	options Options

	builder *Builder
	watcher *Watcher
	reload  *ReloadServer

	changeCh chan Change
	httpSrv  *http.Server

	mu      sync.Mutex
	running bool
}

// NewServer wires up the builder, watcher, and reload hub for one
// project. Call Start to run it.
func NewServer(options Options) *Server {
	cfg := options.Config

	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	builder := NewBuilderFromConfig(cfg)

	watcher := NewWatcher(WatcherConfig{
		Paths:    cfg.WatchPaths(),
		Ignore:   append(append([]string{}, DefaultIgnore...), cfg.Dev.Ignore...),
		Interval: 100 * time.Millisecond,
	})

	var reload *ReloadServer
	if options.Reload {
		reload = NewReloadServer()
	}

	return &Server{
		cfg:     cfg,
		logger:  logger,
		options: options,
		builder: builder,
		watcher: watcher,
		reload:  reload,
	}
}

// Start builds once, then serves and watches until the context is
// cancelled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.mu.Unlock()

	// Initial build
	s.logger.Info("building", "dir", s.cfg.AppPath())
	result := s.builder.Build(ctx)
	if !result.Success {
		s.logger.Error("build failed", "output", result.Output, "err", result.Error)
		s.notifyBuildError(result)
	} else {
		s.logger.Info("build complete", "duration", result.Duration.Round(time.Millisecond))
	}

	// Watch for changes
	s.changeCh = make(chan Change, 32)
	s.watcher.OnChange(func(change Change) {
		select {
		case s.changeCh <- change:
		default:
		}
	})

	go s.watcher.Start(ctx)
	go s.processChanges(ctx)

	s.httpSrv = &http.Server{
		Addr:    s.cfg.DevAddress(),
		Handler: s.routes(),
	}

	s.logger.Info("dev server running", "url", s.cfg.DevURL())

	errCh := make(chan error, 1)
	go func() {
		err := s.httpSrv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		s.Stop()
		return nil
	case err := <-errCh:
		s.Stop()
		return err
	}
}

// Stop shuts the server down and disconnects reload clients.
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.running = false

	s.watcher.Stop()
	if s.reload != nil {
		s.reload.Close()
	}

	if s.httpSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.httpSrv.Shutdown(ctx)
	}
}

// routes assembles the HTTP handler. The reload WebSocket stays outside
// the instrumented group because the telemetry middleware wraps the
// response writer, which would break the connection hijack.
func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	if s.reload != nil {
		r.Get(ReloadPath, s.reload.HandleWebSocket)
	}
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(telemetry.HTTPMetrics())
		r.Use(telemetry.Tracing())
		r.Get("/*", s.serveApp)
	})

	return r
}

// serveApp serves files from the output directory. The index page gets
// the reload script injected when live reload is on.
func (s *Server) serveApp(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")

	reqPath := strings.TrimPrefix(r.URL.Path, "/")
	if reqPath == "" {
		reqPath = "index.html"
	}

	outputDir := s.builder.OutputDir()
	full := filepath.Join(outputDir, filepath.FromSlash(reqPath))
	if !insideDir(full, outputDir) {
		http.NotFound(w, r)
		return
	}

	if filepath.Base(full) == "index.html" {
		s.serveIndex(w, r, full)
		return
	}

	if _, err := os.Stat(full); err != nil {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, full)
}

// serveIndex serves index.html with the reload script injected. When the
// page is missing the placeholder keeps the browser connected so it
// reloads once the first build lands.
func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request, path string) {
	body, err := os.ReadFile(path)
	if err != nil {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, s.placeholderPage())
		return
	}

	if s.reload != nil {
		body = injectReloadScript(body)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(body)
}

// placeholderPage is shown before the first successful build.
func (s *Server) placeholderPage() string {
	script := ""
	if s.reload != nil {
		script = ReloadClientScript
	}
	return `<!DOCTYPE html>
<html>
<head><title>routeutil dev server</title></head>
<body style="font-family: system-ui; margin: 3rem auto; max-width: 38rem; color: #ddd; background: #181818;">
<h1 style="color: #e66;">No Build Output</h1>
<p>index.html was not found in the output directory. Likely causes:</p>
<ul>
<li>the first build has not finished yet</li>
<li>the build failed, see the terminal for the error</li>
<li>the public directory has no index.html</li>
</ul>
<p style="color: #888;">The page reloads automatically once a build lands.</p>
` + script + `
</body>
</html>`
}

// injectReloadScript inserts the reload client before </body>, falling
// back to </html> or plain append.
func injectReloadScript(body []byte) []byte {
	script := []byte(ReloadClientScript)
	for _, closer := range [][]byte{[]byte("</body>"), []byte("</html>")} {
		if idx := bytes.LastIndex(body, closer); idx != -1 {
			out := make([]byte, 0, len(body)+len(script))
			out = append(out, body[:idx]...)
			out = append(out, script...)
			out = append(out, body[idx:]...)
			return out
		}
	}
	return append(body, script...)
}

// processChanges drains the change channel one burst at a time, so a
// save-all in the editor triggers a single rebuild.
func (s *Server) processChanges(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case first := <-s.changeCh:
			batch := []Change{first}
		drain:
			for {
				select {
				case next := <-s.changeCh:
					batch = append(batch, next)
				default:
					break drain
				}
			}
			s.handleChanges(ctx, batch)
		}
	}
}

// handleChanges reacts to one coalesced batch of file changes.
func (s *Server) handleChanges(ctx context.Context, batch []Change) {
	hasGo := false
	hasCSS := false
	hasOther := false

	for _, change := range batch {
		s.logger.Info("changed", "path", change.Path)
		switch change.Kind {
		case ChangeGo:
			hasGo = true
		case ChangeCSS:
			hasCSS = true
		default:
			hasOther = true
		}
	}

	if hasGo {
		s.rebuild(ctx)
		return
	}

	if err := s.builder.SyncPublic(); err != nil {
		s.logger.Error("asset sync failed", "err", err)
		return
	}

	if s.reload == nil {
		return
	}

	if hasCSS && !hasOther {
		for _, change := range batch {
			if change.Kind == ChangeCSS {
				s.reload.NotifyCSS(change.Path)
				s.logger.Info("css reloaded", "clients", s.reload.ClientCount())
				return
			}
		}
	}

	s.reload.NotifyReload()
	s.logger.Info("reloaded", "clients", s.reload.ClientCount())
}

// rebuild recompiles after a Go change and notifies the browsers.
func (s *Server) rebuild(ctx context.Context) {
	if s.options.OnBuildStart != nil {
		s.options.OnBuildStart()
	}
	if s.reload != nil {
		s.reload.NotifyBuildStart()
	}

	s.logger.Info("rebuilding")
	result := s.builder.Build(ctx)

	if s.options.OnBuildComplete != nil {
		s.options.OnBuildComplete(result)
	}

	if !result.Success {
		s.logger.Error("build failed", "output", result.Output, "err", result.Error)
		s.notifyBuildError(result)
		return
	}

	s.logger.Info("build complete", "duration", result.Duration.Round(time.Millisecond))

	if s.reload != nil {
		s.reload.NotifyReload()
		s.logger.Info("reloaded", "clients", s.reload.ClientCount())
	}
}

func (s *Server) notifyBuildError(result BuildResult) {
	if s.reload == nil {
		return
	}
	msg := result.Output
	if msg == "" && result.Error != nil {
		msg = result.Error.Error()
	}
	s.reload.NotifyBuildError(msg)
}

// insideDir reports whether path is dir or inside it.
func insideDir(path, dir string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	absPath = filepath.Clean(absPath)
	absDir = filepath.Clean(absDir)
	if absPath == absDir {
		return true
	}
	return strings.HasPrefix(absPath, absDir+string(os.PathSeparator))
}
