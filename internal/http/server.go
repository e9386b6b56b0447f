package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"findash/internal/cache"
	"findash/internal/config"
	"findash/internal/dataset"
	"findash/internal/filter"
	applog "findash/internal/log"
	appweb "findash/web"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Options tunes a Server. Zero values select the defaults.
type Options struct {
	Dashboard    config.Dashboard
	CacheSize    int
	CacheTTL     time.Duration
	Logger       *applog.Logger
	TemplatesFS  fs.FS
	StaticFS     fs.FS
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server serves the dashboard for one immutable dataset snapshot.
type Server struct {
	http.Server
	snapshot  *dataset.Snapshot
	dashboard config.Dashboard
	templates *template.Template
	logger    *applog.Logger
	reqLog    *applog.StructuredLogger

	views        *cache.LRUCache[dataset.View]
	cacheManager *cache.Manager
	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, snap *dataset.Snapshot, opts Options) *Server {
	if opts.Dashboard.Table.PageSize < 1 {
		opts.Dashboard = config.DefaultDashboard()
	}
	if opts.Logger == nil {
		opts.Logger = applog.New(applog.DefaultConfig())
	}
	if opts.TemplatesFS == nil {
		opts.TemplatesFS = appweb.TemplatesFS
	}
	if opts.StaticFS == nil {
		opts.StaticFS = appweb.StaticFS
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 15 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 30 * time.Second
	}

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadTimeout:       opts.ReadTimeout,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      opts.WriteTimeout,
			IdleTimeout:       60 * time.Second,
		},
		snapshot:     snap,
		dashboard:    opts.Dashboard,
		logger:       opts.Logger.WithComponent(applog.ComponentHTTP),
		reqLog:       applog.NewStructuredLogger(opts.Logger),
		views:        cache.NewLRUCache[dataset.View](opts.CacheSize, opts.CacheTTL),
		cacheManager: cache.NewManager(),
	}
	s.Handler = otelhttp.NewHandler(
		applog.Middleware(s.logger)(applog.RequestIDMiddleware(requestID)(mux)),
		"findash")
	s.cacheManager.Register(s.views)
	s.cacheManager.StartCleanup(opts.CacheTTL)

	t, err := template.ParseFS(opts.TemplatesFS, "templates/*.html")
	if err != nil {
		s.logger.Warn("Failed parsing templates", "error", err)
	} else {
		s.templates = t
	}

	if sub, err := fs.Sub(opts.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("GET /{$}", s.withSecurityHeaders(s.handleIndex))
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /api/view", s.withSecurityHeaders(s.handleView))
	mux.HandleFunc("GET /api/options", s.withSecurityHeaders(s.handleOptions))
	mux.HandleFunc("GET /export.xlsx", s.withSecurityHeaders(s.handleExport))
	mux.HandleFunc("GET /ui/table", s.withSecurityHeaders(s.handleTable))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withSecurityHeaders adds security headers, a request id and request logging.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)

		h := w.Header()
		h.Set(headerRequestID, r.Header.Get(headerRequestID))
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=()")
		h.Set("Content-Security-Policy", "default-src 'self'; script-src 'self' https://unpkg.com https://cdn.jsdelivr.net; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'; object-src 'none'; frame-ancestors 'none'; base-uri 'self'; form-action 'self'")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.reqLog.LogHTTPEnd(r.Context(), r, rw.statusCode, time.Since(start).Milliseconds(), clientIP)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady reports ready once a snapshot is attached and templates parsed.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.snapshot == nil || s.templates == nil {
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// render returns the view for f, memoised by the canonical filter key.
func (s *Server) render(ctx context.Context, f filter.Filters) dataset.View {
	key := f.Key()
	return s.views.GetOrCompute(key, func() dataset.View {
		fields := applog.NewFields().
			WithOperation(applog.OpRender).
			WithFilters(f.Sites.String(), f.ItemDetails.String(), f.FiscalYears.String())
		applog.FromContext(ctx).DebugContext(ctx, "Rendering view", fields.ToSlice()...)
		return s.snapshot.Render(f)
	})
}
