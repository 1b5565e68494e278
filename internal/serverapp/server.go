// Package serverapp assembles the HTTP surface: static assets, the JSON
// API, health probes, metrics, and the middleware chain.
package serverapp

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sangkukbae/priority-matrix/internal/chat"
	"github.com/sangkukbae/priority-matrix/internal/config"
	"github.com/sangkukbae/priority-matrix/internal/httpmw"
	"github.com/sangkukbae/priority-matrix/internal/metrics"
	"github.com/sangkukbae/priority-matrix/internal/server"
	"github.com/sangkukbae/priority-matrix/internal/store"
	staticfiles "github.com/sangkukbae/priority-matrix/static"
)

type Options struct {
	Config *config.Config
	Store  *store.Store
	Chat   *chat.Client

	Recorder       metrics.Recorder
	MetricsHandler http.Handler

	StaticDir     string
	UseDiskStatic bool
	Logger        *logrus.Logger
}

func NewHandler(opts Options) (http.Handler, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if opts.Store == nil {
		return nil, errors.New("store is required")
	}
	if strings.TrimSpace(opts.StaticDir) == "" {
		opts.StaticDir = "static"
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.Noop{}
	}

	mux := http.NewServeMux()
	rr := &server.RouteRegistry{}

	app := &server.App{
		Store:   opts.Store,
		Config:  opts.Config,
		Chat:    opts.Chat,
		Log:     opts.Logger,
		BootNow: time.Now().UTC(),
	}
	server.RegisterAPIRoutes(mux, rr, app)
	server.RegisterChatRoutes(mux, rr, app, opts.Recorder)

	staticHandler := http.FileServer(http.FS(staticfiles.EmbeddedFS()))
	if opts.UseDiskStatic {
		staticHandler = http.FileServer(http.Dir(opts.StaticDir))
	}
	mux.Handle("GET /static/", http.StripPrefix("/static/", staticHandler))

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		if opts.UseDiskStatic {
			http.ServeFile(w, r, opts.StaticDir+"/index.html")
			return
		}
		http.ServeFileFS(w, r, staticfiles.EmbeddedFS(), "index.html")
	})

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "priority-matrix",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := opts.Store.Healthy(); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"ok":    false,
				"error": "snapshot storage unavailable",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "priority-matrix",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	if opts.MetricsHandler != nil {
		mux.Handle("GET /metrics", opts.MetricsHandler)
	}

	return httpmw.Chain(
		mux,
		httpmw.WithRequestID,
		httpmw.WithAccessLog(opts.Logger),
		httpmw.WithMetrics(opts.Recorder),
		httpmw.WithRecover(opts.Logger),
	), nil
}

func UseDiskStaticByEnv() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("PRIORITY_MATRIX_DEV_STATIC"))) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
