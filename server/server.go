package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/TFMV/nodecanvas/ingest"
	"github.com/TFMV/nodecanvas/log"
	"github.com/TFMV/nodecanvas/models"
	"github.com/TFMV/nodecanvas/render"
	"github.com/TFMV/nodecanvas/view"
)

// Configuration for the server
type Config struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns the timeouts used by serve
func DefaultConfig(port int) Config {
	return Config{
		Port:         port,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Server exposes one editor view over HTTP. Every handler holds the same
// mutex, so input is applied one step at a time like on the UI thread.
type Server struct {
	mu       sync.Mutex
	view     *view.EditorView
	doc      *models.Editor
	replayer *ingest.Replayer
	surface  *render.Surface
	logger   log.Logger
	mux      *http.ServeMux
}

// New creates a server. surface must be the renderer the view repaints to.
func New(v *view.EditorView, doc *models.Editor, surface *render.Surface, logger log.Logger) *Server {
	if logger == nil {
		logger = log.Nop()
	}
	s := &Server{
		view:     v,
		doc:      doc,
		replayer: ingest.NewReplayer(v, doc, logger),
		surface:  surface,
		logger:   logger,
		mux:      http.NewServeMux(),
	}

	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /api/snapshot", s.handleSnapshot)
	s.mux.HandleFunc("GET /api/scene", s.handleScene)
	s.mux.HandleFunc("GET /view/{format}", s.handleView)
	s.mux.HandleFunc("POST /api/event", s.handleEvent)
	s.mux.HandleFunc("POST /api/zoom", s.handleZoom)
	return s
}

// Handler returns the HTTP handler of the server
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, cfg Config) error {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server on port %d", cfg.Port)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

// Replay applies a whole input script under the server lock
func (s *Server) Replay(script *ingest.Script) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replayer.Replay(script)
}

// handleIndex serves a minimal page showing the live SVG
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>nodecanvas</title>
  <style>
    body { font-family: 'Helvetica Neue', Arial, sans-serif; margin: 0; padding: 20px; background: #f5f5f5; }
    img { background: white; box-shadow: 0 2px 10px rgba(0,0,0,0.1); }
  </style>
</head>
<body>
  <img src="/view/svg" alt="editor">
</body>
</html>
`)
}

// handleSnapshot returns the latest snapshot as JSON
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.writeJSON(w, http.StatusOK, s.snapshot())
}

// handleScene exports the document as a scene fixture
func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.writeJSON(w, http.StatusOK, ingest.Export(s.doc))
}

// handleView encodes the latest snapshot in the requested format
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	format := r.PathValue("format")
	if s.surface.Last() == nil {
		s.view.Update()
	}
	output, err := s.surface.Encode(format)
	if err != nil {
		http.Error(w, "Error rendering view: "+err.Error(), http.StatusBadRequest)
		return
	}

	switch format {
	case "svg":
		w.Header().Set("Content-Type", "image/svg+xml")
	case "png":
		w.Header().Set("Content-Type", "image/png")
	case "json":
		w.Header().Set("Content-Type", "application/json")
	default:
		w.Header().Set("Content-Type", "text/plain")
	}
	w.Write(output)
}

// handleEvent applies one input step and returns the resulting snapshot
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, "Error reading body: "+err.Error(), http.StatusBadRequest)
		return
	}

	step, err := ingest.ParseStep(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.apply(w, step)
}

// handleZoom fits the listed nodes, or every node, into the viewport
func (s *Server) handleZoom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Nodes []string `json:"nodes"`
	}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			http.Error(w, "Error decoding body: "+err.Error(), http.StatusBadRequest)
			return
		}
	}
	s.apply(w, ingest.Step{Op: ingest.OpZoom, Nodes: req.Nodes})
}

func (s *Server) apply(w http.ResponseWriter, step ingest.Step) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.replayer.Apply(step); err != nil {
		s.logger.Warn("event %s: %v", step.Op, err)
		http.Error(w, err.Error(), statusOf(err))
		return
	}
	s.writeJSON(w, http.StatusOK, s.snapshot())
}

func (s *Server) snapshot() *view.Snapshot {
	if snap := s.surface.Last(); snap != nil {
		return snap
	}
	return s.view.Snapshot()
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		s.logger.Error("encode response: %v", err)
	}
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, ingest.ErrInvalidScript):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNodeNotFound), errors.Is(err, models.ErrGroupNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrPortNotOwned):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
