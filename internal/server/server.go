package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/showgood/html-preview/internal/document"
	perrors "github.com/showgood/html-preview/internal/errors"
	"github.com/showgood/html-preview/internal/preview"
)

// Runner triggers a regenerate-and-display run.
type Runner interface {
	Run(ctx context.Context, doc *document.Source, useFragment bool) error
}

// Changer receives qualifying edit notifications.
type Changer interface {
	OnChange(doc *document.Source)
}

// KeyRouter routes named keys from the shell's input scope.
type KeyRouter interface {
	HandleKey(name string) bool
}

// Options configure the server.
type Options struct {
	Listen   string
	Port     int
	OutDir   string // generated output mount
	DocDir   string // source document mount (identity passthrough)
	Identity string // shared preview identity shown in the shell title

	// MetricsHandler, when set, is mounted at /metrics.
	MetricsHandler http.Handler
}

// Server hosts the viewer shell, the SSE command stream, the generated
// output, and the editor IPC.
type Server struct {
	opts    Options
	hub     *CommandHub
	factory *ViewFactory

	runner  Runner
	changer Changer
	keys    KeyRouter

	mu   sync.RWMutex
	docs map[string]*document.Source

	listener net.Listener
	httpSrv  *http.Server
}

// New wires a server. runner, changer, and keys may be set later via the
// corresponding setters when construction order requires it.
func New(opts Options) *Server {
	s := &Server{
		opts: opts,
		hub:  NewCommandHub(),
		docs: map[string]*document.Source{},
	}
	s.factory = NewViewFactory(s.hub)
	return s
}

// Hub returns the viewer command hub.
func (s *Server) Hub() *CommandHub { return s.hub }

// Factory returns the view factory bound to this server's hub.
func (s *Server) Factory() *ViewFactory { return s.factory }

// SetRunner installs the orchestration entry point.
func (s *Server) SetRunner(r Runner) { s.runner = r }

// SetChanger installs the edit-notification sink.
func (s *Server) SetChanger(c Changer) { s.changer = c }

// SetKeyRouter installs the navigation key router.
func (s *Server) SetKeyRouter(k KeyRouter) { s.keys = k }

// RegisterDocument makes a document addressable over the editor IPC.
func (s *Server) RegisterDocument(doc *document.Source) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.Key()] = doc
}

func (s *Server) lookupDocument(path string) (*document.Source, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[abs]
	return doc, ok
}

// BaseURL maps an absolute output path to the URL the shell can load:
// generated output and source mounts are served over HTTP; anything outside
// both falls back to a file URL.
func (s *Server) BaseURL(outputPath string) (string, error) {
	if rel, ok := underDir(s.opts.OutDir, outputPath); ok {
		return s.externalURL() + "/out/" + rel, nil
	}
	if rel, ok := underDir(s.opts.DocDir, outputPath); ok {
		return s.externalURL() + "/src/" + rel, nil
	}
	return preview.FileURL(outputPath)
}

func underDir(dir, path string) (string, bool) {
	if dir == "" {
		return "", false
	}
	rel, err := filepath.Rel(dir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func (s *Server) externalURL() string {
	host := s.opts.Listen
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	port := s.opts.Port
	if s.listener != nil {
		if addr, ok := s.listener.Addr().(*net.TCPAddr); ok {
			port = addr.Port
		}
	}
	return fmt.Sprintf("http://%s", net.JoinHostPort(host, fmt.Sprintf("%d", port)))
}

// URL returns the shell page URL.
func (s *Server) URL() string { return s.externalURL() + "/" }

// Start binds the listener and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	addr := net.JoinHostPort(s.opts.Listen, fmt.Sprintf("%d", s.opts.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	s.listener = ln
	s.httpSrv = &http.Server{
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && err != http.ErrServerClosed {
			slog.Error("viewer server stopped", "error", err)
		}
	}()
	slog.Info("viewer server listening", "url", s.URL(), "identity", s.opts.Identity)
	return nil
}

// Stop shuts the server and the command hub down.
func (s *Server) Stop(ctx context.Context) error {
	s.hub.Close()
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleShell)
	mux.Handle("/events", s.hub)
	if s.opts.OutDir != "" {
		mux.Handle("/out/", http.StripPrefix("/out/", http.FileServer(http.Dir(s.opts.OutDir))))
	}
	if s.opts.DocDir != "" {
		mux.Handle("/src/", http.StripPrefix("/src/", http.FileServer(http.Dir(s.opts.DocDir))))
	}
	mux.HandleFunc("/api/edit", s.handleEdit)
	mux.HandleFunc("/api/save", s.handleSave)
	mux.HandleFunc("/api/preview", s.handlePreview)
	mux.HandleFunc("/api/loaded", s.handleLoaded)
	mux.HandleFunc("/api/key", s.handleKey)
	mux.HandleFunc("/healthz", handleHealthz)
	if s.opts.MetricsHandler != nil {
		mux.Handle("/metrics", s.opts.MetricsHandler)
	}
	return mux
}

// editRequest is the editor IPC payload.
type editRequest struct {
	Path string `json:"path"`
	Line int    `json:"line"`
	Top  bool   `json:"top"`
}

func (s *Server) decodeEdit(w http.ResponseWriter, r *http.Request) (*document.Source, editRequest, bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return nil, editRequest{}, false
	}
	var req editRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
		return nil, editRequest{}, false
	}
	doc, ok := s.lookupDocument(req.Path)
	if !ok {
		http.Error(w, "unknown document: "+req.Path, http.StatusNotFound)
		return nil, editRequest{}, false
	}
	if req.Line > 0 {
		doc.SetLine(req.Line)
	}
	return doc, req, true
}

// handleEdit registers a qualifying edit notification (typing activity).
func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	doc, _, ok := s.decodeEdit(w, r)
	if !ok {
		return
	}
	if s.changer != nil {
		s.changer.OnChange(doc)
	}
	w.WriteHeader(http.StatusAccepted)
}

// handleSave triggers an immediate regeneration.
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	doc, _, ok := s.decodeEdit(w, r)
	if !ok {
		return
	}
	s.runAndReport(w, r, doc, true)
}

// handlePreview is the explicit preview action; top requests the
// whole-document view instead of the cursor position.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	doc, req, ok := s.decodeEdit(w, r)
	if !ok {
		return
	}
	s.runAndReport(w, r, doc, !req.Top)
}

func (s *Server) runAndReport(w http.ResponseWriter, r *http.Request, doc *document.Source, useFragment bool) {
	if s.runner == nil {
		http.Error(w, "preview not ready", http.StatusServiceUnavailable)
		return
	}
	if err := s.runner.Run(r.Context(), doc, useFragment); err != nil {
		status := http.StatusInternalServerError
		if perrors.IsCategory(err, perrors.CategoryGenerator) {
			status = http.StatusUnprocessableEntity
		}
		http.Error(w, err.Error(), status)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// handleLoaded is the shell's load-completion callback.
func (s *Server) handleLoaded(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if v := s.factory.Current(); v != nil {
		v.LoadCompleted()
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleKey routes a named key from the shell's input scope. The response
// tells the shell whether the key was intercepted or should fall through to
// default handling.
func (s *Server) handleKey(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	handled := s.keys != nil && s.keys.HandleKey(req.Key)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]bool{"handled": handled})
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
