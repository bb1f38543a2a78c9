package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/showgood/html-preview/internal/config"
	"github.com/showgood/html-preview/internal/debounce"
	"github.com/showgood/html-preview/internal/document"
	"github.com/showgood/html-preview/internal/generator"
	"github.com/showgood/html-preview/internal/metrics"
	"github.com/showgood/html-preview/internal/preview"
	"github.com/showgood/html-preview/internal/server"
	"github.com/showgood/html-preview/internal/state"
	"github.com/showgood/html-preview/internal/viewer"
	"github.com/showgood/html-preview/internal/watch"
)

var cli struct {
	Config  string `short:"c" help:"Configuration file path." type:"path" optional:""`
	Verbose bool   `short:"v" help:"Enable verbose logging."`

	Serve  ServeCmd  `cmd:"" help:"Keep a live preview synchronized with the document."`
	Render RenderCmd `cmd:"" help:"Generate once and print the preview URL."`
}

// Globals carries the loaded configuration into commands.
type Globals struct {
	Cfg *config.Config
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("html-preview"),
		kong.Description("Live HTML preview kept in sync with a structured source document."),
	)

	cfg := &config.Config{}
	if cli.Config != "" {
		loaded, err := config.Load(cli.Config)
		if err != nil {
			fmt.Fprintln(os.Stderr, "failed to load configuration:", err)
			os.Exit(1)
		}
		cfg = loaded
	} else {
		cfg.ApplyDefaults()
	}
	cfg.SetupLogging(cli.Verbose)

	if err := ctx.Run(&Globals{Cfg: cfg}); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// ServeCmd runs the live preview: viewer server, watcher, debouncer.
type ServeCmd struct {
	Doc       string  `arg:"" optional:"" help:"Source document to preview (overrides config)."`
	Generator string  `help:"Generator name override (html, slides, or a configured pipeline)."`
	Port      int     `help:"Viewer server port." default:"-1"`
	Output    string  `short:"o" help:"Output directory for generated documents (defaults to temp)."`
	IdleDelay float64 `help:"Seconds of idle time after an edit before regenerating; 0 disables." default:"-1"`
	NoMetrics bool    `help:"Disable the Prometheus /metrics endpoint."`
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg := g.Cfg

	docPath := c.Doc
	if docPath == "" {
		docPath = cfg.Document
	}
	if docPath == "" {
		return fmt.Errorf("no document: pass one as an argument or set document in the config")
	}
	if _, err := os.Stat(docPath); err != nil {
		return fmt.Errorf("document not found: %w", err)
	}

	doc := document.New(docPath)
	doc.Generator = cfg.Generator
	if c.Generator != "" {
		doc.Generator = c.Generator
	}
	doc.IdleDelay = cfg.IdleDelay()
	if c.IdleDelay >= 0 {
		doc.IdleDelay = time.Duration(c.IdleDelay * float64(time.Second))
	}

	port := cfg.Server.Port
	if c.Port >= 0 {
		port = c.Port
	}

	outDir := c.Output
	if outDir == "" {
		outDir = cfg.Output.Directory
	}
	tempOut := ""
	if outDir == "" {
		tmp, err := os.MkdirTemp("", "html-preview-*")
		if err != nil {
			return fmt.Errorf("create temp output: %w", err)
		}
		outDir = tmp
		tempOut = tmp
		slog.Info("using temporary output directory", "output", outDir)
	}

	sigctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	reg := generator.NewRegistry()
	reg.Register("html", generator.NewHTML(outDir))
	reg.Register(generator.SlidesName, generator.NewSlides(outDir))
	for _, eg := range cfg.Generators {
		reg.Register(eg.Name, generator.NewExec(eg.Name, outDir, eg.Command))
	}

	var rec metrics.Recorder = metrics.NopRecorder{}
	srvOpts := server.Options{
		Listen:   cfg.Server.Listen,
		Port:     port,
		OutDir:   outDir,
		DocDir:   filepath.Dir(doc.Key()),
		Identity: cfg.PreviewIdentity,
	}
	if !c.NoMetrics {
		prec := metrics.NewPrometheusRecorder(nil)
		rec = prec
		srvOpts.MetricsHandler = prec.Handler()
	}

	srv := server.New(srvOpts)
	sessions := viewer.NewManager(srv.Factory(), cfg.PreviewIdentity, rec)
	sessions.RaiseEditor = func(d *document.Source) {
		slog.Debug("raising editor", "document", d.Path)
	}
	sessions.PresentView = func(s *viewer.Session) {
		slog.Debug("presenting view", "session", s.ID, "url", s.URL())
	}
	sessions.FocusEditor = func(d *document.Source) {
		slog.Debug("focus back to editor", "document", d.Path)
	}

	orch := preview.New(reg, sessions, rec)
	orch.BaseURL = srv.BaseURL
	if cfg.State.Path != "" {
		store, err := state.Open(cfg.State.Path)
		if err != nil {
			return fmt.Errorf("open state store: %w", err)
		}
		defer func() { _ = store.Close() }()
		orch.Store = store
	}

	deb := debounce.New(func(d *document.Source) {
		if err := orch.Run(context.Background(), d, true); err != nil {
			slog.Warn("debounced regeneration failed", "error", err)
		}
	}, rec)

	srv.SetRunner(orch)
	srv.SetChanger(deb)
	srv.SetKeyRouter(sessions)
	srv.RegisterDocument(doc)

	if err := srv.Start(sigctx); err != nil {
		return err
	}

	watcher, err := watch.Start(sigctx, doc, func(d *document.Source) {
		deb.Cancel(d)
		if err := orch.Run(context.Background(), d, true); err != nil {
			slog.Warn("save regeneration failed", "error", err)
		}
	})
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	// Initial run so a connecting shell has something to show.
	if err := orch.Run(sigctx, doc, true); err != nil {
		slog.Warn("initial generation failed", "error", err)
	}
	fmt.Println("Preview:", srv.URL())

	<-sigctx.Done()
	slog.Info("shutting down preview")
	deb.Disable(doc)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		slog.Warn("server shutdown error", "error", err)
	}
	if tempOut != "" {
		if err := os.RemoveAll(tempOut); err != nil {
			slog.Warn("failed to remove temp output", "dir", tempOut, "error", err)
		}
	}
	return nil
}

// RenderCmd generates once and prints the resulting URL.
type RenderCmd struct {
	Doc       string `arg:"" help:"Source document to render."`
	Generator string `help:"Generator name override."`
	Output    string `short:"o" help:"Output directory for the generated document." default:"."`
	Top       bool   `help:"Show the whole document from the top instead of the cursor position."`
	Line      int    `help:"Cursor line used for anchor resolution." default:"1"`
}

func (c *RenderCmd) Run(g *Globals) error {
	cfg := g.Cfg

	doc := document.New(c.Doc)
	doc.Generator = cfg.Generator
	if c.Generator != "" {
		doc.Generator = c.Generator
	}
	doc.SetLine(c.Line)

	outDir, err := filepath.Abs(c.Output)
	if err != nil {
		return err
	}
	reg := generator.NewRegistry()
	reg.Register("html", generator.NewHTML(outDir))
	reg.Register(generator.SlidesName, generator.NewSlides(outDir))
	for _, eg := range cfg.Generators {
		reg.Register(eg.Name, generator.NewExec(eg.Name, outDir, eg.Command))
	}

	orch := preview.New(reg, nil, metrics.NopRecorder{})
	url, err := orch.ResolveURL(context.Background(), doc, !c.Top)
	if err != nil {
		return err
	}
	fmt.Println(url)
	return nil
}
