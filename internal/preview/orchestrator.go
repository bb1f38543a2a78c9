// Package preview coordinates one regeneration-and-display run: generator
// dispatch, anchor resolution, URL construction, and session display.
package preview

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"time"

	"github.com/showgood/html-preview/internal/anchor"
	"github.com/showgood/html-preview/internal/document"
	perrors "github.com/showgood/html-preview/internal/errors"
	"github.com/showgood/html-preview/internal/generator"
	"github.com/showgood/html-preview/internal/metrics"
	"github.com/showgood/html-preview/internal/state"
	"github.com/showgood/html-preview/internal/viewer"
)

// identityLabel names the passthrough operation in logs and metrics.
const identityLabel = "identity"

// Orchestrator sequences generation, anchor resolution, URL construction,
// and display. It is invoked on save, on debounce fire, or on demand.
type Orchestrator struct {
	registry *generator.Registry
	sessions *viewer.Manager
	rec      metrics.Recorder

	// Store, when set, records navigation state per run (best effort).
	Store *state.Store

	// BaseURL builds the display URL for an absolute output path.
	// Defaults to a file:// URL.
	BaseURL func(outputPath string) (string, error)

	// HeadingAt is the structural document accessor: the nearest enclosing
	// heading's display text at the author's position, or false when the
	// position is outside any heading. Defaults to the document's own
	// Markdown heading resolution.
	HeadingAt func(doc *document.Source) (string, bool)
}

// New returns an orchestrator dispatching through reg and displaying via
// sessions.
func New(reg *generator.Registry, sessions *viewer.Manager, rec metrics.Recorder) *Orchestrator {
	if rec == nil {
		rec = metrics.NopRecorder{}
	}
	return &Orchestrator{
		registry:  reg,
		sessions:  sessions,
		rec:       rec,
		BaseURL:   FileURL,
		HeadingAt: func(doc *document.Source) (string, bool) { return doc.CurrentHeading() },
	}
}

// Run regenerates doc and refreshes the shared preview. With useFragment
// the author's current heading is mapped to an output anchor; without it
// the whole document is shown from the top.
//
// Only a generation failure aborts the run and surfaces to the author;
// every other condition degrades gracefully.
func (o *Orchestrator) Run(ctx context.Context, doc *document.Source, useFragment bool) error {
	name := doc.GeneratorName()
	label, op, assist := o.resolveOperation(name)

	start := time.Now()
	outPath, err := op.Generate(ctx, doc)
	elapsed := time.Since(start)
	if err != nil {
		o.rec.RecordGeneration(label, "failure", elapsed)
		gf := perrors.NewGenerationFailure(label, err).WithContext("document", doc.Path)
		slog.Error("generation failed", "generator", label, "document", doc.Path, "error", err)
		return gf
	}
	o.rec.RecordGeneration(label, "success", elapsed)

	abs, err := filepath.Abs(outPath)
	if err != nil {
		return perrors.NewGenerationFailure(label, fmt.Errorf("resolve output path: %w", err))
	}
	display, err := o.BaseURL(abs)
	if err != nil {
		return perrors.NewGenerationFailure(label, fmt.Errorf("build display URL: %w", err))
	}

	if useFragment {
		if heading, ok := o.HeadingAt(doc); ok {
			if frag, found := anchor.Resolve(heading, abs); found {
				display = display + "#" + frag
			} else {
				slog.Debug("no anchor for heading, showing top of document",
					"heading", heading, "output", abs)
			}
		}
	}

	if o.Store != nil {
		if err := o.Store.SaveNavigation(ctx, doc.Key(), display, label); err != nil {
			slog.Debug("navigation state not persisted", "error", err)
		}
	}

	return o.sessions.Display(doc, display, assist)
}

// ResolveURL performs generation and anchor resolution without touching the
// viewer. Used by the one-shot render command.
func (o *Orchestrator) ResolveURL(ctx context.Context, doc *document.Source, useFragment bool) (string, error) {
	name := doc.GeneratorName()
	label, op, _ := o.resolveOperation(name)

	outPath, err := op.Generate(ctx, doc)
	if err != nil {
		return "", perrors.NewGenerationFailure(label, err).WithContext("document", doc.Path)
	}
	abs, err := filepath.Abs(outPath)
	if err != nil {
		return "", perrors.NewGenerationFailure(label, err)
	}
	display, err := o.BaseURL(abs)
	if err != nil {
		return "", err
	}
	if useFragment {
		if heading, ok := o.HeadingAt(doc); ok {
			if frag, found := anchor.Resolve(heading, abs); found {
				display = display + "#" + frag
			}
		}
	}
	return display, nil
}

// resolveOperation dispatches the generator name once per run. The resolved
// operation, its label, and the navigation-assist decision all come from
// this single resolution so no run mixes generator assumptions.
func (o *Orchestrator) resolveOperation(name string) (string, generator.Operation, bool) {
	if name == "" {
		return identityLabel, generator.Identity(), false
	}
	op, err := o.registry.Resolve(name)
	if err != nil {
		slog.Warn("no generator registered, falling back to identity passthrough",
			"generator", name)
		return identityLabel, generator.Identity(), false
	}
	return name, op, name == generator.SlidesName
}

// FileURL builds a file:// URL for an absolute path.
func FileURL(outputPath string) (string, error) {
	if !filepath.IsAbs(outputPath) {
		return "", fmt.Errorf("output path not absolute: %s", outputPath)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(outputPath)}
	return u.String(), nil
}
