// Package generator maps generator identifiers to generation operations.
// An operation turns a source document into a path to a generated HTML
// output document. The registry is a pure lookup/dispatch table populated at
// process start; unknown or unset names degrade to an identity passthrough
// that treats the source as already being the output.
package generator

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/showgood/html-preview/internal/document"
	perrors "github.com/showgood/html-preview/internal/errors"
)

// Operation produces a generated output path for a document. It must not
// return a usable-looking path on failure; a failed run reports an error and
// leaves no stale output path behind.
type Operation interface {
	Generate(ctx context.Context, doc *document.Source) (string, error)
}

// OperationFunc adapts a function to the Operation interface.
type OperationFunc func(ctx context.Context, doc *document.Source) (string, error)

func (f OperationFunc) Generate(ctx context.Context, doc *document.Source) (string, error) {
	return f(ctx, doc)
}

// Registry is a fixed mapping from generator name to operation.
// Registration is append-only for extension; re-registering a name replaces
// the previous entry (last write wins).
type Registry struct {
	mu  sync.RWMutex
	ops map[string]Operation
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{ops: map[string]Operation{}}
}

// Register adds or replaces the operation for a name.
func (r *Registry) Register(name string, op Operation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops[name] = op
}

// Resolve returns the operation registered for name, or a descriptive
// "no generator for <name>" error when none is registered.
func (r *Registry) Resolve(name string) (Operation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	op, ok := r.ops[name]
	if !ok {
		return nil, perrors.NewNoGeneratorFound(name)
	}
	return op, nil
}

// Names returns the registered generator names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.ops))
	for n := range r.ops {
		names = append(names, n)
	}
	return names
}

// Identity returns the passthrough operation for documents already in
// output format: the document's own absolute path is the output path.
func Identity() Operation {
	return OperationFunc(func(_ context.Context, doc *document.Source) (string, error) {
		return filepath.Abs(doc.Path)
	})
}
