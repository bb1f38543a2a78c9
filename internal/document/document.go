// Package document models the editable source document driving a preview:
// its stable path handle, configured generator, debounce settings, and the
// author's last reported cursor position.
package document

import (
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Source is one editable structured document with at most one associated
// live preview. The zero value is not usable; construct with New.
type Source struct {
	mu sync.Mutex

	// Path is the stable handle identifying the document.
	Path string

	// Generator is the explicit generator override. Empty means the
	// generator is inferred from the file extension.
	Generator string

	// IdleDelay is the debounce delay after the last qualifying edit.
	// Zero disables live-typing regeneration (save-triggered only).
	IdleDelay time.Duration

	line int
}

// New creates a Source for the given path. The path is cleaned but not
// required to exist yet.
func New(path string) *Source {
	return &Source{Path: filepath.Clean(path), line: 1}
}

// Key returns the canonical identity of the document used for timer slots
// and navigation state. Two Sources with the same Key are the same document.
func (s *Source) Key() string {
	abs, err := filepath.Abs(s.Path)
	if err != nil {
		return filepath.Clean(s.Path)
	}
	return abs
}

// SetLine records the author's current cursor line (1-based).
func (s *Source) SetLine(line int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if line < 1 {
		line = 1
	}
	s.line = line
}

// Line returns the last reported cursor line (1-based).
func (s *Source) Line() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.line
}

// GeneratorName resolves the generator identifier for this document:
// the explicit override when set, otherwise an inference from the file
// extension. Empty means the document is already in output format and the
// identity passthrough applies.
func (s *Source) GeneratorName() string {
	if s.Generator != "" {
		return s.Generator
	}
	switch strings.ToLower(filepath.Ext(s.Path)) {
	case ".md", ".markdown", ".mdown":
		return "html"
	default:
		return ""
	}
}
