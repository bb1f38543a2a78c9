package generator

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	ghtml "github.com/yuin/goldmark/renderer/html"

	"github.com/showgood/html-preview/internal/document"
)

// section is one structural slice of the source: a heading and everything
// up to the next heading.
type section struct {
	Heading string
	Chunk   []byte
}

// splitSections slices a Markdown body at its headings. The preamble is the
// content before the first heading.
func splitSections(src []byte) (preamble []byte, secs []section) {
	heads := document.Headings(src)
	if len(heads) == 0 {
		return src, nil
	}
	preamble = src[:heads[0].Offset]
	for i, h := range heads {
		end := len(src)
		if i+1 < len(heads) {
			end = heads[i+1].Offset
		}
		secs = append(secs, section{Heading: h.Text, Chunk: src[h.Offset:end]})
	}
	return preamble, secs
}

// renderMarkdown converts one Markdown chunk to an HTML fragment.
func renderMarkdown(chunk []byte) (string, error) {
	md := goldmark.New(goldmark.WithRendererOptions(ghtml.WithUnsafe()))
	var buf bytes.Buffer
	if err := md.Convert(chunk, &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// outputPathFor maps a source document into outDir, always with .html.
func outputPathFor(outDir, srcPath string) string {
	base := filepath.Base(srcPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outDir, stem+".html")
}

// writeOutput writes the generated document atomically: content lands under
// a temp name first and is renamed into place, so a failed run never leaves
// a partially written output behind.
func writeOutput(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".generate-*")
	if err != nil {
		return fmt.Errorf("create temp output: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close output: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("finalize output: %w", err)
	}
	return nil
}
