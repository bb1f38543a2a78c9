package document

import (
	"os"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Heading is one structural heading of the source document.
type Heading struct {
	Text   string
	Level  int
	Line   int // 1-based line of the heading in the source
	Offset int // byte offset of the heading line start
}

// Headings parses a Markdown body and returns its headings in document
// order with plain display text (link and inline markup stripped).
func Headings(src []byte) []Heading {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(src))

	lines := lineOffsets(src)
	var out []Heading
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		h, ok := n.(*gmast.Heading)
		if !ok {
			return gmast.WalkContinue, nil
		}
		seg := h.Lines()
		if seg.Len() == 0 {
			// Empty heading, no stable position to anchor on.
			return gmast.WalkSkipChildren, nil
		}
		line := lineAt(lines, seg.At(0).Start)
		off := offs(lines, line)
		out = append(out, Heading{
			Text:   plainText(h, src),
			Level:  h.Level,
			Line:   line,
			Offset: off,
		})
		return gmast.WalkSkipChildren, nil
	})
	return out
}

// HeadingAt returns the display text of the nearest heading at or above the
// given cursor line, skipping annotation-only headings. The second return is
// false when the cursor sits above the first heading (top level).
func HeadingAt(src []byte, line int) (string, bool) {
	var best *Heading
	for _, h := range Headings(src) {
		if h.Line > line {
			break
		}
		if isLowLevel(h) {
			continue
		}
		hh := h
		best = &hh
	}
	if best == nil {
		return "", false
	}
	return best.Text, true
}

// CurrentHeading reads the document from disk and resolves the heading
// enclosing the last reported cursor line. Best effort: any read or parse
// problem means "no heading context".
func (s *Source) CurrentHeading() (string, bool) {
	src, err := os.ReadFile(s.Path)
	if err != nil {
		return "", false
	}
	return HeadingAt(src, s.Line())
}

// isLowLevel filters headings that exist only for annotations (footnote
// sections) from structural context resolution.
func isLowLevel(h Heading) bool {
	t := strings.TrimSpace(h.Text)
	return t == "" || strings.EqualFold(t, "footnotes")
}

// plainText collects the text content of a node, dropping markup.
func plainText(n gmast.Node, src []byte) string {
	var sb strings.Builder
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *gmast.Text:
			sb.Write(t.Segment.Value(src))
		case *gmast.String:
			sb.Write(t.Value)
		}
		return gmast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}

// lineOffsets returns the byte offset of each line start.
func lineOffsets(src []byte) []int {
	offs := []int{0}
	for i, b := range src {
		if b == '\n' {
			offs = append(offs, i+1)
		}
	}
	return offs
}

// offs returns the byte offset of the start of a 1-based line.
func offs(lines []int, line int) int {
	if line < 1 || line > len(lines) {
		return 0
	}
	return lines[line-1]
}

// lineAt maps a byte offset to a 1-based line number.
func lineAt(offs []int, off int) int {
	lo, hi := 0, len(offs)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if offs[mid] <= off {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo + 1
}
