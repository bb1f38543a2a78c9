package generator

import (
	"context"
	"fmt"
	"html"
	"os"
	"strings"

	"github.com/showgood/html-preview/internal/document"
)

// HTML renders a Markdown document into a standalone HTML page. Each
// heading opens a <section> carrying a slugified id so the anchor resolver
// can map the author's cursor heading back into the page.
type HTML struct {
	OutDir string
	Title  string
}

// NewHTML returns the page generator writing into outDir.
func NewHTML(outDir string) *HTML {
	return &HTML{OutDir: outDir}
}

func (g *HTML) Generate(ctx context.Context, doc *document.Source) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	src, err := os.ReadFile(doc.Path)
	if err != nil {
		return "", fmt.Errorf("read source: %w", err)
	}

	preamble, secs := splitSections(src)
	var body strings.Builder
	if len(preamble) > 0 {
		frag, err := renderMarkdown(preamble)
		if err != nil {
			return "", err
		}
		body.WriteString(frag)
	}
	seen := map[string]int{}
	for _, sec := range secs {
		frag, err := renderMarkdown(sec.Chunk)
		if err != nil {
			return "", err
		}
		id := slug(sec.Heading)
		seen[id]++
		if n := seen[id]; n > 1 {
			id = fmt.Sprintf("%s-%d", id, n)
		}
		fmt.Fprintf(&body, "<section id=%q>\n%s</section>\n", id, frag)
	}

	title := g.Title
	if title == "" {
		title = pageTitle(secs, doc)
	}
	page := fmt.Sprintf(pageTemplate, html.EscapeString(title), body.String())

	out := outputPathFor(g.OutDir, doc.Path)
	if err := writeOutput(out, []byte(page)); err != nil {
		return "", err
	}
	return out, nil
}

func pageTitle(secs []section, doc *document.Source) string {
	if len(secs) > 0 && secs[0].Heading != "" {
		return secs[0].Heading
	}
	return doc.Path
}

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { max-width: 46rem; margin: 2rem auto; padding: 0 1rem; font-family: sans-serif; line-height: 1.5; }
pre { background: #f4f4f4; padding: 0.5rem; overflow-x: auto; }
section:target { background: #fffbe6; }
</style>
</head>
<body>
<main>
%s</main>
</body>
</html>
`
