package generator

import (
	"context"
	"fmt"
	"html"
	"os"
	"strings"

	"github.com/showgood/html-preview/internal/document"
)

// Name of the slide-deck generator. Sessions displaying this generator's
// output get navigation assist enabled.
const SlidesName = "slides"

// Slides renders a Markdown outline into an HTML slide deck: one
// <section id="sec-N"> per heading, driven by the deck's own keyboard
// handler (numeric key codes, same set the viewer forwards).
type Slides struct {
	OutDir string
	Title  string
}

// NewSlides returns the deck generator writing into outDir.
func NewSlides(outDir string) *Slides {
	return &Slides{OutDir: outDir}
}

func (g *Slides) Generate(ctx context.Context, doc *document.Source) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	src, err := os.ReadFile(doc.Path)
	if err != nil {
		return "", fmt.Errorf("read source: %w", err)
	}

	preamble, secs := splitSections(src)
	var deck strings.Builder
	if strings.TrimSpace(string(preamble)) != "" {
		frag, err := renderMarkdown(preamble)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&deck, "<section id=\"sec-title\">\n%s</section>\n", frag)
	}
	for i, sec := range secs {
		frag, err := renderMarkdown(sec.Chunk)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&deck, "<section id=\"sec-%d\">\n%s</section>\n", i+1, frag)
	}

	title := g.Title
	if title == "" {
		title = pageTitle(secs, doc)
	}
	page := fmt.Sprintf(deckTemplate, html.EscapeString(title), deck.String())

	out := outputPathFor(g.OutDir, doc.Path)
	if err := writeOutput(out, []byte(page)); err != nil {
		return "", err
	}
	return out, nil
}

// deckTemplate carries the deck's own key handling: one slide visible at a
// time, keyboard driven by the same numeric codes the viewer's navigation
// assist forwards.
const deckTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { margin: 0; font-family: sans-serif; }
.slides > section { display: none; min-height: 100vh; padding: 3rem 4rem; box-sizing: border-box; }
.slides > section.present { display: block; }
body.overview .slides > section { display: block; min-height: auto; border-bottom: 1px solid #ccc; }
body.paused .slides { visibility: hidden; }
</style>
</head>
<body>
<div class="slides">
%s</div>
<script>
(function () {
  var slides = document.querySelectorAll('.slides > section');
  var current = 0;
  function show(i) {
    if (i < 0 || i >= slides.length) return;
    slides[current].classList.remove('present');
    current = i;
    slides[current].classList.add('present');
    if (slides[current].id) location.hash = slides[current].id;
  }
  function fromHash() {
    for (var i = 0; i < slides.length; i++) {
      if ('#' + slides[i].id === location.hash) { show(i); return; }
    }
    slides[current].classList.add('present');
  }
  document.addEventListener('keydown', function (e) {
    switch (e.keyCode) {
    case 78: case 39: case 40: show(current + 1); break; // next, right, down
    case 80: case 37: case 38: show(current - 1); break; // previous, left, up
    case 36: show(0); break;                             // first
    case 35: show(slides.length - 1); break;             // last
    case 66: document.body.classList.toggle('paused'); break;
    case 70: document.documentElement.requestFullscreen(); break;
    case 79: document.body.classList.toggle('overview'); break;
    default: return;
    }
    e.preventDefault();
  });
  window.addEventListener('hashchange', fromHash);
  fromHash();
})();
</script>
</body>
</html>
`
