package anchor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeOutput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "out.html")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestResolve_MatchesSectionHeader(t *testing.T) {
	path := writeOutput(t, `<html><body>
<section id="sec-1"><h2>Intro</h2><p>hello</p></section>
<section id="sec-2"><h2>Details</h2></section>
</body></html>`)

	frag, ok := Resolve("Details", path)
	require.True(t, ok)
	require.Equal(t, "sec-2", frag)
}

func TestResolve_FirstMatchInDocumentOrder(t *testing.T) {
	path := writeOutput(t, `<div id="a"><h1>Same</h1></div><div id="b"><h1>Same</h1></div>`)

	frag, ok := Resolve("Same", path)
	require.True(t, ok)
	require.Equal(t, "a", frag)
}

func TestResolve_StripsInlineMarkupInHeader(t *testing.T) {
	path := writeOutput(t, `<section id="x"><h3>Beta <a href="/y">link</a></h3></section>`)

	frag, ok := Resolve("Beta link", path)
	require.True(t, ok)
	require.Equal(t, "x", frag)
}

func TestResolve_CaseSensitiveExactMatch(t *testing.T) {
	path := writeOutput(t, `<section id="x"><h2>Intro</h2></section>`)

	_, ok := Resolve("intro", path)
	require.False(t, ok)
}

func TestResolve_NoMatchIsAbsentNotError(t *testing.T) {
	path := writeOutput(t, `<section id="x"><h2>Renamed</h2></section>`)

	_, ok := Resolve("Intro", path)
	require.False(t, ok)
}

func TestResolve_InterveningContentBreaksAdjacency(t *testing.T) {
	path := writeOutput(t, `<section id="x"><p>filler</p><h2>Intro</h2></section>`)

	_, ok := Resolve("Intro", path)
	require.False(t, ok)
}

func TestResolve_HeaderOutsideStructuralElement(t *testing.T) {
	path := writeOutput(t, `<h2>Intro</h2>`)

	_, ok := Resolve("Intro", path)
	require.False(t, ok)
}

func TestResolve_EmptyHeadingMeansTopLevel(t *testing.T) {
	path := writeOutput(t, `<section id="x"><h2>Intro</h2></section>`)

	_, ok := Resolve("  ", path)
	require.False(t, ok)
}

func TestResolve_MissingFileDegrades(t *testing.T) {
	_, ok := Resolve("Intro", filepath.Join(t.TempDir(), "missing.html"))
	require.False(t, ok)
}

func TestResolve_StructuralElementWithoutID(t *testing.T) {
	path := writeOutput(t, `<section><h2>Intro</h2></section>`)

	_, ok := Resolve("Intro", path)
	require.False(t, ok)
}

func TestResolve_WhitespaceBetweenSectionAndHeaderOK(t *testing.T) {
	path := writeOutput(t, "<section id=\"s\">\n  <h2>Intro</h2>\n</section>")

	frag, ok := Resolve("Intro", path)
	require.True(t, ok)
	require.Equal(t, "s", frag)
}
