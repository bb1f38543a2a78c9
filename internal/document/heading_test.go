package document

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleOutline = `intro text

# Alpha

body

## Beta [link](https://example.com)

more

# Footnotes

[^1]: a note
`

func TestHeadings_PositionsAndPlainText(t *testing.T) {
	heads := Headings([]byte(sampleOutline))
	require.Len(t, heads, 3)

	require.Equal(t, "Alpha", heads[0].Text)
	require.Equal(t, 1, heads[0].Level)
	require.Equal(t, 3, heads[0].Line)

	require.Equal(t, "Beta link", heads[1].Text)
	require.Equal(t, 2, heads[1].Level)
	require.Equal(t, 7, heads[1].Line)

	require.Equal(t, "Footnotes", heads[2].Text)
}

func TestHeadingAt_NearestEnclosing(t *testing.T) {
	src := []byte(sampleOutline)

	text, ok := HeadingAt(src, 5)
	require.True(t, ok)
	require.Equal(t, "Alpha", text)

	text, ok = HeadingAt(src, 9)
	require.True(t, ok)
	require.Equal(t, "Beta link", text)
}

func TestHeadingAt_TopLevelHasNoHeading(t *testing.T) {
	_, ok := HeadingAt([]byte(sampleOutline), 1)
	require.False(t, ok)
}

func TestHeadingAt_SkipsFootnoteHeading(t *testing.T) {
	text, ok := HeadingAt([]byte(sampleOutline), 13)
	require.True(t, ok)
	require.Equal(t, "Beta link", text)
}

func TestHeadingAt_NoHeadingsAtAll(t *testing.T) {
	_, ok := HeadingAt([]byte("just a paragraph\nand another\n"), 2)
	require.False(t, ok)
}

func TestHeadings_EmptySource(t *testing.T) {
	require.Empty(t, Headings(nil))
}
