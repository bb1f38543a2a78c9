package generator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExec_RunsPipelineWithPlaceholders(t *testing.T) {
	doc := writeDoc(t, "page.md", "<p>already html enough</p>\n")
	outDir := t.TempDir()

	op := NewExec("copy", outDir, []string{"cp", "{input}", "{output}"})
	out, err := op.Generate(context.Background(), doc)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(outDir, "page.html"), out)

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(content), "already html enough")
}

func TestExec_CommandFailureReported(t *testing.T) {
	doc := writeDoc(t, "page.md", "x\n")
	op := NewExec("boom", t.TempDir(), []string{"false"})

	out, err := op.Generate(context.Background(), doc)
	require.Error(t, err)
	require.Empty(t, out)
	require.Contains(t, err.Error(), "boom command failed")
}

func TestExec_MissingOutputIsFailure(t *testing.T) {
	doc := writeDoc(t, "page.md", "x\n")
	op := NewExec("noop", t.TempDir(), []string{"true"})

	out, err := op.Generate(context.Background(), doc)
	require.Error(t, err)
	require.Empty(t, out)
	require.Contains(t, err.Error(), "produced no output")
}

func TestExec_EmptyCommandRejected(t *testing.T) {
	doc := writeDoc(t, "page.md", "x\n")
	op := NewExec("empty", t.TempDir(), nil)

	_, err := op.Generate(context.Background(), doc)
	require.Error(t, err)
}
