package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPreviewError_MessageFormat(t *testing.T) {
	cause := stderrors.New("exit status 1")
	err := NewGenerationFailure("slides", cause)

	require.Contains(t, err.Error(), "generator")
	require.Contains(t, err.Error(), "generation failed")
	require.Contains(t, err.Error(), "exit status 1")
	require.ErrorIs(t, err, cause)
}

func TestNewNoGeneratorFound_Descriptive(t *testing.T) {
	err := NewNoGeneratorFound("pdf")
	require.Contains(t, err.Error(), "no generator for pdf")
	require.Equal(t, SeverityWarning, err.Severity)
}

func TestIsCategory(t *testing.T) {
	err := NewStaleSession("abc")
	require.True(t, IsCategory(err, CategoryViewer))
	require.False(t, IsCategory(err, CategoryGenerator))
	require.False(t, IsCategory(stderrors.New("plain"), CategoryViewer))
}

func TestWithContext(t *testing.T) {
	err := NewConfigError("bad yaml", nil).WithContext("path", "config.yaml")
	require.Equal(t, "config.yaml", err.Context["path"])
}
