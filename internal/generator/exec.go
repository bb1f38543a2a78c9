package generator

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/showgood/html-preview/internal/document"
)

// Exec runs an external export pipeline as a generation operation. The
// command receives the source and output paths through {input} and {output}
// placeholders. The run fails unless the command exits zero and the output
// file exists afterwards.
type Exec struct {
	Name    string
	OutDir  string
	Command []string
}

// NewExec returns an external-command generator writing into outDir.
func NewExec(name, outDir string, command []string) *Exec {
	return &Exec{Name: name, OutDir: outDir, Command: command}
}

func (g *Exec) Generate(ctx context.Context, doc *document.Source) (string, error) {
	if len(g.Command) == 0 {
		return "", fmt.Errorf("generator %q has no command", g.Name)
	}
	out := outputPathFor(g.OutDir, doc.Path)
	if err := os.MkdirAll(g.OutDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	args := make([]string, 0, len(g.Command)-1)
	for _, a := range g.Command[1:] {
		a = strings.ReplaceAll(a, "{input}", doc.Path)
		a = strings.ReplaceAll(a, "{output}", out)
		args = append(args, a)
	}

	cmd := exec.CommandContext(ctx, g.Command[0], args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("%s command failed: %w: %s", g.Name, err, msg)
		}
		return "", fmt.Errorf("%s command failed: %w", g.Name, err)
	}
	if _, err := os.Stat(out); err != nil {
		return "", fmt.Errorf("%s produced no output at %s", g.Name, out)
	}
	return out, nil
}
