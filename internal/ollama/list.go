// Package ollama invokes the ollama CLI and parses its output.
package ollama

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ollamatray-io/ollamatray/internal/models"
	"github.com/ollamatray-io/ollamatray/internal/service"
)

// ErrNoModels is returned when the listing succeeds but contains no model
// rows. Callers render it as an informational entry, not as an error.
var ErrNoModels = errors.New("no models found")

// Lister runs `ollama list` and parses the tabular output.
type Lister struct {
	Binary string // defaults to "ollama"
	Runner service.Runner
}

// NewLister creates a lister using the exec runner.
func NewLister(runner service.Runner) *Lister {
	return &Lister{Binary: "ollama", Runner: runner}
}

// List returns the installed models sorted case-insensitively by name.
// A non-zero exit reports the command's stderr as the error text.
func (l *Lister) List(ctx context.Context) ([]models.Model, error) {
	binary := l.Binary
	if binary == "" {
		binary = "ollama"
	}

	res, err := l.Runner.Run(ctx, binary, "list")
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		return nil, fmt.Errorf("ollama list failed: %s", strings.TrimSpace(res.Stderr))
	}

	return ParseList(res.Stdout)
}

// ParseList parses `ollama list` output: one header line, then one row per
// model. Rows are whitespace-tokenized; a row needs at least 3 fields
// (name, id, size). The size label joins the size value and its unit
// (fields 2 and 3). Short rows are skipped silently.
func ParseList(out string) ([]models.Model, error) {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) <= 1 {
		// Empty or header only
		return nil, ErrNoModels
	}

	var result []models.Model
	for _, line := range lines[1:] {
		parts := strings.Fields(line)
		if len(parts) < 3 {
			continue
		}
		size := parts[2]
		if len(parts) >= 4 {
			size = parts[2] + " " + parts[3]
		}
		result = append(result, models.Model{Name: parts[0], Size: size})
	}

	if len(result) == 0 {
		return nil, ErrNoModels
	}

	sort.Slice(result, func(i, j int) bool {
		a := strings.ToLower(result[i].Name)
		b := strings.ToLower(result[j].Name)
		if a == b {
			return result[i].Name < result[j].Name
		}
		return a < b
	})

	return result, nil
}
