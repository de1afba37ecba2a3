// Package output defines the Formatter interface for writing flattened
// settings in various formats.
package output

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/plotset/plotembed/internal/settings"
)

// Formatter writes the flattened form of a settings tree to a writer.
type Formatter interface {
	// Name returns the format name (e.g., "json", "annotated", "yaml").
	Name() string

	// Format writes the flattened tree to w.
	Format(tree settings.Tree, w io.Writer) error
}

var (
	fmtMu       sync.RWMutex
	fmtRegistry = make(map[string]Formatter)
)

// RegisterFormatter adds a formatter to the global registry.
func RegisterFormatter(f Formatter) {
	fmtMu.Lock()
	defer fmtMu.Unlock()
	fmtRegistry[f.Name()] = f
}

// GetFormatter returns the formatter with the given name, or an error if not found.
func GetFormatter(name string) (Formatter, error) {
	fmtMu.RLock()
	defer fmtMu.RUnlock()
	f, ok := fmtRegistry[name]
	if !ok {
		return nil, fmt.Errorf("unknown format: %q (available: %s)", name, strings.Join(formatNames(), ", "))
	}
	return f, nil
}

// FormatNames returns the sorted names of all registered formatters.
func FormatNames() []string {
	fmtMu.RLock()
	defer fmtMu.RUnlock()
	return formatNames()
}

// resetFmtForTesting clears the formatter registry. Only for use in tests.
func resetFmtForTesting() {
	fmtMu.Lock()
	defer fmtMu.Unlock()
	fmtRegistry = make(map[string]Formatter)
}

func formatNames() []string {
	names := make([]string, 0, len(fmtRegistry))
	for name := range fmtRegistry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
