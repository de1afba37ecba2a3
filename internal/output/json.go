package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/plotset/plotembed/internal/settings"
)

func init() {
	RegisterFormatter(NewJSONFormatter())
}

// JSONFormatter writes the flat settings map as a JSON object.
type JSONFormatter struct {
	// Compact controls whether output is a single line. When false (default),
	// output is indented with two spaces.
	Compact bool
}

// Compile-time interface check.
var _ Formatter = (*JSONFormatter)(nil)

// NewJSONFormatter returns a new JSONFormatter with default settings.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// Format writes field -> default for tree, keys in traversal order.
func (f *JSONFormatter) Format(tree settings.Tree, w io.Writer) error {
	data, err := json.Marshal(settings.Flatten(tree))
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if !f.Compact {
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", "  "); err != nil {
			return fmt.Errorf("indent settings: %w", err)
		}
		data = buf.Bytes()
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
