package settings

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/plotset/plotembed/internal/embederr"
)

// FlatMap maps each field to its default, in traversal order. A field that
// appears twice keeps its first position and takes the later default.
type FlatMap = orderedmap.OrderedMap[string, json.RawMessage]

// Flatten collects field -> default for every component that declares a
// default. Components without one never appear.
func Flatten(tree Tree) *FlatMap {
	flat := orderedmap.New[string, json.RawMessage]()
	for _, c := range tree.Components() {
		if !c.HasDefault() {
			continue
		}
		flat.Set(c.Field, c.Default.Raw())
	}
	slog.Debug("settings flattened", "fields", flat.Len())
	return flat
}

// FlattenJSON parses data and flattens it.
func FlattenJSON(data []byte) (*FlatMap, error) {
	tree, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return Flatten(tree), nil
}

// Annotate renders one line per component with a default:
//
//	"field": <literal>, // <type comment>
//
// Lines follow traversal order.
func Annotate(tree Tree) ([]string, error) {
	var lines []string
	for _, c := range tree.Components() {
		if !c.HasDefault() {
			continue
		}
		line, err := annotateComponent(c)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func annotateComponent(c Component) (string, error) {
	lit, err := c.Default.literal()
	if err != nil {
		return "", embederr.Parsef("field %q: %v", c.Field, err)
	}
	comment, err := c.Kind.Comment(c)
	if err != nil {
		return "", embederr.New(embederr.KindSchema, err)
	}
	// Neither the field nor string defaults are escaped.
	return fmt.Sprintf(`"%s": %s, // %s`, c.Field, lit, comment), nil
}

// WriteAnnotated writes the annotated lines of tree to w, one per line.
func WriteAnnotated(w io.Writer, tree Tree) error {
	lines, err := Annotate(tree)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}
	_, err = io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}
