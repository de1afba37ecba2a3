package output

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/plotset/plotembed/internal/settings"
)

func init() {
	RegisterFormatter(&YAMLFormatter{})
}

// YAMLFormatter writes the flat settings map as a block-style YAML mapping.
// Key order, including inside object defaults, follows the source document.
type YAMLFormatter struct{}

var _ Formatter = (*YAMLFormatter)(nil)

// Name returns the format name.
func (f *YAMLFormatter) Name() string {
	return "yaml"
}

// Format writes field -> default for tree as YAML.
func (f *YAMLFormatter) Format(tree settings.Tree, w io.Writer) error {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	flat := settings.Flatten(tree)
	for pair := flat.Oldest(); pair != nil; pair = pair.Next() {
		// JSON is valid YAML, so the raw default decodes with its order intact.
		var value yaml.Node
		if err := yaml.Unmarshal(pair.Value, &value); err != nil {
			return fmt.Errorf("field %q: %w", pair.Key, err)
		}
		v := value.Content[0]
		blockStyle(v)
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: pair.Key}, v)
	}

	if len(doc.Content) == 0 {
		_, err := io.WriteString(w, "{}\n")
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// blockStyle drops the flow and quoting styles the JSON input implies, so
// the encoder picks plain block YAML and quotes only where a string would
// otherwise read as another type.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
