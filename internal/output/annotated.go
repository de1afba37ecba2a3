package output

import (
	"io"

	"github.com/plotset/plotembed/internal/settings"
)

func init() {
	RegisterFormatter(&AnnotatedFormatter{})
}

// AnnotatedFormatter writes one `"field": literal, // comment` line per
// default, for pasting into hand-written chart configs.
type AnnotatedFormatter struct{}

var _ Formatter = (*AnnotatedFormatter)(nil)

// Name returns the format name.
func (f *AnnotatedFormatter) Name() string {
	return "annotated"
}

// Format writes the annotated lines of tree to w.
func (f *AnnotatedFormatter) Format(tree settings.Tree, w io.Writer) error {
	return settings.WriteAnnotated(w, tree)
}
