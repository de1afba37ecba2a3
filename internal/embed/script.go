package embed

import (
	"encoding/json"
	"strings"
	"sync"
	"text/template"

	"github.com/plotset/plotembed/internal/csvdata"
	"github.com/plotset/plotembed/internal/embederr"
)

// payload is everything the generated script hands to the entry point.
type payload struct {
	Records       []csvdata.Record
	Columns       []string
	Config        json.RawMessage
	Binding       json.RawMessage
	Format        json.RawMessage
	ShowWatermark bool
	ReferenceURL  string
}

const scriptTemplate = `
function main() {
  const _PLOTSET_DATA = {{js .Records}};
  _PLOTSET_DATA["columns"] = {{js .Columns}};
  const _PLOTSET_CONFIG = {{js .Config}};
  const _PLOTSET_COL_REL = {{js .Binding}};
  const _PLOTSET_COL_TYPE = {{js .Format}};
  base_first_time({
    _data: _PLOTSET_DATA,
    _config: _PLOTSET_CONFIG,
    _col_rel: _PLOTSET_COL_REL,
    _col_type: _PLOTSET_COL_TYPE,
  }, {{js .ShowWatermark}}{{if .ReferenceURL}}, {{js .ReferenceURL}}{{end}});
}
window.onload = main;
`

var (
	scriptTmplOnce sync.Once
	scriptTmpl     *template.Template
)

// scriptLiteral encodes v as a JSON literal that is also valid script
// source inside an HTML script element. encoding/json rewrites <, > and &
// as \u escapes, plus U+2028 and U+2029, so no value can close the element
// or break a line inside a string literal.
func scriptLiteral(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func buildScript(p payload) (string, error) {
	scriptTmplOnce.Do(func() {
		scriptTmpl = template.Must(template.New("script").Funcs(template.FuncMap{
			"js": scriptLiteral,
		}).Parse(scriptTemplate))
	})

	if p.Records == nil {
		p.Records = []csvdata.Record{}
	}
	if p.Columns == nil {
		p.Columns = []string{}
	}

	var b strings.Builder
	if err := scriptTmpl.Execute(&b, p); err != nil {
		return "", embederr.Serializationf("building script: %v", err)
	}
	src := b.String()
	if strings.Contains(src, "<") {
		return "", embederr.Serializationf("script contains an unescaped '<'")
	}
	return src, nil
}
