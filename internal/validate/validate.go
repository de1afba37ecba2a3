// Package validate lints settings trees. Unlike settings.Parse, which stops
// at the first structural problem, it walks the whole document and reports
// every issue it finds with a suggested fix.
package validate

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/plotset/plotembed/internal/settings"
)

// Severity grades an issue. Errors make flattening fail; warnings produce
// output that is probably not what the author meant.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ValidationError represents a single issue at a location in the tree.
type ValidationError struct {
	Path       string // e.g. [0].rows[1].components[2]; empty for document-level issues
	Field      string // component field name, when known
	Severity   Severity
	Message    string // what's wrong
	Suggestion string // how to fix it
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Result contains the outcome of validating one settings tree.
type Result struct {
	Sections   int
	Components int
	Defaults   int
	Errors     []ValidationError
}

// Valid reports whether no error-severity issue was found. Warnings do not
// make a tree invalid.
func (r *Result) Valid() bool {
	return r.Count(SeverityError) == 0
}

// Count returns the number of issues with severity s.
func (r *Result) Count(s Severity) int {
	n := 0
	for _, e := range r.Errors {
		if e.Severity == s {
			n++
		}
	}
	return n
}

// Validate reads a settings tree from r and checks every section, row and
// component.
func Validate(r io.Reader) *Result {
	result := &Result{}
	data, err := io.ReadAll(r)
	if err != nil {
		result.add("", "", SeverityError, fmt.Sprintf("reading input: %v", err), "check that the file is readable")
		return result
	}

	var sections []json.RawMessage
	if err := json.Unmarshal(data, &sections); err != nil {
		var x any
		if json.Unmarshal(data, &x) != nil {
			result.add("", "", SeverityError, fmt.Sprintf("invalid JSON: %v", err), "ensure the file is a single valid JSON document")
		} else {
			result.add("", "", SeverityError, "settings must be a JSON array of sections", `wrap the sections in [ ... ]`)
		}
		return result
	}

	v := &validator{result: result, fields: map[string]string{}}
	for i, raw := range sections {
		v.section(raw, fmt.Sprintf("[%d]", i))
	}
	result.Sections = len(sections)
	return result
}

type validator struct {
	result *Result
	// fields maps each field name to the path that first declared a default.
	fields map[string]string
}

func (r *Result) add(path, field string, sev Severity, msg, suggestion string) {
	r.Errors = append(r.Errors, ValidationError{
		Path:       path,
		Field:      field,
		Severity:   sev,
		Message:    msg,
		Suggestion: suggestion,
	})
}

func (v *validator) section(raw json.RawMessage, path string) {
	obj, ok := object(raw)
	if !ok {
		v.result.add(path, "", SeverityError, "section must be an object", `use {"rows": [...]}`)
		return
	}
	rows, ok := v.list(obj, "rows", path, `add "rows": [] to the section`)
	if !ok {
		return
	}
	for j, rawRow := range rows {
		rowPath := fmt.Sprintf("%s.rows[%d]", path, j)
		rowObj, ok := object(rawRow)
		if !ok {
			v.result.add(rowPath, "", SeverityError, "row must be an object", `use {"components": [...]}`)
			continue
		}
		comps, ok := v.list(rowObj, "components", rowPath, `add "components": [] to the row`)
		if !ok {
			continue
		}
		for k, rawComp := range comps {
			v.component(rawComp, fmt.Sprintf("%s.components[%d]", rowPath, k))
		}
	}
}

func (v *validator) list(obj map[string]json.RawMessage, key, path, suggestion string) ([]json.RawMessage, bool) {
	raw, ok := obj[key]
	if !ok || string(raw) == "null" {
		v.result.add(path, "", SeverityError, fmt.Sprintf("missing %s list", key), suggestion)
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		v.result.add(path, "", SeverityError, fmt.Sprintf("%s must be an array", key), fmt.Sprintf("set %q to a JSON array", key))
		return nil, false
	}
	return items, true
}

func (v *validator) component(raw json.RawMessage, path string) {
	v.result.Components++
	obj, ok := object(raw)
	if !ok {
		v.result.add(path, "", SeverityError, "component must be an object", `use {"field": ..., "type": ..., "default": ...}`)
		return
	}

	_, hasDefault := obj["default"]
	if hasDefault {
		v.result.Defaults++
	}

	field, fieldErr := stringKey(obj, "field")
	switch {
	case fieldErr == errNotString:
		v.result.add(path, "", SeverityError, `"field" must be a string`, `quote the field name`)
	case fieldErr == errMissing && hasDefault:
		v.result.add(path, "", SeverityError, "component has a default but no field", `add a "field" naming the setting`)
	}

	typeName, typeErr := stringKey(obj, "type")
	if typeErr == errNotString {
		v.result.add(path, field, SeverityError, `"type" must be a string`, "use one of the widget kinds")
	}
	kind := settings.ParseWidgetKind(typeName)
	if kind == settings.KindUnknown && hasDefault {
		msg := "component has no type"
		if typeName != "" {
			msg = fmt.Sprintf("unknown widget kind %q", typeName)
		}
		v.result.add(path, field, SeverityWarning, msg+"; annotated output will have an empty comment",
			fmt.Sprintf("use one of: %s", knownKinds()))
	}

	if opts, ok := obj["options"]; ok && string(opts) != "null" {
		var items []json.RawMessage
		if json.Unmarshal(opts, &items) != nil {
			v.result.add(path, field, SeverityError, `"options" must be an array`, "list the selectable values in an array")
		}
	} else if kind.IsChoice() && hasDefault {
		v.result.add(path, field, SeverityError, fmt.Sprintf("%s component has no options", kind),
			`add "options": [...] listing the selectable values`)
	}

	if kind == settings.KindInputSlider && hasDefault {
		for _, bound := range []string{"min", "max", "step"} {
			b, ok := obj[bound]
			if !ok {
				v.result.add(path, field, SeverityWarning, fmt.Sprintf("slider has no %s", bound),
					fmt.Sprintf("add a numeric %q", bound))
				continue
			}
			var n float64
			if json.Unmarshal(b, &n) != nil {
				v.result.add(path, field, SeverityWarning, fmt.Sprintf("slider %s is not a number", bound),
					fmt.Sprintf("set %q to a number", bound))
			}
		}
	}

	if hasDefault && fieldErr == nil {
		if first, dup := v.fields[field]; dup {
			v.result.add(path, field, SeverityWarning,
				fmt.Sprintf("field %q already has a default at %s; this one replaces it", field, first),
				"rename one of the fields")
		} else {
			v.fields[field] = path
		}
	}
}

type keyError string

func (e keyError) Error() string { return string(e) }

const (
	errMissing   keyError = "missing"
	errNotString keyError = "not a string"
)

func stringKey(obj map[string]json.RawMessage, key string) (string, error) {
	raw, ok := obj[key]
	if !ok || string(raw) == "null" {
		return "", errMissing
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", errNotString
	}
	return s, nil
}

func object(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	var obj map[string]json.RawMessage
	if string(raw) == "null" || json.Unmarshal(raw, &obj) != nil {
		return nil, false
	}
	return obj, true
}

func knownKinds() string {
	names := make([]string, 0, len(settings.AllWidgetKinds))
	for _, k := range settings.AllWidgetKinds {
		if k != settings.KindUnknown {
			names = append(names, string(k))
		}
	}
	return strings.Join(names, ", ")
}
