// Copyright 2026 The Plotembed Authors
// SPDX-License-Identifier: MIT

// Package settings decodes widget settings trees and flattens them into
// default-value maps, either as data or as annotated text.
//
// A tree is a JSON array of sections; each section holds rows and each row
// holds components. Traversal is always section, then row, then component,
// in document order.
package settings

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/plotset/plotembed/internal/embederr"
)

// Tree is a decoded settings tree.
type Tree []Section

// Section is one top-level group of rows.
type Section struct {
	Rows []Row
}

// Row is one line of components.
type Row struct {
	Components []Component
}

// Component is a single widget description.
type Component struct {
	Field string
	// TypeName is the type string as written; Kind is its classification.
	TypeName string
	Kind     WidgetKind
	Default  Value
	Options  []Value
	Min      Value
	Max      Value
	Step     Value
}

// HasDefault reports whether the component declares a default, including an
// explicit null.
func (c Component) HasDefault() bool {
	return c.Default.Defined()
}

// Components returns every component in traversal order.
func (t Tree) Components() []Component {
	var out []Component
	for _, s := range t {
		for _, r := range s.Rows {
			out = append(out, r.Components...)
		}
	}
	return out
}

// Parse decodes a serialized settings tree. Malformed JSON is a parse error;
// a section without a rows list or a row without a components list is a
// schema error naming the offending path.
func Parse(data []byte) (Tree, error) {
	if !json.Valid(data) {
		var x any
		err := json.Unmarshal(data, &x)
		return nil, embederr.Parsef("settings: %v", err)
	}

	sections, err := asArray(data, "settings")
	if err != nil {
		return nil, err
	}
	tree := make(Tree, 0, len(sections))
	for i, raw := range sections {
		sec, err := decodeSection(raw, fmt.Sprintf("[%d]", i))
		if err != nil {
			return nil, err
		}
		tree = append(tree, sec)
	}
	return tree, nil
}

// Decode accepts a tree as text (string, []byte, json.RawMessage), as a Tree,
// or as any already-decoded value that marshals to the tree's JSON form.
func Decode(v any) (Tree, error) {
	switch t := v.(type) {
	case Tree:
		return t, nil
	case string:
		return Parse([]byte(t))
	case []byte:
		return Parse(t)
	case json.RawMessage:
		return Parse(t)
	case nil:
		return nil, embederr.Schemaf("settings: tree is null")
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, embederr.Parsef("settings: %v", err)
	}
	return Parse(data)
}

func decodeSection(raw json.RawMessage, path string) (Section, error) {
	obj, err := asObject(raw, path)
	if err != nil {
		return Section{}, err
	}
	rows, err := childList(obj, "rows", path)
	if err != nil {
		return Section{}, err
	}
	sec := Section{Rows: make([]Row, 0, len(rows))}
	for j, rawRow := range rows {
		rowPath := fmt.Sprintf("%s.rows[%d]", path, j)
		rowObj, err := asObject(rawRow, rowPath)
		if err != nil {
			return Section{}, err
		}
		comps, err := childList(rowObj, "components", rowPath)
		if err != nil {
			return Section{}, err
		}
		row := Row{Components: make([]Component, 0, len(comps))}
		for k, rawComp := range comps {
			c, err := decodeComponent(rawComp, fmt.Sprintf("%s.components[%d]", rowPath, k))
			if err != nil {
				return Section{}, err
			}
			row.Components = append(row.Components, c)
		}
		sec.Rows = append(sec.Rows, row)
	}
	return sec, nil
}

func decodeComponent(raw json.RawMessage, path string) (Component, error) {
	obj, err := asObject(raw, path)
	if err != nil {
		return Component{}, err
	}

	var c Component
	if v, ok := obj["default"]; ok {
		c.Default = Value(v)
	}
	if v, ok := obj["field"]; ok {
		if err := json.Unmarshal(v, &c.Field); err != nil {
			return Component{}, embederr.Schemaf("%s.field: must be a string", path)
		}
	} else if c.HasDefault() {
		return Component{}, embederr.Schemaf("%s: component with a default has no field", path)
	}
	if v, ok := obj["type"]; ok && !isNull(v) {
		if err := json.Unmarshal(v, &c.TypeName); err != nil {
			return Component{}, embederr.Schemaf("%s.type: must be a string", path)
		}
	}
	c.Kind = ParseWidgetKind(c.TypeName)

	if v, ok := obj["options"]; ok && !isNull(v) {
		opts, err := asArray(v, path+".options")
		if err != nil {
			return Component{}, err
		}
		c.Options = make([]Value, len(opts))
		for i, o := range opts {
			c.Options[i] = Value(o)
		}
	}
	if v, ok := obj["min"]; ok {
		c.Min = Value(v)
	}
	if v, ok := obj["max"]; ok {
		c.Max = Value(v)
	}
	if v, ok := obj["step"]; ok {
		c.Step = Value(v)
	}
	return c, nil
}

func childList(obj map[string]json.RawMessage, key, path string) ([]json.RawMessage, error) {
	raw, ok := obj[key]
	if !ok || isNull(raw) {
		return nil, embederr.Schemaf("%s: missing %s list", path, key)
	}
	return asArray(raw, path+"."+key)
}

func asArray(raw json.RawMessage, path string) ([]json.RawMessage, error) {
	var items []json.RawMessage
	if isNull(raw) || json.Unmarshal(raw, &items) != nil {
		return nil, embederr.Schemaf("%s: expected an array", path)
	}
	return items, nil
}

func asObject(raw json.RawMessage, path string) (map[string]json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if isNull(raw) || json.Unmarshal(raw, &obj) != nil {
		return nil, embederr.Schemaf("%s: expected an object", path)
	}
	return obj, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
