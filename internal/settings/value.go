package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Value is a raw JSON value taken from a settings tree. A nil Value means the
// key was absent, which differs from an explicit JSON null.
type Value json.RawMessage

// Defined reports whether the key was present in the source document.
func (v Value) Defined() bool {
	return v != nil
}

// IsNull reports whether the value is an explicit JSON null.
func (v Value) IsNull() bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

// Raw returns the value as a json.RawMessage, with absent values as null.
func (v Value) Raw() json.RawMessage {
	if v == nil {
		return json.RawMessage("null")
	}
	return json.RawMessage(v)
}

func (v Value) decode() (any, error) {
	dec := json.NewDecoder(bytes.NewReader(v))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding value: %w", err)
	}
	return out, nil
}

// literal renders v the way annotated output shows defaults: null, numbers
// and booleans bare, everything else coerced to text inside double quotes.
// Quotes inside the text are not escaped.
func (v Value) literal() (string, error) {
	x, err := v.decode()
	if err != nil {
		return "", err
	}
	switch t := x.(type) {
	case nil:
		return "null", nil
	case bool:
		return strconv.FormatBool(t), nil
	case json.Number:
		return formatNumber(t), nil
	default:
		return `"` + coerce(t) + `"`, nil
	}
}

// text is the script-style string conversion of v.
func (v Value) text() (string, error) {
	x, err := v.decode()
	if err != nil {
		return "", err
	}
	return coerce(x), nil
}

// joinText converts v the way an array join does: null becomes "".
func (v Value) joinText() (string, error) {
	if v.IsNull() {
		return "", nil
	}
	return v.text()
}

// templateText converts v the way string interpolation does: an absent value
// becomes "undefined".
func (v Value) templateText() (string, error) {
	if !v.Defined() {
		return "undefined", nil
	}
	return v.text()
}

func coerce(x any) string {
	switch t := x.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return formatNumber(t)
	case string:
		return t
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			if e != nil {
				parts[i] = coerce(e)
			}
		}
		return strings.Join(parts, ",")
	default:
		return "[object Object]"
	}
}

// formatNumber prints n as a double in shortest round-trip form, switching to
// exponent notation below 1e-6 and from 1e21 up.
func formatNumber(n json.Number) string {
	f, err := strconv.ParseFloat(string(n), 64)
	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case err != nil:
		return string(n)
	case f == 0:
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		digits := strings.TrimLeft(exp[1:], "0")
		return mant + "e" + sign + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
