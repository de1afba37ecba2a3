package settings

import (
	"fmt"
	"strings"
)

// WidgetKind is the closed set of component types a settings tree may use.
// Any other type string decodes to KindUnknown.
type WidgetKind string

const (
	KindInputNumber        WidgetKind = "input-number"
	KindRadioButton        WidgetKind = "radio-button"
	KindSwitch             WidgetKind = "switch"
	KindColorPicker        WidgetKind = "color-picker"
	KindInputText          WidgetKind = "input-text"
	KindSelect             WidgetKind = "select"
	KindInputSlider        WidgetKind = "input-slider"
	KindSelectColorPalette WidgetKind = "select-color-palette"
	KindUnknown            WidgetKind = ""
)

// AllWidgetKinds lists every known kind, KindUnknown last.
var AllWidgetKinds = []WidgetKind{
	KindInputNumber,
	KindRadioButton,
	KindSwitch,
	KindColorPicker,
	KindInputText,
	KindSelect,
	KindInputSlider,
	KindSelectColorPalette,
	KindUnknown,
}

// ParseWidgetKind maps a component's type string to its kind.
func ParseWidgetKind(s string) WidgetKind {
	for _, k := range AllWidgetKinds {
		if string(k) == s {
			return k
		}
	}
	return KindUnknown
}

// IsChoice reports whether the kind renders its options in comments.
func (k WidgetKind) IsChoice() bool {
	return k == KindRadioButton || k == KindSelect
}

func (k WidgetKind) String() string {
	if k == KindUnknown {
		return "unknown"
	}
	return string(k)
}

// Comment returns the annotated-mode type comment for c, whose Kind must be k.
// Choice widgets without an options list cannot be described and fail, as
// does a kind outside AllWidgetKinds.
func (k WidgetKind) Comment(c Component) (string, error) {
	switch k {
	case KindInputNumber:
		return "number", nil
	case KindRadioButton, KindSelect:
		if c.Options == nil {
			return "", fmt.Errorf("field %q: %s component has no options", c.Field, k)
		}
		return joinOptions(c.Options)
	case KindSwitch:
		return "boolean", nil
	case KindColorPicker:
		return "rgb color", nil
	case KindInputText:
		return "string", nil
	case KindInputSlider:
		return sliderComment(c)
	case KindSelectColorPalette:
		return "color palette", nil
	case KindUnknown:
		return "", nil
	}
	return "", fmt.Errorf("field %q: unrecognized widget kind %q", c.Field, string(k))
}

func joinOptions(options []Value) (string, error) {
	parts := make([]string, len(options))
	for i, opt := range options {
		s, err := opt.joinText()
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return strings.Join(parts, "|"), nil
}

func sliderComment(c Component) (string, error) {
	bounds := make([]string, 3)
	for i, v := range []Value{c.Min, c.Max, c.Step} {
		s, err := v.templateText()
		if err != nil {
			return "", err
		}
		bounds[i] = s
	}
	return fmt.Sprintf("number - min: %s, max: %s, step: %s", bounds[0], bounds[1], bounds[2]), nil
}
