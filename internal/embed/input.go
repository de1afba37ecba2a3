package embed

import (
	"encoding/json"

	"github.com/plotset/plotembed/internal/embederr"
)

// normalizeJSON turns a text or already-decoded input into JSON. Text is
// validated, not re-encoded; escaping happens when the script is built.
func normalizeJSON(name string, v any) (json.RawMessage, error) {
	var text []byte
	switch t := v.(type) {
	case nil:
		return json.RawMessage("null"), nil
	case json.RawMessage:
		if t == nil {
			return json.RawMessage("null"), nil
		}
		text = t
	case []byte:
		text = t
	case string:
		text = []byte(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return nil, embederr.Serializationf("%s: %v", name, err)
		}
		return b, nil
	}

	if !json.Valid(text) {
		var x any
		err := json.Unmarshal(text, &x)
		return nil, embederr.Parsef("%s: %v", name, err)
	}
	return json.RawMessage(text), nil
}
