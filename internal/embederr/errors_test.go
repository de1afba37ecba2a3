package embederr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Message(t *testing.T) {
	err := Parsef("line %d: bare quote", 3)
	assert.Equal(t, "parse error: line 3: bare quote", err.Error())

	empty := &Error{Kind: KindSchema}
	assert.Equal(t, "schema error", empty.Error())
}

func TestError_IsMatchesKind(t *testing.T) {
	err := fmt.Errorf("flatten: %w", Schemaf("[0]: missing rows"))

	assert.True(t, errors.Is(err, ErrSchema))
	assert.False(t, errors.Is(err, ErrParse))
	assert.False(t, errors.Is(err, ErrSerialization))
}

func TestError_UnwrapReachesCause(t *testing.T) {
	cause := errors.New("boom")
	err := New(KindSerialization, cause)
	assert.True(t, errors.Is(err, cause))
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"parse", Parsef("x"), KindParse},
		{"wrapped schema", fmt.Errorf("ctx: %w", Schemaf("x")), KindSchema},
		{"serialization", Serializationf("x"), KindSerialization},
		{"plain", errors.New("x"), ""},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}
