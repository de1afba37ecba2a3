package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/plotset/plotembed/internal/embederr"
)

func TestExitError_DefaultMessages(t *testing.T) {
	assert.Equal(t, "plotembed: invalid input", exitError(ExitInputError, "").Error())
	assert.Equal(t, "plotembed: no output produced", exitError(ExitFailure, "").Error())
	assert.Equal(t, "plotembed: error", exitError(ExitInvalidArgs, "").Error())
	assert.Equal(t, "custom 7", exitError(ExitFailure, "custom %d", 7).Error())
	assert.Equal(t, ExitFailure, exitError(ExitFailure, "").ExitCode())
}

func TestExitFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"parse", embederr.Parsef("bad csv"), ExitInputError},
		{"schema", fmt.Errorf("wrapped: %w", embederr.Schemaf("no rows")), ExitInputError},
		{"serialization", embederr.Serializationf("cycle"), ExitFailure},
		{"other", errors.New("disk full"), ExitFailure},
		{"already classified", exitError(ExitInvalidArgs, "x"), ExitInvalidArgs},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := exitFor(tt.err)
			assert.Equal(t, tt.want, exitCode(err))
			if tt.name != "already classified" {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}
