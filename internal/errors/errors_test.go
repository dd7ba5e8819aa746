package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	t.Run("Is matches on code", func(t *testing.T) {
		tests := []struct {
			name   string
			err    error
			target error
			want   bool
		}{
			{"same sentinel", ErrDuplicate, ErrDuplicate, true},
			{"custom message same code", Newf(CodeNotFound, "book %q", "Bosch"), ErrNotFound, true},
			{"different code", ErrNotFound, ErrDuplicate, false},
			{"wrapped by fmt", fmt.Errorf("add: %w", InvalidIndex(4, 2)), ErrInvalidIndex, true},
			{"plain error", errors.New("boom"), ErrStorage, false},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				assert.Equal(t, tt.want, errors.Is(tt.err, tt.target))
			})
		}
	})

	t.Run("Wrap keeps cause", func(t *testing.T) {
		err := Storage("write Books.json", fs.ErrPermission)
		assert.ErrorIs(t, err, fs.ErrPermission)
		assert.ErrorIs(t, err, ErrStorage)
		assert.Equal(t, "write Books.json: permission denied", err.Error())
	})

	t.Run("details", func(t *testing.T) {
		err := InvalidIndex(7, 3)
		assert.Equal(t, CodeInvalidIndex, err.Code())
		assert.Equal(t, 7, err.Details()["index"])
		assert.Equal(t, 3, err.Details()["len"])
		assert.Equal(t, "index 7 out of range [0, 3)", err.Error())

		missing := MissingField("title")
		assert.Equal(t, "title", missing.Details()["field"])
		assert.ErrorIs(t, missing, ErrValidation)
	})
}
