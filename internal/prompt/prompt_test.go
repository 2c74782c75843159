package prompt

import (
	"context"
	"fmt"
	"testing"

	"github.com/charmbracelet/huh"
	"github.com/stretchr/testify/assert"

	"github.com/rileyhilliard/gitsetup/internal/errors"
)

func TestMapError(t *testing.T) {
	live := context.Background()
	done, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name string
		ctx  context.Context
		err  error
		want string
	}{
		{"user aborted form", live, huh.ErrUserAborted, errors.ErrCancelled},
		{"wrapped abort", live, fmt.Errorf("run: %w", huh.ErrUserAborted), errors.ErrCancelled},
		{"context cancelled", done, fmt.Errorf("boom"), errors.ErrCancelled},
		{"context error value", live, context.Canceled, errors.ErrCancelled},
		{"terminal failure", live, fmt.Errorf("could not open a new TTY"), errors.ErrPrecondition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errors.Code(mapError(tt.ctx, tt.err)))
		})
	}
}

func TestHuh_CancelledContextSkipsForm(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h := NewHuhWithIO(nil, nil)

	ok, err := h.Confirm(ctx, "Ready?", true)
	assert.True(t, errors.IsCode(err, errors.ErrCancelled))
	assert.True(t, ok, "default value untouched")

	_, err = h.Input(ctx, "Name", "", "Ada", nil)
	assert.True(t, errors.IsCode(err, errors.ErrCancelled))

	_, err = h.Select(ctx, "Pick", []Option{{Label: "a", Value: "a"}}, "a")
	assert.True(t, errors.IsCode(err, errors.ErrCancelled))

	assert.True(t, errors.IsCode(h.Pause(ctx, "Paste it"), errors.ErrCancelled))
}

func TestHuh_CloseWithoutTTY(t *testing.T) {
	assert.NoError(t, NewHuhWithIO(nil, nil).Close())
}
