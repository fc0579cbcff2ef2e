package server

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mattjh/maccy-mcp/pkg/history"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "not found",
			err:  history.ErrNotFound,
			want: "No history item matches that id.",
		},
		{
			name: "wrapped not found",
			err:  fmt.Errorf("get item: %w", history.ErrNotFound),
			want: "No history item matches that id.",
		},
		{
			name: "validation",
			err:  &ValidationError{Reason: "confirm required"},
			want: "Invalid request: confirm required",
		},
		{
			name: "serialization",
			err:  &SerializationError{Err: errors.New("bad payload")},
			want: "failed to serialize response: bad payload",
		},
		{
			name: "io",
			err:  &IOError{Op: "write export", Err: errors.New("no such directory")},
			want: "Operation failed: write export: no such directory",
		},
		{
			name: "unknown",
			err:  errors.New("surprise"),
			want: "Internal error: surprise",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, userMessage(tt.err))
		})
	}
}
