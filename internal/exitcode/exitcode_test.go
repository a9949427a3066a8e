package exitcode

import (
	"errors"
	"testing"

	"todo/internal/task"
)

func TestFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, Success},
		{"validation", task.Validationf("description cannot be empty"), UserError},
		{"not found", task.NotFoundf("task not found: 1"), UserError},
		{"storage", task.Storage(errors.New("eio"), "save"), StorageError},
		{"untyped", errors.New("boom"), StorageError},
	}
	for _, tt := range tests {
		if got := For(tt.err); got != tt.want {
			t.Errorf("%s: For()=%d, want %d", tt.name, got, tt.want)
		}
	}
}
