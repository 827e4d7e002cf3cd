package gw_err

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNewExpectedError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	if err := NewExpectedError(ctx, nil); err != nil {
		t.Error("NewExpectedError(nil) should return nil")
	}

	original := errors.New("bad flag value")
	wrapped := NewExpectedError(ctx, original)
	if wrapped == nil {
		t.Fatal("NewExpectedError should not return nil for non-nil error")
	}
	if !strings.Contains(wrapped.Error(), "bad flag value") {
		t.Errorf("wrapped error lost its message: %q", wrapped.Error())
	}
	if !errors.Is(wrapped, original) {
		t.Error("wrapped error should unwrap to the original")
	}
}

func TestIsExpectedUserError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
		{name: "expected error", err: NewExpectedError(context.Background(), errors.New("config error")), want: true},
		{
			name: "wrapped expected error",
			err:  fmt.Errorf("outer: %w", NewExpectedError(context.Background(), errors.New("inner"))),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsExpectedUserError(tt.err); got != tt.want {
				t.Errorf("IsExpectedUserError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractSummary(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		output string
		want   string
	}{
		{name: "empty", output: "", want: "No output provided."},
		{name: "whitespace only", output: "  \n \t\n", want: "No output provided."},
		{
			name:   "prefers error lines",
			output: "reading config\nError: port already in use\ndone",
			want:   "Error: port already in use",
		},
		{
			name:   "falls back to first line",
			output: "nothing interesting here\nreally",
			want:   "nothing interesting here",
		},
		{
			name:   "caps candidates",
			output: "failed one\nfailed two\nfailed three",
			want:   "failed one - failed two",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractSummary(tt.output, 2); got != tt.want {
				t.Errorf("ExtractSummary() = %q, want %q", got, tt.want)
			}
		})
	}
}
