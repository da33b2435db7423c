package main

import (
	"context"
	"fmt"
	"testing"

	"github.com/matzehuels/nodedesign/pkg/errors"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"interrupt", fmt.Errorf("render: %w", context.Canceled), 130},
		{"unknown op", errors.New(errors.ErrCodeInvalidOperation, "unknown operation"), 2},
		{"wrapped selection", fmt.Errorf("distribute-x: %w", errors.New(errors.ErrCodeInsufficientSelection, "need 2")), 3},
		{"plain", fmt.Errorf("disk full"), 1},
	}
	for _, tt := range tests {
		if got := exitCode(tt.err); got != tt.want {
			t.Errorf("%s: exitCode() = %d, want %d", tt.name, got, tt.want)
		}
	}
}
