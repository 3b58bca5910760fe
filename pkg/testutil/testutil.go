// Package testutil provides testing utilities for proton
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/protondb/proton/pkg/columnar"
	"github.com/protondb/proton/pkg/errors"
	"github.com/protondb/proton/pkg/field"
)

// TestLogger creates a test logger that writes to the test output.
// The logger is automatically cleaned up when the test completes.
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// TestContext creates a test context with a 30-second timeout.
// The caller must call the returned cancel function to avoid leaks.
func TestContext(_ *testing.T) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// RequireColumnsEqual fails the test unless want and got are the same
// variant holding the same rows.
func RequireColumnsEqual(t *testing.T, want, got columnar.Column) {
	t.Helper()
	equal, err := columnar.Equal(want, got)
	require.NoError(t, err)
	if !equal {
		t.Fatalf("columns differ: want %s[%d], got %s[%d]", nameOf(want), sizeOf(want), nameOf(got), sizeOf(got))
	}
}

// RequireErrorType fails the test unless err carries errType somewhere in
// its chain.
func RequireErrorType(t *testing.T, err error, errType errors.ErrorType) {
	t.Helper()
	require.Error(t, err)
	if !errors.IsType(err, errType) {
		t.Fatalf("expected %s error, got %v", errType, err)
	}
}

// RequireFields fails the test unless every row of c equals want.
func RequireFields(t *testing.T, c columnar.Column, want ...field.Field) {
	t.Helper()
	require.Equal(t, len(want), c.Size(), "row count")
	for n, w := range want {
		f, err := c.FieldAt(n)
		require.NoError(t, err)
		require.True(t, w.Equal(f), "row %d: want %s, got %s", n, w, f)
	}
}

func nameOf(c columnar.Column) string {
	if c == nil {
		return "nil"
	}
	return c.Name()
}

func sizeOf(c columnar.Column) int {
	if c == nil {
		return 0
	}
	return c.Size()
}
