package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKinds(t *testing.T) {
	tests := []struct {
		err  error
		kind error
	}{
		{ErrColumnNotFound, ErrInput},
		{ErrFit, ErrInput},
		{ErrDegenerateCategories, ErrInput},
		{ErrPathCollision, ErrPackaging},
		{ErrEntryExists, ErrPackaging},
		{ErrToolchainNotFound, ErrBuild},
		{ErrBinaryNotFound, ErrBuild},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			wrapped := fmt.Errorf("column %q: %w", "x", tt.err)
			require.ErrorIs(t, wrapped, tt.err)
			require.ErrorIs(t, wrapped, tt.kind)
		})
	}
}

func TestKindsAreDisjoint(t *testing.T) {
	require.False(t, errors.Is(ErrColumnNotFound, ErrBuild))
	require.False(t, errors.Is(ErrPathCollision, ErrInput))
	require.False(t, errors.Is(ErrBinaryNotFound, ErrPackaging))
}
