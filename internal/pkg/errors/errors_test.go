package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithDetails_DoesNotMutateSentinel(t *testing.T) {
	err := ErrUnknownArea.WithDetails(map[string]interface{}{"lat": 37.7})

	assert.Equal(t, 37.7, err.Details["lat"])
	assert.Empty(t, ErrUnknownArea.Details)
	assert.True(t, stderrors.Is(err, ErrUnknownArea))
}

func TestIs_ComparesCodes(t *testing.T) {
	wrapped := fmt.Errorf("lookup: %w", ErrOutsideCoverage.WithDetails(nil))

	assert.True(t, stderrors.Is(wrapped, ErrOutsideCoverage))
	assert.False(t, stderrors.Is(wrapped, ErrUnknownArea))
}

func TestActions(t *testing.T) {
	tests := []struct {
		err      *AppError
		expected Action
	}{
		{ErrLocationPermissionDenied, ActionOpenSettings},
		{ErrLocationUnavailable, ActionRetry},
		{ErrUnknownArea, ActionRetry},
		{ErrOutsideCoverage, ActionNone},
		{ErrDataLoadFailed, ActionRetry},
		{ErrUnknown, ActionRetry},
	}

	for _, tt := range tests {
		t.Run(tt.err.Code, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Action)
		})
	}
}

func TestAs(t *testing.T) {
	assert.Nil(t, As(nil))

	known := As(fmt.Errorf("load: %w", ErrDataLoadFailed))
	require.NotNil(t, known)
	assert.Equal(t, "DATA_LOAD_FAILED", known.Code)

	cause := stderrors.New("boom")
	unknown := As(cause)
	assert.Equal(t, "UNKNOWN", unknown.Code)
	assert.ErrorIs(t, unknown, cause)
	assert.Contains(t, unknown.Error(), "boom")
}
