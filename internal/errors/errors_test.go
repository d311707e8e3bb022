package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "without cause",
			err:      NewAppError(ErrTypeMalformedSource, "header is missing required columns", nil),
			expected: "[MALFORMED_SOURCE] header is missing required columns",
		},
		{
			name:     "with cause",
			err:      NewAppError(ErrTypeStorage, "failed to save workbook", fmt.Errorf("disk full")),
			expected: "[STORAGE] failed to save workbook: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("underlying")
	err := NewSourceNotFoundError("data/missing.csv", cause)

	require.ErrorIs(t, err, cause)
}

func TestAppError_WithContext(t *testing.T) {
	err := NewMalformedSourceError("bad header", nil).
		WithContext("missing_columns", []string{"Amount", "Date"})

	require.NotNil(t, err.Context)
	assert.Equal(t, []string{"Amount", "Date"}, err.Context["missing_columns"])
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorType
	}{
		{
			name:     "source not found",
			err:      NewSourceNotFoundError("data/report.csv", nil),
			expected: ErrTypeSourceNotFound,
		},
		{
			name:     "wrapped app error",
			err:      fmt.Errorf("pipeline: %w", NewMalformedSourceError("empty file", nil)),
			expected: ErrTypeMalformedSource,
		},
		{
			name:     "plain error",
			err:      fmt.Errorf("something else"),
			expected: "",
		},
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TypeOf(tt.err))
		})
	}
}
