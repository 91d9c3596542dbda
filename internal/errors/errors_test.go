package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHarnessError_Unwrap_PreservesOriginalError(t *testing.T) {
	// Given: an original error
	originalErr := errors.New("dlopen: no such file")

	// When: wrapping with HarnessError
	err := New(ErrCodeLoadFailed, "cannot load library", originalErr)

	// Then: unwrapping returns the original error
	require.NotNil(t, err)
	assert.Equal(t, originalErr, errors.Unwrap(err))
	assert.True(t, errors.Is(err, originalErr))
}

func TestHarnessError_Error_ReturnsFormattedMessage(t *testing.T) {
	err := New(ErrCodeEntryPointMissing, "Aud_InitDll not found", nil)
	assert.Equal(t, "[ERR_302_ENTRY_POINT_MISSING] Aud_InitDll not found", err.Error())
}

func TestHarnessError_Is_MatchesByCode(t *testing.T) {
	err1 := New(ErrCodeLoadFailed, "library A", nil)
	err2 := New(ErrCodeLoadFailed, "library B", nil)
	err3 := New(ErrCodeEntryPointMissing, "library A", nil)

	assert.True(t, errors.Is(err1, err2))
	assert.False(t, errors.Is(err1, err3))
}

func TestHarnessError_CategoriesFromCode(t *testing.T) {
	tests := []struct {
		code string
		want Category
	}{
		{ErrCodeConfigInvalid, CategoryConfig},
		{ErrCodeFileNotFound, CategoryIO},
		{ErrCodeLoadFailed, CategoryBind},
		{ErrCodeEntryPointMissing, CategoryBind},
		{ErrCodeInvalidInput, CategoryValidation},
		{ErrCodeInternal, CategoryInternal},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.code, "x", nil).Category)
		})
	}
}

func TestHarnessError_BindErrorsAreWarnings(t *testing.T) {
	// Bind failures downgrade to sentinel records, they never abort the
	// comparison.
	assert.Equal(t, SeverityWarning, LoadFailed("x.dll", nil).Severity)
	assert.Equal(t, SeverityWarning, EntryPointMissing("x.dll", "Aud_InitDll").Severity)
	assert.Equal(t, SeverityFatal, ConfigError("bad", nil).Severity)
}

func TestLoadFailed_CarriesPathDetail(t *testing.T) {
	err := LoadFailed("/opt/libs/target.dll", errors.New("wrong architecture"))

	assert.Equal(t, ErrCodeLoadFailed, err.Code)
	assert.Equal(t, "/opt/libs/target.dll", err.Details["path"])
	assert.Contains(t, err.Error(), "target.dll")
}

func TestEntryPointMissing_CarriesEntryPointDetail(t *testing.T) {
	err := EntryPointMissing("target.dll", "Aud_OpenGetFile")

	assert.Equal(t, ErrCodeEntryPointMissing, err.Code)
	assert.Equal(t, "Aud_OpenGetFile", err.Details["entry_point"])
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(ErrCodeInternal, nil))
}

func TestCodeOf(t *testing.T) {
	err := LoadFailed("x.dll", nil)

	assert.Equal(t, ErrCodeLoadFailed, CodeOf(err))
	assert.Equal(t, ErrCodeLoadFailed, CodeOf(fmt.Errorf("outer: %w", err)))
	assert.Equal(t, "", CodeOf(errors.New("plain")))
	assert.Equal(t, "", CodeOf(nil))
}
