package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	base := errors.New("boom")

	err := Wrap("CaptureSnapshot", CodeElementNotFound, base, nil)

	var appErr *Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "CaptureSnapshot", appErr.Op)
	assert.NotNil(t, appErr.Metadata)
	assert.Equal(t, "CaptureSnapshot: boom", err.Error())
	assert.ErrorIs(t, err, base)
}

func TestWrapErrorWithReason(t *testing.T) {
	err := WrapErrorWithReason("Navigate", CodeBrowserNotReady, "browser_not_ready")

	var appErr *Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "browser_not_ready", appErr.Metadata[MetaReason])
	assert.Equal(t, CodeBrowserNotReady, CodeOf(err))
}

func TestInvalidReqError(t *testing.T) {
	err := InvalidReqError("Generate", "tagName", errors.New("empty"))

	var appErr *Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, CodeInvalidArgument, appErr.Code)
	assert.Equal(t, "tagName", appErr.Metadata[MetaField])
}

func TestHasCode(t *testing.T) {
	inner := Wrap("ScoreAndSelectBest", CodeInvalidInput, errors.New("no candidates"), nil)
	outer := Wrap("Generate", CodeInternal, fmt.Errorf("score: %w", inner), nil)

	assert.Equal(t, CodeInternal, CodeOf(outer))
	assert.True(t, HasCode(outer, CodeInvalidInput))
	assert.True(t, HasCode(outer, CodeInternal))
	assert.False(t, HasCode(outer, CodeActionFailed))
	assert.False(t, HasCode(errors.New("plain"), CodeInternal))
	assert.Equal(t, "", CodeOf(nil))
}
